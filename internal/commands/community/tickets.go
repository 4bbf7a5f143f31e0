package community

import (
	"github.com/PancyStudios/ChiiBot/pkg/discord"
	"github.com/PancyStudios/ChiiBot/pkg/tickets"
	"github.com/bwmarrin/discordgo"
)

func (m *module) setupTicketsCommand() *discord.Command {
	return discord.NewCommand(
		"setuptickets",
		"Publie le panneau de création de tickets",
		category,
		func(ctx *discord.CommandContext) error {
			if _, err := ctx.Session.ChannelMessageSendComplex(ctx.ChannelID(), tickets.Panel()); err != nil {
				return err
			}
			if ctx.IsInteraction() {
				return ctx.ReplyEphemeral("✅ Panneau de tickets publié.")
			}
			return nil
		},
	).WithAliases("setup_tickets").AdminOnly().WithBotPermissions(discordgo.PermissionManageChannels)
}
