package mod

import (
	"github.com/PancyStudios/ChiiBot/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

func channelOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:         discordgo.ApplicationCommandOptionChannel,
		Name:         "salon",
		Description:  "Salon concerné (celui-ci par défaut)",
		ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
	}
}

func targetChannel(ctx *discord.CommandContext) string {
	if ch := ctx.GetChannelOption("salon"); ch != nil {
		return ch.ID
	}
	return ctx.ChannelID()
}

func (m *module) exemptChannelCommand() *discord.Command {
	return discord.NewCommand(
		"exemptchannel",
		"Exempte un salon de la vérification anti-lien",
		category,
		func(ctx *discord.CommandContext) error {
			channelID := targetChannel(ctx)
			if _, err := m.svc.Exemptions.Exempt(ctx.Context(), ctx.GuildID(), channelID); err != nil {
				return err
			}
			return ctx.Reply("Le canal <#" + channelID + "> est maintenant exempté de la vérification anti-lien.")
		},
	).WithOptions(channelOption()).WithAliases("exempt_channel").AdminOnly()
}

func (m *module) unexemptChannelCommand() *discord.Command {
	return discord.NewCommand(
		"unexemptchannel",
		"Retire l'exemption anti-lien d'un salon",
		category,
		func(ctx *discord.CommandContext) error {
			channelID := targetChannel(ctx)
			removed, err := m.svc.Exemptions.Unexempt(ctx.Context(), ctx.GuildID(), channelID)
			if err != nil {
				return err
			}
			if !removed {
				return ctx.Reply("Le canal <#" + channelID + "> n'était pas exempté.")
			}
			return ctx.Reply("Le canal <#" + channelID + "> n'est plus exempté de la vérification anti-lien.")
		},
	).WithOptions(channelOption()).WithAliases("unexempt_channel").AdminOnly()
}
