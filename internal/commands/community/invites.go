package community

import (
	"github.com/PancyStudios/ChiiBot/pkg/discord"
	"github.com/PancyStudios/ChiiBot/pkg/invites"
	"github.com/bwmarrin/discordgo"
)

func (m *module) invitesCommand() *discord.Command {
	return discord.NewCommand(
		"invites",
		"Nombre de personnes invitées par un membre",
		category,
		func(ctx *discord.CommandContext) error {
			user := ctx.GetUserOption("membre")
			if user == nil {
				user = ctx.User()
			}
			count := m.svc.Invites.Count(ctx.GuildID(), user.ID)
			return ctx.Reply(invites.CountMessage(user.Mention(), count))
		},
	).WithOptions(&discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "membre",
		Description: "Membre à consulter (toi par défaut)",
	})
}

func (m *module) topInvitesCommand() *discord.Command {
	return discord.NewCommand(
		"topinvites",
		"Classement des meilleurs inviteurs",
		category,
		func(ctx *discord.CommandContext) error {
			guildID := ctx.GuildID()
			top := m.svc.Invites.Top(guildID, 10)
			if len(top) == 0 {
				return ctx.Reply("Aucune invitation n'a encore été utilisée sur ce serveur.")
			}
			return ctx.ReplyEmbed(invites.LeaderboardEmbed(top, func(id string) string {
				if name, ok := discord.MemberName(ctx.Session, guildID, id); ok {
					return name
				}
				return "Membre parti"
			}))
		},
	)
}
