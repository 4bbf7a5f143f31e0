package mod

import (
	"fmt"

	"github.com/PancyStudios/ChiiBot/pkg/discord"
	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/PancyStudios/ChiiBot/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

func (m *module) kickCommand() *discord.Command {
	return discord.NewCommand(
		"kick",
		"Expulse un membre du serveur",
		category,
		m.kickHandler,
	).WithOptions(
		memberOption("Membre à expulser"),
		reasonOption(),
	).WithUserPermissions(discordgo.PermissionKickMembers).
		WithBotPermissions(discordgo.PermissionKickMembers)
}

func (m *module) kickHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("membre")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Membre introuvable.")
	}
	if msg, err := m.hierarchyMessage(ctx, user.ID, "expulser"); err != nil {
		return err
	} else if msg != "" {
		return ctx.Reply(msg)
	}

	why := reason(ctx)
	m.notify(user.ID, moderation.NoticeEmbed("❌ Expulsion", "expulsé(e)", guildName(ctx), why, ctx.User().Mention()))

	err := ctx.Session.GuildMemberDeleteWithReason(ctx.GuildID(), user.ID, auditReason(ctx, why))
	if err != nil {
		return ctx.Reply(failure(err, "expulser"))
	}

	logger.Info(fmt.Sprintf("%s expulsé par %s: %s", user.Username, ctx.User().Username, why), "Mod")
	return ctx.ReplyEmbed(moderation.ActionEmbed(
		"✅ Membre expulsé",
		fmt.Sprintf("%s a été expulsé(e) du serveur.", user.Mention()),
		moderation.ColorGreen, why, ctx.User().Mention(),
	))
}
