package mod

import (
	"fmt"

	"github.com/PancyStudios/ChiiBot/pkg/discord"
	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/PancyStudios/ChiiBot/pkg/moderation"
	"github.com/PancyStudios/ChiiBot/pkg/mqtt"
	"github.com/bwmarrin/discordgo"
)

func (m *module) banCommand() *discord.Command {
	return discord.NewCommand(
		"ban",
		"Bannit un membre du serveur",
		category,
		m.banHandler,
	).WithOptions(
		memberOption("Membre à bannir"),
		reasonOption(),
	).WithUserPermissions(discordgo.PermissionBanMembers).
		WithBotPermissions(discordgo.PermissionBanMembers)
}

func (m *module) banHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("membre")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Membre introuvable.")
	}
	if msg, err := m.hierarchyMessage(ctx, user.ID, "bannir"); err != nil {
		return err
	} else if msg != "" {
		return ctx.Reply(msg)
	}

	why := reason(ctx)
	m.notify(user.ID, moderation.NoticeEmbed("🔨 Bannissement", "banni(e)", guildName(ctx), why, ctx.User().Mention()))

	if err := ctx.Session.GuildBanCreateWithReason(ctx.GuildID(), user.ID, auditReason(ctx, why), 0); err != nil {
		return ctx.Reply(failure(err, "bannir"))
	}

	logger.Info(fmt.Sprintf("%s banni par %s: %s", user.Username, ctx.User().Username, why), "Mod")
	m.svc.Events.Emit(mqtt.Topic("moderation", "ban"), map[string]interface{}{
		"guildId": ctx.GuildID(), "userId": user.ID, "moderator": ctx.User().ID, "reason": why,
	})
	return ctx.ReplyEmbed(moderation.ActionEmbed(
		"🔨 Membre banni",
		fmt.Sprintf("%s a été banni(e) du serveur.", user.Mention()),
		moderation.ColorRed, why, ctx.User().Mention(),
	))
}

func (m *module) unbanCommand() *discord.Command {
	return discord.NewCommand(
		"unban",
		"Débannit un utilisateur par son ID",
		category,
		m.unbanHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "id",
			Description: "ID de l'utilisateur banni",
			Required:    true,
		},
		reasonOption(),
	).WithUserPermissions(discordgo.PermissionBanMembers).
		WithBotPermissions(discordgo.PermissionBanMembers)
}

func (m *module) unbanHandler(ctx *discord.CommandContext) error {
	userID := discord.MentionID(ctx.GetStringOption("id"))
	if userID == "" {
		return ctx.Reply("❌ Ce membre n'est pas banni ou l'ID est incorrect.")
	}
	guildID := ctx.GuildID()

	ban, err := ctx.Session.GuildBan(guildID, userID)
	if err != nil {
		if discord.ClassifyError(err) == discord.ErrorNotFound {
			return ctx.Reply("❌ Ce membre n'est pas banni ou l'ID est incorrect.")
		}
		return ctx.Reply(failure(err, "débannir"))
	}

	why := reason(ctx)
	if err := ctx.Session.GuildBanDelete(guildID, userID, discordgo.WithAuditLogReason(auditReason(ctx, why))); err != nil {
		return ctx.Reply(failure(err, "débannir"))
	}
	// a manual unban lets the anti-link filter ban again later
	if err := m.svc.Warnings.ReleaseBan(ctx.Context(), guildID, userID); err != nil {
		logger.Warn(err.Error(), "Mod")
	}

	logger.Info(fmt.Sprintf("%s débanni par %s: %s", ban.User.Username, ctx.User().Username, why), "Mod")
	return ctx.ReplyEmbed(moderation.ActionEmbed(
		"✅ Utilisateur débanni",
		fmt.Sprintf("%s a été débanni(e) du serveur.", ban.User.Mention()),
		moderation.ColorGreen, why, ctx.User().Mention(),
	))
}
