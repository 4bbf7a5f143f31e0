package mod

import (
	"fmt"
	"strconv"
	"time"

	"github.com/PancyStudios/ChiiBot/pkg/discord"
	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/PancyStudios/ChiiBot/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

func (m *module) muteCommand() *discord.Command {
	return discord.NewCommand(
		"mute",
		"Rend un membre muet (1 heure par défaut)",
		category,
		m.muteHandler,
	).WithOptions(
		memberOption("Membre à rendre muet"),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "minutes",
			Description: "Durée en minutes",
			MinValue:    func() *float64 { v := 1.0; return &v }(),
			MaxValue:    moderation.MaxMute.Minutes(),
		},
		reasonOption(),
	).WithUserPermissions(discordgo.PermissionManageMessages).
		WithBotPermissions(discordgo.PermissionModerateMembers)
}

// muteArgs reads the duration and reason. A prefix call such as
// "!mute @x spam" has no minutes, so a non numeric word starts the reason.
func muteArgs(ctx *discord.CommandContext) (time.Duration, string, error) {
	minutes := ""
	why := reason(ctx)
	if ctx.IsInteraction() {
		if ctx.HasOption("minutes") {
			minutes = strconv.FormatInt(ctx.GetIntOption("minutes"), 10)
		}
	} else if raw := ctx.Args["minutes"]; raw != "" {
		if _, err := strconv.Atoi(raw); err == nil {
			minutes = raw
		} else if r := ctx.Args["raison"]; r != "" {
			why = raw + " " + r
		} else {
			why = raw
		}
	}

	d, err := moderation.ParseMuteMinutes(minutes)
	return d, why, err
}

// FormatMute renders a timeout length in French.
func FormatMute(d time.Duration) string {
	switch {
	case d%(24*time.Hour) == 0:
		n := int(d / (24 * time.Hour))
		if n == 1 {
			return "1 jour"
		}
		return fmt.Sprintf("%d jours", n)
	case d%time.Hour == 0:
		n := int(d / time.Hour)
		if n == 1 {
			return "1 heure"
		}
		return fmt.Sprintf("%d heures", n)
	default:
		n := int(d / time.Minute)
		if n == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", n)
	}
}

func (m *module) muteHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("membre")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Membre introuvable.")
	}
	duration, why, err := muteArgs(ctx)
	if err != nil {
		return ctx.Reply("❌ La durée doit être un nombre de minutes positif.")
	}
	if msg, err := m.hierarchyMessage(ctx, user.ID, "rendre muet"); err != nil {
		return err
	} else if msg != "" {
		return ctx.Reply(msg)
	}

	until := time.Now().Add(duration)
	err = ctx.Session.GuildMemberTimeout(ctx.GuildID(), user.ID, &until, discordgo.WithAuditLogReason(auditReason(ctx, why)))
	if err != nil {
		return ctx.Reply(failure(err, "rendre muet"))
	}

	length := FormatMute(duration)
	logger.Info(fmt.Sprintf("%s rendu muet %s par %s: %s", user.Username, length, ctx.User().Username, why), "Mod")

	embed := moderation.ActionEmbed(
		"🔇 Membre rendu muet",
		fmt.Sprintf("%s a été rendu muet pour %s.", user.Mention(), length),
		moderation.ColorOrange, why, ctx.User().Mention(),
	)
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Durée", Value: length})
	return ctx.ReplyEmbed(embed)
}

func (m *module) unmuteCommand() *discord.Command {
	return discord.NewCommand(
		"unmute",
		"Retire le mode muet d'un membre",
		category,
		m.unmuteHandler,
	).WithOptions(
		memberOption("Membre à réactiver"),
		reasonOption(),
	).WithUserPermissions(discordgo.PermissionManageMessages).
		WithBotPermissions(discordgo.PermissionModerateMembers)
}

func (m *module) unmuteHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("membre")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Membre introuvable.")
	}
	why := reason(ctx)

	err := ctx.Session.GuildMemberTimeout(ctx.GuildID(), user.ID, nil, discordgo.WithAuditLogReason(auditReason(ctx, why)))
	if err != nil {
		return ctx.Reply(failure(err, "réactiver"))
	}

	logger.Info(fmt.Sprintf("%s peut de nouveau parler, par %s: %s", user.Username, ctx.User().Username, why), "Mod")
	return ctx.ReplyEmbed(moderation.ActionEmbed(
		"🔊 Membre réactivé",
		fmt.Sprintf("%s n'est plus muet.", user.Mention()),
		moderation.ColorGreen, why, ctx.User().Mention(),
	))
}
