package mod

import (
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/ChiiBot/pkg/discord"
	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/PancyStudios/ChiiBot/pkg/models"
	"github.com/PancyStudios/ChiiBot/pkg/moderation"
	"github.com/PancyStudios/ChiiBot/pkg/mqtt"
	"github.com/bwmarrin/discordgo"
)

func (m *module) warningsCommand() *discord.Command {
	return discord.NewCommand(
		"warnings",
		"Affiche les avertissements d'un membre ou du serveur",
		category,
		m.warningsHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "membre",
			Description: "Membre à consulter (tous si absent)",
		},
	).WithUserPermissions(discordgo.PermissionKickMembers)
}

func (m *module) warningsHandler(ctx *discord.CommandContext) error {
	guildID := ctx.GuildID()

	if user := ctx.GetUserOption("membre"); user != nil {
		rec, ok := m.svc.Warnings.Get(guildID, user.ID)
		if !ok || rec.Count == 0 {
			return ctx.Reply(fmt.Sprintf("**%s** n'a aucun avertissement.", user.Username))
		}
		return ctx.ReplyEmbed(RecordEmbed(user.Username, rec))
	}

	rows := m.svc.Warnings.List(guildID)
	if len(rows) == 0 {
		return ctx.Reply("Aucun avertissement enregistré.")
	}
	return ctx.ReplyEmbed(ListEmbed(rows, func(userID string) (string, bool) {
		return discord.MemberName(ctx.Session, guildID, userID)
	}))
}

// RecordEmbed shows one member's warnings with their ids.
func RecordEmbed(name string, rec models.WarningRecord) *discordgo.MessageEmbed {
	var b strings.Builder
	for _, e := range rec.Entries {
		fmt.Fprintf(&b, "`%s` %s", e.ID, e.Reason)
		if e.Timestamp > 0 {
			fmt.Fprintf(&b, " (<t:%d:d>)", e.Timestamp)
		}
		b.WriteByte('\n')
	}
	embed := &discordgo.MessageEmbed{
		Title:       "⚠️ Avertissements",
		Description: fmt.Sprintf("**%s** a **%d** avertissement(s).", name, rec.Count),
		Color:       moderation.ColorOrange,
	}
	if b.Len() > 0 {
		embed.Fields = []*discordgo.MessageEmbedField{{Name: "Détails", Value: truncateField(b.String())}}
	}
	return embed
}

// ListEmbed lists every warned member still in the guild.
func ListEmbed(rows []moderation.MemberWarnings, name func(string) (string, bool)) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "⚠️ Liste des avertissements",
		Color: moderation.ColorOrange,
	}
	for _, row := range rows {
		display, ok := name(row.UserID)
		if !ok {
			continue
		}
		if len(embed.Fields) == 25 {
			break
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  display,
			Value: fmt.Sprintf("%d avertissement(s)", row.Record.Count),
		})
	}
	return embed
}

func truncateField(s string) string {
	const limit = 1024
	if len([]rune(s)) <= limit {
		return s
	}
	return string([]rune(s)[:limit-3]) + "..."
}

func (m *module) addWarningCommand() *discord.Command {
	return discord.NewCommand(
		"addwarning",
		"Ajoute un avertissement à un membre",
		category,
		m.addWarningHandler,
	).WithOptions(
		memberOption("Membre à avertir"),
		reasonOption(),
	).WithAliases("warn").WithUserPermissions(discordgo.PermissionKickMembers)
}

func (m *module) addWarningHandler(ctx *discord.CommandContext) error {
	user := ctx.GetUserOption("membre")
	if user == nil {
		return ctx.ReplyEphemeral("❌ Membre introuvable.")
	}
	guildID := ctx.GuildID()
	why := reason(ctx)

	res, err := m.svc.Warnings.Add(ctx.Context(), guildID, user.ID, why, ctx.User().ID)
	if err != nil {
		logger.Error(fmt.Sprintf("Erreur lors de la sauvegarde des avertissements: %v", err), "Mod")
	}
	m.svc.Events.Emit(mqtt.Topic("moderation", "warn"), map[string]interface{}{
		"guildId": guildID, "userId": user.ID, "count": res.Record.Count, "reason": why, "moderator": ctx.User().ID,
	})

	if !res.ShouldBan {
		return ctx.ReplyEmbed(WarningAddedEmbed(user.Username, res.Record.Count, ctx.GetStringOption("raison")))
	}

	if err := m.svc.Gateway.Ban(guildID, user.ID, "5 avertissements accumulés"); err != nil {
		if rerr := m.svc.Warnings.ReleaseBan(ctx.Context(), guildID, user.ID); rerr != nil {
			logger.Error(rerr.Error(), "Mod")
		}
		return ctx.Reply(fmt.Sprintf("Erreur lors du bannissement: %v", err))
	}
	m.svc.Events.Emit(mqtt.Topic("moderation", "ban"), map[string]interface{}{
		"guildId": guildID, "userId": user.ID,
	})
	return ctx.ReplyEmbed(moderation.BanEmbed(user.Username, "5 avertissements accumulés."))
}

// WarningAddedEmbed confirms a manual warning. reason is shown only when given.
func WarningAddedEmbed(name string, total int, reason string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "⚠️ Avertissement ajouté",
		Description: fmt.Sprintf("**%s** a reçu un avertissement.", name),
		Color:       moderation.ColorOrange,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Total", Value: fmt.Sprintf("**%d** avertissement(s)", total), Inline: true},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if reason != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Raison", Value: reason})
	}
	return embed
}

func (m *module) clearWarningsCommand() *discord.Command {
	return discord.NewCommand(
		"clearwarnings",
		"Supprime tous les avertissements d'un membre",
		category,
		func(ctx *discord.CommandContext) error {
			user := ctx.GetUserOption("membre")
			if user == nil {
				return ctx.ReplyEphemeral("❌ Membre introuvable.")
			}
			ok, err := m.svc.Warnings.Clear(ctx.Context(), ctx.GuildID(), user.ID)
			if err != nil {
				return err
			}
			if !ok {
				return ctx.Reply(fmt.Sprintf("**%s** n'a aucun avertissement.", user.Username))
			}
			return ctx.Reply(fmt.Sprintf("Les avertissements de **%s** ont été supprimés.", user.Username))
		},
	).WithOptions(memberOption("Membre concerné")).AdminOnly()
}

func (m *module) removeWarnCommand() *discord.Command {
	return discord.NewCommand(
		"removewarn",
		"Supprime un avertissement par son identifiant",
		category,
		func(ctx *discord.CommandContext) error {
			user := ctx.GetUserOption("membre")
			if user == nil {
				return ctx.ReplyEphemeral("❌ Membre introuvable.")
			}
			id := strings.TrimSpace(ctx.GetStringOption("id"))
			ok, err := m.svc.Warnings.Remove(ctx.Context(), ctx.GuildID(), user.ID, id)
			if err != nil {
				return err
			}
			if !ok {
				return ctx.Reply(fmt.Sprintf("❌ Aucun avertissement `%s` pour **%s**.", id, user.Username))
			}
			return ctx.Reply(fmt.Sprintf("✅ Avertissement `%s` de **%s** supprimé.", id, user.Username))
		},
	).WithOptions(
		memberOption("Membre concerné"),
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "id",
			Description: "Identifiant de l'avertissement (voir /warnings)",
			Required:    true,
		},
	).WithUserPermissions(discordgo.PermissionKickMembers)
}
