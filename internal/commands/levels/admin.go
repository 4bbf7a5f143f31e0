package levels

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/ChiiBot/pkg/discord"
	"github.com/PancyStudios/ChiiBot/pkg/leveling"
	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

func (m *module) resetXPCommand() *discord.Command {
	return discord.NewCommand(
		"resetxp",
		"Réinitialise l'XP d'un membre",
		category,
		m.resetXPHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "membre",
			Description: "Le membre à réinitialiser",
		},
	).WithAliases("reset_xp").AdminOnly()
}

func (m *module) resetXPHandler(ctx *discord.CommandContext) error {
	target := ctx.GetUserOption("membre")
	if target == nil || !ctx.HasOption("membre") {
		return ctx.Reply("⚠️ Cette commande réinitialise l'XP d'un membre. Spécifiez un membre avec `" + ctx.Client.Prefix + "reset_xp @membre`.")
	}
	guildID := ctx.GuildID()

	if err := leveling.ClearRoles(m.svc.Gateway, guildID, target.ID); err != nil {
		logger.Warn(fmt.Sprintf("Impossible de retirer les rôles de niveau de %s: %v", target.ID, err), "Levels")
	}

	existed, err := m.svc.Levels.Reset(ctx.Context(), guildID, target.ID)
	if err != nil {
		return err
	}
	if !existed {
		return ctx.Reply(target.Mention() + " n'a pas d'XP enregistrée sur ce serveur.")
	}
	return ctx.Reply("✅ L'XP de " + target.Mention() + " a été réinitialisée à 0.")
}

func (m *module) setupLevelsCommand() *discord.Command {
	return discord.NewCommand(
		"setuplevels",
		"Crée ou met à jour les rôles de niveau",
		category,
		m.setupLevelsHandler,
	).WithAliases("setup_levels").AdminOnly().WithBotPermissions(discordgo.PermissionManageRoles)
}

// SetupReport counts what setuplevels did to the milestone roles.
type SetupReport struct {
	Created []string
	Updated []string
	Failed  []string
}

func (m *module) setupLevelsHandler(ctx *discord.CommandContext) error {
	if err := ctx.Reply("⏳ Configuration des rôles de niveau..."); err != nil {
		return err
	}
	guildID := ctx.GuildID()

	roles, err := m.svc.Gateway.GuildRoles(guildID)
	if err != nil {
		return err
	}
	existing := make(map[string]*discordgo.Role, len(roles))
	for _, r := range roles {
		existing[r.Name] = r
	}

	var report SetupReport
	hoist, mentionable := true, false
	for _, ms := range leveling.Milestones {
		color := ms.Color
		params := &discordgo.RoleParams{
			Name:        ms.Role,
			Color:       &color,
			Hoist:       &hoist,
			Mentionable: &mentionable,
		}
		if r, ok := existing[ms.Role]; ok {
			if _, err := ctx.Session.GuildRoleEdit(guildID, r.ID, params); err != nil {
				logger.Error(fmt.Sprintf("Erreur lors de la modification du rôle %s: %v", ms.Role, err), "Levels")
				report.Failed = append(report.Failed, ms.Role)
				continue
			}
			report.Updated = append(report.Updated, ms.Role)
			continue
		}
		if _, err := ctx.Session.GuildRoleCreate(guildID, params); err != nil {
			logger.Error(fmt.Sprintf("Erreur lors de la création du rôle %s: %v", ms.Role, err), "Levels")
			report.Failed = append(report.Failed, ms.Role)
			continue
		}
		report.Created = append(report.Created, ms.Role)
	}

	if err := ctx.EditReply("✅ Configuration des rôles de niveau terminée !"); err != nil {
		return err
	}
	_, err = ctx.Session.ChannelMessageSendEmbed(ctx.ChannelID(), SetupEmbed(report))
	return err
}

// SetupEmbed summarises a setuplevels run.
func SetupEmbed(r SetupReport) *discordgo.MessageEmbed {
	list := func(names []string) string {
		if len(names) == 0 {
			return "Aucun"
		}
		return strings.Join(names, "\n")
	}
	embed := &discordgo.MessageEmbed{
		Title: "🔧 Configuration des Rôles de Niveau",
		Color: embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Rôles créés", Value: list(r.Created), Inline: true},
			{Name: "Rôles mis à jour", Value: list(r.Updated), Inline: true},
		},
	}
	if len(r.Failed) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Erreurs", Value: list(r.Failed)})
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "📋 Système d'XP",
		Value: "Les membres gagnent de l'XP en envoyant des messages (une fois par minute) et reçoivent automatiquement ces rôles :\n" + milestoneList(),
	})
	return embed
}
