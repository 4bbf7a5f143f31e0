package levels

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/ChiiBot/pkg/discord"
	"github.com/PancyStudios/ChiiBot/pkg/leveling"
	"github.com/bwmarrin/discordgo"
)

const topSize = 10

var medals = []string{"🥇", "🥈", "🥉"}

// NameFunc resolves a member's display name; ok is false once they left.
type NameFunc func(userID string) (name string, ok bool)

func (m *module) leaderboardCommand() *discord.Command {
	return discord.NewCommand(
		"leaderboard",
		"Classement des membres les plus actifs",
		category,
		m.leaderboardHandler,
	).WithAliases("top", "classement")
}

func (m *module) dashboardCommand() *discord.Command {
	return discord.NewCommand(
		"dashboard",
		"Top 10 des membres avec le plus d'XP",
		category,
		m.dashboardHandler,
	).WithAliases("tableau", "stats")
}

func (m *module) names(ctx *discord.CommandContext) NameFunc {
	guildID := ctx.GuildID()
	return func(userID string) (string, bool) {
		return discord.MemberName(ctx.Session, guildID, userID)
	}
}

func (m *module) leaderboardHandler(ctx *discord.CommandContext) error {
	entries := m.svc.Levels.Leaderboard(ctx.GuildID(), topSize)
	if len(entries) == 0 {
		return ctx.Reply("Aucune donnée de niveau n'est disponible pour ce serveur.")
	}
	return ctx.ReplyEmbed(LeaderboardEmbed(entries, m.names(ctx)))
}

func (m *module) dashboardHandler(ctx *discord.CommandContext) error {
	entries := m.svc.Levels.Leaderboard(ctx.GuildID(), topSize)
	if len(entries) == 0 {
		return ctx.Reply("Aucune donnée de niveau n'est disponible pour ce serveur.")
	}
	return ctx.ReplyEmbed(DashboardEmbed(entries, m.names(ctx)))
}

// LeaderboardEmbed lists the top members, skipping those who left the guild.
func LeaderboardEmbed(entries []leveling.Entry, name NameFunc) *discordgo.MessageEmbed {
	var lines []string
	for _, e := range entries {
		display, ok := name(e.UserID)
		if !ok {
			continue
		}
		pos := len(lines)
		marker := fmt.Sprintf("**%d.**", pos+1)
		if pos < len(medals) {
			marker = medals[pos]
		}
		lines = append(lines, fmt.Sprintf("%s **%s** • Niveau %d • %d XP", marker, display, e.Level, e.XP))
	}

	description := strings.Join(lines, "\n")
	if len(lines) == 0 {
		description = "Aucun membre actif trouvé."
	}

	return &discordgo.MessageEmbed{
		Title:       "🏆 Classement des membres les plus actifs",
		Description: description,
		Color:       embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🌟 Rôles de niveau", Value: milestoneList()},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "✨ Gagne de l'XP en discutant sur le serveur ! ✨"},
	}
}

// DashboardEmbed is the field based variant of the leaderboard.
func DashboardEmbed(entries []leveling.Entry, name NameFunc) *discordgo.MessageEmbed {
	icons := []string{"👑", "🥈", "🥉"}
	embed := &discordgo.MessageEmbed{
		Title:       "🏆 Top 10 des Membres",
		Description: "Les membres avec le plus d'XP sur le serveur",
		Color:       embedColor,
	}
	for _, e := range entries {
		display, ok := name(e.UserID)
		if !ok {
			continue
		}
		pos := len(embed.Fields)
		marker := fmt.Sprintf("**%d.**", pos+1)
		if pos < len(icons) {
			marker = icons[pos]
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  marker + " " + display,
			Value: fmt.Sprintf("Niveau: **%d**\nXP: **%d**", e.Level, e.XP),
		})
	}
	if len(embed.Fields) == 0 {
		embed.Description = "Aucun membre actif trouvé."
	}
	return embed
}
