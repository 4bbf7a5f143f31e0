// Package levels provides the XP commands: rank, leaderboard, dashboard and
// the admin tools that manage milestone roles.
package levels

import (
	"fmt"
	"strings"

	"github.com/PancyStudios/ChiiBot/internal/services"
	"github.com/PancyStudios/ChiiBot/pkg/discord"
	"github.com/PancyStudios/ChiiBot/pkg/leveling"
)

const (
	category   = "levels"
	embedColor = leveling.EmbedColor
)

type module struct {
	svc *services.Services
}

// RegisterLevelCommands registers the XP commands
func RegisterLevelCommands(client *discord.ExtendedClient, svc *services.Services) {
	m := &module{svc: svc}
	client.CommandHandler.RegisterCommands(
		m.rankCommand(),
		m.leaderboardCommand(),
		m.dashboardCommand(),
		m.resetXPCommand(),
		m.setupLevelsCommand(),
		helpLevelsCommand(),
	)
}

// milestoneList renders "• **Nini Nouveau** — Niveau 1" lines.
func milestoneList() string {
	var b strings.Builder
	for i, m := range leveling.Milestones {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "• **%s** — Niveau %d", m.Role, m.Level)
	}
	return b.String()
}
