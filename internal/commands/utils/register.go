// Package utils holds the general purpose commands: ping, help, stats,
// status, profile lookups, suggestions and the assistant.
package utils

import (
	"github.com/PancyStudios/ChiiBot/internal/services"
	"github.com/PancyStudios/ChiiBot/pkg/discord"
)

const (
	category   = "utils"
	embedColor = 0xffaadd
	footerText = "✧ Ninis • Made with 💖"
)

type module struct {
	svc *services.Services
}

// RegisterUtilsCommands registers the utility commands
func RegisterUtilsCommands(client *discord.ExtendedClient, svc *services.Services) {
	m := &module{svc: svc}
	client.CommandHandler.RegisterCommands(
		pingCommand(),
		helpCommand(),
		statsCommand(),
		m.statusCommand(),
		avatarCommand(),
		userInfoCommand(),
		m.askCommand(),
		suggestCommand(),
		sayCommand(),
	)
}
