// Package community provides giveaways, tickets, invite stats and the daily question.
package community

import (
	"github.com/PancyStudios/ChiiBot/internal/services"
	"github.com/PancyStudios/ChiiBot/pkg/discord"
)

const category = "community"

type module struct {
	svc *services.Services
}

// RegisterCommunityCommands registers the community commands
func RegisterCommunityCommands(client *discord.ExtendedClient, svc *services.Services) {
	m := &module{svc: svc}
	client.CommandHandler.RegisterCommands(
		m.gstartCommand(),
		m.grerollCommand(),
		m.gendCommand(),
		m.setupTicketsCommand(),
		m.invitesCommand(),
		m.topInvitesCommand(),
		m.questionNowCommand(),
	)
}
