// Package dev holds the commands reserved to the development guild.
package dev

import (
	"github.com/PancyStudios/ChiiBot/internal/services"
	"github.com/PancyStudios/ChiiBot/pkg/discord"
)

// Register adds /dev and its subcommands to the dev guild. With a prefix they
// are reached as "!dev eval <code>".
func Register(client *discord.ExtendedClient, svc *services.Services) {
	group := client.CommandHandler.BuildCommandGroup(
		"dev",
		"Commandes de développement",
		evalCommand(svc),
	)
	client.CommandHandler.AddDevCommand(group)
}
