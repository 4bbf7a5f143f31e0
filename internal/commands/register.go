// Package commands registers every command category with the client.
// Commands are organized in subdirectories by category (levels, mod, etc.)
package commands

import (
	"github.com/PancyStudios/ChiiBot/internal/commands/community"
	"github.com/PancyStudios/ChiiBot/internal/commands/dev"
	"github.com/PancyStudios/ChiiBot/internal/commands/levels"
	"github.com/PancyStudios/ChiiBot/internal/commands/mod"
	"github.com/PancyStudios/ChiiBot/internal/commands/roles"
	"github.com/PancyStudios/ChiiBot/internal/commands/social"
	"github.com/PancyStudios/ChiiBot/internal/commands/utils"
	"github.com/PancyStudios/ChiiBot/internal/services"
	"github.com/PancyStudios/ChiiBot/pkg/discord"
)

// RegisterAll registers all commands with the Discord client
func RegisterAll(client *discord.ExtendedClient, svc *services.Services) {
	utils.RegisterUtilsCommands(client, svc)
	levels.RegisterLevelCommands(client, svc)
	mod.RegisterModCommands(client, svc)
	roles.RegisterRoleCommands(client, svc)
	social.RegisterSocialCommands(client, svc)
	community.RegisterCommunityCommands(client, svc)
	RegisterMusicCommands(client, svc)

	// /dev only exists in the dev guild
	dev.Register(client, svc)
}
