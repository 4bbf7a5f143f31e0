package discord

import (
	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// CommandHandler manages command registration
type CommandHandler struct {
	client           *ExtendedClient
	slashCommands    []*discordgo.ApplicationCommand
	slashCommandsDev []*discordgo.ApplicationCommand
}

// NewCommandHandler creates a new CommandHandler
func NewCommandHandler(client *ExtendedClient) *CommandHandler {
	return &CommandHandler{
		client:           client,
		slashCommands:    make([]*discordgo.ApplicationCommand, 0),
		slashCommandsDev: make([]*discordgo.ApplicationCommand, 0),
	}
}

// RegisterCommand adds a command to the collection and to the slash command
// list. Dev commands only go to the dev guild.
func (ch *CommandHandler) RegisterCommand(cmd *Command) {
	ch.client.Commands.Set(cmd.Name, cmd)

	appCmd := cmd.ToApplicationCommand()
	if cmd.IsDev {
		ch.slashCommandsDev = append(ch.slashCommandsDev, appCmd)
	} else {
		ch.slashCommands = append(ch.slashCommands, appCmd)
	}

	logger.Debug("Commande enregistrée: "+cmd.Name, "CommandHandler")
}

// RegisterCommands adds several commands at once.
func (ch *CommandHandler) RegisterCommands(cmds ...*Command) {
	for _, cmd := range cmds {
		ch.RegisterCommand(cmd)
	}
}

// BuildCommandGroup creates a command group with subcommands. Subcommands
// are stored as "group.sub".
func (ch *CommandHandler) BuildCommandGroup(name, description string, subcommands ...*Command) *discordgo.ApplicationCommand {
	options := make([]*discordgo.ApplicationCommandOption, 0, len(subcommands))
	var perms int64

	for _, cmd := range subcommands {
		ch.client.Commands.Set(name+"."+cmd.Name, cmd)
		perms |= cmd.UserPermissions

		options = append(options, &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        cmd.Name,
			Description: cmd.Description,
			Options:     cmd.Options,
		})
	}

	app := &discordgo.ApplicationCommand{
		Name:        name,
		Description: description,
		Options:     options,
	}
	if perms != 0 {
		app.DefaultMemberPermissions = &perms
	}
	return app
}

// AddGlobalCommand adds a command to the global command list
func (ch *CommandHandler) AddGlobalCommand(cmd *discordgo.ApplicationCommand) {
	ch.slashCommands = append(ch.slashCommands, cmd)
}

// AddDevCommand adds a command to the dev command list
func (ch *CommandHandler) AddDevCommand(cmd *discordgo.ApplicationCommand) {
	ch.slashCommandsDev = append(ch.slashCommandsDev, cmd)
}

// Global returns the slash commands published everywhere.
func (ch *CommandHandler) Global() []*discordgo.ApplicationCommand {
	return ch.slashCommands
}

// Dev returns the slash commands published in the dev guild.
func (ch *CommandHandler) Dev() []*discordgo.ApplicationCommand {
	return ch.slashCommandsDev
}

// SyncCommands overwrites the application commands known to Discord
// with the registered ones.
func (ch *CommandHandler) SyncCommands() error {
	return ch.client.syncCommands(ch.slashCommands, ch.slashCommandsDev)
}

func (c *ExtendedClient) syncCommands(global, dev []*discordgo.ApplicationCommand) error {
	appID := c.Session.State.User.ID

	logger.Info("🔄 Enregistrement des commandes globales...", "CommandHandler")
	if _, err := c.Session.ApplicationCommandBulkOverwrite(appID, "", global); err != nil {
		return err
	}
	logger.Success("✅ Commandes globales enregistrées.", "CommandHandler")

	if c.DevGuildID != "" && len(dev) > 0 {
		logger.Info("🔄 Enregistrement des commandes de développement sur le serveur "+c.DevGuildID+"...", "CommandHandler")
		if _, err := c.Session.ApplicationCommandBulkOverwrite(appID, c.DevGuildID, dev); err != nil {
			return err
		}
		logger.Success("✅ Commandes de développement enregistrées.", "CommandHandler")
	}
	return nil
}

// ListGlobalCommands returns the global commands Discord knows about.
func (ch *CommandHandler) ListGlobalCommands() ([]*discordgo.ApplicationCommand, error) {
	return ch.client.Session.ApplicationCommands(ch.client.Session.State.User.ID, "")
}

// ListGuildCommands returns the commands registered in one guild.
func (ch *CommandHandler) ListGuildCommands(guildID string) ([]*discordgo.ApplicationCommand, error) {
	return ch.client.Session.ApplicationCommands(ch.client.Session.State.User.ID, guildID)
}

// UnregisterCommands removes all global commands from Discord
func (ch *CommandHandler) UnregisterCommands() error {
	return ch.UnregisterGuildCommands("")
}

// UnregisterGuildCommands removes the commands of one guild, or the global
// ones when guildID is empty.
func (ch *CommandHandler) UnregisterGuildCommands(guildID string) error {
	appID := ch.client.Session.State.User.ID
	commands, err := ch.client.Session.ApplicationCommands(appID, guildID)
	if err != nil {
		return err
	}

	for _, cmd := range commands {
		if err := ch.client.Session.ApplicationCommandDelete(appID, guildID, cmd.ID); err != nil {
			logger.Error("Erreur lors de la suppression de la commande "+cmd.Name+": "+err.Error(), "CommandHandler")
		}
	}

	logger.Success("Comandos eliminados.", "CommandHandler")
	return nil
}
