// Package main provides a utility to sync Discord slash commands.
// This removes stale commands from Discord and ensures only currently-defined commands are registered.
//
// Usage:
//
//	go run ./cmd/sync-commands [options]
//
// Options:
//
//	-list           List all registered commands (global and guild)
//	-clean          Remove all commands without registering new ones
//	-guild <id>     Target a specific guild instead of global commands
//	-sync           Sync commands (remove stale, register current) - default behavior
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/PancyStudios/ChiiBot/internal/commands"
	"github.com/PancyStudios/ChiiBot/internal/services"
	"github.com/PancyStudios/ChiiBot/pkg/config"
	"github.com/PancyStudios/ChiiBot/pkg/discord"
	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/PancyStudios/ChiiBot/pkg/storage"
	"github.com/bwmarrin/discordgo"
)

func main() {
	// Parse command line flags
	listCmd := flag.Bool("list", false, "List all registered commands")
	cleanCmd := flag.Bool("clean", false, "Remove all commands without registering new ones")
	guildID := flag.String("guild", "", "Target a specific guild (leave empty for global)")
	syncCmd := flag.Bool("sync", false, "Sync commands (remove stale, register current)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	logger.System("Démarrage de la synchronisation des commandes...", "SyncCommands")

	// Initialize Discord client
	client, err := discord.NewClient(cfg.BotToken)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "SyncCommands")
		os.Exit(1)
	}

	// Open connection to Discord
	if err := client.Session.Open(); err != nil {
		logger.Critical(fmt.Sprintf("Error connecting to Discord: %v", err), "SyncCommands")
		os.Exit(1)
	}
	defer client.Session.Close()

	logger.Success("Connecté à Discord", "SyncCommands")

	// Commands only need the services to exist, nothing is loaded.
	backend, err := storage.New(cfg)
	if err != nil {
		logger.Critical(fmt.Sprintf("Erreur d'ouverture du stockage: %v", err), "SyncCommands")
		os.Exit(1)
	}
	defer backend.Close()
	commands.RegisterAll(client, services.New(cfg, backend, client.Session, nil))

	// Execute the requested action
	switch {
	case *listCmd:
		listCommands(client, *guildID)
	case *cleanCmd:
		cleanCommands(client, *guildID)
	case *syncCmd:
		syncCommands(client, *guildID)
	default:
		syncCommands(client, *guildID)
	}

	logger.Success("Opération terminée", "SyncCommands")
}

// listCommands lists all commands registered with Discord
func listCommands(client *discord.ExtendedClient, guildID string) {
	logger.Info("📋 Liste des commandes enregistrées...", "SyncCommands")

	var cmds []*discordgo.ApplicationCommand
	var err error

	if guildID != "" {
		logger.Info(fmt.Sprintf("Commandes du serveur: %s", guildID), "SyncCommands")
		cmds, err = client.CommandHandler.ListGuildCommands(guildID)
	} else {
		logger.Info("Commandes globales", "SyncCommands")
		cmds, err = client.CommandHandler.ListGlobalCommands()
	}

	if err != nil {
		logger.Error(fmt.Sprintf("Erreur lors de la récupération des commandes: %v", err), "SyncCommands")
		return
	}

	if len(cmds) == 0 {
		logger.Info("Aucune commande enregistrée", "SyncCommands")
		return
	}

	logger.Info(fmt.Sprintf("Commandes trouvées: %d", len(cmds)), "SyncCommands")
	for i, cmd := range cmds {
		logger.Info(fmt.Sprintf("  %d. /%s - %s (ID: %s)", i+1, cmd.Name, cmd.Description, cmd.ID), "SyncCommands")
	}
}

// cleanCommands removes all commands from Discord
func cleanCommands(client *discord.ExtendedClient, guildID string) {
	logger.Info("🧹 Suppression de toutes les commandes...", "SyncCommands")

	var err error
	if guildID != "" {
		logger.Info(fmt.Sprintf("Suppression des commandes du serveur: %s", guildID), "SyncCommands")
		err = client.CommandHandler.UnregisterGuildCommands(guildID)
	} else {
		logger.Info("Suppression des commandes globales", "SyncCommands")
		err = client.CommandHandler.UnregisterCommands()
	}

	if err != nil {
		logger.Error(fmt.Sprintf("Erreur lors de la suppression des commandes: %v", err), "SyncCommands")
		return
	}

	logger.Success("✅ Toutes les commandes ont été supprimées", "SyncCommands")
}

// syncCommands replaces the global commands and the dev guild commands with
// the ones defined in internal/commands. A -guild other than the dev guild is
// only cleaned.
func syncCommands(client *discord.ExtendedClient, guildID string) {
	logger.Info("🔄 Synchronisation des commandes...", "SyncCommands")

	if guildID != "" && guildID != client.DevGuildID {
		logger.Info(fmt.Sprintf("Suppression des commandes du serveur: %s", guildID), "SyncCommands")
		if err := client.CommandHandler.UnregisterGuildCommands(guildID); err != nil {
			logger.Error(fmt.Sprintf("Erreur lors de la suppression des commandes du serveur: %v", err), "SyncCommands")
			return
		}
		logger.Success("✅ Commandes du serveur supprimées. Les commandes de développement vont sur devGuildId.", "SyncCommands")
		return
	}

	if err := client.CommandHandler.SyncCommands(); err != nil {
		logger.Error(fmt.Sprintf("Erreur lors de la synchronisation: %v", err), "SyncCommands")
		return
	}
	logger.Success("✅ Commandes synchronisées", "SyncCommands")
}
