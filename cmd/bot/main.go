// Package main is the entry point for ChiiBot.
// It initializes all systems and starts the Discord bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PancyStudios/ChiiBot/internal/commands"
	"github.com/PancyStudios/ChiiBot/internal/events"
	"github.com/PancyStudios/ChiiBot/internal/services"
	"github.com/PancyStudios/ChiiBot/pkg/config"
	"github.com/PancyStudios/ChiiBot/pkg/dailyquestion"
	"github.com/PancyStudios/ChiiBot/pkg/database"
	"github.com/PancyStudios/ChiiBot/pkg/discord"
	"github.com/PancyStudios/ChiiBot/pkg/errors"
	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/PancyStudios/ChiiBot/pkg/mqtt"
	"github.com/PancyStudios/ChiiBot/pkg/storage"
	"github.com/PancyStudios/ChiiBot/pkg/web"
)

const keepAliveInterval = 5 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()
	if cfg.IsProd() {
		log.SetMinLevel(logger.LevelInfo)
	}

	logger.System(fmt.Sprintf("Démarrage de ChiiBot %s...", config.Version), "Main")
	logger.Info(fmt.Sprintf("Répertoire de travail: %s", getCurrentDir()), "Main")

	// Initialize error handler
	var client *discord.ExtendedClient
	errors.Init(cfg.ErrorWebhook, func() {
		if client != nil {
			_ = client.Stop()
		}
	})

	// Storage (json files, sqlite or mongo)
	backend, err := storage.New(cfg)
	if err != nil {
		logger.Critical(fmt.Sprintf("Erreur d'ouverture du stockage %s: %v", cfg.StorageDriver, err), "Main")
		os.Exit(1)
	}

	// Initialize MQTT
	mqttClientID := "chiibot"
	if !cfg.IsProd() {
		mqttClientID = "chiibot_canary"
	}
	bus := mqtt.Init(cfg.MQTTHost, cfg.MQTTPort, cfg.MQTTUser, cfg.MQTTPassword, mqttClientID)

	// Initialize Discord client
	client, err = discord.Init(cfg.BotToken)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "Main")
		os.Exit(1)
	}
	ctx := client.Context()

	svc := services.New(cfg, backend, client.Session, bus)
	if err := svc.Load(ctx); err != nil {
		logger.Error(fmt.Sprintf("Chargement des données: %v", err), "Main")
	}

	commands.RegisterAll(client, svc)
	events.RegisterAll(client, svc)
	svc.HandleRequests(client)

	// Keep-alive web server
	tracker := web.NewRestartTracker(backend)
	if err := tracker.Load(ctx); err != nil {
		logger.Warn(fmt.Sprintf("Statistiques de redémarrage: %v", err), "Main")
	}
	keeper := &web.Keeper{
		Bot:       client,
		Tracker:   tracker,
		Restarter: web.CommandRestarter{Command: cfg.RestartCommand},
	}
	server, err := web.NewServer(cfg.LogsWebServerHook, cfg.WebAllowedHosts)
	if err != nil {
		logger.Error(fmt.Sprintf("Serveur web désactivé: %v", err), "Main")
	} else {
		routes := &web.Routes{
			Name:    "ChiiBot",
			Version: config.Version,
			Started: time.Now(),
			Keeper:  keeper,
			Checks:  statusChecks(cfg, bus, svc),
		}
		routes.Mount(server)
		server.StartAsync(cfg.Port)
	}

	// Start the bot
	if err := client.Start(); err != nil {
		logger.Critical(fmt.Sprintf("Error starting Discord client: %v", err), "Main")
		os.Exit(1)
	}

	go svc.TikTok.Run(ctx)
	go dailyquestion.Run(ctx, func(ctx context.Context) {
		svc.PostQuestions(ctx, client.Session)
	})
	if cfg.RestartCommand != "" {
		go keeper.Watch(ctx, keepAliveInterval)
	}

	logger.Success("ChiiBot démarré !", "Main")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.System("Arrêt de ChiiBot...", "Main")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Stop(); err != nil {
		logger.Warn("Fermeture de la session Discord: "+err.Error(), "Main")
	}
	if err := svc.Save(shutdownCtx); err != nil {
		logger.Error("Sauvegarde finale: "+err.Error(), "Main")
	}
	svc.Close()
	if server != nil {
		_ = server.Shutdown(shutdownCtx)
	}
	bus.Close()
	if err := backend.Close(); err != nil {
		logger.Warn("Fermeture du stockage: "+err.Error(), "Main")
	}
}

// statusChecks feeds /api/status.
func statusChecks(cfg *config.Config, bus *mqtt.Client, svc *services.Services) []web.Check {
	return []web.Check{
		{Name: "storage", Status: func() (string, bool) {
			if cfg.StorageDriver == config.StorageMongo {
				if db := database.Get(); db != nil {
					return db.GetStatus()
				}
				return "🔴 | Déconnectée", false
			}
			return cfg.StorageDriver, true
		}},
		{Name: "mqtt", Status: func() (string, bool) {
			if bus.IsConnected() {
				return "🟢 | Connecté", true
			}
			return "🔴 | Hors ligne", false
		}},
		{Name: "lavalink", Status: func() (string, bool) {
			if svc.Music != nil && svc.Music.Ready() {
				return "🟢 | Connecté", true
			}
			return "🔴 | Hors ligne", false
		}},
	}
}

// getCurrentDir returns the current working directory
func getCurrentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return dir
}
