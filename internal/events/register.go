// Package events provides a registry for organizing bot events.
// Events are organized by category (guild, member, message, voice, etc.)
package events

import (
	"sync"

	"github.com/PancyStudios/ChiiBot/internal/services"
	"github.com/PancyStudios/ChiiBot/pkg/discord"
	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

type handlers struct {
	client *discord.ExtendedClient
	svc    *services.Services

	startOnce sync.Once
}

// RegisterAll registers all events with the Discord client
func RegisterAll(client *discord.ExtendedClient, svc *services.Services) {
	logger.System("📋 Enregistrement des événements...", "Events")

	h := &handlers{client: client, svc: svc}
	eh := client.EventHandler

	// Ready event (bot startup)
	eh.OnReady(h.onReady)

	// Guild events (server join/leave)
	eh.OnGuildCreate(h.onGuildCreate)
	eh.OnGuildDelete(h.onGuildDelete)
	eh.RegisterEvent(h.onChannelDelete)

	// Member events (welcome/leave)
	eh.OnGuildMemberAdd(h.onGuildMemberAdd)
	eh.OnGuildMemberRemove(h.onGuildMemberRemove)

	// Message events (anti-link, prefix commands, XP, logs)
	eh.OnMessageCreate(h.onMessageCreate)
	eh.OnMessageUpdate(h.onMessageUpdate)
	eh.OnMessageDelete(h.onMessageDelete)

	// Role menus
	eh.OnMessageReactionAdd(h.onReactionAdd)

	// Invite cache
	eh.OnInviteCreate(h.onInviteCreate)
	eh.OnInviteDelete(h.onInviteDelete)

	// Ticket buttons and modals
	eh.OnInteractionCreate(h.onInteractionCreate)

	// Lavalink voice sessions
	eh.OnVoiceStateUpdate(h.onVoiceStateUpdate)
	eh.OnVoiceServerUpdate(h.onVoiceServerUpdate)

	client.Session.AddHandler(func(s *discordgo.Session, log string) {
		logger.Debug(log, "DiscordGO")
	})

	logger.Success("✅ Tous les événements sont enregistrés", "Events")
}
