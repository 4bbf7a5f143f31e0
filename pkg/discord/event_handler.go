package discord

import (
	"sync"

	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// EventHandler manages event registration
type EventHandler struct {
	client *ExtendedClient
	events []interface{}
	mu     sync.RWMutex
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(client *ExtendedClient) *EventHandler {
	return &EventHandler{
		client: client,
		events: make([]interface{}, 0),
	}
}

// RegisterEvent adds an event handler to the Discord session. discordgo
// matches handlers on their unnamed func type, so named handler types must
// be converted before reaching it.
func (eh *EventHandler) RegisterEvent(handler interface{}) {
	eh.client.Session.AddHandler(handler)
	eh.mu.Lock()
	eh.events = append(eh.events, handler)
	eh.mu.Unlock()
}

// Count returns how many handlers were registered.
func (eh *EventHandler) Count() int {
	eh.mu.RLock()
	defer eh.mu.RUnlock()
	return len(eh.events)
}

// Event handler types for the Discord events the bot listens to

type ReadyHandler func(s *discordgo.Session, r *discordgo.Ready)
type GuildCreateHandler func(s *discordgo.Session, g *discordgo.GuildCreate)
type GuildDeleteHandler func(s *discordgo.Session, g *discordgo.GuildDelete)
type MessageCreateHandler func(s *discordgo.Session, m *discordgo.MessageCreate)
type MessageUpdateHandler func(s *discordgo.Session, m *discordgo.MessageUpdate)
type MessageDeleteHandler func(s *discordgo.Session, m *discordgo.MessageDelete)
type MessageReactionAddHandler func(s *discordgo.Session, r *discordgo.MessageReactionAdd)
type GuildMemberAddHandler func(s *discordgo.Session, m *discordgo.GuildMemberAdd)
type GuildMemberRemoveHandler func(s *discordgo.Session, m *discordgo.GuildMemberRemove)
type InviteCreateHandler func(s *discordgo.Session, i *discordgo.InviteCreate)
type InviteDeleteHandler func(s *discordgo.Session, i *discordgo.InviteDelete)
type VoiceStateUpdateHandler func(s *discordgo.Session, v *discordgo.VoiceStateUpdate)
type VoiceServerUpdateHandler func(s *discordgo.Session, v *discordgo.VoiceServerUpdate)
type InteractionCreateHandler func(s *discordgo.Session, i *discordgo.InteractionCreate)

// OnReady registers a ready event handler
func (eh *EventHandler) OnReady(handler ReadyHandler) {
	eh.RegisterEvent((func(*discordgo.Session, *discordgo.Ready))(handler))
	logger.Debug("Événement 'Ready' enregistré", "EventHandler")
}

// OnGuildCreate registers a guild create event handler
func (eh *EventHandler) OnGuildCreate(handler GuildCreateHandler) {
	eh.RegisterEvent((func(*discordgo.Session, *discordgo.GuildCreate))(handler))
	logger.Debug("Événement 'GuildCreate' enregistré", "EventHandler")
}

// OnGuildDelete registers a guild delete event handler
func (eh *EventHandler) OnGuildDelete(handler GuildDeleteHandler) {
	eh.RegisterEvent((func(*discordgo.Session, *discordgo.GuildDelete))(handler))
	logger.Debug("Événement 'GuildDelete' enregistré", "EventHandler")
}

// OnMessageCreate registers a message create event handler
func (eh *EventHandler) OnMessageCreate(handler MessageCreateHandler) {
	eh.RegisterEvent((func(*discordgo.Session, *discordgo.MessageCreate))(handler))
	logger.Debug("Événement 'MessageCreate' enregistré", "EventHandler")
}

// OnMessageUpdate registers a message update event handler
func (eh *EventHandler) OnMessageUpdate(handler MessageUpdateHandler) {
	eh.RegisterEvent((func(*discordgo.Session, *discordgo.MessageUpdate))(handler))
	logger.Debug("Événement 'MessageUpdate' enregistré", "EventHandler")
}

// OnMessageDelete registers a message delete event handler
func (eh *EventHandler) OnMessageDelete(handler MessageDeleteHandler) {
	eh.RegisterEvent((func(*discordgo.Session, *discordgo.MessageDelete))(handler))
	logger.Debug("Événement 'MessageDelete' enregistré", "EventHandler")
}

// OnMessageReactionAdd registers a reaction add event handler
func (eh *EventHandler) OnMessageReactionAdd(handler MessageReactionAddHandler) {
	eh.RegisterEvent((func(*discordgo.Session, *discordgo.MessageReactionAdd))(handler))
	logger.Debug("Événement 'MessageReactionAdd' enregistré", "EventHandler")
}

// OnGuildMemberAdd registers a guild member add event handler
func (eh *EventHandler) OnGuildMemberAdd(handler GuildMemberAddHandler) {
	eh.RegisterEvent((func(*discordgo.Session, *discordgo.GuildMemberAdd))(handler))
	logger.Debug("Événement 'GuildMemberAdd' enregistré", "EventHandler")
}

// OnGuildMemberRemove registers a guild member remove event handler
func (eh *EventHandler) OnGuildMemberRemove(handler GuildMemberRemoveHandler) {
	eh.RegisterEvent((func(*discordgo.Session, *discordgo.GuildMemberRemove))(handler))
	logger.Debug("Événement 'GuildMemberRemove' enregistré", "EventHandler")
}

// OnInviteCreate registers an invite create event handler
func (eh *EventHandler) OnInviteCreate(handler InviteCreateHandler) {
	eh.RegisterEvent((func(*discordgo.Session, *discordgo.InviteCreate))(handler))
	logger.Debug("Événement 'InviteCreate' enregistré", "EventHandler")
}

// OnInviteDelete registers an invite delete event handler
func (eh *EventHandler) OnInviteDelete(handler InviteDeleteHandler) {
	eh.RegisterEvent((func(*discordgo.Session, *discordgo.InviteDelete))(handler))
	logger.Debug("Événement 'InviteDelete' enregistré", "EventHandler")
}

// OnVoiceStateUpdate registers a voice state update event handler
func (eh *EventHandler) OnVoiceStateUpdate(handler VoiceStateUpdateHandler) {
	eh.RegisterEvent((func(*discordgo.Session, *discordgo.VoiceStateUpdate))(handler))
	logger.Debug("Événement 'VoiceStateUpdate' enregistré", "EventHandler")
}

// OnVoiceServerUpdate registers a voice server update event handler
func (eh *EventHandler) OnVoiceServerUpdate(handler VoiceServerUpdateHandler) {
	eh.RegisterEvent((func(*discordgo.Session, *discordgo.VoiceServerUpdate))(handler))
	logger.Debug("Événement 'VoiceServerUpdate' enregistré", "EventHandler")
}

// OnInteractionCreate registers an interaction create event handler
func (eh *EventHandler) OnInteractionCreate(handler InteractionCreateHandler) {
	eh.RegisterEvent((func(*discordgo.Session, *discordgo.InteractionCreate))(handler))
	logger.Debug("Événement 'InteractionCreate' enregistré", "EventHandler")
}
