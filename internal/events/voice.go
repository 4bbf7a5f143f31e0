package events

import (
	"github.com/bwmarrin/discordgo"
)

// Lavalink needs the bot's own voice session and server token to stream.
func (h *handlers) onVoiceStateUpdate(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	if h.svc.Music != nil {
		h.svc.Music.HandleVoiceStateUpdate(s, v)
	}
}

func (h *handlers) onVoiceServerUpdate(s *discordgo.Session, v *discordgo.VoiceServerUpdate) {
	if h.svc.Music != nil {
		h.svc.Music.HandleVoiceServerUpdate(s, v)
	}
}
