package events

import (
	"github.com/PancyStudios/ChiiBot/pkg/errors"
	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/PancyStudios/ChiiBot/pkg/rolemenu"
	"github.com/bwmarrin/discordgo"
)

// onReactionAdd forwards reactions to the role menus.
func (h *handlers) onReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	defer errors.RecoverMiddleware()()

	err := h.svc.Reactions.HandleReaction(h.client.Context(), rolemenu.Reaction{
		GuildID:   r.GuildID,
		ChannelID: r.ChannelID,
		MessageID: r.MessageID,
		UserID:    r.UserID,
		Emoji:     r.Emoji.Name,
	})
	if err != nil {
		logger.Error("Erreur lors de la gestion de la réaction: "+err.Error(), "Roles")
	}
}
