package events

import (
	"fmt"

	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// onGuildCreate fires for every guild after Ready and when the bot joins one.
// The invite cache is rebuilt from the current invites.
func (h *handlers) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if g.Unavailable {
		return
	}
	logger.Debug(fmt.Sprintf("Serveur disponible: %s (%d membres)", g.Name, g.MemberCount), "Guild")

	if err := h.svc.Invites.Refresh(g.ID); err != nil {
		logger.Warn(fmt.Sprintf("Cache d'invitations de %s: %v", g.Name, err), "Guild")
	}
}

// onGuildDelete is called when the bot is removed from a server
func (h *handlers) onGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	if g.Unavailable {
		return
	}
	logger.Info(fmt.Sprintf("➖ Bot retiré du serveur ID: %s", g.ID), "Guild")
	if err := h.svc.Invites.Forget(h.client.Context(), g.ID); err != nil {
		logger.Error(err.Error(), "Guild")
	}
}

// onChannelDelete forgets tickets whose channel was removed by hand.
func (h *handlers) onChannelDelete(s *discordgo.Session, c *discordgo.ChannelDelete) {
	t, ok, err := h.svc.Tickets.Close(h.client.Context(), c.ID)
	if err != nil {
		logger.Error(err.Error(), "Tickets")
	}
	if ok {
		logger.Info(fmt.Sprintf("Ticket %s fermé (salon supprimé)", t.ID), "Tickets")
	}
}
