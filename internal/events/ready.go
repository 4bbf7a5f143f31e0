package events

import (
	"fmt"

	"github.com/PancyStudios/ChiiBot/pkg/errors"
	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// onReady is called when the bot successfully connects to Discord. A new
// identify sends Ready again; the services only start once.
func (h *handlers) onReady(s *discordgo.Session, r *discordgo.Ready) {
	defer errors.RecoverMiddleware()()

	logger.Info(fmt.Sprintf("📊 Connecté à %d serveurs", len(r.Guilds)), "Ready")

	h.startOnce.Do(func() {
		if err := h.svc.StartGateway(h.client.Context(), r.User.ID); err != nil {
			logger.Error("Reprise des giveaways: "+err.Error(), "Ready")
		}
		h.svc.StartMusic(s, r.User.ID)
	})

	if err := s.UpdateGameStatus(0, fmt.Sprintf("%shelp ✧ Ninis", h.client.Prefix)); err != nil {
		logger.Error(fmt.Sprintf("Erreur lors de la mise à jour du statut: %v", err), "Ready")
		return
	}
	logger.Debug("Statut du bot mis à jour", "Ready")
}
