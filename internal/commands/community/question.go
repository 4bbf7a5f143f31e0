package community

import (
	"errors"

	"github.com/PancyStudios/ChiiBot/pkg/dailyquestion"
	"github.com/PancyStudios/ChiiBot/pkg/discord"
)

func (m *module) questionNowCommand() *discord.Command {
	return discord.NewCommand(
		"questionnow",
		"Envoie la question du jour maintenant",
		category,
		func(ctx *discord.CommandContext) error {
			guild := ctx.Guild()
			if guild == nil {
				return ctx.Reply("❌ Serveur introuvable.")
			}
			err := m.svc.PostQuestion(ctx.Context(), ctx.Session, guild)
			if errors.Is(err, dailyquestion.ErrNoChannel) {
				return ctx.Reply("❌ Impossible d'envoyer la question. Le bot n'a pas trouvé le canal approprié. Veuillez vérifier que l'ID du canal est correct.")
			}
			if err != nil {
				return err
			}
			return ctx.Reply("✅ Question du jour envoyée avec succès! Une nouvelle question sera automatiquement envoyée chaque jour à minuit.")
		},
	).WithAliases("send_question_now").AdminOnly()
}
