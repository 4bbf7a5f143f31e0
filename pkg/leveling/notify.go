package leveling

import (
	"context"
	"fmt"

	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// EmbedColor is the colour shared by every XP embed
const EmbedColor = 0xffaadd

// Notifier announces level-ups.
type Notifier interface {
	NotifyLevelUp(ctx context.Context, up LevelUp) error
}

// LevelUpEmbed builds the announcement for a member reaching a new level.
func LevelUpEmbed(mention string, up LevelUp) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "Niveau supérieur ! 🌟",
		Description: fmt.Sprintf("Félicitations %s ! Tu as atteint le niveau **%d** !", mention, up.NewLevel),
		Color:       EmbedColor,
		Footer:      &discordgo.MessageEmbedFooter{Text: "✨ Système d'XP de Ninis ✨"},
	}

	if m, ok := ExactMilestone(up.NewLevel); ok {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Rôle obtenu", Value: m.Message})
	}

	if next, ok := NextMilestone(up.NewLevel); ok {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Prochain palier",
			Value: fmt.Sprintf("Il te faut **%d** XP pour atteindre le rôle **%s** (niveau %d) !", RequiredXP(next.Level)-up.XP, next.Role, next.Level),
		})
	}

	return embed
}

// Processor runs the full per-message flow: award, role sync, notification.
type Processor struct {
	Service  *Service
	Roles    RoleClient
	Notifier Notifier
	// OnLevelUp runs after the notification, e.g. to publish an event.
	OnLevelUp func(LevelUp)
}

// HandleMessage awards XP and runs the level-up side effects. Role and
// notification failures are logged and do not undo the award.
func (p *Processor) HandleMessage(ctx context.Context, guildID, userID string) (*LevelUp, error) {
	up, err := p.Service.AwardMessage(ctx, guildID, userID)
	if err != nil || up == nil {
		return up, err
	}

	logger.Info(fmt.Sprintf("%s passe au niveau %d (%d XP)", userID, up.NewLevel, up.XP), "Levels")

	if p.Roles != nil {
		if err := SyncRoles(ctx, p.Roles, guildID, userID, up.NewLevel); err != nil {
			logger.Warn(fmt.Sprintf("Rôles de niveau incomplets pour %s: %v", userID, err), "Levels")
		}
	}
	if p.Notifier != nil {
		if err := p.Notifier.NotifyLevelUp(ctx, *up); err != nil {
			logger.Error(fmt.Sprintf("Erreur lors de l'envoi de la notification de niveau pour %s: %v", userID, err), "Levels")
		}
	}
	if p.OnLevelUp != nil {
		p.OnLevelUp(*up)
	}
	return up, nil
}
