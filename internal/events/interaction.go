package events

import (
	"context"
	"errors"
	"fmt"

	pkgerrors "github.com/PancyStudios/ChiiBot/pkg/errors"
	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/PancyStudios/ChiiBot/pkg/models"
	"github.com/PancyStudios/ChiiBot/pkg/tickets"
	"github.com/bwmarrin/discordgo"
)

const ticketError = "Une erreur s'est produite lors de la création du ticket."

// onInteractionCreate handles the ticket buttons and modal. Slash commands are
// dispatched by the client itself.
func (h *handlers) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer pkgerrors.RecoverMiddleware()()

	switch i.Type {
	case discordgo.InteractionMessageComponent:
		switch i.MessageComponentData().CustomID {
		case tickets.CreateButtonID:
			h.ticketButton(s, i)
		case tickets.CloseButtonID:
			h.closeTicket(s, i)
		}
	case discordgo.InteractionModalSubmit:
		if i.ModalSubmitData().CustomID == tickets.ModalID {
			h.openTicket(s, i)
		}
	}
}

func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func ephemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content, Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		logger.Warn("Réponse à l'interaction impossible: "+err.Error(), "Tickets")
	}
}

func (h *handlers) ticketButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := interactionUser(i)
	if _, open := h.svc.Tickets.ForUser(i.GuildID, user.ID); open {
		ephemeral(s, i, "Vous avez déjà un ticket ouvert!")
		return
	}
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: tickets.Modal(),
	})
	if err != nil {
		logger.Error("Affichage du formulaire de ticket impossible: "+err.Error(), "Tickets")
	}
}

func (h *handlers) openTicket(s *discordgo.Session, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		logger.Error("Interaction du ticket expirée: "+err.Error(), "Tickets")
		return
	}

	user := interactionUser(i)
	content := ticketError
	channel, err := h.createTicket(h.client.Context(), s, i, user)
	switch {
	case errors.Is(err, tickets.ErrAlreadyOpen):
		content = "Vous avez déjà un ticket ouvert!"
	case err != nil:
		logger.Error(fmt.Sprintf("Erreur lors de la création du ticket de %s: %v", user.Username, err), "Tickets")
	default:
		content = fmt.Sprintf("Votre ticket a été créé: <#%s>", channel.ID)
	}
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content}); err != nil {
		logger.Warn("Réponse du ticket impossible: "+err.Error(), "Tickets")
	}
}

func (h *handlers) createTicket(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, user *discordgo.User) (*discordgo.Channel, error) {
	subject, description := tickets.ModalValues(i.ModalSubmitData())

	parent, err := ticketCategory(s, i.GuildID)
	if err != nil {
		return nil, fmt.Errorf("ticket category: %w", err)
	}
	channel, err := s.GuildChannelCreateComplex(i.GuildID, discordgo.GuildChannelCreateData{
		Name:                 tickets.ChannelName(user.Username),
		Type:                 discordgo.ChannelTypeGuildText,
		ParentID:             parent.ID,
		PermissionOverwrites: tickets.Overwrites(i.GuildID, user.ID, s.State.User.ID),
	})
	if err != nil {
		return nil, fmt.Errorf("create channel: %w", err)
	}

	t, err := h.svc.Tickets.Open(ctx, models.Ticket{
		GuildID:     i.GuildID,
		ChannelID:   channel.ID,
		UserID:      user.ID,
		Subject:     subject,
		Description: description,
	})
	if errors.Is(err, tickets.ErrAlreadyOpen) {
		_, _ = s.ChannelDelete(channel.ID)
		return nil, err
	}
	if err != nil {
		// the record is kept in memory even when persisting failed
		logger.Error("Sauvegarde du ticket impossible: "+err.Error(), "Tickets")
	}
	if _, err := s.ChannelMessageSendComplex(channel.ID, tickets.Opening(t, user)); err != nil {
		logger.Warn("Message d'ouverture du ticket impossible: "+err.Error(), "Tickets")
	}
	logger.Info(fmt.Sprintf("🎫 Ticket %s ouvert par %s", channel.Name, user.Username), "Tickets")
	return channel, nil
}

func ticketCategory(s *discordgo.Session, guildID string) (*discordgo.Channel, error) {
	if guild, err := s.State.Guild(guildID); err == nil {
		for _, c := range guild.Channels {
			if c.Type == discordgo.ChannelTypeGuildCategory && c.Name == tickets.CategoryName {
				return c, nil
			}
		}
	}
	return s.GuildChannelCreate(guildID, tickets.CategoryName, discordgo.ChannelTypeGuildCategory)
}

func (h *handlers) closeTicket(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if _, _, err := h.svc.Tickets.Close(h.client.Context(), i.ChannelID); err != nil {
		logger.Error("Sauvegarde des tickets impossible: "+err.Error(), "Tickets")
	}
	ephemeral(s, i, "Fermeture du ticket...")
	if _, err := s.ChannelDelete(i.ChannelID); err != nil {
		logger.Error("Suppression du ticket impossible: "+err.Error(), "Tickets")
	}
}
