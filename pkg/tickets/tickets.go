// Package tickets keeps track of the private support channels members open
// from the ticket panel.
package tickets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/ChiiBot/pkg/models"
	"github.com/PancyStudios/ChiiBot/pkg/storage"
	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

// Component custom ids
const (
	CreateButtonID = "create_ticket"
	CloseButtonID  = "close_ticket"
	ModalID        = "ticket_modal"
	SubjectInputID = "ticket_subject"
	DetailsInputID = "ticket_description"
)

const (
	CategoryName   = "Tickets"
	channelPrefix  = "ticket-"
	MaxSubject     = 100
	MaxDescription = 1000
	colorBlue      = 0x3498DB
)

var ErrAlreadyOpen = errors.New("member already has an open ticket")

// ChannelName is the channel created for username.
func ChannelName(username string) string {
	name := strings.ToLower(strings.TrimSpace(username))
	name = strings.Join(strings.Fields(name), "-")
	return channelPrefix + name
}

// IsTicketChannel reports whether name looks like a ticket channel.
func IsTicketChannel(name string) bool {
	return strings.HasPrefix(name, channelPrefix)
}

// Store holds the open tickets keyed by channel id.
type Store struct {
	backend storage.Backend
	mu      sync.RWMutex
	open    map[string]models.Ticket
	now     func() time.Time
}

func NewStore(backend storage.Backend) *Store {
	return &Store{backend: backend, open: make(map[string]models.Ticket), now: time.Now}
}

func (s *Store) Load(ctx context.Context) error {
	doc := make(map[string]models.Ticket)
	if _, err := s.backend.Load(ctx, storage.KeyTickets, &doc); err != nil {
		return fmt.Errorf("load tickets: %w", err)
	}
	s.mu.Lock()
	s.open = doc
	s.mu.Unlock()
	return nil
}

// ForUser returns the open ticket of a member in a guild.
func (s *Store) ForUser(guildID, userID string) (models.Ticket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.open {
		if t.GuildID == guildID && t.UserID == userID {
			return t, true
		}
	}
	return models.Ticket{}, false
}

// Get returns the ticket behind a channel.
func (s *Store) Get(channelID string) (models.Ticket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.open[channelID]
	return t, ok
}

// Open records a new ticket. ID and OpenedAt are filled in when empty.
func (s *Store) Open(ctx context.Context, t models.Ticket) (models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.open {
		if other.GuildID == t.GuildID && other.UserID == t.UserID {
			return models.Ticket{}, ErrAlreadyOpen
		}
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.OpenedAt.IsZero() {
		t.OpenedAt = s.now().UTC()
	}
	s.open[t.ChannelID] = t
	return t, s.saveLocked(ctx)
}

// Close forgets the ticket of a channel. It reports false for unknown channels.
func (s *Store) Close(ctx context.Context, channelID string) (models.Ticket, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.open[channelID]
	if !ok {
		return models.Ticket{}, false, nil
	}
	delete(s.open, channelID)
	return t, true, s.saveLocked(ctx)
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.open)
}

func (s *Store) saveLocked(ctx context.Context) error {
	if err := s.backend.Save(ctx, storage.KeyTickets, s.open); err != nil {
		return fmt.Errorf("save tickets: %w", err)
	}
	return nil
}

// Panel is the message posted by setuptickets.
func Panel() *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       "Support par ticket",
			Description: "Pour contacter le staff, cliquez sur le bouton ci-dessous pour créer un ticket.",
			Color:       colorBlue,
		}},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Créer un ticket",
					Style:    discordgo.PrimaryButton,
					CustomID: CreateButtonID,
					Emoji:    &discordgo.ComponentEmoji{Name: "📩"},
				},
			}},
		},
	}
}

// Modal asks for the subject and description.
func Modal() *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		CustomID: ModalID,
		Title:    "Création de ticket",
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:  SubjectInputID,
					Label:     "Sujet du ticket",
					Style:     discordgo.TextInputShort,
					Required:  true,
					MaxLength: MaxSubject,
				},
			}},
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:  DetailsInputID,
					Label:     "Description",
					Style:     discordgo.TextInputParagraph,
					Required:  true,
					MaxLength: MaxDescription,
				},
			}},
		},
	}
}

// ModalValues reads the subject and description out of a submitted modal.
func ModalValues(data discordgo.ModalSubmitInteractionData) (subject, description string) {
	for _, row := range data.Components {
		r, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, c := range r.Components {
			input, ok := c.(*discordgo.TextInput)
			if !ok {
				continue
			}
			switch input.CustomID {
			case SubjectInputID:
				subject = input.Value
			case DetailsInputID:
				description = input.Value
			}
		}
	}
	return subject, description
}

// Opening is the first message of a ticket channel.
func Opening(t models.Ticket, author *discordgo.User) *discordgo.MessageSend {
	embed := &discordgo.MessageEmbed{
		Title:       "Ticket: " + t.Subject,
		Description: t.Description,
		Color:       colorBlue,
		Timestamp:   t.OpenedAt.Format(time.RFC3339),
	}
	if author != nil {
		embed.Author = &discordgo.MessageEmbedAuthor{Name: author.Username, IconURL: author.AvatarURL("")}
	}
	return &discordgo.MessageSend{
		Content: "<@" + t.UserID + ">",
		Embeds:  []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Fermer le ticket",
					Style:    discordgo.DangerButton,
					CustomID: CloseButtonID,
				},
			}},
		},
	}
}

// Overwrites hide the channel from everyone except the member and the bot.
// The @everyone role shares the guild id.
func Overwrites(guildID, userID, botID string) []*discordgo.PermissionOverwrite {
	member := int64(discordgo.PermissionViewChannel | discordgo.PermissionSendMessages | discordgo.PermissionReadMessageHistory)
	return []*discordgo.PermissionOverwrite{
		{ID: guildID, Type: discordgo.PermissionOverwriteTypeRole, Deny: discordgo.PermissionViewChannel},
		{ID: userID, Type: discordgo.PermissionOverwriteTypeMember, Allow: member},
		{ID: botID, Type: discordgo.PermissionOverwriteTypeMember, Allow: member | discordgo.PermissionManageChannels},
	}
}
