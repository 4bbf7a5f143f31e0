// Package rolemenu maps reactions on the role menu messages to exclusive roles.
package rolemenu

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/PancyStudios/ChiiBot/pkg/models"
	"github.com/PancyStudios/ChiiBot/pkg/storage"
	"github.com/bwmarrin/discordgo"
)

// ChannelName is where setuprolemenu posts the menus
const ChannelName = "✨・rôles"

// Option is one selectable role of a category
type Option struct {
	Emoji string
	Name  string
	Color int
}

// Category groups mutually exclusive roles
type Category struct {
	Name    string
	Options []Option
}

// Categories offered by the menu.
var Categories = []Category{
	{Name: "Sexe", Options: []Option{
		{Emoji: "👦", Name: "Garçon", Color: 0x3498DB},
		{Emoji: "👧", Name: "Fille", Color: 0xFF69B4},
	}},
	{Name: "Âge", Options: []Option{
		{Emoji: "🔞", Name: "Majeur", Color: 0x9B59B6},
		{Emoji: "🧸", Name: "Mineur", Color: 0x2ECC71},
	}},
}

// CategoryByName finds a category.
func CategoryByName(name string) (Category, bool) {
	for _, c := range Categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}

// Option returns the option bound to emoji. Variation selectors are ignored.
func (c Category) Option(emoji string) (Option, bool) {
	emoji = strings.TrimSuffix(emoji, "\ufe0f")
	for _, o := range c.Options {
		if o.Emoji == emoji {
			return o, true
		}
	}
	return Option{}, false
}

// MenuEmbed renders the message members react on.
func MenuEmbed(c Category) *discordgo.MessageEmbed {
	var b strings.Builder
	fmt.Fprintf(&b, "Clique sur une réaction ci-dessous pour choisir ton rôle dans la catégorie **%s**.\n\n", c.Name)
	b.WriteString("**IMPORTANT :** Tu ne peux choisir qu'un SEUL rôle dans cette catégorie. Ton choix précédent sera automatiquement remplacé.\n\n")
	for _, o := range c.Options {
		fmt.Fprintf(&b, "%s : **%s**\n", o.Emoji, o.Name)
	}
	return &discordgo.MessageEmbed{
		Title:       "🏷️ Choisis ton rôle : " + c.Name,
		Description: b.String(),
		Color:       0xF1C40F,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Ton choix est exclusif : un seul rôle par catégorie."},
	}
}

// Store keeps the menu message of each category per guild.
type Store struct {
	backend storage.Backend
	mu      sync.RWMutex
	data    map[string]map[string]models.RoleMenuMessage
}

func NewStore(backend storage.Backend) *Store {
	return &Store{backend: backend, data: make(map[string]map[string]models.RoleMenuMessage)}
}

func (s *Store) Load(ctx context.Context) error {
	doc := make(map[string]map[string]models.RoleMenuMessage)
	if _, err := s.backend.Load(ctx, storage.KeyRoleMessages, &doc); err != nil {
		return fmt.Errorf("load role messages: %w", err)
	}
	s.mu.Lock()
	s.data = doc
	s.mu.Unlock()
	logger.Info(fmt.Sprintf("Données de rôles-réaction chargées: %d serveurs", len(doc)), "RoleMenu")
	return nil
}

// CategoryFor resolves the category whose menu is messageID.
func (s *Store) CategoryFor(guildID, messageID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for cat, msg := range s.data[guildID] {
		if msg.MessageID == messageID {
			return cat, true
		}
	}
	return "", false
}

func (s *Store) Get(guildID, category string) (models.RoleMenuMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msg, ok := s.data[guildID][category]
	return msg, ok
}

func (s *Store) Set(ctx context.Context, guildID, category string, msg models.RoleMenuMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data[guildID] == nil {
		s.data[guildID] = make(map[string]models.RoleMenuMessage)
	}
	s.data[guildID][category] = msg
	if err := s.backend.Save(ctx, storage.KeyRoleMessages, s.data); err != nil {
		return fmt.Errorf("save role messages: %w", err)
	}
	return nil
}

// Client is what the dispatcher needs from Discord.
type Client interface {
	GuildRoles(guildID string) ([]*discordgo.Role, error)
	MemberRoleIDs(guildID, userID string) ([]string, error)
	AddMemberRole(guildID, userID, roleID string) error
	RemoveMemberRole(guildID, userID, roleID string) error
	CreateRole(guildID, name string, color int) (*discordgo.Role, error)
	SendDM(userID, content string) error
	RemoveReaction(channelID, messageID, emoji, userID string) error
}

// Reaction is a reaction added on a guild message
type Reaction struct {
	GuildID   string
	ChannelID string
	MessageID string
	UserID    string
	Emoji     string
}

// Dispatcher applies reactions on menu messages.
type Dispatcher struct {
	Store  *Store
	Client Client
	BotID  string
}

// EnsureRole returns the guild role named like opt, creating it when missing.
func EnsureRole(c Client, guildID string, roles []*discordgo.Role, opt Option) (*discordgo.Role, bool, error) {
	for _, r := range roles {
		if r.Name == opt.Name {
			return r, false, nil
		}
	}
	role, err := c.CreateRole(guildID, opt.Name, opt.Color)
	if err != nil {
		return nil, false, fmt.Errorf("create role %s: %w", opt.Name, err)
	}
	return role, true, nil
}

// HandleReaction grants the role bound to the reaction, removes the other
// roles of the category and clears the reaction. Reactions outside the menu
// messages are ignored.
func (d *Dispatcher) HandleReaction(ctx context.Context, r Reaction) error {
	if r.UserID == d.BotID || r.GuildID == "" {
		return nil
	}
	catName, ok := d.Store.CategoryFor(r.GuildID, r.MessageID)
	if !ok {
		return nil
	}
	cat, ok := CategoryByName(catName)
	if !ok {
		return nil
	}

	var errs []error
	if opt, ok := cat.Option(r.Emoji); ok {
		if err := d.assign(ctx, r, cat, opt); err != nil {
			errs = append(errs, err)
		}
	}

	if err := d.Client.RemoveReaction(r.ChannelID, r.MessageID, r.Emoji, r.UserID); err != nil {
		logger.Error(fmt.Sprintf("Erreur lors de la suppression de la réaction: %v", err), "RoleMenu")
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) assign(ctx context.Context, r Reaction, cat Category, opt Option) error {
	roles, err := d.Client.GuildRoles(r.GuildID)
	if err != nil {
		return fmt.Errorf("list roles: %w", err)
	}
	role, created, err := EnsureRole(d.Client, r.GuildID, roles, opt)
	if err != nil {
		logger.Error(err.Error(), "RoleMenu")
		return err
	}
	if created {
		logger.Info(fmt.Sprintf("Rôle '%s' créé pour la catégorie %s", opt.Name, cat.Name), "RoleMenu")
	}

	held, err := d.Client.MemberRoleIDs(r.GuildID, r.UserID)
	if err != nil {
		return fmt.Errorf("member roles: %w", err)
	}
	heldSet := make(map[string]bool, len(held))
	for _, id := range held {
		heldSet[id] = true
	}

	var errs []error
	for _, other := range roles {
		if other.ID == role.ID || !heldSet[other.ID] || !inCategory(cat, other.Name) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.Client.RemoveMemberRole(r.GuildID, r.UserID, other.ID); err != nil {
			logger.Error(fmt.Sprintf("Impossible de retirer le rôle %s: %v", other.Name, err), "RoleMenu")
			errs = append(errs, err)
			continue
		}
		logger.Info(fmt.Sprintf("Rôle '%s' retiré de %s", other.Name, r.UserID), "RoleMenu")
	}

	if heldSet[role.ID] {
		logger.Info(fmt.Sprintf("%s a déjà le rôle %s", r.UserID, opt.Name), "RoleMenu")
		return errors.Join(errs...)
	}

	if err := d.Client.AddMemberRole(r.GuildID, r.UserID, role.ID); err != nil {
		logger.Error(fmt.Sprintf("Impossible d'attribuer le rôle %s: %v", opt.Name, err), "RoleMenu")
		return errors.Join(append(errs, err)...)
	}
	logger.Info(fmt.Sprintf("Rôle '%s' attribué à %s", opt.Name, r.UserID), "RoleMenu")

	msg := fmt.Sprintf("✅ Tu as reçu le rôle **%s** dans la catégorie **%s**", opt.Name, cat.Name)
	if err := d.Client.SendDM(r.UserID, msg); err != nil {
		logger.Warn(fmt.Sprintf("Impossible d'envoyer un DM à %s: %v", r.UserID, err), "RoleMenu")
	}
	return errors.Join(errs...)
}

func inCategory(c Category, roleName string) bool {
	for _, o := range c.Options {
		if o.Name == roleName {
			return true
		}
	}
	return false
}
