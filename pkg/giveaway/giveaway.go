// Package giveaway runs timed giveaways: members react with 🎉 and winners
// are drawn among the non-bot reactors when the timer fires. Running
// giveaways are persisted and rescheduled after a restart.
package giveaway

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/PancyStudios/ChiiBot/pkg/models"
	"github.com/PancyStudios/ChiiBot/pkg/storage"
	"github.com/bwmarrin/discordgo"
)

// Emoji is the reaction members use to enter.
const Emoji = "🎉"

// Retention is how long finished giveaways stay available for rerolls.
const Retention = 7 * 24 * time.Hour

var (
	ErrInvalidDuration = errors.New("⚠️ Format de temps invalide! Utilisez s/m/h/d (ex: 30s, 5m, 2h, 1d)")
	ErrInvalidUnit     = errors.New("⚠️ Unité de temps invalide! Utilisez s/m/h/d")
	ErrInvalidWinners  = errors.New("⚠️ Le nombre de gagnants doit être au moins 1")
	ErrNotFound        = errors.New("giveaway not found")
)

var units = map[byte]time.Duration{
	's': time.Second,
	'm': time.Minute,
	'h': time.Hour,
	'd': 24 * time.Hour,
}

// ParseDuration reads "<n><unit>" with unit s, m, h or d.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return 0, ErrInvalidDuration
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n <= 0 {
		return 0, ErrInvalidDuration
	}
	unit, ok := units[strings.ToLower(s[len(s)-1:])[0]]
	if !ok {
		return 0, ErrInvalidUnit
	}
	return time.Duration(n) * unit, nil
}

// PickWinners draws up to n distinct entrants. With fewer entrants than n
// everybody wins.
func PickWinners(r *rand.Rand, entrants []string, n int) []string {
	if n <= 0 || len(entrants) == 0 {
		return nil
	}
	if len(entrants) <= n {
		out := make([]string, len(entrants))
		copy(out, entrants)
		return out
	}
	out := make([]string, 0, n)
	for _, i := range r.Perm(len(entrants))[:n] {
		out = append(out, entrants[i])
	}
	return out
}

// Client is what the manager needs from Discord.
type Client interface {
	// Reactors lists the non-bot users who reacted with emoji.
	Reactors(channelID, messageID, emoji string) ([]string, error)
	SendMessage(channelID, content string) error
}

// Manager schedules and draws giveaways.
type Manager struct {
	backend storage.Backend
	client  Client
	rng     *rand.Rand
	now     func() time.Time

	mu     sync.Mutex
	active map[string]models.Giveaway
	timers map[string]*time.Timer

	// OnEnd is called after winners were announced.
	OnEnd func(g models.Giveaway)
}

func NewManager(backend storage.Backend, client Client) *Manager {
	return &Manager{
		backend: backend,
		client:  client,
		rng:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b9)),
		now:     time.Now,
		active:  make(map[string]models.Giveaway),
		timers:  make(map[string]*time.Timer),
	}
}

// Load reads stored giveaways, drops expired finished ones and reschedules
// the running ones. Giveaways whose end passed while offline end right away.
func (m *Manager) Load(ctx context.Context) error {
	stored := make(map[string]models.Giveaway)
	if _, err := m.backend.Load(ctx, storage.KeyGiveaways, &stored); err != nil {
		return err
	}

	now := m.now()
	m.mu.Lock()
	running := 0
	for id, g := range stored {
		if g.Ended && now.Sub(g.EndsAt) > Retention {
			continue
		}
		m.active[id] = g
		if !g.Ended {
			m.scheduleLocked(g)
			running++
		}
	}
	m.mu.Unlock()

	if running > 0 {
		logger.Info(fmt.Sprintf("%d giveaway(s) reprogrammé(s)", running), "Giveaway")
	}
	return m.save(ctx)
}

func (m *Manager) save(ctx context.Context) error {
	m.mu.Lock()
	snapshot := make(map[string]models.Giveaway, len(m.active))
	for id, g := range m.active {
		snapshot[id] = g
	}
	m.mu.Unlock()
	return m.backend.Save(ctx, storage.KeyGiveaways, snapshot)
}

// Start records a giveaway whose announcement was posted as g.MessageID.
func (m *Manager) Start(ctx context.Context, g models.Giveaway) error {
	if g.Winners < 1 {
		return ErrInvalidWinners
	}
	if g.ID == "" {
		g.ID = g.MessageID
	}
	m.mu.Lock()
	m.active[g.ID] = g
	m.scheduleLocked(g)
	m.mu.Unlock()
	return m.save(ctx)
}

// scheduleLocked arms the end timer. Callers hold m.mu.
func (m *Manager) scheduleLocked(g models.Giveaway) {
	if t, ok := m.timers[g.ID]; ok {
		t.Stop()
	}
	wait := g.EndsAt.Sub(m.now())
	if wait < 0 {
		wait = 0
	}
	id := g.ID
	m.timers[id] = time.AfterFunc(wait, func() {
		if _, err := m.End(context.Background(), id); err != nil && !errors.Is(err, ErrNotFound) {
			logger.Error(fmt.Sprintf("Fin du giveaway %s: %v", id, err), "Giveaway")
		}
	})
}

// End draws the winners of a running giveaway and announces them.
func (m *Manager) End(ctx context.Context, id string) ([]string, error) {
	m.mu.Lock()
	g, ok := m.active[id]
	if !ok || g.Ended {
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	g.Ended = true
	m.active[id] = g
	if t, ok := m.timers[id]; ok {
		t.Stop()
		delete(m.timers, id)
	}
	m.mu.Unlock()

	entrants, err := m.client.Reactors(g.ChannelID, g.MessageID, Emoji)
	if err != nil {
		return nil, fmt.Errorf("fetch entrants: %w", err)
	}

	m.mu.Lock()
	winners := PickWinners(m.rng, entrants, g.Winners)
	g.WinnerIDs = winners
	m.active[id] = g
	m.mu.Unlock()

	if err := m.client.SendMessage(g.ChannelID, ResultMessage(g.Prize, winners)); err != nil {
		logger.Warn(fmt.Sprintf("Annonce du giveaway %s: %v", id, err), "Giveaway")
	}
	err = m.save(ctx)
	if m.OnEnd != nil {
		m.OnEnd(g)
	}
	return winners, err
}

// Reroll draws one new winner among the reactors of a giveaway message.
func (m *Manager) Reroll(channelID, messageID string) (string, error) {
	entrants, err := m.client.Reactors(channelID, messageID, Emoji)
	if err != nil {
		return "", fmt.Errorf("fetch entrants: %w", err)
	}
	m.mu.Lock()
	winners := PickWinners(m.rng, entrants, 1)
	m.mu.Unlock()
	if len(winners) == 0 {
		return "", nil
	}
	return winners[0], nil
}

// Get returns a stored giveaway.
func (m *Manager) Get(id string) (models.Giveaway, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.active[id]
	return g, ok
}

// Running counts giveaways that have not ended.
func (m *Manager) Running() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, g := range m.active {
		if !g.Ended {
			n++
		}
	}
	return n
}

// Close stops every pending timer.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, t := range m.timers {
		t.Stop()
		delete(m.timers, id)
	}
}

// ResultMessage announces the winners, or the lack of participants.
func ResultMessage(prize string, winners []string) string {
	if len(winners) == 0 {
		return "😢 Pas assez de participants pour le giveaway!"
	}
	mentions := make([]string, len(winners))
	for i, id := range winners {
		mentions[i] = "<@" + id + ">"
	}
	return fmt.Sprintf("🎉 Félicitations %s! Vous avez gagné **%s**!", strings.Join(mentions, ", "), prize)
}

// StartEmbed is the giveaway announcement.
func StartEmbed(prize string, winners int, endsAt time.Time, hostName string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "🎉 GIVEAWAY 🎉",
		Description: fmt.Sprintf("**%s**\n\nRéagissez avec %s pour participer!\nGagnants: **%d**\nFin: <t:%d:F> (<t:%d:R>)",
			prize, Emoji, winners, endsAt.Unix(), endsAt.Unix()),
		Color:     0xf1c40f,
		Timestamp: endsAt.Format(time.RFC3339),
		Footer:    &discordgo.MessageEmbedFooter{Text: "Organisé par " + hostName},
	}
}
