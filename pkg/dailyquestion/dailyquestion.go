// Package dailyquestion posts one question a day at midnight UTC. Questions
// do not repeat until the list is exhausted; after that the last few used
// questions stay excluded so the new cycle does not start with a repeat.
package dailyquestion

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/PancyStudios/ChiiBot/pkg/models"
	"github.com/PancyStudios/ChiiBot/pkg/storage"
	"github.com/bwmarrin/discordgo"
)

// RecentWindow is how many used questions stay excluded when a cycle restarts.
const RecentWindow = 5

// ErrNoChannel is returned when a guild has no question channel.
var ErrNoChannel = errors.New("no daily question channel")

// Rotation picks questions and remembers each guild's channel.
type Rotation struct {
	backend storage.Backend
	rng     *rand.Rand

	mu    sync.Mutex
	state models.DailyQuestionState
}

func NewRotation(backend storage.Backend) *Rotation {
	return &Rotation{
		backend: backend,
		rng:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 7)),
		state:   defaultState(),
	}
}

func defaultState() models.DailyQuestionState {
	return models.DailyQuestionState{
		Questions: slices.Clone(DefaultQuestions),
		Channels:  make(map[string]string),
	}
}

// Load reads the stored state. Missing fields fall back to the defaults.
func (r *Rotation) Load(ctx context.Context) error {
	var st models.DailyQuestionState
	if _, err := r.backend.Load(ctx, storage.KeyDailyQuestions, &st); err != nil {
		return err
	}
	if len(st.Questions) == 0 {
		st.Questions = slices.Clone(DefaultQuestions)
	}
	if st.Channels == nil {
		st.Channels = make(map[string]string)
	}
	r.mu.Lock()
	r.state = st
	r.mu.Unlock()
	logger.Info(fmt.Sprintf("Questions du jour chargées: %d questions disponibles", len(st.Questions)), "DailyQuestion")
	return nil
}

func (r *Rotation) saveLocked(ctx context.Context) error {
	return r.backend.Save(ctx, storage.KeyDailyQuestions, r.state)
}

// Next picks an unused question and records it as used.
func (r *Rotation) Next(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	available := r.availableLocked()
	if len(available) == 0 {
		if n := len(r.state.UsedQuestions); n > RecentWindow {
			r.state.UsedQuestions = slices.Clone(r.state.UsedQuestions[n-RecentWindow:])
		}
		available = r.availableLocked()
	}
	if len(available) == 0 {
		// fewer questions than the exclusion window
		return r.state.Questions[r.rng.IntN(len(r.state.Questions))], nil
	}

	q := available[r.rng.IntN(len(available))]
	r.state.UsedQuestions = append(r.state.UsedQuestions, q)
	return q, r.saveLocked(ctx)
}

func (r *Rotation) availableLocked() []string {
	var out []string
	for _, q := range r.state.Questions {
		if !slices.Contains(r.state.UsedQuestions, q) {
			out = append(out, q)
		}
	}
	return out
}

// Used returns the questions of the current cycle, oldest first.
func (r *Rotation) Used() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.state.UsedQuestions)
}

// SetChannel stores the question channel of a guild.
func (r *Rotation) SetChannel(ctx context.Context, guildID, channelID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Channels[guildID] = channelID
	return r.saveLocked(ctx)
}

// ResolveChannel finds where to post for a guild: the stored channel, then
// defaultID, then a text channel named like "question du jour" or "daily
// question". A channel found by the fallbacks is remembered.
func (r *Rotation) ResolveChannel(ctx context.Context, guildID string, channels []*discordgo.Channel, defaultID string) (string, error) {
	exists := func(id string) bool {
		return slices.ContainsFunc(channels, func(c *discordgo.Channel) bool { return c.ID == id })
	}

	r.mu.Lock()
	stored := r.state.Channels[guildID]
	r.mu.Unlock()
	if stored != "" && exists(stored) {
		return stored, nil
	}

	found := ""
	if defaultID != "" && exists(defaultID) {
		found = defaultID
	} else {
		for _, c := range channels {
			if c.Type == discordgo.ChannelTypeGuildText && isQuestionChannel(c.Name) {
				found = c.ID
				break
			}
		}
	}
	if found == "" {
		return "", ErrNoChannel
	}
	return found, r.SetChannel(ctx, guildID, found)
}

func isQuestionChannel(name string) bool {
	name = strings.ToLower(name)
	if !strings.Contains(name, "question") {
		return false
	}
	return strings.Contains(name, "jour") || strings.Contains(name, "daily")
}

// NextMidnight returns the next 00:00 UTC strictly after now.
func NextMidnight(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
}

// Embed renders a question.
func Embed(question string, now time.Time) *discordgo.MessageEmbed {
	now = now.UTC()
	return &discordgo.MessageEmbed{
		Title:       "❓ Question du Jour",
		Description: question,
		Color:       0xf1c40f,
		Timestamp:   now.Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{{
			Name:  "Participez!",
			Value: "Répondez à cette question pour animer la communauté! 💬",
		}},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Question du %s • Nouvelle question demain à minuit", now.Format("02/01/2006")),
		},
	}
}

// Run calls post at every midnight UTC until ctx is cancelled.
func Run(ctx context.Context, post func(context.Context)) {
	for {
		next := NextMidnight(time.Now())
		wait := time.Until(next)
		logger.Info(fmt.Sprintf("Prochaine question du jour dans %s", wait.Round(time.Second)), "DailyQuestion")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			post(ctx)
		}
	}
}
