// Package invites works out which invite a new member used by diffing the
// guild's invite use counters, and keeps a per-inviter tally.
package invites

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/PancyStudios/ChiiBot/pkg/storage"
	"github.com/bwmarrin/discordgo"
)

// Unknown is the tally key for invites without an inviter (vanity URLs, widgets).
const Unknown = "unknown"

// Invite is the part of a guild invite the tracker needs.
type Invite struct {
	Code      string
	Uses      int
	InviterID string
}

// Lister fetches the current invites of a guild.
type Lister interface {
	GuildInvites(guildID string) ([]Invite, error)
}

// Result identifies the invite a member joined with.
type Result struct {
	Code      string
	InviterID string
	Count     int
}

// Entry is one leaderboard line.
type Entry struct {
	InviterID string
	Count     int
}

// Tracker holds the invite cache and the persisted tallies.
type Tracker struct {
	backend storage.Backend
	lister  Lister

	mu     sync.Mutex
	uses   map[string]map[string]int
	counts map[string]map[string]int
}

func NewTracker(backend storage.Backend, lister Lister) *Tracker {
	return &Tracker{
		backend: backend,
		lister:  lister,
		uses:    make(map[string]map[string]int),
		counts:  make(map[string]map[string]int),
	}
}

// Load reads the tallies. The use cache is rebuilt with Refresh.
func (t *Tracker) Load(ctx context.Context) error {
	counts := make(map[string]map[string]int)
	if _, err := t.backend.Load(ctx, storage.KeyInvites, &counts); err != nil {
		return err
	}
	t.mu.Lock()
	t.counts = counts
	t.mu.Unlock()
	return nil
}

func (t *Tracker) save(ctx context.Context) error {
	t.mu.Lock()
	snapshot := make(map[string]map[string]int, len(t.counts))
	for g, m := range t.counts {
		inner := make(map[string]int, len(m))
		for k, v := range m {
			inner[k] = v
		}
		snapshot[g] = inner
	}
	t.mu.Unlock()
	return t.backend.Save(ctx, storage.KeyInvites, snapshot)
}

// Refresh replaces the cached use counters of a guild.
func (t *Tracker) Refresh(guildID string) error {
	invites, err := t.lister.GuildInvites(guildID)
	if err != nil {
		return fmt.Errorf("list invites: %w", err)
	}
	t.mu.Lock()
	t.uses[guildID] = usesOf(invites)
	t.mu.Unlock()
	logger.Info(fmt.Sprintf("Invitations initialisées pour %s: %d invitations", guildID, len(invites)), "Invites")
	return nil
}

// Created caches a new invite.
func (t *Tracker) Created(guildID, code string, uses int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.uses[guildID] == nil {
		t.uses[guildID] = make(map[string]int)
	}
	t.uses[guildID][code] = uses
}

// Deleted drops an invite from the cache.
func (t *Tracker) Deleted(guildID, code string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.uses[guildID], code)
}

// Forget removes everything known about a guild the bot left.
func (t *Tracker) Forget(ctx context.Context, guildID string) error {
	t.mu.Lock()
	delete(t.uses, guildID)
	delete(t.counts, guildID)
	t.mu.Unlock()
	return t.save(ctx)
}

// Resolve fetches the current invites, compares them with the cache and
// credits the inviter of the first invite that is new or gained uses.
// It returns nil when no invite changed.
func (t *Tracker) Resolve(ctx context.Context, guildID string) (*Result, error) {
	current, err := t.lister.GuildInvites(guildID)
	if err != nil {
		return nil, fmt.Errorf("list invites: %w", err)
	}

	t.mu.Lock()
	before := t.uses[guildID]
	t.uses[guildID] = usesOf(current)

	var res *Result
	for _, inv := range current {
		prev, known := before[inv.Code]
		if known && inv.Uses <= prev {
			continue
		}
		inviter := inv.InviterID
		if inviter == "" {
			inviter = Unknown
		}
		if t.counts[guildID] == nil {
			t.counts[guildID] = make(map[string]int)
		}
		t.counts[guildID][inviter]++
		res = &Result{Code: inv.Code, InviterID: inviter, Count: t.counts[guildID][inviter]}
		break
	}
	t.mu.Unlock()

	if res == nil {
		logger.Warn(fmt.Sprintf("Aucune invitation utilisée trouvée pour %s", guildID), "Invites")
		return nil, nil
	}
	return res, t.save(ctx)
}

// Count returns how many members a user invited.
func (t *Tracker) Count(guildID, userID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[guildID][userID]
}

// Top returns the n best inviters, highest first.
func (t *Tracker) Top(guildID string, n int) []Entry {
	t.mu.Lock()
	entries := make([]Entry, 0, len(t.counts[guildID]))
	for id, c := range t.counts[guildID] {
		if c > 0 {
			entries = append(entries, Entry{InviterID: id, Count: c})
		}
	}
	t.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].InviterID < entries[j].InviterID
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

func usesOf(invites []Invite) map[string]int {
	m := make(map[string]int, len(invites))
	for _, inv := range invites {
		m[inv.Code] = inv.Uses
	}
	return m
}

// CountMessage is the reply to the invites command.
func CountMessage(mention string, count int) string {
	if count == 0 {
		return fmt.Sprintf("%s n'a pas encore invité de personnes sur ce serveur.", mention)
	}
	plural := ""
	if count > 1 {
		plural = "s"
	}
	return fmt.Sprintf("🎉 %s a invité **%d** personne%s sur ce serveur !", mention, count, plural)
}

// LeaderboardEmbed renders the top inviters. name resolves a user id to a display name.
func LeaderboardEmbed(entries []Entry, name func(id string) string) *discordgo.MessageEmbed {
	var b strings.Builder
	for i, e := range entries {
		medal := fmt.Sprintf("**%d.**", i+1)
		switch i {
		case 0:
			medal = "🥇"
		case 1:
			medal = "🥈"
		case 2:
			medal = "🥉"
		}
		who := "Inviteur inconnu"
		if e.InviterID != Unknown {
			who = name(e.InviterID)
		}
		plural := ""
		if e.Count > 1 {
			plural = "s"
		}
		fmt.Fprintf(&b, "%s **%s** • %d invitation%s\n", medal, who, e.Count, plural)
	}
	if b.Len() == 0 {
		b.WriteString("Aucune invitation trouvée.")
	}
	return &discordgo.MessageEmbed{
		Title:       "🏆 Classement des Invitations",
		Description: b.String(),
		Color:       0xe91e63,
		Footer:      &discordgo.MessageEmbedFooter{Text: "✨ Invite tes amis pour faire grandir notre communauté ! ✨"},
	}
}
