// Package moderation holds the warning ledger, the anti-link filter and the
// helpers shared by the moderation commands.
package moderation

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/PancyStudios/ChiiBot/pkg/models"
	"github.com/PancyStudios/ChiiBot/pkg/storage"
	"github.com/google/uuid"
)

// BanThreshold is the warning count that triggers an automatic ban
const BanThreshold = 5

// DefaultReason is used when a moderator gives no reason
const DefaultReason = "Aucune raison spécifiée"

type warningsDocument map[string]map[string]models.WarningRecord

// AddResult describes the state of a record after a warning was added.
type AddResult struct {
	Record models.WarningRecord
	Entry  models.WarningEntry
	// ShouldBan is true exactly once per record: the caller owns the ban.
	ShouldBan bool
}

// Ledger stores warnings per guild and member.
type Ledger struct {
	backend storage.Backend
	mu      sync.Mutex
	data    warningsDocument
	now     func() time.Time
}

// NewLedger creates an empty ledger. Call Load before use.
func NewLedger(backend storage.Backend) *Ledger {
	return &Ledger{backend: backend, data: make(warningsDocument), now: time.Now}
}

// Load reads the warnings document.
func (l *Ledger) Load(ctx context.Context) error {
	doc := make(warningsDocument)
	if _, err := l.backend.Load(ctx, storage.KeyWarnings, &doc); err != nil {
		return fmt.Errorf("load warnings: %w", err)
	}
	l.mu.Lock()
	l.data = doc
	l.mu.Unlock()

	total := 0
	for _, users := range doc {
		total += len(users)
	}
	logger.Info(fmt.Sprintf("Avertissements chargés: %d utilisateurs", total), "AntiLink")
	return nil
}

func (l *Ledger) saveLocked(ctx context.Context) error {
	if err := l.backend.Save(ctx, storage.KeyWarnings, l.data); err != nil {
		return fmt.Errorf("save warnings: %w", err)
	}
	return nil
}

// Add appends a warning. The record is flagged banned when it first reaches
// BanThreshold, so concurrent or repeated warnings never ask for a second ban.
func (l *Ledger) Add(ctx context.Context, guildID, userID, reason, moderator string) (AddResult, error) {
	if reason == "" {
		reason = DefaultReason
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	users, ok := l.data[guildID]
	if !ok {
		users = make(map[string]models.WarningRecord)
		l.data[guildID] = users
	}
	rec := users[userID]

	entry := models.WarningEntry{
		ID:        uuid.New().String()[:8],
		Reason:    reason,
		Moderator: moderator,
		Timestamp: l.now().Unix(),
	}
	rec.Entries = append(rec.Entries, entry)
	rec.Reasons = append(rec.Reasons, reason)
	rec.Count++

	res := AddResult{Entry: entry}
	if rec.Count >= BanThreshold && !rec.Banned {
		rec.Banned = true
		res.ShouldBan = true
	}
	users[userID] = rec
	res.Record = cloneRecord(rec)

	return res, l.saveLocked(ctx)
}

// ReleaseBan clears the banned flag after a failed ban so the next warning retries.
func (l *Ledger) ReleaseBan(ctx context.Context, guildID, userID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.data[guildID][userID]
	if !ok {
		return nil
	}
	rec.Banned = false
	l.data[guildID][userID] = rec
	return l.saveLocked(ctx)
}

// Get returns a member's record.
func (l *Ledger) Get(guildID, userID string) (models.WarningRecord, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.data[guildID][userID]
	return cloneRecord(rec), ok
}

// MemberWarnings is a row of List
type MemberWarnings struct {
	UserID string
	Record models.WarningRecord
}

// List returns every warned member of a guild, most warned first.
func (l *Ledger) List(guildID string) []MemberWarnings {
	l.mu.Lock()
	out := make([]MemberWarnings, 0, len(l.data[guildID]))
	for user, rec := range l.data[guildID] {
		if rec.Count == 0 {
			continue
		}
		out = append(out, MemberWarnings{UserID: user, Record: cloneRecord(rec)})
	}
	l.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Record.Count != out[j].Record.Count {
			return out[i].Record.Count > out[j].Record.Count
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}

// Clear removes every warning of a member. It reports false when there was nothing to clear.
func (l *Ledger) Clear(ctx context.Context, guildID, userID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.data[guildID][userID]; !ok {
		return false, nil
	}
	delete(l.data[guildID], userID)
	return true, l.saveLocked(ctx)
}

// Remove deletes a single warning by id.
func (l *Ledger) Remove(ctx context.Context, guildID, userID, id string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.data[guildID][userID]
	if !ok {
		return false, nil
	}
	for i, e := range rec.Entries {
		if e.ID != id {
			continue
		}
		rec.Entries = append(rec.Entries[:i:i], rec.Entries[i+1:]...)
		rec.Reasons = make([]string, len(rec.Entries))
		for j, entry := range rec.Entries {
			rec.Reasons[j] = entry.Reason
		}
		rec.Count = len(rec.Entries)
		if rec.Count < BanThreshold {
			rec.Banned = false
		}
		l.data[guildID][userID] = rec
		return true, l.saveLocked(ctx)
	}
	return false, nil
}

func cloneRecord(rec models.WarningRecord) models.WarningRecord {
	rec.Reasons = append([]string(nil), rec.Reasons...)
	rec.Entries = append([]models.WarningEntry(nil), rec.Entries...)
	return rec
}
