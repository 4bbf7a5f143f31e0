package leveling

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/PancyStudios/ChiiBot/pkg/models"
	"github.com/PancyStudios/ChiiBot/pkg/storage"
)

const (
	// Cooldown between two XP awards for the same member
	Cooldown = 60 * time.Second
	MinGain  = 15
	MaxGain  = 25
	// SaveEvery persists the XP document every n awards
	SaveEvery = 10
)

// LevelUp is returned by AwardMessage when the award crossed a level threshold
type LevelUp struct {
	GuildID  string
	UserID   string
	OldLevel int
	NewLevel int
	XP       int
}

// Entry is a leaderboard row
type Entry struct {
	UserID string
	XP     int
	Level  int
}

type levelsDocument map[string]map[string]models.XPRecord

// Service owns the XP records of every guild.
type Service struct {
	backend storage.Backend

	mu        sync.Mutex
	data      levelsDocument
	cooldowns map[string]time.Time
	awards    int

	now  func() time.Time
	gain func() int
}

// Option configures a Service
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithGain replaces the random XP gain.
func WithGain(gain func() int) Option {
	return func(s *Service) { s.gain = gain }
}

// NewService creates a service backed by backend. Call Load before use.
func NewService(backend storage.Backend, opts ...Option) *Service {
	s := &Service{
		backend:   backend,
		data:      make(levelsDocument),
		cooldowns: make(map[string]time.Time),
		now:       time.Now,
		gain:      func() int { return MinGain + rand.IntN(MaxGain-MinGain+1) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the XP document. A missing document starts empty.
func (s *Service) Load(ctx context.Context) error {
	doc := make(levelsDocument)
	found, err := s.backend.Load(ctx, storage.KeyLevels, &doc)
	if err != nil {
		return fmt.Errorf("load levels: %w", err)
	}

	s.mu.Lock()
	s.data = doc
	s.mu.Unlock()

	if found {
		logger.Info(fmt.Sprintf("Données de niveaux chargées pour %d serveurs", len(doc)), "Levels")
	} else {
		logger.Info("Aucune donnée de niveaux trouvée, création d'un nouveau document", "Levels")
	}
	return nil
}

// Save persists the XP document.
func (s *Service) Save(ctx context.Context) error {
	s.mu.Lock()
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.backend.Save(ctx, storage.KeyLevels, snapshot); err != nil {
		return fmt.Errorf("save levels: %w", err)
	}
	return nil
}

func (s *Service) snapshotLocked() levelsDocument {
	out := make(levelsDocument, len(s.data))
	for guild, users := range s.data {
		copied := make(map[string]models.XPRecord, len(users))
		for user, rec := range users {
			copied[user] = rec
		}
		out[guild] = copied
	}
	return out
}

// AwardMessage grants XP for a message. It returns nil when the member is on
// cooldown or did not change level.
func (s *Service) AwardMessage(ctx context.Context, guildID, userID string) (*LevelUp, error) {
	s.mu.Lock()

	now := s.now()
	key := guildID + ":" + userID
	if last, ok := s.cooldowns[key]; ok && now.Sub(last) < Cooldown {
		s.mu.Unlock()
		return nil, nil
	}
	s.cooldowns[key] = now

	users, ok := s.data[guildID]
	if !ok {
		users = make(map[string]models.XPRecord)
		s.data[guildID] = users
	}
	rec := users[userID]

	oldLevel := LevelForXP(rec.XP)
	rec.XP += s.gain()
	newLevel := LevelForXP(rec.XP)
	rec.Level = newLevel
	users[userID] = rec

	s.awards++
	shouldSave := s.awards%SaveEvery == 0
	var snapshot levelsDocument
	if shouldSave {
		snapshot = s.snapshotLocked()
	}
	s.mu.Unlock()

	if shouldSave {
		if err := s.backend.Save(ctx, storage.KeyLevels, snapshot); err != nil {
			logger.Error(fmt.Sprintf("Erreur lors de la sauvegarde des données de niveaux: %v", err), "Levels")
		}
	}

	if newLevel <= oldLevel {
		return nil, nil
	}
	return &LevelUp{GuildID: guildID, UserID: userID, OldLevel: oldLevel, NewLevel: newLevel, XP: rec.XP}, nil
}

// Get returns a member's record.
func (s *Service) Get(guildID, userID string) (models.XPRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.data[guildID][userID]
	return rec, ok
}

// SetXP overwrites a member's XP and recomputes the level.
func (s *Service) SetXP(ctx context.Context, guildID, userID string, xp int) error {
	if xp < 0 {
		xp = 0
	}
	s.mu.Lock()
	users, ok := s.data[guildID]
	if !ok {
		users = make(map[string]models.XPRecord)
		s.data[guildID] = users
	}
	users[userID] = models.XPRecord{XP: xp, Level: LevelForXP(xp)}
	s.mu.Unlock()
	return s.Save(ctx)
}

// Reset sets a member back to zero XP. It reports false if the member had no record.
func (s *Service) Reset(ctx context.Context, guildID, userID string) (bool, error) {
	s.mu.Lock()
	users, ok := s.data[guildID]
	if !ok {
		s.mu.Unlock()
		return false, nil
	}
	if _, ok := users[userID]; !ok {
		s.mu.Unlock()
		return false, nil
	}
	users[userID] = models.XPRecord{}
	delete(s.cooldowns, guildID+":"+userID)
	s.mu.Unlock()

	return true, s.Save(ctx)
}

// Leaderboard returns the guild members sorted by XP, limited to n rows (n <= 0 means all).
func (s *Service) Leaderboard(guildID string, n int) []Entry {
	s.mu.Lock()
	entries := make([]Entry, 0, len(s.data[guildID]))
	for user, rec := range s.data[guildID] {
		entries = append(entries, Entry{UserID: user, XP: rec.XP, Level: LevelForXP(rec.XP)})
	}
	s.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].XP != entries[j].XP {
			return entries[i].XP > entries[j].XP
		}
		return entries[i].UserID < entries[j].UserID
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// Rank returns the 1-based position of a member in the guild, or 0 if absent.
func (s *Service) Rank(guildID, userID string) int {
	for i, e := range s.Leaderboard(guildID, 0) {
		if e.UserID == userID {
			return i + 1
		}
	}
	return 0
}
