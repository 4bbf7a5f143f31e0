// Package tiktok polls TikTok accounts linked to Discord members and reports
// new videos and lives.
package tiktok

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/PancyStudios/ChiiBot/pkg/models"
	"github.com/PancyStudios/ChiiBot/pkg/storage"
)

const (
	DefaultInterval = 5 * time.Minute
	MinInterval     = time.Minute
	DefaultDelay    = 2 * time.Second
)

// ErrIntervalTooShort is returned by SetInterval below MinInterval.
var ErrIntervalTooShort = errors.New("interval below one minute")

// Notifier publishes the detected events.
type Notifier interface {
	NotifyVideo(ctx context.Context, userID, username string, st Status) error
	NotifyLive(ctx context.Context, userID, username string) error
}

// Event is what CheckAccount detected
type Event struct {
	Baseline bool
	NewVideo bool
	WentLive bool
}

// Account is a linked Discord member
type Account struct {
	UserID   string
	Username string
}

// Round summarises a CheckAll pass
type Round struct {
	Checked int
	Failed  int
}

// Poller keeps the TikTok cache and runs the periodic check.
type Poller struct {
	backend  storage.Backend
	fetcher  Fetcher
	notifier Notifier

	mu       sync.Mutex
	cache    models.TikTokCache
	interval time.Duration
	delay    time.Duration

	reset chan time.Duration
	sleep func(ctx context.Context, d time.Duration) error
}

func NewPoller(backend storage.Backend, fetcher Fetcher, notifier Notifier, interval, delay time.Duration) *Poller {
	if interval < MinInterval {
		interval = DefaultInterval
	}
	if delay < 0 {
		delay = DefaultDelay
	}
	return &Poller{
		backend:  backend,
		fetcher:  fetcher,
		notifier: notifier,
		cache:    emptyCache(),
		interval: interval,
		delay:    delay,
		reset:    make(chan time.Duration, 1),
		sleep:    sleepCtx,
	}
}

func emptyCache() models.TikTokCache {
	return models.TikTokCache{
		Usernames:     make(map[string]string),
		LastVideoTime: make(map[string]int64),
		LiveStatus:    make(map[string]bool),
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Load reads the cache. A stored interval overrides the configured one.
func (p *Poller) Load(ctx context.Context) error {
	c := emptyCache()
	if _, err := p.backend.Load(ctx, storage.KeyTikTok, &c); err != nil {
		return fmt.Errorf("load tiktok cache: %w", err)
	}
	if c.Usernames == nil {
		c.Usernames = make(map[string]string)
	}
	if c.LastVideoTime == nil {
		c.LastVideoTime = make(map[string]int64)
	}
	if c.LiveStatus == nil {
		c.LiveStatus = make(map[string]bool)
	}

	p.mu.Lock()
	p.cache = c
	if d := time.Duration(c.Interval) * time.Second; d >= MinInterval {
		p.interval = d
	}
	p.mu.Unlock()

	logger.Info(fmt.Sprintf("Cache TikTok chargé: %d comptes", len(c.Usernames)), "TikTok")
	return nil
}

// Save persists the cache.
func (p *Poller) Save(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saveLocked(ctx)
}

func (p *Poller) saveLocked(ctx context.Context) error {
	p.cache.Interval = int(p.interval / time.Second)
	if err := p.backend.Save(ctx, storage.KeyTikTok, p.cache); err != nil {
		return fmt.Errorf("save tiktok cache: %w", err)
	}
	return nil
}

// SetAccount links a member to a TikTok username. Previous state is dropped
// so the next check sets a fresh baseline.
func (p *Poller) SetAccount(ctx context.Context, userID, username string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cache.Usernames[userID] = username
	delete(p.cache.LastVideoTime, userID)
	delete(p.cache.LiveStatus, userID)
	return p.saveLocked(ctx)
}

// RemoveAccount unlinks a member and returns the username it had.
func (p *Poller) RemoveAccount(ctx context.Context, userID string) (string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	username, ok := p.cache.Usernames[userID]
	if !ok {
		return "", false, nil
	}
	delete(p.cache.Usernames, userID)
	delete(p.cache.LastVideoTime, userID)
	delete(p.cache.LiveStatus, userID)
	return username, true, p.saveLocked(ctx)
}

// Accounts returns the linked accounts sorted by user id.
func (p *Poller) Accounts() []Account {
	p.mu.Lock()
	out := make([]Account, 0, len(p.cache.Usernames))
	for id, name := range p.cache.Usernames {
		out = append(out, Account{UserID: id, Username: name})
	}
	p.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

func (p *Poller) Interval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interval
}

// SetInterval changes the polling interval of a running loop.
func (p *Poller) SetInterval(ctx context.Context, d time.Duration) error {
	if d < MinInterval {
		return ErrIntervalTooShort
	}
	p.mu.Lock()
	p.interval = d
	err := p.saveLocked(ctx)
	p.mu.Unlock()

	select {
	case <-p.reset:
	default:
	}
	p.reset <- d
	return err
}

// CheckAccount fetches one account and compares it with the cache. The first
// observation only records a baseline.
func (p *Poller) CheckAccount(ctx context.Context, userID, username string) (Event, error) {
	st, err := p.fetcher.Fetch(ctx, username)
	if err != nil {
		return Event{}, err
	}

	var ev Event
	p.mu.Lock()
	last, seenVideo := p.cache.LastVideoTime[userID]
	wasLive, seenLive := p.cache.LiveStatus[userID]

	var latest int64
	if !st.LatestVideoAt.IsZero() {
		latest = st.LatestVideoAt.Unix()
	}
	switch {
	case !seenVideo:
		p.cache.LastVideoTime[userID] = latest
		ev.Baseline = true
	case latest > last:
		p.cache.LastVideoTime[userID] = latest
		ev.NewVideo = true
	}

	if !seenLive {
		ev.Baseline = true
	} else if !wasLive && st.IsLive {
		ev.WentLive = true
	}
	p.cache.LiveStatus[userID] = st.IsLive
	p.mu.Unlock()

	if ev.Baseline && !seenVideo {
		logger.Info(fmt.Sprintf("Première vérification de @%s, référence enregistrée", username), "TikTok")
	}
	if p.notifier == nil {
		return ev, nil
	}
	if ev.NewVideo {
		if err := p.notifier.NotifyVideo(ctx, userID, username, st); err != nil {
			logger.Error(fmt.Sprintf("Erreur lors de l'annonce de la vidéo de @%s: %v", username, err), "TikTok")
		}
	}
	if ev.WentLive {
		if err := p.notifier.NotifyLive(ctx, userID, username); err != nil {
			logger.Error(fmt.Sprintf("Erreur lors de l'annonce du live de @%s: %v", username, err), "TikTok")
		}
	}
	return ev, nil
}

// CheckAll checks every account sequentially with a delay between requests.
// A failing account does not stop the round.
func (p *Poller) CheckAll(ctx context.Context) Round {
	accounts := p.Accounts()
	var round Round
	if len(accounts) == 0 {
		return round
	}
	logger.Info(fmt.Sprintf("Vérification de %d comptes TikTok", len(accounts)), "TikTok")

	disabledLogged := false
	for i, acc := range accounts {
		if i > 0 {
			if err := p.sleep(ctx, p.delay); err != nil {
				break
			}
		}
		round.Checked++
		if _, err := p.CheckAccount(ctx, acc.UserID, acc.Username); err != nil {
			round.Failed++
			if errors.Is(err, ErrFetcherDisabled) {
				if !disabledLogged {
					logger.Warn("Aucune API TikTok configurée (tiktokApiUrl), vérification ignorée", "TikTok")
					disabledLogged = true
				}
				continue
			}
			logger.Error(fmt.Sprintf("Erreur lors de la vérification de @%s: %v", acc.Username, err), "TikTok")
		}
	}

	if err := p.Save(ctx); err != nil {
		logger.Error(err.Error(), "TikTok")
	}
	return round
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.Interval())
	defer ticker.Stop()
	logger.System(fmt.Sprintf("Tâche de notifications TikTok démarrée (toutes les %s)", p.Interval()), "TikTok")

	for {
		select {
		case <-ctx.Done():
			return
		case d := <-p.reset:
			ticker.Reset(d)
			logger.Info(fmt.Sprintf("Intervalle TikTok changé à %s", d), "TikTok")
		case <-ticker.C:
			p.CheckAll(ctx)
		}
	}
}
