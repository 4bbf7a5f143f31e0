package web

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/PancyStudios/ChiiBot/pkg/models"
	"github.com/PancyStudios/ChiiBot/pkg/storage"
)

// MaxRestartHistory caps the stored restart timestamps.
const MaxRestartHistory = 10

// ErrNoRestartCommand is returned when no restart command is configured.
var ErrNoRestartCommand = errors.New("no restart command configured")

// Restarter brings the bot back after the health check found it down.
type Restarter interface {
	Restart() error
}

// CommandRestarter runs a shell command and does not wait for it.
type CommandRestarter struct {
	Command string
}

func (r CommandRestarter) Restart() error {
	if r.Command == "" {
		return ErrNoRestartCommand
	}
	cmd := exec.Command("sh", "-c", r.Command)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start restart command: %w", err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// RestartTracker persists restart statistics.
type RestartTracker struct {
	backend storage.Backend
	now     func() time.Time

	mu    sync.Mutex
	stats models.RestartStats
}

func NewRestartTracker(backend storage.Backend) *RestartTracker {
	return &RestartTracker{backend: backend, now: time.Now}
}

func (t *RestartTracker) Load(ctx context.Context) error {
	var st models.RestartStats
	if _, err := t.backend.Load(ctx, storage.KeyRestartStats, &st); err != nil {
		return err
	}
	t.mu.Lock()
	t.stats = st
	t.mu.Unlock()
	return nil
}

// Record counts a restart and keeps the last MaxRestartHistory timestamps.
func (t *RestartTracker) Record(ctx context.Context) error {
	t.mu.Lock()
	now := t.now()
	t.stats.TotalRestarts++
	t.stats.LastRestart = &now
	t.stats.History = append(t.stats.History, now)
	if n := len(t.stats.History); n > MaxRestartHistory {
		t.stats.History = append([]time.Time(nil), t.stats.History[n-MaxRestartHistory:]...)
	}
	snapshot := t.stats
	t.mu.Unlock()
	return t.backend.Save(ctx, storage.KeyRestartStats, snapshot)
}

// Stats returns a copy of the current statistics.
func (t *RestartTracker) Stats() models.RestartStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	st := t.stats
	st.History = append([]time.Time(nil), t.stats.History...)
	return st
}

// Keeper restarts the bot when it stops answering.
type Keeper struct {
	Bot       Bot
	Tracker   *RestartTracker
	Restarter Restarter
}

// Check restarts the bot when it is not ready. It reports whether a restart
// was attempted.
func (k *Keeper) Check(ctx context.Context) bool {
	if k.Bot != nil && k.Bot.IsReady() {
		return false
	}
	logger.Warn("Le bot ne répond pas, tentative de redémarrage...", "KeepAlive")
	if k.Tracker != nil {
		if err := k.Tracker.Record(ctx); err != nil {
			logger.Error(fmt.Sprintf("Enregistrement du redémarrage: %v", err), "KeepAlive")
		}
	}
	if k.Restarter != nil {
		if err := k.Restarter.Restart(); err != nil {
			logger.Error(fmt.Sprintf("Erreur lors du redémarrage du bot: %v", err), "KeepAlive")
		}
	}
	return true
}

// Watch runs Check every interval until ctx is done.
func (k *Keeper) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			k.Check(ctx)
		}
	}
}
