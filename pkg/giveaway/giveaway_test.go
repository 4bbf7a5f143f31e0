package giveaway

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PancyStudios/ChiiBot/pkg/models"
	"github.com/PancyStudios/ChiiBot/pkg/storage"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr error
	}{
		{"30s", 30 * time.Second, nil},
		{"5m", 5 * time.Minute, nil},
		{"2H", 2 * time.Hour, nil},
		{"1d", 24 * time.Hour, nil},
		{"10x", 0, ErrInvalidUnit},
		{"m", 0, ErrInvalidDuration},
		{"abcm", 0, ErrInvalidDuration},
		{"0m", 0, ErrInvalidDuration},
	}
	for _, tt := range tests {
		got, err := ParseDuration(tt.in)
		if got != tt.want || !errors.Is(err, tt.wantErr) {
			t.Errorf("ParseDuration(%q) = %v, %v, want %v, %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestPickWinners(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	entrants := []string{"a", "b", "c", "d", "e"}

	for i := 0; i < 20; i++ {
		got := PickWinners(r, entrants, 3)
		if len(got) != 3 {
			t.Fatalf("len = %v, want 3", len(got))
		}
		seen := map[string]bool{}
		for _, w := range got {
			if seen[w] {
				t.Fatalf("duplicate winner in %v", got)
			}
			seen[w] = true
		}
	}

	if got := PickWinners(r, entrants[:2], 3); len(got) != 2 {
		t.Errorf("fewer entrants than winners = %v, want all 2", got)
	}
	if got := PickWinners(r, nil, 1); got != nil {
		t.Errorf("no entrants = %v, want nil", got)
	}
}

type fakeClient struct {
	mu       sync.Mutex
	reactors []string
	messages []string
}

func (f *fakeClient) Reactors(_, _, _ string) ([]string, error) {
	return f.reactors, nil
}

func (f *fakeClient) SendMessage(_, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, content)
	return nil
}

func newManager(t *testing.T) (*Manager, *fakeClient, storage.Backend) {
	t.Helper()
	b, err := storage.NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := &fakeClient{reactors: []string{"u1", "u2"}}
	m := NewManager(b, c)
	t.Cleanup(m.Close)
	return m, c, b
}

func TestEndAnnouncesOnce(t *testing.T) {
	m, c, _ := newManager(t)
	ctx := context.Background()
	g := models.Giveaway{MessageID: "msg", ChannelID: "ch", Prize: "Nitro", Winners: 1, EndsAt: time.Now().Add(time.Hour)}
	if err := m.Start(ctx, g); err != nil {
		t.Fatal(err)
	}

	winners, err := m.End(ctx, "msg")
	if err != nil || len(winners) != 1 {
		t.Fatalf("End() = %v, %v", winners, err)
	}
	if !strings.Contains(c.messages[0], "Nitro") {
		t.Errorf("announcement = %q", c.messages[0])
	}
	if _, err := m.End(ctx, "msg"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second End() error = %v, want ErrNotFound", err)
	}
	if stored, _ := m.Get("msg"); !stored.Ended || len(stored.WinnerIDs) != 1 {
		t.Errorf("stored = %+v", stored)
	}
}

func TestStartRejectsZeroWinners(t *testing.T) {
	m, _, _ := newManager(t)
	if err := m.Start(context.Background(), models.Giveaway{MessageID: "x"}); !errors.Is(err, ErrInvalidWinners) {
		t.Errorf("Start() = %v, want ErrInvalidWinners", err)
	}
}

func TestLoadReschedulesOverdue(t *testing.T) {
	_, _, b := newManager(t)
	ctx := context.Background()
	stored := map[string]models.Giveaway{
		"old":  {ID: "old", MessageID: "old", Winners: 1, Prize: "p", EndsAt: time.Now().Add(-time.Minute)},
		"done": {ID: "done", Ended: true, EndsAt: time.Now().Add(-30 * 24 * time.Hour)},
	}
	if err := b.Save(ctx, storage.KeyGiveaways, stored); err != nil {
		t.Fatal(err)
	}

	c := &fakeClient{reactors: []string{"u1"}}
	m := NewManager(b, c)
	defer m.Close()
	ended := make(chan models.Giveaway, 1)
	m.OnEnd = func(g models.Giveaway) { ended <- g }

	if err := m.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if _, ok := m.Get("done"); ok {
		t.Error("expired finished giveaway kept")
	}

	select {
	case g := <-ended:
		if g.ID != "old" || len(g.WinnerIDs) != 1 || g.WinnerIDs[0] != "u1" {
			t.Errorf("ended = %+v", g)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("overdue giveaway was not ended after Load")
	}
}

func TestReroll(t *testing.T) {
	m, c, _ := newManager(t)
	if w, err := m.Reroll("ch", "msg"); err != nil || (w != "u1" && w != "u2") {
		t.Errorf("Reroll() = %q, %v", w, err)
	}
	c.reactors = nil
	if w, _ := m.Reroll("ch", "msg"); w != "" {
		t.Errorf("Reroll(no entrants) = %q, want empty", w)
	}
}

func TestResultMessage(t *testing.T) {
	if got := ResultMessage("Nitro", []string{"1", "2"}); got != "🎉 Félicitations <@1>, <@2>! Vous avez gagné **Nitro**!" {
		t.Errorf("ResultMessage() = %q", got)
	}
	if got := ResultMessage("Nitro", nil); !strings.Contains(got, "Pas assez") {
		t.Errorf("ResultMessage(nil) = %q", got)
	}
}
