package dailyquestion

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/PancyStudios/ChiiBot/pkg/models"
	"github.com/PancyStudios/ChiiBot/pkg/storage"
	"github.com/bwmarrin/discordgo"
)

func newRotation(t *testing.T, questions []string) (*Rotation, storage.Backend) {
	t.Helper()
	b, err := storage.NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if questions != nil {
		if err := b.Save(context.Background(), storage.KeyDailyQuestions, models.DailyQuestionState{Questions: questions}); err != nil {
			t.Fatal(err)
		}
	}
	r := NewRotation(b)
	if err := r.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	return r, b
}

func TestDefaultsWhenEmpty(t *testing.T) {
	r, _ := newRotation(t, nil)
	if got := len(r.state.Questions); got != len(DefaultQuestions) {
		t.Errorf("questions = %v, want %v", got, len(DefaultQuestions))
	}
}

func TestNoRepeatUntilExhausted(t *testing.T) {
	questions := []string{"q1", "q2", "q3", "q4", "q5", "q6", "q7", "q8"}
	r, _ := newRotation(t, questions)
	ctx := context.Background()

	seen := map[string]bool{}
	for range questions {
		q, err := r.Next(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if seen[q] {
			t.Fatalf("question %q repeated before exhaustion", q)
		}
		seen[q] = true
	}

	recent := r.Used()[len(questions)-RecentWindow:]
	q, _ := r.Next(ctx)
	if slices.Contains(recent, q) {
		t.Errorf("Next() = %q, one of the last %d used %v", q, RecentWindow, recent)
	}
	if got := len(r.Used()); got != RecentWindow+1 {
		t.Errorf("used after reset = %v, want %v", got, RecentWindow+1)
	}
}

func TestTinyListFallsBackToRandom(t *testing.T) {
	r, _ := newRotation(t, []string{"only"})
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if q, err := r.Next(ctx); q != "only" || err != nil {
			t.Fatalf("Next() = %q, %v", q, err)
		}
	}
}

func TestUsedPersists(t *testing.T) {
	r, b := newRotation(t, []string{"a", "b", "c"})
	q, _ := r.Next(context.Background())

	reloaded := NewRotation(b)
	_ = reloaded.Load(context.Background())
	if used := reloaded.Used(); len(used) != 1 || used[0] != q {
		t.Errorf("Used() after reload = %v, want [%s]", used, q)
	}
}

func TestResolveChannel(t *testing.T) {
	r, _ := newRotation(t, nil)
	ctx := context.Background()
	channels := []*discordgo.Channel{
		{ID: "1", Name: "général", Type: discordgo.ChannelTypeGuildText},
		{ID: "2", Name: "❓・question-du-jour", Type: discordgo.ChannelTypeGuildText},
		{ID: "3", Name: "daily-question", Type: discordgo.ChannelTypeGuildVoice},
	}

	got, err := r.ResolveChannel(ctx, "g", channels, "")
	if err != nil || got != "2" {
		t.Fatalf("ResolveChannel(by name) = %v, %v, want 2", got, err)
	}
	// the match is remembered even when a default appears later
	if got, _ := r.ResolveChannel(ctx, "g", channels, "1"); got != "2" {
		t.Errorf("ResolveChannel(stored) = %v, want 2", got)
	}
	if got, _ := r.ResolveChannel(ctx, "h", channels, "1"); got != "1" {
		t.Errorf("ResolveChannel(default) = %v, want 1", got)
	}
	if _, err := r.ResolveChannel(ctx, "x", channels[:1], ""); !errors.Is(err, ErrNoChannel) {
		t.Errorf("ResolveChannel(none) error = %v, want ErrNoChannel", err)
	}
}

func TestNextMidnight(t *testing.T) {
	tests := []struct {
		now, want time.Time
	}{
		{time.Date(2025, 3, 10, 15, 4, 5, 0, time.UTC), time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)},
		{time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)},
		{time.Date(2025, 12, 31, 23, 59, 0, 0, time.UTC), time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{time.Date(2025, 3, 10, 23, 30, 0, 0, time.FixedZone("CET", 3600)), time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		if got := NextMidnight(tt.now); !got.Equal(tt.want) {
			t.Errorf("NextMidnight(%v) = %v, want %v", tt.now, got, tt.want)
		}
	}
}

func TestEmbed(t *testing.T) {
	e := Embed("Quel est ton plat préféré?", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	if e.Footer.Text != "Question du 10/03/2025 • Nouvelle question demain à minuit" {
		t.Errorf("footer = %q", e.Footer.Text)
	}
}
