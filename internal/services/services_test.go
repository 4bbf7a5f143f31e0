package services

import (
	"context"
	"testing"

	"github.com/PancyStudios/ChiiBot/pkg/config"
	"github.com/PancyStudios/ChiiBot/pkg/storage"
	"github.com/bwmarrin/discordgo"
)

type fakeBot struct {
	ready  bool
	guilds int
}

func (b fakeBot) IsReady() bool   { return b.ready }
func (b fakeBot) GuildCount() int { return b.guilds }

func newTestServices(t *testing.T) *Services {
	t.Helper()
	backend, err := storage.NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	session, err := discordgo.New("Bot test")
	if err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{StorageDriver: config.StorageJSON, OpenAIModel: "gpt-4o-mini", TikTokInterval: 300}
	s := New(cfg, backend, session, nil)
	t.Cleanup(s.Close)
	return s
}

func TestStatus(t *testing.T) {
	s := newTestServices(t)
	st := s.Status(fakeBot{ready: true, guilds: 3})

	if !st.Ready || st.Guilds != 3 {
		t.Errorf("Status() = %+v, want ready with 3 guilds", st)
	}
	if st.Storage != config.StorageJSON {
		t.Errorf("Storage = %q, want %q", st.Storage, config.StorageJSON)
	}
	if st.Music {
		t.Error("Music = true before StartMusic")
	}
	if st.Giveaways != 0 || st.Tickets != 0 {
		t.Errorf("Giveaways, Tickets = %d, %d, want 0, 0", st.Giveaways, st.Tickets)
	}
}

func TestRank(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	if _, err := s.Rank("g", "u"); err == nil {
		t.Error("Rank() unknown member err = nil")
	}

	if err := s.Levels.SetXP(ctx, "g", "u", 1100); err != nil {
		t.Fatal(err)
	}
	if err := s.Levels.SetXP(ctx, "g", "other", 5000); err != nil {
		t.Fatal(err)
	}
	got, err := s.Rank("g", "u")
	if err != nil {
		t.Fatal(err)
	}
	if got["level"] != 10 {
		t.Errorf("level = %v, want 10", got["level"])
	}
	if got["rank"] != 2 {
		t.Errorf("rank = %v, want 2", got["rank"])
	}
}
