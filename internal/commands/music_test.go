package commands

import (
	"errors"
	"strings"
	"testing"

	"github.com/PancyStudios/ChiiBot/pkg/lavalink"
)

func track(title string, length int64) *lavalink.Track {
	return &lavalink.Track{
		Info:      lavalink.TrackInfo{Title: title, URI: "https://example.com/" + title, Length: length},
		Requester: "nini",
	}
}

func TestTrackEmbed(t *testing.T) {
	now := TrackEmbed(track("a", 185000), 0)
	if now.Title != "🎵 Lecture en cours" {
		t.Errorf("Title = %q, want now playing", now.Title)
	}
	if got := now.Fields[len(now.Fields)-1].Value; got != "3:05" {
		t.Errorf("duration = %q, want 3:05", got)
	}

	queued := TrackEmbed(track("b", 0), 3)
	if queued.Title != "✅ Ajouté à la queue" {
		t.Errorf("Title = %q, want queued", queued.Title)
	}
	if queued.Fields[0].Value != "#3" {
		t.Errorf("position = %q, want #3", queued.Fields[0].Value)
	}
	for _, f := range queued.Fields {
		if f.Name == "Durée" {
			t.Error("zero length track shows a duration")
		}
	}
}

func TestQueueEmbed(t *testing.T) {
	if QueueEmbed(nil, nil) != nil {
		t.Error("QueueEmbed(nil, nil) != nil")
	}

	embed := QueueEmbed(track("a", 1000), []*lavalink.Track{track("b", 1000), track("c", 1000)})
	if len(embed.Fields) != 2 {
		t.Fatalf("len(Fields) = %d, want 2", len(embed.Fields))
	}
	next := embed.Fields[1].Value
	if !strings.HasPrefix(next, "1. [b]") || !strings.Contains(next, "2. [c]") {
		t.Errorf("queue field = %q", next)
	}
}

func TestMusicError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{lavalink.ErrNothingPlaying, "❌ Je ne joue rien actuellement."},
		{lavalink.ErrAlreadyPaused, "⚠️ La musique est déjà en pause."},
		{lavalink.ErrInvalidVolume, "⚠️ Le volume doit être entre 0 et 100."},
		{errors.New("boom"), "❌ Erreur: boom"},
	}
	for _, tt := range tests {
		if got := musicError(tt.err); got != tt.want {
			t.Errorf("musicError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
