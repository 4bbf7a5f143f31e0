package lavalink

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/bwmarrin/discordgo"
)

type fakeBackend struct {
	mu      sync.Mutex
	updates map[string][]playerUpdate
	result  *SearchResult
	query   string
	fail    error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{updates: make(map[string][]playerUpdate)}
}

func (f *fakeBackend) loadTracks(_ context.Context, identifier string) (*SearchResult, error) {
	f.query = identifier
	return f.result, nil
}

func (f *fakeBackend) updatePlayer(_ context.Context, guildID string, u playerUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.updates[guildID] = append(f.updates[guildID], u)
	return nil
}

func (f *fakeBackend) setFail(err error) {
	f.mu.Lock()
	f.fail = err
	f.mu.Unlock()
}

func (f *fakeBackend) destroyPlayer(context.Context, string) error { return nil }

func (f *fakeBackend) last(guildID string) playerUpdate {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.updates[guildID]
	return u[len(u)-1]
}

type fakeJoiner struct{ calls []string }

func (f *fakeJoiner) ChannelVoiceJoinManual(gID, cID string, _, _ bool) error {
	f.calls = append(f.calls, gID+":"+cID)
	return nil
}

type recorder struct{ topics []string }

func (r *recorder) Emit(topic string, _ interface{}) { r.topics = append(r.topics, topic) }

func track(title string) *Track {
	return &Track{Encoded: "enc-" + title, Info: TrackInfo{Title: title, URI: "https://yt/" + title}, Requester: "nini"}
}

func newTestClient() (*Client, *fakeBackend, *recorder) {
	b := newFakeBackend()
	r := &recorder{}
	return newClient(&fakeJoiner{}, "bot", b, r), b, r
}

func TestPlayQueuesPerGuild(t *testing.T) {
	c, b, _ := newTestClient()
	ctx := context.Background()

	if pos, err := c.Play(ctx, "g1", track("a")); pos != 0 || err != nil {
		t.Fatalf("Play(idle) = %v, %v, want 0, nil", pos, err)
	}
	if pos, _ := c.Play(ctx, "g1", track("b")); pos != 1 {
		t.Errorf("Play(busy) position = %v, want %v", pos, 1)
	}
	if pos, _ := c.Play(ctx, "g2", track("x")); pos != 0 {
		t.Errorf("Play(other guild) position = %v, want %v", pos, 0)
	}

	if got := *b.last("g1").Track.Encoded; got != "enc-a" {
		t.Errorf("g1 playing %v, want enc-a", got)
	}
	_, q1, _, _ := c.Player("g1").Snapshot()
	_, q2, _, _ := c.Player("g2").Snapshot()
	if len(q1) != 1 || len(q2) != 0 {
		t.Errorf("queue lengths = %d, %d, want 1, 0", len(q1), len(q2))
	}
}

func TestTrackEndAdvances(t *testing.T) {
	c, b, r := newTestClient()
	ctx := context.Background()
	ended := 0
	c.OnQueueEnd = func(*Player) { ended++ }

	_, _ = c.Play(ctx, "g", track("a"))
	_, _ = c.Play(ctx, "g", track("b"))

	// replaced/stopped ends are driven by Skip and Stop
	c.handleFrame(message{Op: "event", Type: "TrackEndEvent", GuildID: "g", Reason: "replaced"})
	if cur, _, _, _ := c.Player("g").Snapshot(); cur.Info.Title != "a" {
		t.Fatalf("current after replaced = %v, want a", cur.Info.Title)
	}

	c.handleFrame(message{Op: "event", Type: "TrackEndEvent", GuildID: "g", Reason: "finished"})
	if cur, _, _, _ := c.Player("g").Snapshot(); cur.Info.Title != "b" {
		t.Errorf("current = %v, want b", cur.Info.Title)
	}
	if got := *b.last("g").Track.Encoded; got != "enc-b" {
		t.Errorf("remote track = %v, want enc-b", got)
	}

	c.handleFrame(message{Op: "event", Type: "TrackEndEvent", GuildID: "g", Reason: "finished"})
	if cur, _, _, _ := c.Player("g").Snapshot(); cur != nil {
		t.Errorf("current after exhaustion = %v, want nil", cur)
	}
	if ended != 1 {
		t.Errorf("OnQueueEnd calls = %v, want %v", ended, 1)
	}
	if last := r.topics[len(r.topics)-1]; last != "chii/music/g/end" {
		t.Errorf("last topic = %v, want chii/music/g/end", last)
	}
}

func TestFailedStartDoesNotBlockQueue(t *testing.T) {
	c, b, _ := newTestClient()
	ctx := context.Background()
	ended := 0
	c.OnQueueEnd = func(*Player) { ended++ }

	_, _ = c.Play(ctx, "g", track("a"))
	_, _ = c.Play(ctx, "g", track("b"))

	b.setFail(errors.New("node down"))
	c.handleFrame(message{Op: "event", Type: "TrackEndEvent", GuildID: "g", Reason: "finished"})
	if cur, q, _, _ := c.Player("g").Snapshot(); cur != nil || len(q) != 0 {
		t.Fatalf("after failed start current = %v, queue = %d, want idle", cur, len(q))
	}
	if ended != 1 {
		t.Errorf("OnQueueEnd calls = %v, want %v", ended, 1)
	}

	b.setFail(nil)
	pos, err := c.Play(ctx, "g", track("c"))
	if pos != 0 || err != nil {
		t.Fatalf("Play() after recovery = %v, %v, want 0, nil", pos, err)
	}
	if got := *b.last("g").Track.Encoded; got != "enc-c" {
		t.Errorf("remote track = %v, want enc-c", got)
	}
}

func TestSkipOverFailedTrack(t *testing.T) {
	c, b, _ := newTestClient()
	ctx := context.Background()

	_, _ = c.Play(ctx, "g", track("a"))
	_, _ = c.Play(ctx, "g", track("b"))
	b.setFail(errors.New("node down"))

	skipped, err := c.Skip(ctx, "g")
	if err == nil {
		t.Error("Skip() error = nil, want start error")
	}
	if skipped == nil || skipped.Info.Title != "a" {
		t.Errorf("Skip() skipped = %v, want a", skipped)
	}
	if cur, _, _, _ := c.Player("g").Snapshot(); cur != nil {
		t.Errorf("current after failed skip = %v, want nil", cur.Info.Title)
	}
}

func TestSkipAndStop(t *testing.T) {
	c, b, _ := newTestClient()
	ctx := context.Background()

	if _, err := c.Skip(ctx, "g"); !errors.Is(err, ErrNothingPlaying) {
		t.Errorf("Skip(idle) error = %v, want ErrNothingPlaying", err)
	}

	_, _ = c.Play(ctx, "g", track("a"))
	_, _ = c.Play(ctx, "g", track("b"))
	skipped, err := c.Skip(ctx, "g")
	if err != nil || skipped.Info.Title != "a" {
		t.Fatalf("Skip() = %v, %v, want a", skipped, err)
	}

	playing, err := c.Stop(ctx, "g")
	if !playing || err != nil {
		t.Errorf("Stop() = %v, %v, want true, nil", playing, err)
	}
	if b.last("g").Track.Encoded != nil {
		t.Error("Stop() did not clear the remote track")
	}
	if cur, q, _, _ := c.Player("g").Snapshot(); cur != nil || len(q) != 0 {
		t.Errorf("after Stop current = %v, queue = %d", cur, len(q))
	}
}

func TestPauseAndVolume(t *testing.T) {
	c, _, _ := newTestClient()
	ctx := context.Background()

	if err := c.Pause(ctx, "g", true); !errors.Is(err, ErrNothingPlaying) {
		t.Errorf("Pause(idle) = %v, want ErrNothingPlaying", err)
	}
	_, _ = c.Play(ctx, "g", track("a"))
	if err := c.Pause(ctx, "g", false); !errors.Is(err, ErrNotPaused) {
		t.Errorf("Resume(playing) = %v, want ErrNotPaused", err)
	}
	if err := c.Pause(ctx, "g", true); err != nil {
		t.Fatalf("Pause() = %v", err)
	}
	if err := c.Pause(ctx, "g", true); !errors.Is(err, ErrAlreadyPaused) {
		t.Errorf("Pause(paused) = %v, want ErrAlreadyPaused", err)
	}

	for _, v := range []int{-1, 101} {
		if err := c.SetVolume(ctx, "g", v); !errors.Is(err, ErrInvalidVolume) {
			t.Errorf("SetVolume(%d) = %v, want ErrInvalidVolume", v, err)
		}
	}
	if err := c.SetVolume(ctx, "g", 80); err != nil {
		t.Fatal(err)
	}
	if _, _, _, vol := c.Player("g").Snapshot(); vol != 80 {
		t.Errorf("volume = %v, want %v", vol, 80)
	}
}

func TestSearch(t *testing.T) {
	c, b, _ := newTestClient()
	b.result = &SearchResult{LoadType: "search", Data: []byte(`[{"encoded":"x","info":{"title":"Song"}}]`)}

	tracks, err := c.Search(context.Background(), "lofi beats", "nini")
	if err != nil || len(tracks) != 1 {
		t.Fatalf("Search() = %v, %v", tracks, err)
	}
	if b.query != "ytsearch:lofi beats" {
		t.Errorf("identifier = %v, want ytsearch:lofi beats", b.query)
	}
	if tracks[0].Requester != "nini" || tracks[0].Info.Title != "Song" {
		t.Errorf("track = %+v", tracks[0])
	}

	b.result = &SearchResult{LoadType: "empty"}
	if _, err := c.Search(context.Background(), "https://x", "n"); !errors.Is(err, ErrNoMatches) {
		t.Errorf("Search(empty) = %v, want ErrNoMatches", err)
	}
	if b.query != "https://x" {
		t.Errorf("URL identifier = %v, want unchanged", b.query)
	}
}

func TestSearchResultPlaylist(t *testing.T) {
	r := &SearchResult{LoadType: "playlist", Data: []byte(`{"info":{"name":"p"},"tracks":[{"encoded":"1"},{"encoded":"2"}]}`)}
	tracks, err := r.Tracks()
	if err != nil || len(tracks) != 2 {
		t.Errorf("Tracks() = %v, %v, want 2 tracks", tracks, err)
	}
	r = &SearchResult{LoadType: "error", Data: []byte(`{"message":"blocked"}`)}
	if _, err := r.Tracks(); err == nil || !strings.Contains(err.Error(), "blocked") {
		t.Errorf("Tracks(error) = %v", err)
	}
}

func TestVoiceUpdatesForwarded(t *testing.T) {
	c, b, _ := newTestClient()
	c.HandleVoiceStateUpdate(nil, &discordgo.VoiceStateUpdate{VoiceState: &discordgo.VoiceState{UserID: "bot", GuildID: "g", ChannelID: "v", SessionID: "s"}})
	if len(b.updates["g"]) != 0 {
		t.Fatal("voice update sent before server credentials")
	}
	c.HandleVoiceServerUpdate(nil, &discordgo.VoiceServerUpdate{GuildID: "g", Token: "t", Endpoint: "e"})
	v := b.last("g").Voice
	if v == nil || v.SessionID != "s" || v.Token != "t" || v.Endpoint != "e" {
		t.Errorf("voice update = %+v", v)
	}
}

func TestFormatQueue(t *testing.T) {
	var queue []*Track
	for i := 0; i < 40; i++ {
		queue = append(queue, track(fmt.Sprintf("song-%02d", i)))
	}
	out := FormatQueue(queue)
	if !strings.HasPrefix(out, "1. [song-00](https://yt/song-00) | Demandé par nini\n") {
		t.Errorf("first line = %q", strings.SplitN(out, "\n", 2)[0])
	}
	if !strings.Contains(out, "autres musiques.") {
		t.Error("long queue not truncated")
	}
	if len(out) > 1024 {
		t.Errorf("len = %d, want <= 1024", len(out))
	}
	if short := FormatQueue(queue[:2]); strings.Contains(short, "autres") {
		t.Errorf("short queue truncated: %q", short)
	}
}

func TestFormatDuration(t *testing.T) {
	if got := FormatDuration(185000); got != "3:05" {
		t.Errorf("FormatDuration() = %v, want 3:05", got)
	}
}
