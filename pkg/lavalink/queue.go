package lavalink

import (
	"fmt"
	"strings"
	"sync"
)

// QueueFieldLimit keeps the queue listing under Discord's 1024 character field limit.
const QueueFieldLimit = 900

// Player is the playback state of one guild. Each guild owns its own queue.
type Player struct {
	GuildID       string
	TextChannelID string
	VoiceChannel  string
	Current       *Track
	Queue         []*Track
	Volume        int
	Paused        bool
	Position      int64

	mu sync.Mutex
}

func newPlayer(guildID string) *Player {
	return &Player{GuildID: guildID, Volume: DefaultVolume}
}

// Enqueue starts the track when nothing is playing and returns position 0,
// otherwise appends it and returns its 1-based queue position.
func (p *Player) Enqueue(t *Track) (position int, startNow bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Current == nil && len(p.Queue) == 0 {
		p.Current = t
		p.Paused = false
		return 0, true
	}
	p.Queue = append(p.Queue, t)
	return len(p.Queue), false
}

// Advance moves the head of the queue into Current. It returns nil once the
// queue is exhausted.
func (p *Player) Advance() *Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Position = 0
	p.Paused = false
	if len(p.Queue) == 0 {
		p.Current = nil
		return nil
	}
	p.Current = p.Queue[0]
	p.Queue = p.Queue[1:]
	return p.Current
}

// Reset drops the current track and the queue.
func (p *Player) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Current = nil
	p.Queue = nil
	p.Paused = false
	p.Position = 0
}

// Snapshot returns copies safe to read without the lock.
func (p *Player) Snapshot() (current *Track, queue []*Track, paused bool, volume int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	queue = make([]*Track, len(p.Queue))
	copy(queue, p.Queue)
	return p.Current, queue, p.Paused, p.Volume
}

// VoiceChannelID is the channel the player was last asked to join.
func (p *Player) VoiceChannelID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.VoiceChannel
}

// Elapsed is the playback position of the current track in milliseconds.
func (p *Player) Elapsed() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Position
}

func (p *Player) setPaused(paused bool) {
	p.mu.Lock()
	p.Paused = paused
	p.mu.Unlock()
}

func (p *Player) setVolume(v int) {
	p.mu.Lock()
	p.Volume = v
	p.mu.Unlock()
}

func (p *Player) setPosition(pos int64) {
	p.mu.Lock()
	p.Position = pos
	p.mu.Unlock()
}

// FormatQueue renders upcoming tracks one per line and stops with a
// "... et N autres musiques." line once the text passes QueueFieldLimit.
func FormatQueue(queue []*Track) string {
	var b strings.Builder
	for i, t := range queue {
		fmt.Fprintf(&b, "%d. [%s](%s) | Demandé par %s\n", i+1, t.Info.Title, t.Info.URI, t.Requester)
		if b.Len() > QueueFieldLimit && i+1 < len(queue) {
			fmt.Fprintf(&b, "... et %d autres musiques.", len(queue)-i-1)
			break
		}
	}
	return b.String()
}

// FormatDuration renders milliseconds as m:ss.
func FormatDuration(ms int64) string {
	s := ms / 1000
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
