// Package lavalink drives music playback through a Lavalink v4 node.
// Every guild gets its own Player with an independent queue; the node's
// websocket events advance the queue when a track finishes.
package lavalink

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/PancyStudios/ChiiBot/pkg/mqtt"
	"github.com/bwmarrin/discordgo"
	"github.com/goccy/go-json"
)

// Volume bounds accepted by SetVolume.
const (
	MinVolume     = 0
	MaxVolume     = 100
	DefaultVolume = 50
)

// SearchPrefix is prepended to queries that are not URLs.
const SearchPrefix = "ytsearch:"

var (
	ErrNothingPlaying = errors.New("nothing is playing")
	ErrAlreadyPaused  = errors.New("already paused")
	ErrNotPaused      = errors.New("not paused")
	ErrInvalidVolume  = fmt.Errorf("volume must be between %d and %d", MinVolume, MaxVolume)
	ErrNoMatches      = errors.New("no matches")
	ErrNoNode         = errors.New("no lavalink node configured")
)

// TrackInfo contains information about a track
type TrackInfo struct {
	Identifier string `json:"identifier"`
	IsSeekable bool   `json:"isSeekable"`
	Author     string `json:"author"`
	Length     int64  `json:"length"`
	IsStream   bool   `json:"isStream"`
	Position   int64  `json:"position"`
	Title      string `json:"title"`
	URI        string `json:"uri"`
	ArtworkURL string `json:"artworkUrl"`
	SourceName string `json:"sourceName"`
}

// Track represents a playable track
type Track struct {
	Encoded   string    `json:"encoded"`
	Info      TrackInfo `json:"info"`
	Requester string    `json:"-"`
}

// SearchResult is the /v4/loadtracks response. Data depends on LoadType.
type SearchResult struct {
	LoadType string          `json:"loadType"`
	Data     json.RawMessage `json:"data"`
}

// Tracks decodes the tracks carried by any load type.
func (r *SearchResult) Tracks() ([]*Track, error) {
	switch r.LoadType {
	case "track":
		var t Track
		if err := json.Unmarshal(r.Data, &t); err != nil {
			return nil, err
		}
		return []*Track{&t}, nil
	case "search":
		var ts []*Track
		if err := json.Unmarshal(r.Data, &ts); err != nil {
			return nil, err
		}
		return ts, nil
	case "playlist":
		var pl struct {
			Tracks []*Track `json:"tracks"`
		}
		if err := json.Unmarshal(r.Data, &pl); err != nil {
			return nil, err
		}
		return pl.Tracks, nil
	case "error":
		var e struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(r.Data, &e)
		return nil, fmt.Errorf("lavalink load failed: %s", e.Message)
	}
	return nil, nil
}

// Identifier turns user input into a loadtracks identifier.
func Identifier(query string) string {
	query = strings.TrimSpace(query)
	if strings.HasPrefix(query, "http://") || strings.HasPrefix(query, "https://") {
		return query
	}
	return SearchPrefix + query
}

// VoiceJoiner sends voice state updates to the gateway. *discordgo.Session implements it.
type VoiceJoiner interface {
	ChannelVoiceJoinManual(gID, cID string, mute, deaf bool) error
}

// Publisher receives music events. *mqtt.Client implements it.
type Publisher interface {
	Emit(topic string, payload interface{})
}

// TrackState is the MQTT view of a track.
type TrackState struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	URI       string `json:"uri"`
	Length    int64  `json:"length"`
	Requester string `json:"requester"`
}

// MusicState is published on chii/music/<guild>/<event>.
type MusicState struct {
	GuildID     string      `json:"guildId"`
	Event       string      `json:"event"`
	Track       *TrackState `json:"track,omitempty"`
	QueueLength int         `json:"queueLength"`
	Paused      bool        `json:"paused"`
	Volume      int         `json:"volume"`
	Position    int64       `json:"position"`
}

type voiceSession struct {
	sessionID string
	token     string
	endpoint  string
}

// Client manages the players of every guild.
type Client struct {
	joiner  VoiceJoiner
	userID  string
	node    *Node
	backend backend
	events  Publisher

	mu      sync.RWMutex
	players map[string]*Player
	voice   map[string]*voiceSession

	// OnTrackStart fires when a track begins, OnQueueEnd when the last one ends.
	OnTrackStart func(p *Player, t *Track)
	OnQueueEnd   func(p *Player)
	OnTrackError func(p *Player, t *Track, reason string)
}

var (
	global *Client
	once   sync.Once
)

// Init builds the shared client. The first node in cfgs is used.
func Init(joiner VoiceJoiner, userID string, cfgs []NodeConfig, events Publisher) *Client {
	once.Do(func() {
		global = New(joiner, userID, cfgs, events)
	})
	return global
}

// Get returns the shared client, nil before Init.
func Get() *Client {
	return global
}

// New creates a client. Call Connect to open the node websocket.
func New(joiner VoiceJoiner, userID string, cfgs []NodeConfig, events Publisher) *Client {
	c := newClient(joiner, userID, nil, events)
	if len(cfgs) > 0 {
		c.node = newNode(cfgs[0], userID, c.handleFrame)
		c.backend = c.node
	}
	return c
}

func newClient(joiner VoiceJoiner, userID string, b backend, events Publisher) *Client {
	return &Client{
		joiner:  joiner,
		userID:  userID,
		backend: b,
		events:  events,
		players: make(map[string]*Player),
		voice:   make(map[string]*voiceSession),
	}
}

// Connect opens the node websocket in the background.
func (c *Client) Connect() error {
	if c.node == nil {
		return ErrNoNode
	}
	go c.node.connect()
	return nil
}

// Ready reports whether the node can accept player updates.
func (c *Client) Ready() bool {
	return c.node != nil && c.node.Connected()
}

// Player returns the guild player, or nil when the bot never joined.
func (c *Client) Player(guildID string) *Player {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.players[guildID]
}

func (c *Client) player(guildID string) *Player {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.players[guildID]
	if !ok {
		p = newPlayer(guildID)
		c.players[guildID] = p
	}
	return p
}

// Join connects the bot to a voice channel and remembers where to post
// now-playing messages.
func (c *Client) Join(guildID, voiceChannelID, textChannelID string) error {
	p := c.player(guildID)
	p.mu.Lock()
	p.VoiceChannel = voiceChannelID
	p.TextChannelID = textChannelID
	p.mu.Unlock()

	if err := c.joiner.ChannelVoiceJoinManual(guildID, voiceChannelID, false, true); err != nil {
		return fmt.Errorf("join voice channel: %w", err)
	}
	return nil
}

// Leave clears the queue, destroys the remote player and leaves voice.
func (c *Client) Leave(ctx context.Context, guildID string) error {
	c.mu.Lock()
	p := c.players[guildID]
	delete(c.players, guildID)
	delete(c.voice, guildID)
	c.mu.Unlock()

	if p != nil {
		p.Reset()
	}
	if c.backend != nil {
		if err := c.backend.destroyPlayer(ctx, guildID); err != nil && !errors.Is(err, ErrNoSession) {
			logger.Warn(fmt.Sprintf("Destruction du lecteur %s: %v", guildID, err), "Music")
		}
	}
	c.publish(guildID, "leave", p)
	return c.joiner.ChannelVoiceJoinManual(guildID, "", false, false)
}

// Search resolves a query or URL into tracks, tagging each with the requester.
func (c *Client) Search(ctx context.Context, query, requester string) ([]*Track, error) {
	if c.backend == nil {
		return nil, ErrNoNode
	}
	res, err := c.backend.loadTracks(ctx, Identifier(query))
	if err != nil {
		return nil, err
	}
	tracks, err := res.Tracks()
	if err != nil {
		return nil, err
	}
	if len(tracks) == 0 {
		return nil, ErrNoMatches
	}
	for _, t := range tracks {
		t.Requester = requester
	}
	return tracks, nil
}

// Play starts the track when the guild is idle and returns 0, otherwise
// queues it and returns its 1-based position.
func (c *Client) Play(ctx context.Context, guildID string, t *Track) (int, error) {
	p := c.player(guildID)
	pos, startNow := p.Enqueue(t)
	if !startNow {
		c.publish(guildID, "queue", p)
		return pos, nil
	}
	if err := c.start(ctx, p, t); err != nil {
		p.Reset()
		return 0, err
	}
	return 0, nil
}

// Skip stops the current track and plays the next queued one. It returns
// the skipped track.
func (c *Client) Skip(ctx context.Context, guildID string) (*Track, error) {
	p := c.Player(guildID)
	if p == nil {
		return nil, ErrNothingPlaying
	}
	current, _, _, _ := p.Snapshot()
	if current == nil {
		return nil, ErrNothingPlaying
	}

	started, err := c.playNext(ctx, p)
	if !started {
		if stopErr := c.stopRemote(ctx, guildID); err == nil {
			err = stopErr
		}
	}
	return current, err
}

// Pause pauses or resumes playback.
func (c *Client) Pause(ctx context.Context, guildID string, pause bool) error {
	p := c.Player(guildID)
	if p == nil {
		return ErrNothingPlaying
	}
	current, _, paused, _ := p.Snapshot()
	switch {
	case current == nil:
		return ErrNothingPlaying
	case pause && paused:
		return ErrAlreadyPaused
	case !pause && !paused:
		return ErrNotPaused
	case c.backend == nil:
		return ErrNoNode
	}

	if err := c.backend.updatePlayer(ctx, guildID, playerUpdate{Paused: &pause}); err != nil {
		return err
	}
	p.setPaused(pause)
	if pause {
		c.publish(guildID, "pause", p)
	} else {
		c.publish(guildID, "resume", p)
	}
	return nil
}

// Stop clears the queue and stops playback. It reports whether something was playing.
func (c *Client) Stop(ctx context.Context, guildID string) (bool, error) {
	p := c.Player(guildID)
	if p == nil {
		return false, nil
	}
	current, _, _, _ := p.Snapshot()
	p.Reset()
	if current == nil {
		return false, nil
	}
	err := c.stopRemote(ctx, guildID)
	c.publish(guildID, "stop", p)
	return true, err
}

// SetVolume sets the guild volume in percent.
func (c *Client) SetVolume(ctx context.Context, guildID string, volume int) error {
	if volume < MinVolume || volume > MaxVolume {
		return ErrInvalidVolume
	}
	p := c.player(guildID)
	current, _, _, _ := p.Snapshot()
	if current != nil && c.backend != nil {
		if err := c.backend.updatePlayer(ctx, guildID, playerUpdate{Volume: &volume}); err != nil {
			return err
		}
	}
	p.setVolume(volume)
	c.publish(guildID, "volume", p)
	return nil
}

func (c *Client) start(ctx context.Context, p *Player, t *Track) error {
	if c.backend == nil {
		return ErrNoNode
	}
	_, _, _, volume := p.Snapshot()
	paused := false
	enc := t.Encoded
	err := c.backend.updatePlayer(ctx, p.GuildID, playerUpdate{
		Track:  &trackUpdate{Encoded: &enc},
		Volume: &volume,
		Paused: &paused,
	})
	if err != nil {
		return fmt.Errorf("start track: %w", err)
	}
	logger.Info(fmt.Sprintf("Lecture de %q sur %s", t.Info.Title, p.GuildID), "Music")
	c.publish(p.GuildID, "start", p)
	if c.OnTrackStart != nil {
		c.OnTrackStart(p, t)
	}
	return nil
}

func (c *Client) stopRemote(ctx context.Context, guildID string) error {
	if c.backend == nil {
		return nil
	}
	return c.backend.updatePlayer(ctx, guildID, playerUpdate{Track: &trackUpdate{}})
}

func (c *Client) queueEnded(p *Player) {
	c.publish(p.GuildID, "end", p)
	if c.OnQueueEnd != nil {
		c.OnQueueEnd(p)
	}
}

// handleFrame reacts to node events.
func (c *Client) handleFrame(msg message) {
	p := c.Player(msg.GuildID)
	if p == nil {
		return
	}

	switch msg.Op {
	case "playerUpdate":
		p.setPosition(msg.State.Position)
		c.publish(msg.GuildID, "progress", p)
	case "event":
		switch msg.Type {
		case "TrackEndEvent":
			c.trackEnded(p, msg.Reason)
		case "TrackExceptionEvent", "TrackStuckEvent":
			reason := msg.Type
			if msg.Exception != nil {
				reason = msg.Exception.Message
			}
			logger.Error(fmt.Sprintf("Erreur de lecture sur %s: %s", msg.GuildID, reason), "Music")
			if c.OnTrackError != nil {
				c.OnTrackError(p, msg.Track, reason)
			}
		case "WebSocketClosedEvent":
			logger.Warn(fmt.Sprintf("Connexion vocale fermée sur %s", msg.GuildID), "Music")
		}
	}
}

// trackEnded advances the queue. Tracks replaced by Skip or stopped by Stop
// already updated the queue themselves.
func (c *Client) trackEnded(p *Player, reason string) {
	if reason != "finished" && reason != "loadFailed" {
		return
	}
	_, _ = c.playNext(context.Background(), p)
}

// playNext starts the next queued track. Tracks that fail to start are
// dropped; once none is left the player is reset and the queue end is
// reported. It returns the first start error.
func (c *Client) playNext(ctx context.Context, p *Player) (bool, error) {
	var firstErr error
	for next := p.Advance(); next != nil; next = p.Advance() {
		err := c.start(ctx, p, next)
		if err == nil {
			return true, firstErr
		}
		logger.Error(fmt.Sprintf("Impossible de lancer %q: %v", next.Info.Title, err), "Music")
		if firstErr == nil {
			firstErr = err
		}
		if errors.Is(err, ErrNoNode) {
			break
		}
	}
	p.Reset()
	c.queueEnded(p)
	return false, firstErr
}

func (c *Client) publish(guildID, event string, p *Player) {
	if c.events == nil {
		return
	}
	state := MusicState{GuildID: guildID, Event: event}
	if p != nil {
		current, queue, paused, volume := p.Snapshot()
		state.QueueLength = len(queue)
		state.Paused = paused
		state.Volume = volume
		p.mu.Lock()
		state.Position = p.Position
		p.mu.Unlock()
		if current != nil {
			state.Track = &TrackState{
				Title:     current.Info.Title,
				Author:    current.Info.Author,
				URI:       current.Info.URI,
				Length:    current.Info.Length,
				Requester: current.Requester,
			}
		}
	}
	c.events.Emit(mqtt.Topic("music", guildID, event), state)
}

// HandleVoiceStateUpdate records the bot's voice session id.
func (c *Client) HandleVoiceStateUpdate(_ *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	if v.UserID != c.userID {
		return
	}
	if v.ChannelID == "" {
		c.mu.Lock()
		delete(c.voice, v.GuildID)
		c.mu.Unlock()
		return
	}
	c.mu.Lock()
	vs := c.voiceFor(v.GuildID)
	vs.sessionID = v.SessionID
	c.mu.Unlock()
	c.sendVoice(v.GuildID)
}

// HandleVoiceServerUpdate records the voice token and endpoint.
func (c *Client) HandleVoiceServerUpdate(_ *discordgo.Session, v *discordgo.VoiceServerUpdate) {
	c.mu.Lock()
	vs := c.voiceFor(v.GuildID)
	vs.token = v.Token
	vs.endpoint = v.Endpoint
	c.mu.Unlock()
	c.sendVoice(v.GuildID)
}

// voiceFor is called with c.mu held.
func (c *Client) voiceFor(guildID string) *voiceSession {
	vs, ok := c.voice[guildID]
	if !ok {
		vs = &voiceSession{}
		c.voice[guildID] = vs
	}
	return vs
}

func (c *Client) sendVoice(guildID string) {
	c.mu.RLock()
	vs := c.voice[guildID]
	var update *voiceUpdate
	if vs != nil && vs.sessionID != "" && vs.token != "" && vs.endpoint != "" {
		update = &voiceUpdate{Token: vs.token, Endpoint: vs.endpoint, SessionID: vs.sessionID}
	}
	c.mu.RUnlock()

	if update == nil || c.backend == nil {
		return
	}
	if err := c.backend.updatePlayer(context.Background(), guildID, playerUpdate{Voice: update}); err != nil {
		logger.Error(fmt.Sprintf("Envoi de la session vocale à Lavalink: %v", err), "Music")
	}
}

// Close stops every player and closes the node connection.
func (c *Client) Close() {
	c.mu.Lock()
	for _, p := range c.players {
		p.Reset()
	}
	c.players = make(map[string]*Player)
	c.mu.Unlock()
	if c.node != nil {
		c.node.close()
	}
	logger.System("Client Lavalink fermé.", "Music")
}
