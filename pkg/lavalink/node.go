package lavalink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
)

// ErrNoSession is returned by REST calls issued before the node sent "ready".
var ErrNoSession = errors.New("lavalink session not ready")

// NodeConfig holds configuration for a Lavalink node
type NodeConfig struct {
	Name     string
	Host     string
	Port     int
	Password string
	Secure   bool
}

// message is one websocket frame from the node.
type message struct {
	Op        string `json:"op"`
	Type      string `json:"type"`
	GuildID   string `json:"guildId"`
	SessionID string `json:"sessionId"`
	Reason    string `json:"reason"`
	Track     *Track `json:"track"`
	State     struct {
		Position  int64 `json:"position"`
		Connected bool  `json:"connected"`
	} `json:"state"`
	Exception *struct {
		Message  string `json:"message"`
		Severity string `json:"severity"`
	} `json:"exception"`
}

// voiceUpdate carries the Discord voice credentials Lavalink needs to connect.
type voiceUpdate struct {
	Token     string `json:"token"`
	Endpoint  string `json:"endpoint"`
	SessionID string `json:"sessionId"`
}

type trackUpdate struct {
	Encoded *string `json:"encoded"`
}

// playerUpdate is the PATCH body for /v4/sessions/{id}/players/{guild}.
type playerUpdate struct {
	Track  *trackUpdate `json:"track,omitempty"`
	Volume *int         `json:"volume,omitempty"`
	Paused *bool        `json:"paused,omitempty"`
	Voice  *voiceUpdate `json:"voice,omitempty"`
}

// backend is the REST surface the client drives.
type backend interface {
	loadTracks(ctx context.Context, identifier string) (*SearchResult, error)
	updatePlayer(ctx context.Context, guildID string, update playerUpdate) error
	destroyPlayer(ctx context.Context, guildID string) error
}

// Node is one Lavalink server: a websocket for events plus the REST API.
type Node struct {
	config  NodeConfig
	userID  string
	onFrame func(message)
	http    *http.Client

	mu        sync.RWMutex
	conn      *websocket.Conn
	connected bool
	dialing   bool
	closed    bool
	sessionID string
}

func newNode(cfg NodeConfig, userID string, onFrame func(message)) *Node {
	return &Node{
		config:  cfg,
		userID:  userID,
		onFrame: onFrame,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *Node) baseURL(scheme string) string {
	if n.config.Secure {
		scheme += "s"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, n.config.Host, n.config.Port)
}

// Connected reports whether the websocket is open and the session is ready.
func (n *Node) Connected() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.connected && n.sessionID != ""
}

func (n *Node) connect() {
	n.mu.Lock()
	if n.connected || n.dialing || n.closed {
		n.mu.Unlock()
		return
	}
	n.dialing = true
	n.mu.Unlock()

	headers := http.Header{}
	headers.Set("Authorization", n.config.Password)
	headers.Set("User-Id", n.userID)
	headers.Set("Client-Name", "ChiiBot/1.0")

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.Dial(n.baseURL("ws")+"/v4/websocket", headers)
	if err != nil {
		logger.Error(fmt.Sprintf("Connexion à Lavalink %s impossible: %v", n.config.Name, err), "Lavalink")
		n.mu.Lock()
		n.dialing = false
		n.mu.Unlock()
		time.AfterFunc(5*time.Second, n.connect)
		return
	}

	n.mu.Lock()
	n.conn = conn
	n.connected = true
	n.dialing = false
	n.mu.Unlock()

	logger.Success(fmt.Sprintf("Connecté au serveur Lavalink %s", n.config.Name), "Lavalink")
	go n.readLoop(conn)
}

func (n *Node) readLoop(conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			n.mu.RLock()
			closed := n.closed
			n.mu.RUnlock()
			if !closed {
				logger.Warn(fmt.Sprintf("Lecture Lavalink interrompue: %v", err), "Lavalink")
			}
			n.dropConnection()
			return
		}

		var msg message
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		if msg.Op == "ready" {
			n.mu.Lock()
			n.sessionID = msg.SessionID
			n.mu.Unlock()
			logger.Info(fmt.Sprintf("Session Lavalink prête: %s", msg.SessionID), "Lavalink")
			continue
		}
		if n.onFrame != nil {
			n.onFrame(msg)
		}
	}
}

func (n *Node) dropConnection() {
	n.mu.Lock()
	n.connected = false
	n.sessionID = ""
	if n.conn != nil {
		_ = n.conn.Close()
		n.conn = nil
	}
	closed := n.closed
	n.mu.Unlock()

	if !closed {
		time.AfterFunc(5*time.Second, n.connect)
	}
}

func (n *Node) close() {
	n.mu.Lock()
	n.closed = true
	conn := n.conn
	n.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}

func (n *Node) session() (string, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.sessionID == "" {
		return "", ErrNoSession
	}
	return n.sessionID, nil
}

func (n *Node) do(ctx context.Context, method, path string, body, dst any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, n.baseURL("http")+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", n.config.Password)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := n.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("lavalink %s %s: %s: %s", method, path, resp.Status, bytes.TrimSpace(msg))
	}
	if dst == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

func (n *Node) loadTracks(ctx context.Context, identifier string) (*SearchResult, error) {
	var res SearchResult
	if err := n.do(ctx, http.MethodGet, "/v4/loadtracks?identifier="+url.QueryEscape(identifier), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (n *Node) updatePlayer(ctx context.Context, guildID string, update playerUpdate) error {
	sid, err := n.session()
	if err != nil {
		return err
	}
	return n.do(ctx, http.MethodPatch, fmt.Sprintf("/v4/sessions/%s/players/%s", sid, guildID), update, nil)
}

func (n *Node) destroyPlayer(ctx context.Context, guildID string) error {
	sid, err := n.session()
	if err != nil {
		return err
	}
	return n.do(ctx, http.MethodDelete, fmt.Sprintf("/v4/sessions/%s/players/%s", sid, guildID), nil, nil)
}
