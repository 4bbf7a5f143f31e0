// Package mqtt publishes bot events (music state, level ups, moderation
// actions) to an MQTT broker and answers request/response calls from the
// dashboard.
package mqtt

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/ChiiBot/pkg/logger"
	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Root is the first level of every topic the bot uses.
const Root = "chii"

var (
	ErrNotConnected = errors.New("mqtt client not connected")
	ErrTimeout      = errors.New("mqtt request timed out")
)

// Request is the envelope sent on chii/request/<name>.
type Request struct {
	CorrelationID string      `json:"correlationId"`
	Payload       interface{} `json:"payload,omitempty"`
}

// Response is the envelope sent back on chii/response/<name>/<correlationId>.
type Response struct {
	CorrelationID string      `json:"correlationId"`
	Data          interface{} `json:"data"`
	Error         string      `json:"error,omitempty"`
}

// Handler answers a request. The request name is available under "_topic".
type Handler func(payload map[string]interface{}) (interface{}, error)

// Client wraps a paho client. A nil *Client is valid and drops every publish,
// so features can publish unconditionally.
type Client struct {
	conn     paho.Client
	mu       sync.RWMutex
	pending  map[string]chan Response
	handlers map[string]Handler
}

var (
	global *Client
	once   sync.Once
)

// Init connects the shared client.
func Init(host, port, username, password, clientID string) *Client {
	once.Do(func() {
		global = Connect(host, port, username, password, clientID)
	})
	return global
}

// Get returns the shared client, nil before Init.
func Get() *Client {
	return global
}

// Topic joins levels under the root: Topic("music", "123", "start") is chii/music/123/start.
func Topic(levels ...string) string {
	return Root + "/" + strings.Join(levels, "/")
}

// Connect builds a client that keeps retrying in the background when the
// broker is unreachable.
func Connect(host, port, username, password, clientID string) *Client {
	c := &Client{
		pending:  make(map[string]chan Response),
		handlers: make(map[string]Handler),
	}

	opts := paho.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%s", host, port)).
		SetClientID(fmt.Sprintf("%s_%s", clientID, uuid.NewString()[:8])).
		SetUsername(username).
		SetPassword(password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(pc paho.Client) {
			logger.Success(fmt.Sprintf("Connecté au broker MQTT (%s)", clientID), "MQTT")
			c.resubscribe(pc)
		}).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			logger.Error(fmt.Sprintf("Connexion MQTT perdue: %v", err), "MQTT")
		})

	c.conn = paho.NewClient(opts)
	if token := c.conn.Connect(); token.WaitTimeout(5*time.Second) && token.Error() != nil {
		logger.Error(fmt.Sprintf("Erreur de connexion MQTT: %v", token.Error()), "MQTT")
	}
	return c
}

// IsConnected reports whether the broker connection is up.
func (c *Client) IsConnected() bool {
	return c != nil && c.conn != nil && c.conn.IsConnected()
}

// Close disconnects from the broker.
func (c *Client) Close() {
	if !c.IsConnected() {
		return
	}
	c.conn.Disconnect(250)
	logger.System("Connexion MQTT fermée.", "MQTT")
}

// Publish marshals payload to JSON and sends it with QoS 0.
func (c *Client) Publish(topic string, payload interface{}) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	token := c.conn.Publish(topic, 0, false, data)
	token.Wait()
	return token.Error()
}

// Emit publishes an event and only logs failures. Offline clients are silent.
func (c *Client) Emit(topic string, payload interface{}) {
	if !c.IsConnected() {
		return
	}
	if err := c.Publish(topic, payload); err != nil {
		logger.Warn(fmt.Sprintf("Publication sur %s échouée: %v", topic, err), "MQTT")
	}
}

// Request publishes on chii/request/<name> and waits for the matching response.
func (c *Client) Request(name string, payload interface{}, timeout time.Duration) (interface{}, error) {
	if !c.IsConnected() {
		return nil, ErrNotConnected
	}

	id := uuid.NewString()
	responseTopic := Topic("response", name, id)
	ch := make(chan Response, 1)

	c.mu.Lock()
	c.pending[id] = ch
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		c.conn.Unsubscribe(responseTopic)
	}()

	token := c.conn.Subscribe(responseTopic, 0, func(_ paho.Client, msg paho.Message) {
		var resp Response
		if err := json.Unmarshal(msg.Payload(), &resp); err != nil {
			return
		}
		c.mu.RLock()
		waiter, ok := c.pending[resp.CorrelationID]
		c.mu.RUnlock()
		if ok {
			waiter <- resp
		}
	})
	if token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}

	if err := c.Publish(Topic("request", name), Request{CorrelationID: id, Payload: payload}); err != nil {
		return nil, err
	}

	select {
	case resp := <-ch:
		if resp.Error != "" {
			return nil, errors.New(resp.Error)
		}
		return resp.Data, nil
	case <-time.After(timeout):
		return nil, fmt.Errorf("%w: %s", ErrTimeout, name)
	}
}

// Handle registers a responder for chii/request/<pattern>. The pattern may
// use + and # wildcards.
func (c *Client) Handle(pattern string, h Handler) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.handlers[pattern] = h
	c.mu.Unlock()
	if c.IsConnected() {
		c.subscribeHandler(c.conn, pattern)
	}
}

func (c *Client) resubscribe(pc paho.Client) {
	c.mu.RLock()
	patterns := make([]string, 0, len(c.handlers))
	for p := range c.handlers {
		patterns = append(patterns, p)
	}
	c.mu.RUnlock()
	for _, p := range patterns {
		c.subscribeHandler(pc, p)
	}
}

func (c *Client) subscribeHandler(pc paho.Client, pattern string) {
	topic := Topic("request", pattern)
	token := pc.Subscribe(topic, 0, func(_ paho.Client, msg paho.Message) {
		c.dispatch(msg.Topic(), msg.Payload())
	})
	if token.Wait() && token.Error() != nil {
		logger.Error(fmt.Sprintf("Abonnement à %s impossible: %v", topic, token.Error()), "MQTT")
	}
}

// dispatch answers a raw request received on topic.
func (c *Client) dispatch(topic string, raw []byte) {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		logger.Error(fmt.Sprintf("Requête MQTT invalide sur %s: %v", topic, err), "MQTT")
		return
	}
	name := strings.TrimPrefix(topic, Topic("request")+"/")
	resp := c.answer(name, req)
	c.Emit(Topic("response", name, req.CorrelationID), resp)
}

func (c *Client) answer(name string, req Request) Response {
	resp := Response{CorrelationID: req.CorrelationID}

	h := c.handlerFor(name)
	if h == nil {
		resp.Error = "no handler for " + name
		return resp
	}

	payload, _ := req.Payload.(map[string]interface{})
	if payload == nil {
		payload = make(map[string]interface{})
	}
	payload["_topic"] = name

	data, err := h(payload)
	if err != nil {
		resp.Error = err.Error()
		return resp
	}
	resp.Data = data
	return resp
}

func (c *Client) handlerFor(name string) Handler {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if h, ok := c.handlers[name]; ok {
		return h
	}
	for pattern, h := range c.handlers {
		if topicMatch(pattern, name) {
			return h
		}
	}
	return nil
}

// topicMatch reports whether topic matches an MQTT filter. + matches one
// level, # matches the remaining levels and must come last.
func topicMatch(pattern, topic string) bool {
	pp := strings.Split(pattern, "/")
	tp := strings.Split(topic, "/")

	for i, part := range pp {
		if part == "#" {
			return true
		}
		if i >= len(tp) {
			return false
		}
		if part != "+" && part != tp[i] {
			return false
		}
	}
	return len(pp) == len(tp)
}
