package mqtt

import (
	"errors"
	"testing"
)

func TestTopicMatch(t *testing.T) {
	tests := []struct {
		pattern, topic string
		want           bool
	}{
		{"music/+/start", "music/123/start", true},
		{"music/+/start", "music/123/end", false},
		{"music/#", "music/123/end", true},
		{"music/#", "music", true},
		{"levels", "levels", true},
		{"levels", "levels/extra", false},
		{"levels/extra", "levels", false},
	}
	for _, tt := range tests {
		if got := topicMatch(tt.pattern, tt.topic); got != tt.want {
			t.Errorf("topicMatch(%q, %q) = %v, want %v", tt.pattern, tt.topic, got, tt.want)
		}
	}
}

func TestTopic(t *testing.T) {
	if got, want := Topic("music", "42", "start"), "chii/music/42/start"; got != want {
		t.Errorf("Topic() = %v, want %v", got, want)
	}
}

func TestNilClientIsSilent(t *testing.T) {
	var c *Client
	if c.IsConnected() {
		t.Error("IsConnected() on nil client = true")
	}
	if err := c.Publish("x", 1); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Publish() error = %v, want ErrNotConnected", err)
	}
	c.Emit("x", 1)
	c.Handle("x", nil)
	if _, err := c.Request("x", nil, 0); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Request() error = %v, want ErrNotConnected", err)
	}
}

func TestAnswer(t *testing.T) {
	c := &Client{handlers: map[string]Handler{
		"levels/+": func(p map[string]interface{}) (interface{}, error) {
			return p["_topic"], nil
		},
		"fail": func(map[string]interface{}) (interface{}, error) {
			return nil, errors.New("boom")
		},
	}}

	resp := c.answer("levels/rank", Request{CorrelationID: "1"})
	if resp.Data != "levels/rank" || resp.Error != "" || resp.CorrelationID != "1" {
		t.Errorf("answer(levels/rank) = %+v", resp)
	}
	if resp := c.answer("fail", Request{}); resp.Error != "boom" {
		t.Errorf("answer(fail).Error = %q, want boom", resp.Error)
	}
	if resp := c.answer("unknown", Request{}); resp.Error == "" {
		t.Error("answer(unknown) returned no error")
	}
}
