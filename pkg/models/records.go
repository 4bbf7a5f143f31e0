// Package models holds the records persisted by the bot's stores.
package models

import "time"

// Document is the envelope used by the mongo and sqlite storage drivers.
// Data carries the JSON encoded record.
type Document struct {
	Key       string    `bson:"key" json:"key"`
	Data      string    `bson:"data" json:"data"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// XPRecord is a member's experience inside a guild
type XPRecord struct {
	XP    int `bson:"xp" json:"xp"`
	Level int `bson:"level" json:"level"`
}

// RoleMenuMessage links a role menu category to the message members react on
type RoleMenuMessage struct {
	MessageID string `bson:"message_id" json:"message_id"`
	ChannelID string `bson:"channel_id,omitempty" json:"channel_id,omitempty"`
}

// TikTokCache is the TikTok poller state, keyed by Discord user ID
type TikTokCache struct {
	Usernames     map[string]string `bson:"tiktok_usernames" json:"tiktok_usernames"`
	LastVideoTime map[string]int64  `bson:"last_video_time" json:"last_video_time"`
	LiveStatus    map[string]bool   `bson:"live_status" json:"live_status"`
	Interval      int               `bson:"interval,omitempty" json:"interval,omitempty"`
}

// DailyQuestionState is the rotation state of the daily question
type DailyQuestionState struct {
	Questions     []string          `bson:"questions" json:"questions"`
	UsedQuestions []string          `bson:"used_questions" json:"used_questions"`
	Channels      map[string]string `bson:"channels" json:"channels"`
}

// Giveaway is a running or finished giveaway
type Giveaway struct {
	ID        string    `bson:"id" json:"id"`
	GuildID   string    `bson:"guild_id" json:"guild_id"`
	ChannelID string    `bson:"channel_id" json:"channel_id"`
	MessageID string    `bson:"message_id" json:"message_id"`
	HostID    string    `bson:"host_id" json:"host_id"`
	Prize     string    `bson:"prize" json:"prize"`
	Winners   int       `bson:"winners" json:"winners"`
	EndsAt    time.Time `bson:"ends_at" json:"ends_at"`
	Ended     bool      `bson:"ended" json:"ended"`
	WinnerIDs []string  `bson:"winner_ids,omitempty" json:"winner_ids,omitempty"`
}

// Ticket is an open support ticket channel
type Ticket struct {
	ID          string    `bson:"id" json:"id"`
	GuildID     string    `bson:"guild_id" json:"guild_id"`
	ChannelID   string    `bson:"channel_id" json:"channel_id"`
	UserID      string    `bson:"user_id" json:"user_id"`
	Subject     string    `bson:"subject" json:"subject"`
	Description string    `bson:"description" json:"description"`
	OpenedAt    time.Time `bson:"opened_at" json:"opened_at"`
}

// RestartStats tracks restarts triggered by the health shim
type RestartStats struct {
	TotalRestarts int         `bson:"total_restarts" json:"total_restarts"`
	LastRestart   *time.Time  `bson:"last_restart" json:"last_restart"`
	History       []time.Time `bson:"restart_history" json:"restart_history"`
}
