package services

import (
	"errors"
	"fmt"

	"github.com/PancyStudios/ChiiBot/pkg/leveling"
)

// Status is what the dashboard and chiictl read over MQTT.
type Status struct {
	Ready     bool   `json:"ready"`
	Guilds    int    `json:"guilds"`
	Storage   string `json:"storage"`
	Music     bool   `json:"music"`
	Giveaways int    `json:"giveaways"`
	Tickets   int    `json:"tickets"`
}

// StatusSource is the part of the Discord client the status request reports on.
type StatusSource interface {
	IsReady() bool
	GuildCount() int
}

// Status collects the live counters.
func (s *Services) Status(bot StatusSource) Status {
	return Status{
		Ready:     bot.IsReady(),
		Guilds:    bot.GuildCount(),
		Storage:   s.Config.StorageDriver,
		Music:     s.Music != nil && s.Music.Ready(),
		Giveaways: s.Giveaways.Running(),
		Tickets:   s.Tickets.Count(),
	}
}

// Rank answers a rank lookup for a member.
func (s *Services) Rank(guildID, userID string) (map[string]interface{}, error) {
	rec, ok := s.Levels.Get(guildID, userID)
	if !ok {
		return nil, fmt.Errorf("no xp for %s in %s", userID, guildID)
	}
	p := leveling.Progress(rec.XP)
	return map[string]interface{}{
		"xp":      rec.XP,
		"level":   p.Level,
		"next":    p.Next,
		"percent": p.Percent,
		"rank":    s.Levels.Rank(guildID, userID),
	}, nil
}

// HandleRequests answers chii/request/status and chii/request/rank.
func (s *Services) HandleRequests(bot StatusSource) {
	s.Events.Handle("status", func(map[string]interface{}) (interface{}, error) {
		return s.Status(bot), nil
	})
	s.Events.Handle("rank", func(payload map[string]interface{}) (interface{}, error) {
		guildID, _ := payload["guildId"].(string)
		userID, _ := payload["userId"].(string)
		if guildID == "" || userID == "" {
			return nil, errors.New("guildId and userId are required")
		}
		return s.Rank(guildID, userID)
	})
}
