package logger

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/goccy/go-json"
)

var webhookClient = &http.Client{Timeout: 5 * time.Second}

// SendWebhookEmbed posts a single embed to a Discord webhook URL.
func SendWebhookEmbed(url string, embed *discordgo.MessageEmbed) error {
	payload := discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := webhookClient.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
