package tiktok

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Channel and role used for notifications
const (
	ChannelName  = "📱・notifications-tiktok"
	RoleName     = "🔔 Notifications TikTok"
	CategoryName = "🔔 NOTIFICATIONS"
	colorPink    = 0xE91E63
	colorRed     = 0xE74C3C
)

// FindNotificationChannel picks the dedicated channel, falling back to any
// text channel whose name mentions notif or tiktok.
func FindNotificationChannel(channels []*discordgo.Channel) *discordgo.Channel {
	var fallback *discordgo.Channel
	for _, c := range channels {
		if c.Type != discordgo.ChannelTypeGuildText {
			continue
		}
		if c.Name == ChannelName {
			return c
		}
		name := strings.ToLower(c.Name)
		if fallback == nil && (strings.Contains(name, "notif") || strings.Contains(name, "tiktok")) {
			fallback = c
		}
	}
	return fallback
}

func footer(now time.Time) *discordgo.MessageEmbedFooter {
	return &discordgo.MessageEmbedFooter{Text: "✧ Ninis • " + now.Format("02/01/2006 15:04")}
}

// VideoEmbed announces a new video.
func VideoEmbed(mention, displayName, avatarURL, username, videoURL string, now time.Time) *discordgo.MessageEmbed {
	profile := "https://www.tiktok.com/@" + username
	link := videoURL
	if link == "" {
		link = profile
	}
	return &discordgo.MessageEmbed{
		Title:       "🎬 Nouvelle vidéo TikTok !",
		Description: fmt.Sprintf("%s vient de poster une nouvelle vidéo sur TikTok !", mention),
		URL:         link,
		Color:       colorPink,
		Author:      &discordgo.MessageEmbedAuthor{Name: "Nouvelle vidéo de " + displayName, IconURL: avatarURL},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Créateur", Value: "@" + username, Inline: true},
			{Name: "Voir maintenant", Value: fmt.Sprintf("[Ouvrir TikTok](%s)", link), Inline: true},
		},
		Footer: footer(now),
	}
}

// LiveEmbed announces a live stream.
func LiveEmbed(mention, displayName, avatarURL, username string, now time.Time) *discordgo.MessageEmbed {
	live := "https://www.tiktok.com/@" + username + "/live"
	return &discordgo.MessageEmbed{
		Title:       "🔴 LIVE TikTok en cours !",
		Description: fmt.Sprintf("%s est actuellement en LIVE sur TikTok !", mention),
		URL:         live,
		Color:       colorRed,
		Author:      &discordgo.MessageEmbedAuthor{Name: displayName + " est en LIVE !", IconURL: avatarURL},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Créateur", Value: "@" + username, Inline: true},
			{Name: "Regarder maintenant", Value: fmt.Sprintf("[Rejoindre le LIVE](%s)", live), Inline: true},
		},
		Footer: footer(now),
	}
}
