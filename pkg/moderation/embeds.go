package moderation

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Embed colours, matching the Discord palette
const (
	ColorOrange = 0xE67E22
	ColorRed    = 0xE74C3C
	ColorGreen  = 0x2ECC71
)

// LinkWarningEmbed is posted when the filter removes a link.
func LinkWarningEmbed(mention string, count int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "⚠️ Avertissement",
		Description: fmt.Sprintf("**%s, les liens ne sont pas autorisés !**", mention),
		Color:       ColorOrange,
		Fields: []*discordgo.MessageEmbedField{{
			Name:  "Avertissement",
			Value: fmt.Sprintf("C'est votre **%dème** avertissement sur %d avant bannissement. (%d/%d)", count, BanThreshold, count, BanThreshold),
		}},
	}
}

// BanEmbed announces an automatic ban.
func BanEmbed(name, reason string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🔨 Bannissement",
		Description: fmt.Sprintf("**%s** a été banni du serveur.", name),
		Color:       ColorRed,
		Fields:      []*discordgo.MessageEmbedField{{Name: "Raison", Value: reason}},
	}
}

// ActionEmbed confirms a moderation action in the channel.
func ActionEmbed(title, description string, color int, reason, moderatorMention string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Raison", Value: reason, Inline: true},
			{Name: "Modérateur", Value: moderatorMention, Inline: true},
		},
	}
}

// NoticeEmbed is sent by DM to the sanctioned member.
func NoticeEmbed(title, action, guildName, reason, moderatorMention string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: fmt.Sprintf("Tu as été %s du serveur **%s**", action, guildName),
		Color:       ColorRed,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Raison", Value: reason, Inline: true},
			{Name: "Modérateur", Value: moderatorMention, Inline: true},
		},
	}
}
