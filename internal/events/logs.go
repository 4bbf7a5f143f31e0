package events

import (
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/ChiiBot/pkg/discord"
	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

const (
	logsChannel = "logs-serveur"

	colorGreen  = 0x2ecc71
	colorOrange = 0xe67e22
	colorRed    = 0xe74c3c
	colorGold   = 0xf1c40f

	// RecentAccount flags accounts younger than this in the join log.
	RecentAccount = 7 * 24 * time.Hour
)

// sendLog posts embed in the guild's logs channel when there is one. Events
// from the logs channel itself are not logged.
func sendLog(s *discordgo.Session, guildID, sourceChannelID string, embed *discordgo.MessageEmbed) {
	ch := discord.FindChannel(s, guildID, logsChannel)
	if ch == nil || ch.ID == sourceChannelID {
		return
	}
	if _, err := s.ChannelMessageSendEmbed(ch.ID, embed); err != nil {
		logger.Warn("Envoi du log impossible: "+err.Error(), "Logs")
	}
}

func fieldText(s string) string {
	if r := []rune(s); len(r) > 1024 {
		return string(r[:1021]) + "..."
	}
	return s
}

// MessageDeletedEmbed logs a deleted message.
func MessageDeletedEmbed(m *discordgo.Message, at time.Time) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "🗑️ Message Supprimé",
		Color:     colorRed,
		Timestamp: at.Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Auteur", Value: m.Author.Mention(), Inline: true},
			{Name: "Canal", Value: "<#" + m.ChannelID + ">", Inline: true},
		},
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: m.Author.AvatarURL("")},
		Footer:    &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("ID Message: %s | ID Auteur: %s", m.ID, m.Author.ID)},
	}
	if m.Content != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Contenu", Value: fieldText(m.Content)})
	}
	if len(m.Attachments) > 0 {
		files := make([]string, 0, len(m.Attachments))
		for _, a := range m.Attachments {
			files = append(files, fmt.Sprintf("[%s](%s)", a.Filename, a.URL))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Pièces jointes", Value: fieldText(strings.Join(files, "\n"))})
	}
	return embed
}

// MessageEditedEmbed logs an edit. It returns nil when the text did not change.
func MessageEditedEmbed(before, after *discordgo.Message, guildID string, at time.Time) *discordgo.MessageEmbed {
	if before.Content == after.Content {
		return nil
	}
	link := fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guildID, after.ChannelID, after.ID)
	embed := &discordgo.MessageEmbed{
		Title:       "✏️ Message Modifié",
		Description: "Message modifié dans <#" + after.ChannelID + ">",
		Color:       colorGold,
		Timestamp:   at.Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Auteur", Value: before.Author.Mention(), Inline: true},
			{Name: "Lien", Value: "[Aller au message](" + link + ")", Inline: true},
		},
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: before.Author.AvatarURL("")},
		Footer:    &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("ID Message: %s | ID Auteur: %s", before.ID, before.Author.ID)},
	}
	if before.Content != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Avant", Value: fieldText(before.Content)})
	}
	if after.Content != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Après", Value: fieldText(after.Content)})
	}
	return embed
}

// MemberJoinedLog logs an arrival and flags recent accounts.
func MemberJoinedLog(u *discordgo.User, now time.Time) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "👋 Membre Rejoint",
		Description: u.Mention() + " a rejoint le serveur.",
		Color:       colorGreen,
		Timestamp:   now.Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Nom", Value: u.Username, Inline: true},
			{Name: "ID", Value: u.ID, Inline: true},
		},
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: u.AvatarURL("")},
		Footer:    &discordgo.MessageEmbedFooter{Text: "ID Membre: " + u.ID},
	}
	created, err := discordgo.SnowflakeTimestamp(u.ID)
	if err != nil {
		return embed
	}
	age := now.Sub(created)
	days := int(age.Hours() / 24)
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "Compte créé",
		Value: fmt.Sprintf("<t:%d:F> (%d jours)", created.Unix(), days),
	})
	if age < RecentAccount {
		embed.Color = colorOrange
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "⚠️ Compte Récent",
			Value: fmt.Sprintf("Ce compte a été créé il y a seulement %d jours.", days),
		})
	}
	return embed
}

// MemberLeftLog logs a departure. Roles and the join date are only known
// when the gateway sent them.
func MemberLeftLog(m *discordgo.Member, guildID string, now time.Time) *discordgo.MessageEmbed {
	u := m.User
	embed := &discordgo.MessageEmbed{
		Title:       "👋 Membre Parti",
		Description: u.Mention() + " a quitté le serveur.",
		Color:       colorRed,
		Timestamp:   now.Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Nom", Value: u.Username, Inline: true},
			{Name: "ID", Value: u.ID, Inline: true},
		},
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: u.AvatarURL("")},
		Footer:    &discordgo.MessageEmbedFooter{Text: "ID Membre: " + u.ID},
	}
	if !m.JoinedAt.IsZero() {
		d := now.Sub(m.JoinedAt)
		stay := fmt.Sprintf("%d jours, %d heures, %d minutes", int(d.Hours()/24), int(d.Hours())%24, int(d.Minutes())%60)
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Durée sur le serveur",
			Value: fmt.Sprintf("<t:%d:F> (%s)", m.JoinedAt.Unix(), stay),
		})
	}
	var roles []string
	for _, id := range m.Roles {
		if id != guildID {
			roles = append(roles, "<@&"+id+">")
		}
	}
	if len(roles) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Rôles", Value: fieldText(strings.Join(roles, " "))})
	}
	return embed
}
