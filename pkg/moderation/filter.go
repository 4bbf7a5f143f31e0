package moderation

import (
	"context"
	"fmt"
	"regexp"

	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

// LinkReason is the warning reason recorded by the filter
const LinkReason = "Envoi de lien non autorisé"

var linkPattern = regexp.MustCompile(`(?i)https?://\S+|www\.\S+|discord\.(gg|com/invite)/\S+`)

// ContainsLink reports whether content holds a URL or a Discord invite.
func ContainsLink(content string) bool {
	return linkPattern.MatchString(content)
}

// Actions is what the filter needs from Discord.
type Actions interface {
	DeleteMessage(channelID, messageID string) error
	SendEmbed(channelID string, embed *discordgo.MessageEmbed) error
	Ban(guildID, userID, reason string) error
}

// Message is the subset of a gateway message the filter inspects.
type Message struct {
	GuildID    string
	ChannelID  string
	MessageID  string
	AuthorID   string
	AuthorName string
	Content    string
	Bot        bool
	Admin      bool
}

// Outcome reports what the filter did with a message
type Outcome struct {
	Matched  bool
	Warnings int
	Banned   bool
}

// Filter deletes links posted by regular members and warns them.
type Filter struct {
	Ledger     *Ledger
	Exemptions *Exemptions
	Actions    Actions

	OnWarn func(m Message, count int)
	OnBan  func(m Message)
}

// Check runs the anti-link rules on a message. Discord failures are logged;
// the warning is kept even when the ban fails.
func (f *Filter) Check(ctx context.Context, m Message) (Outcome, error) {
	if m.Bot || m.Admin || m.GuildID == "" {
		return Outcome{}, nil
	}
	if f.Exemptions != nil && f.Exemptions.IsExempt(m.GuildID, m.ChannelID) {
		return Outcome{}, nil
	}
	if !ContainsLink(m.Content) {
		return Outcome{}, nil
	}

	out := Outcome{Matched: true}

	if err := f.Actions.DeleteMessage(m.ChannelID, m.MessageID); err != nil {
		logger.Warn(fmt.Sprintf("Impossible de supprimer le message %s: %v", m.MessageID, err), "AntiLink")
	}

	res, err := f.Ledger.Add(ctx, m.GuildID, m.AuthorID, LinkReason, "")
	if err != nil {
		// the count is still held in memory
		logger.Error(fmt.Sprintf("Erreur lors de la sauvegarde des avertissements: %v", err), "AntiLink")
	}
	out.Warnings = res.Record.Count

	if err := f.Actions.SendEmbed(m.ChannelID, LinkWarningEmbed("<@"+m.AuthorID+">", res.Record.Count)); err != nil {
		logger.Warn(fmt.Sprintf("Impossible d'envoyer l'avertissement: %v", err), "AntiLink")
	}
	if f.OnWarn != nil {
		f.OnWarn(m, res.Record.Count)
	}

	if !res.ShouldBan {
		return out, nil
	}

	if err := f.Actions.Ban(m.GuildID, m.AuthorID, "5 avertissements pour envoi de liens non autorisés"); err != nil {
		logger.Error(fmt.Sprintf("Erreur lors du bannissement de %s: %v", m.AuthorID, err), "AntiLink")
		if rerr := f.Ledger.ReleaseBan(ctx, m.GuildID, m.AuthorID); rerr != nil {
			logger.Error(rerr.Error(), "AntiLink")
		}
		return out, fmt.Errorf("ban %s: %w", m.AuthorID, err)
	}

	out.Banned = true
	logger.Warn(fmt.Sprintf("%s banni après %d avertissements", m.AuthorID, res.Record.Count), "AntiLink")
	if err := f.Actions.SendEmbed(m.ChannelID, BanEmbed(m.AuthorName, "5 avertissements accumulés pour envoi de liens non autorisés.")); err != nil {
		logger.Warn(fmt.Sprintf("Impossible d'envoyer l'avis de bannissement: %v", err), "AntiLink")
	}
	if f.OnBan != nil {
		f.OnBan(m)
	}
	return out, nil
}
