package discord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PancyStudios/ChiiBot/pkg/leveling"
	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/PancyStudios/ChiiBot/pkg/tiktok"
	"github.com/bwmarrin/discordgo"
)

// LevelNotifier posts level-up embeds to a fixed channel.
type LevelNotifier struct {
	Session   *discordgo.Session
	ChannelID string
}

func (n *LevelNotifier) NotifyLevelUp(_ context.Context, up leveling.LevelUp) error {
	if n.ChannelID == "" {
		logger.Warn("Salon de notifications de niveau non configuré pour "+up.UserID, "Levels")
		return nil
	}
	_, err := n.Session.ChannelMessageSendEmbed(n.ChannelID, leveling.LevelUpEmbed("<@"+up.UserID+">", up))
	return err
}

// TikTokNotifier announces in every guild the member belongs to.
type TikTokNotifier struct {
	Session *discordgo.Session
	now     func() time.Time
}

type tiktokTarget struct {
	channelID string
	content   string
	member    *discordgo.Member
}

// targets lists, per guild holding userID, the channel to post in and the
// role ping that goes with it.
func (n *TikTokNotifier) targets(userID string) []tiktokTarget {
	n.Session.State.RLock()
	guilds := append([]*discordgo.Guild(nil), n.Session.State.Guilds...)
	n.Session.State.RUnlock()

	var out []tiktokTarget
	for _, g := range guilds {
		member, err := n.Session.State.Member(g.ID, userID)
		if err != nil {
			if member, err = n.Session.GuildMember(g.ID, userID); err != nil {
				continue
			}
		}
		ch := tiktok.FindNotificationChannel(g.Channels)
		if ch == nil {
			logger.Warn("Aucun salon de notifications TikTok dans "+g.Name, "TikTok")
			continue
		}
		t := tiktokTarget{channelID: ch.ID, member: member}
		if role := FindRole(n.Session, g.ID, tiktok.RoleName); role != nil {
			t.content = "<@&" + role.ID + ">"
		}
		out = append(out, t)
	}
	return out
}

func (n *TikTokNotifier) clock() time.Time {
	if n.now != nil {
		return n.now()
	}
	return time.Now()
}

func displayName(m *discordgo.Member) string {
	if m.Nick != "" {
		return m.Nick
	}
	if m.User != nil {
		return m.User.DisplayName()
	}
	return ""
}

func (n *TikTokNotifier) send(userID string, build func(tiktokTarget) *discordgo.MessageEmbed) error {
	targets := n.targets(userID)
	if len(targets) == 0 {
		return fmt.Errorf("no notification channel for member %s", userID)
	}
	var errs []error
	for _, t := range targets {
		_, err := n.Session.ChannelMessageSendComplex(t.channelID, &discordgo.MessageSend{
			Content:         t.content,
			Embeds:          []*discordgo.MessageEmbed{build(t)},
			AllowedMentions: &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeRoles}},
		})
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (n *TikTokNotifier) NotifyVideo(_ context.Context, userID, username string, st tiktok.Status) error {
	return n.send(userID, func(t tiktokTarget) *discordgo.MessageEmbed {
		return tiktok.VideoEmbed("<@"+userID+">", displayName(t.member), t.member.AvatarURL(""), username, st.LatestVideoURL, n.clock())
	})
}

func (n *TikTokNotifier) NotifyLive(_ context.Context, userID, username string) error {
	return n.send(userID, func(t tiktokTarget) *discordgo.MessageEmbed {
		return tiktok.LiveEmbed("<@"+userID+">", displayName(t.member), t.member.AvatarURL(""), username, n.clock())
	})
}
