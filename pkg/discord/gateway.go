package discord

import (
	"github.com/PancyStudios/ChiiBot/pkg/invites"
	"github.com/bwmarrin/discordgo"
)

// Gateway adapts a session to the small interfaces the feature packages
// depend on (leveling.RoleClient, rolemenu.Client, moderation.Actions,
// invites.Lister, giveaway.Client).
type Gateway struct {
	Session *discordgo.Session
}

// NewGateway wraps s.
func NewGateway(s *discordgo.Session) *Gateway {
	return &Gateway{Session: s}
}

func (g *Gateway) GuildRoles(guildID string) ([]*discordgo.Role, error) {
	if guild, err := g.Session.State.Guild(guildID); err == nil && len(guild.Roles) > 0 {
		return guild.Roles, nil
	}
	return g.Session.GuildRoles(guildID)
}

func (g *Gateway) MemberRoleIDs(guildID, userID string) ([]string, error) {
	if m, err := g.Session.State.Member(guildID, userID); err == nil {
		return m.Roles, nil
	}
	m, err := g.Session.GuildMember(guildID, userID)
	if err != nil {
		return nil, err
	}
	return m.Roles, nil
}

func (g *Gateway) AddMemberRole(guildID, userID, roleID string) error {
	return g.Session.GuildMemberRoleAdd(guildID, userID, roleID)
}

func (g *Gateway) RemoveMemberRole(guildID, userID, roleID string) error {
	return g.Session.GuildMemberRoleRemove(guildID, userID, roleID)
}

func (g *Gateway) CreateRole(guildID, name string, color int) (*discordgo.Role, error) {
	return g.Session.GuildRoleCreate(guildID, &discordgo.RoleParams{Name: name, Color: &color})
}

// SendDM opens (or reuses) the DM channel with userID.
func (g *Gateway) SendDM(userID, content string) error {
	ch, err := g.Session.UserChannelCreate(userID)
	if err != nil {
		return err
	}
	_, err = g.Session.ChannelMessageSend(ch.ID, content)
	return err
}

// SendDMEmbed is SendDM for embeds.
func (g *Gateway) SendDMEmbed(userID string, embed *discordgo.MessageEmbed) error {
	ch, err := g.Session.UserChannelCreate(userID)
	if err != nil {
		return err
	}
	_, err = g.Session.ChannelMessageSendEmbed(ch.ID, embed)
	return err
}

func (g *Gateway) RemoveReaction(channelID, messageID, emoji, userID string) error {
	return g.Session.MessageReactionRemove(channelID, messageID, emoji, userID)
}

func (g *Gateway) DeleteMessage(channelID, messageID string) error {
	return g.Session.ChannelMessageDelete(channelID, messageID)
}

func (g *Gateway) SendEmbed(channelID string, embed *discordgo.MessageEmbed) error {
	_, err := g.Session.ChannelMessageSendEmbed(channelID, embed)
	return err
}

func (g *Gateway) SendMessage(channelID, content string) error {
	_, err := g.Session.ChannelMessageSend(channelID, content)
	return err
}

func (g *Gateway) Ban(guildID, userID, reason string) error {
	return g.Session.GuildBanCreateWithReason(guildID, userID, reason, 0)
}

func (g *Gateway) GuildInvites(guildID string) ([]invites.Invite, error) {
	raw, err := g.Session.GuildInvites(guildID)
	if err != nil {
		return nil, err
	}
	out := make([]invites.Invite, 0, len(raw))
	for _, inv := range raw {
		entry := invites.Invite{Code: inv.Code, Uses: inv.Uses}
		if inv.Inviter != nil {
			entry.InviterID = inv.Inviter.ID
		}
		out = append(out, entry)
	}
	return out, nil
}

// Reactors pages through every user who reacted with emoji, skipping bots.
func (g *Gateway) Reactors(channelID, messageID, emoji string) ([]string, error) {
	var ids []string
	after := ""
	for {
		users, err := g.Session.MessageReactions(channelID, messageID, emoji, 100, "", after)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			if !u.Bot {
				ids = append(ids, u.ID)
			}
		}
		if len(users) < 100 {
			return ids, nil
		}
		after = users[len(users)-1].ID
	}
}

// FindChannel returns the first text channel of the guild named name.
func FindChannel(s *discordgo.Session, guildID, name string) *discordgo.Channel {
	guild, err := s.State.Guild(guildID)
	if err != nil {
		return nil
	}
	for _, ch := range guild.Channels {
		if ch.Name == name && ch.Type == discordgo.ChannelTypeGuildText {
			return ch
		}
	}
	return nil
}

// FindRole returns the guild role named name.
func FindRole(s *discordgo.Session, guildID, name string) *discordgo.Role {
	guild, err := s.State.Guild(guildID)
	if err != nil {
		return nil
	}
	for _, r := range guild.Roles {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// MemberName returns the display name of a guild member. ok is false when
// the user is no longer in the guild.
func MemberName(s *discordgo.Session, guildID, userID string) (name string, ok bool) {
	m, err := s.State.Member(guildID, userID)
	if err != nil {
		if m, err = s.GuildMember(guildID, userID); err != nil {
			return "", false
		}
	}
	return displayName(m), true
}
