package events

import (
	"fmt"
	"strings"
	"time"

	"github.com/PancyStudios/ChiiBot/pkg/discord"
	"github.com/PancyStudios/ChiiBot/pkg/errors"
	"github.com/PancyStudios/ChiiBot/pkg/invites"
	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/PancyStudios/ChiiBot/pkg/mqtt"
	"github.com/bwmarrin/discordgo"
)

const (
	welcomeColor = 0xffaadd
	leaveColor   = 0x979c9f

	rulesChannel = "📖・règlement"
	rolesChannel = "✨・rôles"

	unverifiedRole = "Non vérifié"
	defaultRole    = "⋆ Baby Nini"
)

// welcomeNames are tried in order before any channel whose name mentions a greeting.
var welcomeNames = []string{"hello-toujours-coquette", "📌・bienvenue"}

// WelcomeChannel picks the channel for arrival and departure messages: the
// configured id, then the known names, then any text channel named like a
// welcome channel.
func WelcomeChannel(channels []*discordgo.Channel, configuredID string) *discordgo.Channel {
	var text []*discordgo.Channel
	for _, c := range channels {
		if c.Type != discordgo.ChannelTypeGuildText {
			continue
		}
		if configuredID != "" && c.ID == configuredID {
			return c
		}
		text = append(text, c)
	}
	for _, name := range welcomeNames {
		for _, c := range text {
			if c.Name == name {
				return c
			}
		}
	}
	for _, c := range text {
		if strings.Contains(c.Name, "bienvenue") || strings.Contains(c.Name, "welcome") || strings.Contains(c.Name, "hello") {
			return c
		}
	}
	return nil
}

// Welcome is what the arrival embed shows.
type Welcome struct {
	User         *discordgo.User
	GuildName    string
	MemberCount  int
	InviterID    string
	InviteCount  int
	RulesChannel string
	RolesChannel string
}

// WelcomeEmbed greets a new member. The inviter is only shown when known.
func WelcomeEmbed(w Welcome) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("✨ Bienvenue %s !", w.User.Username),
		Description: fmt.Sprintf("✨ Bienvenue %s sur le serveur **%s** ! ✨\n\n💖 Nous sommes maintenant %d membres !",
			w.User.Mention(), w.GuildName, w.MemberCount),
		Color:  welcomeColor,
		Author: &discordgo.MessageEmbedAuthor{Name: w.User.Username, IconURL: w.User.AvatarURL("")},
		Footer: &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("✧ %s • Made with 💖", w.GuildName)},
	}
	if w.InviterID != "" && w.InviterID != invites.Unknown {
		plural := ""
		if w.InviteCount > 1 {
			plural = "s"
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "💌 Invitation",
			Value: fmt.Sprintf("Tu as été invité(e) par <@%s> qui a maintenant **%d** invitation%s !", w.InviterID, w.InviteCount, plural),
		})
	}
	if w.RulesChannel != "" && w.RolesChannel != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "📌 Navigation",
			Value: fmt.Sprintf("Tu peux consulter <#%s> et choisir tes rôles dans <#%s> !", w.RulesChannel, w.RolesChannel),
		})
	}
	if w.RulesChannel != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "⚠️ IMPORTANT ⚠️",
			Value: fmt.Sprintf("Pour accéder à l'ensemble du serveur, tu dois lire et accepter le règlement dans <#%s> en cliquant sur ✅", w.RulesChannel),
		})
	}
	return embed
}

// LeaveEmbed says goodbye to a member.
func LeaveEmbed(u *discordgo.User, guildName string, memberCount int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "👋 Au revoir !",
		Description: fmt.Sprintf("😢 **%s** vient de quitter le serveur.\n\nNous sommes maintenant %d membres.", u.Username, memberCount),
		Color:       leaveColor,
		Author:      &discordgo.MessageEmbedAuthor{Name: u.Username, IconURL: u.AvatarURL("")},
		Footer:      &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("✧ %s • Made with 💖", guildName)},
	}
}

func channelID(s *discordgo.Session, guildID, name string) string {
	if c := discord.FindChannel(s, guildID, name); c != nil {
		return c.ID
	}
	return ""
}

// onGuildMemberAdd credits the inviter, greets the member and gives the
// unverified role.
func (h *handlers) onGuildMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	defer errors.RecoverMiddleware()()

	guild, err := s.State.Guild(m.GuildID)
	if err != nil {
		logger.Error(fmt.Sprintf("Serveur %s introuvable: %v", m.GuildID, err), "Member")
		return
	}
	ctx := h.client.Context()

	w := Welcome{
		User:         m.User,
		GuildName:    guild.Name,
		MemberCount:  guild.MemberCount,
		RulesChannel: channelID(s, guild.ID, rulesChannel),
		RolesChannel: channelID(s, guild.ID, rolesChannel),
	}
	res, err := h.svc.Invites.Resolve(ctx, guild.ID)
	if err != nil {
		logger.Error(fmt.Sprintf("Erreur lors de la récupération de l'invitation pour %s: %v", m.User.Username, err), "Member")
	}
	if res != nil {
		w.InviterID, w.InviteCount = res.InviterID, res.Count
		logger.Info(fmt.Sprintf("Invitation trouvée pour %s: %s par %s", m.User.Username, res.Code, res.InviterID), "Member")
	}
	h.svc.Events.Emit(mqtt.Topic("members", "join"), map[string]interface{}{
		"guildId": guild.ID, "userId": m.User.ID, "inviterId": w.InviterID,
	})

	if ch := WelcomeChannel(guild.Channels, h.svc.Config.WelcomeChannelID); ch != nil {
		if _, err := s.ChannelMessageSendEmbed(ch.ID, WelcomeEmbed(w)); err != nil {
			logger.Error("Message de bienvenue: "+err.Error(), "Member")
		}
	} else {
		logger.Warn("Aucun salon de bienvenue pour "+guild.Name, "Member")
	}
	sendLog(s, guild.ID, "", MemberJoinedLog(m.User, time.Now()))

	role := discord.FindRole(s, guild.ID, unverifiedRole)
	if role == nil {
		logger.Warn(fmt.Sprintf("Rôle %s introuvable pour %s", unverifiedRole, guild.Name), "Member")
		role = discord.FindRole(s, guild.ID, defaultRole)
	}
	if role != nil {
		if err := s.GuildMemberRoleAdd(guild.ID, m.User.ID, role.ID); err != nil {
			logger.Error(fmt.Sprintf("Erreur lors de l'ajout du rôle au nouveau membre %s: %v", m.User.Username, err), "Member")
		} else {
			logger.Info(fmt.Sprintf("Rôle %s ajouté à %s", role.Name, m.User.Username), "Member")
		}
	}
}

// onGuildMemberRemove posts the goodbye message and the departure log.
func (h *handlers) onGuildMemberRemove(s *discordgo.Session, m *discordgo.GuildMemberRemove) {
	defer errors.RecoverMiddleware()()

	guild, err := s.State.Guild(m.GuildID)
	if err != nil {
		return
	}
	h.svc.Events.Emit(mqtt.Topic("members", "leave"), map[string]interface{}{
		"guildId": guild.ID, "userId": m.User.ID,
	})

	if ch := WelcomeChannel(guild.Channels, h.svc.Config.WelcomeChannelID); ch != nil {
		if _, err := s.ChannelMessageSendEmbed(ch.ID, LeaveEmbed(m.User, guild.Name, guild.MemberCount)); err != nil {
			logger.Error("Message de départ: "+err.Error(), "Member")
		}
	}
	sendLog(s, guild.ID, "", MemberLeftLog(m.Member, guild.ID, time.Now()))
}
