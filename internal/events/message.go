package events

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/PancyStudios/ChiiBot/pkg/errors"
	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/PancyStudios/ChiiBot/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

// onMessageCreate runs the link filter first. Messages it removed go no
// further; the rest are tried as prefix commands, and plain chat earns XP.
func (h *handlers) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	defer errors.RecoverMiddleware()()

	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}
	ctx := h.client.Context()

	out, err := h.svc.AntiLink.Check(ctx, moderation.Message{
		GuildID:    m.GuildID,
		ChannelID:  m.ChannelID,
		MessageID:  m.ID,
		AuthorID:   m.Author.ID,
		AuthorName: m.Author.Username,
		Content:    m.Content,
		Admin:      isAdmin(s, m),
	})
	if err != nil {
		logger.Error(err.Error(), "AntiLink")
	}
	if out.Matched {
		return
	}

	if h.client.HandleMessage(s, m) || strings.HasPrefix(m.Content, h.client.Prefix) {
		return
	}

	if _, err := h.svc.LevelFlow.HandleMessage(ctx, m.GuildID, m.Author.ID); err != nil {
		logger.Error(fmt.Sprintf("XP de %s: %v", m.Author.ID, err), "Levels")
	}
}

// isAdmin resolves the author's permissions from the roles sent with the
// message, so members missing from the state cache are still recognised.
func isAdmin(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	if m.Member != nil {
		if guild, err := s.State.Guild(m.GuildID); err == nil {
			return memberIsAdmin(guild, m.Author.ID, m.Member.Roles)
		}
	}
	perms, err := s.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil {
		return false
	}
	return perms&discordgo.PermissionAdministrator != 0
}

func memberIsAdmin(guild *discordgo.Guild, userID string, roles []string) bool {
	if guild.OwnerID == userID {
		return true
	}
	for _, role := range guild.Roles {
		if role.ID != guild.ID && !slices.Contains(roles, role.ID) {
			continue
		}
		if role.Permissions&discordgo.PermissionAdministrator != 0 {
			return true
		}
	}
	return false
}

// onMessageUpdate logs edits of cached messages. Embed-only updates carry no
// content and are skipped.
func (h *handlers) onMessageUpdate(s *discordgo.Session, m *discordgo.MessageUpdate) {
	if m.Content == "" || m.BeforeUpdate == nil || m.BeforeUpdate.Author == nil || m.BeforeUpdate.Author.Bot || m.GuildID == "" {
		return
	}
	embed := MessageEditedEmbed(m.BeforeUpdate, m.Message, m.GuildID, time.Now())
	if embed == nil {
		return
	}
	sendLog(s, m.GuildID, m.ChannelID, embed)
}

// onMessageDelete logs deletions of cached messages.
func (h *handlers) onMessageDelete(s *discordgo.Session, m *discordgo.MessageDelete) {
	before := m.BeforeDelete
	if before == nil || before.Author == nil || before.Author.Bot || m.GuildID == "" {
		return
	}
	sendLog(s, m.GuildID, m.ChannelID, MessageDeletedEmbed(before, time.Now()))
}
