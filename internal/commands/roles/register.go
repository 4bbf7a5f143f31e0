// Package roles provides the role menu setup command.
package roles

import (
	"fmt"
	"time"

	"github.com/PancyStudios/ChiiBot/internal/services"
	"github.com/PancyStudios/ChiiBot/pkg/discord"
	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/PancyStudios/ChiiBot/pkg/models"
	"github.com/PancyStudios/ChiiBot/pkg/rolemenu"
	"github.com/bwmarrin/discordgo"
)

// reactionPause spaces out the reactions added to a menu.
const reactionPause = 500 * time.Millisecond

// RegisterRoleCommands registers setuprolemenu
func RegisterRoleCommands(client *discord.ExtendedClient, svc *services.Services) {
	client.CommandHandler.RegisterCommand(
		discord.NewCommand(
			"setuprolemenu",
			"Configure les messages de rôles-réaction",
			"roles",
			func(ctx *discord.CommandContext) error {
				return setupRoleMenu(ctx, svc)
			},
		).WithAliases("setup_role_reactions").
			AdminOnly().
			WithBotPermissions(discordgo.PermissionManageRoles | discordgo.PermissionAddReactions),
	)
}

func setupRoleMenu(ctx *discord.CommandContext, svc *services.Services) error {
	guildID := ctx.GuildID()

	channelID := ctx.ChannelID()
	if ch := discord.FindChannel(ctx.Session, guildID, rolemenu.ChannelName); ch != nil {
		channelID = ch.ID
	}

	if err := ctx.Reply("⏳ Configuration des messages de rôles-réaction en cours..."); err != nil {
		return err
	}

	roles, err := svc.Gateway.GuildRoles(guildID)
	if err != nil {
		return err
	}
	for _, cat := range rolemenu.Categories {
		for _, opt := range cat.Options {
			role, created, err := rolemenu.EnsureRole(svc.Gateway, guildID, roles, opt)
			if err != nil {
				return err
			}
			if created {
				roles = append(roles, role)
				logger.Info(fmt.Sprintf("Rôle '%s' créé pour la catégorie %s", opt.Name, cat.Name), "RoleMenu")
			}
		}
	}

	for _, cat := range rolemenu.Categories {
		msg, err := postMenu(ctx.Session, svc.RoleMenus, guildID, channelID, cat)
		if err != nil {
			return err
		}
		if err := svc.RoleMenus.Set(ctx.Context(), guildID, cat.Name, models.RoleMenuMessage{MessageID: msg.ID, ChannelID: channelID}); err != nil {
			return err
		}
		for _, opt := range cat.Options {
			if err := ctx.Session.MessageReactionAdd(channelID, msg.ID, opt.Emoji); err != nil {
				logger.Warn(fmt.Sprintf("Impossible d'ajouter %s: %v", opt.Emoji, err), "RoleMenu")
			}
			time.Sleep(reactionPause)
		}
	}

	if err := ctx.EditReply("✅ Configuration des rôles-réaction terminée !"); err != nil {
		return err
	}
	_, err = ctx.Session.ChannelMessageSend(ctx.ChannelID(), "👉 Les membres peuvent désormais choisir leurs rôles dans <#"+channelID+">")
	return err
}

// postMenu edits the stored menu message of the category when it still
// exists in channelID, otherwise it posts a new one.
func postMenu(s *discordgo.Session, store *rolemenu.Store, guildID, channelID string, cat rolemenu.Category) (*discordgo.Message, error) {
	embed := rolemenu.MenuEmbed(cat)

	if prev, ok := store.Get(guildID, cat.Name); ok && (prev.ChannelID == "" || prev.ChannelID == channelID) {
		msg, err := s.ChannelMessageEditEmbed(channelID, prev.MessageID, embed)
		if err == nil {
			if err := s.MessageReactionsRemoveAll(channelID, msg.ID); err != nil {
				logger.Debug("Impossible de nettoyer les réactions: "+err.Error(), "RoleMenu")
			}
			logger.Info("Message de rôles-réaction existant mis à jour pour la catégorie "+cat.Name, "RoleMenu")
			return msg, nil
		}
	}

	msg, err := s.ChannelMessageSendEmbed(channelID, embed)
	if err != nil {
		return nil, err
	}
	logger.Info("Nouveau message de rôles-réaction créé pour la catégorie "+cat.Name, "RoleMenu")
	return msg, nil
}
