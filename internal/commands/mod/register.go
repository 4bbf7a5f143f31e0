// Package mod provides the moderation commands. Each command lives in its own file.
package mod

import (
	"fmt"

	"github.com/PancyStudios/ChiiBot/internal/services"
	"github.com/PancyStudios/ChiiBot/pkg/discord"
	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/PancyStudios/ChiiBot/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

const category = "mod"

type module struct {
	svc *services.Services
}

// RegisterModCommands registers the moderation and anti-link commands
func RegisterModCommands(client *discord.ExtendedClient, svc *services.Services) {
	m := &module{svc: svc}
	client.CommandHandler.RegisterCommands(
		m.clearCommand(),
		m.kickCommand(),
		m.banCommand(),
		m.unbanCommand(),
		m.muteCommand(),
		m.unmuteCommand(),
		m.warningsCommand(),
		m.addWarningCommand(),
		m.clearWarningsCommand(),
		m.removeWarnCommand(),
		m.exemptChannelCommand(),
		m.unexemptChannelCommand(),
	)
}

func memberOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "membre",
		Description: description,
		Required:    true,
	}
}

func reasonOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "raison",
		Description: "Raison de la sanction",
	}
}

func reason(ctx *discord.CommandContext) string {
	if r := ctx.GetStringOption("raison"); r != "" {
		return r
	}
	return moderation.DefaultReason
}

// auditReason is what Discord stores in the audit log.
func auditReason(ctx *discord.CommandContext, reason string) string {
	return ctx.User().Username + ": " + reason
}

// hierarchyMessage returns the refusal for verb ("expulser", "bannir"...) or
// "" when the bot and the moderator both outrank the target.
func (m *module) hierarchyMessage(ctx *discord.CommandContext, targetID, verb string) (string, error) {
	guildID := ctx.GuildID()
	roles, err := m.svc.Gateway.GuildRoles(guildID)
	if err != nil {
		return "", err
	}
	top := func(userID string) int {
		ids, err := m.svc.Gateway.MemberRoleIDs(guildID, userID)
		if err != nil {
			return 0
		}
		return moderation.TopRolePosition(ids, roles)
	}

	targetTop := top(targetID)
	botTop := top(ctx.Session.State.User.ID)
	actor := ctx.User().ID
	isOwner := false
	if g := ctx.Guild(); g != nil {
		isOwner = g.OwnerID == actor
	}

	switch moderation.CheckHierarchy(botTop, top(actor), targetTop, isOwner) {
	case moderation.ErrBotBelowTarget:
		return fmt.Sprintf("❌ Je ne peux pas %s ce membre car son rôle est supérieur au mien.", verb), nil
	case moderation.ErrActorBelowTarget:
		return fmt.Sprintf("❌ Tu ne peux pas %s ce membre car son rôle est supérieur au tien.", verb), nil
	}
	return "", nil
}

// notify DMs the sanction to the member. Closed DMs are not an error.
func (m *module) notify(userID string, embed *discordgo.MessageEmbed) {
	if err := m.svc.Gateway.SendDMEmbed(userID, embed); err != nil {
		logger.Debug(fmt.Sprintf("MP impossible pour %s: %v", userID, err), "Mod")
	}
}

// failure maps a Discord error onto the reply for verb.
func failure(err error, verb string) string {
	if discord.ClassifyError(err) == discord.ErrorPermission {
		return fmt.Sprintf("❌ Je n'ai pas la permission de %s ce membre.", verb)
	}
	return fmt.Sprintf("❌ Une erreur est survenue: %v", err)
}

func guildName(ctx *discord.CommandContext) string {
	if g := ctx.Guild(); g != nil {
		return g.Name
	}
	return ctx.GuildID()
}
