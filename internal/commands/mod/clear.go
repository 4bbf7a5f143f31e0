package mod

import (
	"fmt"
	"time"

	"github.com/PancyStudios/ChiiBot/pkg/discord"
	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/PancyStudios/ChiiBot/pkg/moderation"
	"github.com/bwmarrin/discordgo"
)

const (
	defaultClear = 5
	confirmTTL   = 5 * time.Second
)

func (m *module) clearCommand() *discord.Command {
	return discord.NewCommand(
		"clear",
		"Supprime des messages du salon",
		category,
		m.clearHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        "nombre",
			Description: "Nombre de messages à supprimer (1-100)",
		},
	).WithUserPermissions(discordgo.PermissionManageMessages).
		WithBotPermissions(discordgo.PermissionManageMessages)
}

func (m *module) clearHandler(ctx *discord.CommandContext) error {
	amount := defaultClear
	if ctx.HasOption("nombre") {
		amount = int(ctx.GetIntOption("nombre"))
	}
	if !moderation.ValidClearAmount(amount) {
		return ctx.Reply("❌ Le nombre de messages à supprimer doit être entre 1 et 100.")
	}

	channelID := ctx.ChannelID()
	before := ""
	if ctx.Message != nil {
		// the command message goes too
		before = ctx.Message.ID
		if err := ctx.Session.ChannelMessageDelete(channelID, ctx.Message.ID); err != nil {
			logger.Debug("Impossible de supprimer la commande: "+err.Error(), "Mod")
		}
	}

	msgs, err := ctx.Session.ChannelMessages(channelID, amount, before, "", "")
	if err != nil {
		return ctx.Reply(failure(err, "supprimer les messages de"))
	}
	ids := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		ids = append(ids, msg.ID)
	}
	if err := ctx.Session.ChannelMessagesBulkDelete(channelID, ids); err != nil {
		return ctx.Reply(discord.ErrorMessage(err))
	}

	text := fmt.Sprintf("✅ %d messages ont été supprimés.", len(ids))
	if ctx.IsInteraction() {
		return ctx.ReplyEphemeral(text)
	}
	confirm, err := ctx.Session.ChannelMessageSend(channelID, text)
	if err != nil {
		return err
	}
	time.AfterFunc(confirmTTL, func() {
		_ = ctx.Session.ChannelMessageDelete(channelID, confirm.ID)
	})
	return nil
}
