package utils

import (
	"time"

	"github.com/PancyStudios/ChiiBot/pkg/discord"
	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

func sayCommand() *discord.Command {
	return discord.NewCommand(
		"say",
		"Le bot répète ton message",
		category,
		func(ctx *discord.CommandContext) error {
			text := ctx.GetStringOption("message")
			if text == "" {
				return deleteAfter(ctx, "❌ Tu dois inclure un message. Usage: `"+ctx.Client.Prefix+"say <ton message>`", 5*time.Second)
			}

			if !ctx.IsInteraction() {
				if err := ctx.Session.ChannelMessageDelete(ctx.ChannelID(), ctx.Message.ID); err != nil {
					logger.Error("Erreur lors de la suppression du message: "+err.Error(), "Utils")
				}
			}
			if _, err := ctx.Session.ChannelMessageSendComplex(ctx.ChannelID(), &discordgo.MessageSend{
				Content:         text,
				AllowedMentions: &discordgo.MessageAllowedMentions{},
			}); err != nil {
				return err
			}
			if ctx.IsInteraction() {
				return ctx.ReplyEphemeral("✅")
			}
			return nil
		},
	).WithOptions(&discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "message",
		Description: "Le message à répéter",
	})
}

// deleteAfter answers with content and removes the answer after d. Slash
// commands get an ephemeral answer instead.
func deleteAfter(ctx *discord.CommandContext, content string, d time.Duration) error {
	if ctx.IsInteraction() {
		return ctx.ReplyEphemeral(content)
	}
	msg, err := ctx.Session.ChannelMessageSend(ctx.ChannelID(), content)
	if err != nil {
		return err
	}
	time.AfterFunc(d, func() {
		_ = ctx.Session.ChannelMessageDelete(msg.ChannelID, msg.ID)
	})
	return nil
}
