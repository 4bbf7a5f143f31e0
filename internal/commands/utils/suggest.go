package utils

import (
	"time"

	"github.com/PancyStudios/ChiiBot/pkg/discord"
	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

const suggestionsChannel = "💡・idées-du-staff"

var voteEmojis = []string{"👍", "👎"}

func suggestCommand() *discord.Command {
	return discord.NewCommand(
		"suggest",
		"Propose une idée pour le serveur",
		category,
		func(ctx *discord.CommandContext) error {
			text := ctx.GetStringOption("suggestion")
			if text == "" {
				return ctx.Reply("❌ Tu dois inclure une suggestion !")
			}

			channelID := ctx.ChannelID()
			if ch := discord.FindChannel(ctx.Session, ctx.GuildID(), suggestionsChannel); ch != nil {
				channelID = ch.ID
			}

			msg, err := ctx.Session.ChannelMessageSendEmbed(channelID, SuggestionEmbed(ctx.User(), text, time.Now()))
			if err != nil {
				return err
			}
			for _, emoji := range voteEmojis {
				if err := ctx.Session.MessageReactionAdd(channelID, msg.ID, emoji); err != nil {
					logger.Warn("Réaction de vote impossible: "+err.Error(), "Utils")
				}
			}

			if channelID != ctx.ChannelID() {
				return ctx.Reply("✅ Ta suggestion a été envoyée dans <#" + channelID + "> !")
			}
			if ctx.IsInteraction() {
				return ctx.ReplyEphemeral("✅ Suggestion envoyée !")
			}
			return nil
		},
	).WithOptions(&discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "suggestion",
		Description: "Ton idée",
	}).WithAliases("idee")
}

// SuggestionEmbed presents a member's suggestion for voting.
func SuggestionEmbed(author *discordgo.User, text string, at time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "💡 Nouvelle suggestion",
		Description: text,
		Color:       0xf1c40f,
		Author: &discordgo.MessageEmbedAuthor{
			Name:    author.DisplayName(),
			IconURL: author.AvatarURL(""),
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: "ID: " + author.ID},
		Timestamp: at.Format(time.RFC3339),
	}
}
