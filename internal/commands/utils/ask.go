package utils

import (
	"errors"

	"github.com/PancyStudios/ChiiBot/pkg/assistant"
	"github.com/PancyStudios/ChiiBot/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

func (m *module) askCommand() *discord.Command {
	return discord.NewCommand(
		"ask",
		"Pose une question à ChatGPT",
		category,
		m.askHandler,
	).WithOptions(&discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "question",
		Description: "Ta question",
	}).WithAliases("chatgpt", "gpt")
}

func (m *module) askHandler(ctx *discord.CommandContext) error {
	question := ctx.GetStringOption("question")
	if question == "" {
		return ctx.ReplyEmbed(assistant.UsageEmbed(ctx.Client.Prefix))
	}

	if err := ctx.Defer(); err != nil {
		return err
	}
	answer, err := m.svc.Assistant.Ask(ctx.Context(), question)
	if errors.Is(err, assistant.ErrEmptyQuestion) {
		return ctx.EditReplyEmbed(assistant.UsageEmbed(ctx.Client.Prefix))
	}
	if err != nil {
		return ctx.EditReplyEmbed(assistant.ErrorEmbed(err))
	}
	return ctx.EditReplyEmbed(assistant.AnswerEmbed(question, answer, ctx.User().Username, m.svc.Assistant.Model))
}
