package utils

import (
	"fmt"

	"github.com/PancyStudios/ChiiBot/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

func pingCommand() *discord.Command {
	return discord.NewCommand(
		"ping",
		"Affiche la latence du bot",
		category,
		func(ctx *discord.CommandContext) error {
			latency := ctx.Session.HeartbeatLatency().Milliseconds()
			return ctx.ReplyEmbed(&discordgo.MessageEmbed{
				Title:       "🏓 Pong !",
				Description: fmt.Sprintf("Latence du bot: **%dms**", latency),
				Color:       embedColor,
			})
		},
	)
}
