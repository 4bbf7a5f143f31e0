package utils

import (
	"sort"
	"strings"

	"github.com/PancyStudios/ChiiBot/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

var categoryTitles = map[string]string{
	"levels":    "🌟 Niveaux",
	"mod":       "🛡️ Modération",
	"roles":     "🎭 Rôles",
	"social":    "📱 TikTok",
	"community": "🎉 Communauté",
	"music":     "🎵 Musique",
	"utils":     "🔧 Utilitaires",
}

func helpCommand() *discord.Command {
	return discord.NewCommand(
		"help",
		"Liste les commandes du bot",
		category,
		func(ctx *discord.CommandContext) error {
			return ctx.ReplyEmbed(HelpEmbed(ctx.Client.Prefix, ctx.Client.Commands.ByCategory()))
		},
	).WithAliases("aide")
}

// HelpEmbed lists the commands with one field per category. Admin commands
// are marked with a lock.
func HelpEmbed(prefix string, groups map[string][]*discord.Command) *discordgo.MessageEmbed {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	embed := &discordgo.MessageEmbed{
		Title:       "📖 Commandes de Chii",
		Description: "Toutes les commandes existent en `/commande` et en `" + prefix + "commande`.",
		Color:       embedColor,
		Footer:      &discordgo.MessageEmbedFooter{Text: footerText},
	}
	for _, name := range names {
		title, ok := categoryTitles[name]
		if !ok {
			title = name
		}
		lines := make([]string, 0, len(groups[name]))
		for _, cmd := range groups[name] {
			line := "`" + prefix + cmd.Name + "` " + cmd.Description
			if cmd.UserPermissions&discordgo.PermissionAdministrator != 0 {
				line = "🔒 " + line
			}
			lines = append(lines, line)
		}
		value := strings.Join(lines, "\n")
		if len([]rune(value)) > 1024 {
			value = string([]rune(value)[:1021]) + "..."
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: title, Value: value})
	}
	return embed
}
