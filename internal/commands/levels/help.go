package levels

import (
	"fmt"

	"github.com/PancyStudios/ChiiBot/pkg/discord"
	"github.com/PancyStudios/ChiiBot/pkg/leveling"
	"github.com/bwmarrin/discordgo"
)

func helpLevelsCommand() *discord.Command {
	return discord.NewCommand(
		"helplevels",
		"Explique le système de niveaux",
		category,
		func(ctx *discord.CommandContext) error {
			return ctx.ReplyEmbed(HelpEmbed(ctx.Client.Prefix))
		},
	).WithAliases("help_levels", "aide_niveaux", "aide_xp", "xp_help")
}

// HelpEmbed describes how XP is earned and which commands exist.
func HelpEmbed(prefix string) *discordgo.MessageEmbed {
	commands := fmt.Sprintf(
		"`%[1]srank [@membre]` Voir ton niveau\n"+
			"`%[1]sleaderboard` Classement des membres\n"+
			"`%[1]sdashboard` Top 10 du serveur\n"+
			"`%[1]shelp_levels` Cette aide",
		prefix,
	)
	progression := fmt.Sprintf(
		"`XP = 5 × (niveau²) + 50 × niveau + 100`\nNiveau 5 = %d XP, Niveau 10 = %d XP",
		leveling.RequiredXP(5), leveling.RequiredXP(10),
	)

	earn := fmt.Sprintf("Envoie des messages sur le serveur ! Tu gagnes entre %d et %d XP par message, une fois par minute.",
		leveling.MinGain, leveling.MaxGain)

	return &discordgo.MessageEmbed{
		Title: "🌟 Système de Niveaux et XP",
		Color: embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🔰 Comment gagner de l'XP", Value: earn},
			{Name: "📊 Commandes", Value: commands},
			{Name: "🏅 Rôles de niveau", Value: milestoneList()},
			{Name: "📈 Progression", Value: progression},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "✨ Reste actif et monte en niveau ! ✨"},
	}
}
