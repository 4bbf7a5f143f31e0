package levels

import (
	"fmt"

	"github.com/PancyStudios/ChiiBot/pkg/discord"
	"github.com/PancyStudios/ChiiBot/pkg/leveling"
	"github.com/bwmarrin/discordgo"
)

func (m *module) rankCommand() *discord.Command {
	return discord.NewCommand(
		"rank",
		"Affiche le niveau et l'XP d'un membre",
		category,
		m.rankHandler,
	).WithOptions(
		&discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "membre",
			Description: "Le membre à afficher (toi par défaut)",
		},
	).WithAliases("niveau", "level")
}

func (m *module) rankHandler(ctx *discord.CommandContext) error {
	target := ctx.GetUserOption("membre")
	if target == nil {
		target = ctx.User()
	}
	guildID := ctx.GuildID()

	rec, ok := m.svc.Levels.Get(guildID, target.ID)
	if !ok {
		return ctx.ReplyEmbed(&discordgo.MessageEmbed{
			Title:       "Niveau",
			Description: fmt.Sprintf("%s n'a pas encore gagné d'XP sur ce serveur.", target.Mention()),
			Color:       embedColor,
		})
	}

	name := target.DisplayName()
	if n, ok := discord.MemberName(ctx.Session, guildID, target.ID); ok {
		name = n
	}
	return ctx.ReplyEmbed(RankEmbed(name, target.AvatarURL(""), rec.XP, m.svc.Levels.Rank(guildID, target.ID)))
}

// RankEmbed builds the rank card of a member.
func RankEmbed(name, avatarURL string, xp, rank int) *discordgo.MessageEmbed {
	p := leveling.Progress(xp)

	current := "Aucun rôle de niveau encore"
	if ms, ok := leveling.MilestoneFor(p.Level); ok {
		current = "**" + ms.Role + "**"
	}
	next := "Tu as atteint le rôle maximum ! 👑"
	if ms, ok := leveling.NextMilestone(p.Level); ok {
		next = fmt.Sprintf("**%s** (Niveau %d)\nPlus que **%d** XP !", ms.Role, ms.Level, leveling.RequiredXP(ms.Level)-xp)
	}

	return &discordgo.MessageEmbed{
		Title:     "Niveau de " + name,
		Color:     embedColor,
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: avatarURL},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🌟 Niveau", Value: fmt.Sprintf("**%d**", p.Level), Inline: true},
			{Name: "✨ XP totale", Value: fmt.Sprintf("**%d** points", xp), Inline: true},
			{Name: "🏆 Rang", Value: fmt.Sprintf("**#%d**", rank), Inline: true},
			{
				Name:  fmt.Sprintf("Progression vers le niveau %d", p.Next),
				Value: fmt.Sprintf("%s %.1f%%\n%d/%d XP", p.Bar, p.Percent, p.Into, p.Span),
			},
			{Name: "🏅 Rôle actuel", Value: current, Inline: true},
			{Name: "🎯 Prochain rôle", Value: next, Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "💬 Gagne de l'XP en discutant sur le serveur !"},
	}
}
