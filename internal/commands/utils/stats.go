package utils

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/PancyStudios/ChiiBot/pkg/config"
	"github.com/PancyStudios/ChiiBot/pkg/discord"
	"github.com/bwmarrin/discordgo"
)

func statsCommand() *discord.Command {
	return discord.NewCommand(
		"stats",
		"Affiche les statistiques du bot",
		category,
		statsHandler,
	).WithAliases("botinfo")
}

func statsHandler(ctx *discord.CommandContext) error {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	memberCount := 0
	ctx.Session.State.RLock()
	for _, guild := range ctx.Session.State.Guilds {
		memberCount += guild.MemberCount
	}
	ctx.Session.State.RUnlock()

	footer := &discordgo.MessageEmbedFooter{Text: footerText}
	if bot := ctx.Client.BotUser(); bot != nil {
		footer.IconURL = bot.AvatarURL("")
	}

	embed := &discordgo.MessageEmbed{
		Title: "📊 Statistiques du bot",
		Color: embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🤖 Version", Value: config.Version, Inline: true},
			{Name: "🐹 Go", Value: strings.TrimPrefix(runtime.Version(), "go"), Inline: true},
			{Name: "📚 DiscordGo", Value: discordgo.VERSION, Inline: true},
			{Name: "🖥 Mémoire", Value: fmt.Sprintf("%.2f MB", float64(m.Alloc)/1024/1024), Inline: true},
			{Name: "⚙️ CPU", Value: fmt.Sprintf("%d goroutines / %d CPUs", runtime.NumGoroutine(), runtime.NumCPU()), Inline: true},
			{Name: "⏱ En ligne depuis", Value: formatDuration(time.Since(ctx.Client.StartTime)), Inline: true},
			{Name: "🏠 Serveurs", Value: fmt.Sprintf("%d", ctx.Client.GuildCount()), Inline: true},
			{Name: "👥 Membres", Value: fmt.Sprintf("%d", memberCount), Inline: true},
		},
		Footer:    footer,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	return ctx.ReplyEmbed(embed)
}

// formatDuration renders d as "2 jours, 3 heures, 1 minute".
func formatDuration(d time.Duration) string {
	units := []struct {
		n        int
		one, many string
	}{
		{int(d.Hours() / 24), "jour", "jours"},
		{int(d.Hours()) % 24, "heure", "heures"},
		{int(d.Minutes()) % 60, "minute", "minutes"},
		{int(d.Seconds()) % 60, "seconde", "secondes"},
	}

	var parts []string
	for _, u := range units {
		switch {
		case u.n == 1:
			parts = append(parts, "1 "+u.one)
		case u.n > 1:
			parts = append(parts, fmt.Sprintf("%d %s", u.n, u.many))
		}
	}
	if len(parts) == 0 {
		return "0 seconde"
	}
	return strings.Join(parts, ", ")
}
