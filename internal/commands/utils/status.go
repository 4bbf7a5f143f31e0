package utils

import (
	"fmt"

	"github.com/PancyStudios/ChiiBot/pkg/discord"
)

func (m *module) statusCommand() *discord.Command {
	return discord.NewCommand(
		"status",
		"Affiche l'état des services du bot",
		category,
		m.statusHandler,
	)
}

func (m *module) statusHandler(ctx *discord.CommandContext) error {
	music := m.svc.Music != nil && m.svc.Music.Ready()
	return ctx.Reply(StatusMessage(StatusReport{
		Storage: m.svc.Config.StorageDriver,
		MQTT:    m.svc.Events.IsConnected(),
		Music:   music,
		Guilds:  ctx.Client.GuildCount(),
	}))
}

// StatusReport is the state shown by the status command.
type StatusReport struct {
	Storage string
	MQTT    bool
	Music   bool
	Guilds  int
}

func light(ok bool) string {
	if ok {
		return "🟢 Connecté"
	}
	return "🔴 Hors ligne"
}

// StatusMessage renders r as a bullet list.
func StatusMessage(r StatusReport) string {
	return fmt.Sprintf(
		"📊 **État du bot**\n"+
			"• Bot: 🟢 En ligne\n"+
			"• Stockage: %s\n"+
			"• MQTT: %s\n"+
			"• Lavalink: %s\n"+
			"• Serveurs: %d",
		r.Storage,
		light(r.MQTT),
		light(r.Music),
		r.Guilds,
	)
}
