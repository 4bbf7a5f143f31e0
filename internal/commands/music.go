// Package commands provides music commands for the bot.
package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PancyStudios/ChiiBot/internal/services"
	"github.com/PancyStudios/ChiiBot/pkg/discord"
	"github.com/PancyStudios/ChiiBot/pkg/lavalink"
	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

const (
	musicCategory = "୨୧・Musique"
	musicColor    = 0xffaadd
	musicBitrate  = 96000
)

// MusicChannels are created by createmusicchannels.
var MusicChannels = []string{
	"🎸・lofi hip-hop",
	"🎹・piano chill",
	"🥁・pop hits",
	"🎤・karaoke party",
	"🎧・music session",
}

// minVolumeFloat is the minimum volume value for Discord command options
var minVolumeFloat = float64(lavalink.MinVolume)

type music struct {
	svc *services.Services
}

// RegisterMusicCommands registers all music commands
func RegisterMusicCommands(client *discord.ExtendedClient, svc *services.Services) {
	m := &music{svc: svc}
	client.CommandHandler.RegisterCommands(
		discord.NewCommand("join", "Rejoint ton salon vocal", "music", m.joinHandler).RequiresVoice(),
		discord.NewCommand("leave", "Quitte le salon vocal", "music", m.leaveHandler).WithAliases("disconnect"),
		discord.NewCommand("play", "Joue une musique ou l'ajoute à la file", "music", m.playHandler).WithOptions(
			&discordgo.ApplicationCommandOption{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "recherche",
				Description: "Titre ou URL",
				Required:    true,
			},
		).WithAliases("p").RequiresVoice(),
		discord.NewCommand("skip", "Passe à la musique suivante", "music", m.skipHandler),
		discord.NewCommand("pause", "Met la musique en pause", "music", m.pauseHandler(true)),
		discord.NewCommand("resume", "Reprend la lecture", "music", m.pauseHandler(false)),
		discord.NewCommand("stop", "Arrête la lecture et vide la file", "music", m.stopHandler),
		discord.NewCommand("queue", "Affiche la file d'attente", "music", m.queueHandler).WithAliases("q"),
		discord.NewCommand("volume", "Affiche ou règle le volume", "music", m.volumeHandler).WithOptions(
			&discordgo.ApplicationCommandOption{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "niveau",
				Description: "Volume entre 0 et 100",
				MinValue:    &minVolumeFloat,
				MaxValue:    lavalink.MaxVolume,
			},
		).WithAliases("vol"),
		discord.NewCommand("nowplaying", "Affiche la musique en cours", "music", m.nowPlayingHandler).WithAliases("np"),
		discord.NewCommand("createmusicchannels", "Crée les salons vocaux de musique", "music", createMusicChannelsHandler).
			WithAliases("create_music_channels").
			AdminOnly().
			WithBotPermissions(discordgo.PermissionManageChannels),
	)
}

// player returns the music client, answering the member when it is not running.
func (m *music) player(ctx *discord.CommandContext) (*lavalink.Client, bool) {
	if m.svc.Music == nil {
		_ = ctx.ReplyEphemeral("❌ Le système de musique n'est pas disponible.")
		return nil, false
	}
	return m.svc.Music, true
}

// musicError turns a player error into a message for the member.
func musicError(err error) string {
	switch {
	case errors.Is(err, lavalink.ErrNothingPlaying):
		return "❌ Je ne joue rien actuellement."
	case errors.Is(err, lavalink.ErrAlreadyPaused):
		return "⚠️ La musique est déjà en pause."
	case errors.Is(err, lavalink.ErrNotPaused):
		return "⚠️ La musique n'est pas en pause."
	case errors.Is(err, lavalink.ErrInvalidVolume):
		return "⚠️ Le volume doit être entre 0 et 100."
	case errors.Is(err, lavalink.ErrNoNode):
		return "❌ Le système de musique n'est pas disponible."
	}
	return fmt.Sprintf("❌ Erreur: %v", err)
}

func (m *music) joinHandler(ctx *discord.CommandContext) error {
	client, ok := m.player(ctx)
	if !ok {
		return nil
	}
	channelID := ctx.VoiceChannelID()
	if p := client.Player(ctx.GuildID()); p != nil && p.VoiceChannelID() == channelID {
		return ctx.Reply("✅ Je suis déjà dans <#" + channelID + ">")
	}
	if err := client.Join(ctx.GuildID(), channelID, ctx.ChannelID()); err != nil {
		return err
	}
	return ctx.Reply("👋 J'ai rejoint <#" + channelID + ">")
}

func (m *music) leaveHandler(ctx *discord.CommandContext) error {
	client, ok := m.player(ctx)
	if !ok {
		return nil
	}
	if client.Player(ctx.GuildID()) == nil {
		return ctx.Reply("❌ Je ne suis pas dans un salon vocal.")
	}
	if err := client.Leave(ctx.Context(), ctx.GuildID()); err != nil {
		return err
	}
	return ctx.Reply("👋 J'ai quitté le salon vocal.")
}

func (m *music) playHandler(ctx *discord.CommandContext) error {
	client, ok := m.player(ctx)
	if !ok {
		return nil
	}
	query := ctx.GetStringOption("recherche")
	guildID := ctx.GuildID()

	if err := ctx.Reply(fmt.Sprintf("🔍 Recherche de `%s`...", query)); err != nil {
		return err
	}

	if p := client.Player(guildID); p == nil || p.VoiceChannelID() == "" {
		if err := client.Join(guildID, ctx.VoiceChannelID(), ctx.ChannelID()); err != nil {
			return ctx.EditReply(fmt.Sprintf("❌ Impossible de rejoindre le salon vocal: %v", err))
		}
	}

	tracks, err := client.Search(ctx.Context(), query, ctx.User().Username)
	if errors.Is(err, lavalink.ErrNoMatches) {
		return ctx.EditReply(fmt.Sprintf("❌ Aucun résultat pour `%s`.", query))
	}
	if err != nil {
		logger.Error(fmt.Sprintf("Recherche %q: %v", query, err), "Music")
		return ctx.EditReply(musicError(err))
	}

	track := tracks[0]
	pos, err := client.Play(ctx.Context(), guildID, track)
	if err != nil {
		return ctx.EditReply(fmt.Sprintf("❌ Erreur: Je n'ai pas pu lire cette musique.\n```%v```", err))
	}
	return ctx.EditReplyEmbed(TrackEmbed(track, pos))
}

// TrackEmbed announces a track. pos 0 means it starts now, otherwise it is
// the position in the queue.
func TrackEmbed(t *lavalink.Track, pos int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "🎵 Lecture en cours",
		Description: fmt.Sprintf("[%s](%s)", t.Info.Title, t.Info.URI),
		Color:       musicColor,
	}
	if pos > 0 {
		embed.Title = "✅ Ajouté à la queue"
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Position dans la queue", Value: fmt.Sprintf("#%d", pos), Inline: true,
		})
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name: "Demandé par", Value: t.Requester, Inline: true,
	})
	if !t.Info.IsStream && t.Info.Length > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Durée", Value: lavalink.FormatDuration(t.Info.Length), Inline: true,
		})
	}
	if t.Info.Author != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Chaîne", Value: t.Info.Author, Inline: true,
		})
	}
	if t.Info.ArtworkURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: t.Info.ArtworkURL}
	}
	return embed
}

func (m *music) skipHandler(ctx *discord.CommandContext) error {
	client, ok := m.player(ctx)
	if !ok {
		return nil
	}
	if _, err := client.Skip(ctx.Context(), ctx.GuildID()); err != nil {
		return ctx.Reply(musicError(err))
	}
	return ctx.Reply("⏭️ Musique passée !")
}

func (m *music) pauseHandler(pause bool) discord.CommandRunFunc {
	return func(ctx *discord.CommandContext) error {
		client, ok := m.player(ctx)
		if !ok {
			return nil
		}
		if err := client.Pause(ctx.Context(), ctx.GuildID(), pause); err != nil {
			return ctx.Reply(musicError(err))
		}
		if pause {
			return ctx.Reply("⏸️ Musique mise en pause.")
		}
		return ctx.Reply("▶️ Lecture reprise.")
	}
}

func (m *music) stopHandler(ctx *discord.CommandContext) error {
	client, ok := m.player(ctx)
	if !ok {
		return nil
	}
	if client.Player(ctx.GuildID()) == nil {
		return ctx.Reply("❌ Je ne suis pas dans un salon vocal.")
	}
	playing, err := client.Stop(ctx.Context(), ctx.GuildID())
	if err != nil {
		return err
	}
	if !playing {
		return ctx.Reply("⚠️ Je ne joue rien actuellement, mais la queue a été vidée.")
	}
	return ctx.Reply("⏹️ Lecture arrêtée, queue vidée.")
}

func (m *music) queueHandler(ctx *discord.CommandContext) error {
	client, ok := m.player(ctx)
	if !ok {
		return nil
	}
	p := client.Player(ctx.GuildID())
	if p == nil {
		return ctx.Reply("📭 La queue est vide.")
	}
	current, queue, _, _ := p.Snapshot()
	embed := QueueEmbed(current, queue)
	if embed == nil {
		return ctx.Reply("📭 La queue est vide.")
	}
	return ctx.ReplyEmbed(embed)
}

// QueueEmbed lists the current track and what follows. It returns nil when
// both are empty.
func QueueEmbed(current *lavalink.Track, queue []*lavalink.Track) *discordgo.MessageEmbed {
	if current == nil && len(queue) == 0 {
		return nil
	}
	embed := &discordgo.MessageEmbed{Title: "🎵 Queue musicale", Color: musicColor}
	if current != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "🎧 En cours de lecture",
			Value: fmt.Sprintf("[%s](%s) | Demandé par %s", current.Info.Title, current.Info.URI, current.Requester),
		})
	}
	if len(queue) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "📋 Prochaines musiques",
			Value: strings.TrimSuffix(lavalink.FormatQueue(queue), "\n"),
		})
	}
	return embed
}

func (m *music) volumeHandler(ctx *discord.CommandContext) error {
	client, ok := m.player(ctx)
	if !ok {
		return nil
	}
	guildID := ctx.GuildID()
	p := client.Player(guildID)
	if p == nil {
		return ctx.Reply("❌ Je ne suis pas dans un salon vocal.")
	}
	if !ctx.HasOption("niveau") {
		_, _, _, volume := p.Snapshot()
		return ctx.Reply(fmt.Sprintf("🔊 Volume actuel: %d%%", volume))
	}
	level := int(ctx.GetIntOption("niveau"))
	if err := client.SetVolume(ctx.Context(), guildID, level); err != nil {
		return ctx.Reply(musicError(err))
	}
	return ctx.Reply(fmt.Sprintf("🔊 Volume réglé sur %d%%", level))
}

func (m *music) nowPlayingHandler(ctx *discord.CommandContext) error {
	client, ok := m.player(ctx)
	if !ok {
		return nil
	}
	p := client.Player(ctx.GuildID())
	if p == nil {
		return ctx.Reply(musicError(lavalink.ErrNothingPlaying))
	}
	current, _, paused, volume := p.Snapshot()
	if current == nil {
		return ctx.Reply(musicError(lavalink.ErrNothingPlaying))
	}

	embed := TrackEmbed(current, 0)
	progress := lavalink.FormatDuration(p.Elapsed())
	if current.Info.Length > 0 {
		progress += " / " + lavalink.FormatDuration(current.Info.Length)
	}
	if paused {
		progress += " ⏸️"
	}
	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{Name: "Progression", Value: progress, Inline: true},
		&discordgo.MessageEmbedField{Name: "Volume", Value: fmt.Sprintf("%d%%", volume), Inline: true},
	)
	return ctx.ReplyEmbed(embed)
}

func createMusicChannelsHandler(ctx *discord.CommandContext) error {
	guild := ctx.Guild()
	if guild == nil {
		return ctx.Reply("❌ Serveur introuvable.")
	}

	var parentID string
	existing := make(map[string]bool)
	for _, c := range guild.Channels {
		if c.Type == discordgo.ChannelTypeGuildCategory && c.Name == musicCategory {
			parentID = c.ID
		}
	}
	for _, c := range guild.Channels {
		if parentID != "" && c.ParentID == parentID {
			existing[c.Name] = true
		}
	}

	var notes []string
	if parentID == "" {
		category, err := ctx.Session.GuildChannelCreateComplex(guild.ID, discordgo.GuildChannelCreateData{
			Name: musicCategory,
			Type: discordgo.ChannelTypeGuildCategory,
			PermissionOverwrites: []*discordgo.PermissionOverwrite{
				{
					ID:    guild.ID,
					Type:  discordgo.PermissionOverwriteTypeRole,
					Allow: discordgo.PermissionVoiceConnect | discordgo.PermissionVoiceSpeak | discordgo.PermissionVoiceUseVAD,
				},
				{
					ID:   ctx.Session.State.User.ID,
					Type: discordgo.PermissionOverwriteTypeMember,
					Allow: discordgo.PermissionVoiceConnect | discordgo.PermissionVoiceSpeak |
						discordgo.PermissionVoiceMoveMembers | discordgo.PermissionVoiceMuteMembers,
				},
			},
		})
		if err != nil {
			return err
		}
		parentID = category.ID
		notes = append(notes, "✅ Catégorie `"+musicCategory+"` créée avec succès!")
	}

	created := 0
	for _, name := range MusicChannels {
		if existing[name] || existing[strings.ReplaceAll(name, "・", "-")] {
			continue
		}
		_, err := ctx.Session.GuildChannelCreateComplex(guild.ID, discordgo.GuildChannelCreateData{
			Name:     name,
			Type:     discordgo.ChannelTypeGuildVoice,
			ParentID: parentID,
			Bitrate:  musicBitrate,
		})
		if err != nil {
			logger.Error(fmt.Sprintf("Erreur lors de la création du salon '%s': %v", name, err), "Music")
			notes = append(notes, fmt.Sprintf("❌ Erreur lors de la création du salon `%s`: %v", name, err))
			continue
		}
		created++
		logger.Info(fmt.Sprintf("Salon vocal '%s' créé avec succès", name), "Music")
	}

	if created > 0 {
		notes = append(notes, fmt.Sprintf("✅ %d salons vocaux de musique ont été créés avec succès dans la catégorie `%s`!", created, musicCategory))
	} else {
		notes = append(notes, "ℹ️ Tous les salons vocaux de musique existent déjà.")
	}
	return ctx.Reply(strings.Join(notes, "\n"))
}
