// Package services builds the feature stores once and hands them to the
// command and event packages.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PancyStudios/ChiiBot/pkg/assistant"
	"github.com/PancyStudios/ChiiBot/pkg/config"
	"github.com/PancyStudios/ChiiBot/pkg/dailyquestion"
	"github.com/PancyStudios/ChiiBot/pkg/discord"
	"github.com/PancyStudios/ChiiBot/pkg/giveaway"
	"github.com/PancyStudios/ChiiBot/pkg/invites"
	"github.com/PancyStudios/ChiiBot/pkg/lavalink"
	"github.com/PancyStudios/ChiiBot/pkg/leveling"
	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/PancyStudios/ChiiBot/pkg/models"
	"github.com/PancyStudios/ChiiBot/pkg/moderation"
	"github.com/PancyStudios/ChiiBot/pkg/mqtt"
	"github.com/PancyStudios/ChiiBot/pkg/rolemenu"
	"github.com/PancyStudios/ChiiBot/pkg/storage"
	"github.com/PancyStudios/ChiiBot/pkg/tickets"
	"github.com/PancyStudios/ChiiBot/pkg/tiktok"
	"github.com/bwmarrin/discordgo"
)

// Services is everything a command or event handler may need.
type Services struct {
	Config  *config.Config
	Backend storage.Backend
	Gateway *discord.Gateway
	Events  *mqtt.Client

	Levels     *leveling.Service
	LevelFlow  *leveling.Processor
	Warnings   *moderation.Ledger
	Exemptions *moderation.Exemptions
	AntiLink   *moderation.Filter
	RoleMenus  *rolemenu.Store
	Reactions  *rolemenu.Dispatcher
	TikTok     *tiktok.Poller
	Invites    *invites.Tracker
	Giveaways  *giveaway.Manager
	Tickets    *tickets.Store
	Questions  *dailyquestion.Rotation
	Assistant  *assistant.Assistant

	// Music is nil until StartMusic runs after login.
	Music *lavalink.Client
}

// New wires the stores on top of backend. events may be nil.
func New(cfg *config.Config, backend storage.Backend, session *discordgo.Session, events *mqtt.Client) *Services {
	gw := discord.NewGateway(session)
	s := &Services{
		Config:  cfg,
		Backend: backend,
		Gateway: gw,
		Events:  events,
	}

	s.Levels = leveling.NewService(backend)
	s.LevelFlow = &leveling.Processor{
		Service:  s.Levels,
		Roles:    gw,
		Notifier: &discord.LevelNotifier{Session: session, ChannelID: cfg.LevelUpChannelID},
		OnLevelUp: func(up leveling.LevelUp) {
			events.Emit(mqtt.Topic("levels", "levelup"), up)
		},
	}

	s.Warnings = moderation.NewLedger(backend)
	s.Exemptions = moderation.NewExemptions(backend)
	s.AntiLink = &moderation.Filter{
		Ledger:     s.Warnings,
		Exemptions: s.Exemptions,
		Actions:    gw,
		OnWarn: func(m moderation.Message, count int) {
			events.Emit(mqtt.Topic("moderation", "warn"), map[string]interface{}{
				"guildId": m.GuildID, "userId": m.AuthorID, "count": count, "reason": moderation.DefaultReason,
			})
		},
		OnBan: func(m moderation.Message) {
			events.Emit(mqtt.Topic("moderation", "ban"), map[string]interface{}{
				"guildId": m.GuildID, "userId": m.AuthorID,
			})
		},
	}

	s.RoleMenus = rolemenu.NewStore(backend)
	s.Reactions = &rolemenu.Dispatcher{Store: s.RoleMenus, Client: gw}

	var fetcher tiktok.Fetcher = tiktok.DisabledFetcher{}
	if cfg.TikTokAPIURL != "" {
		fetcher = tiktok.NewHTTPFetcher(cfg.TikTokAPIURL)
	}
	notifier := &eventNotifier{inner: &discord.TikTokNotifier{Session: session}, events: events}
	s.TikTok = tiktok.NewPoller(backend, fetcher, notifier,
		time.Duration(cfg.TikTokInterval)*time.Second, time.Duration(cfg.TikTokDelay)*time.Second)

	s.Invites = invites.NewTracker(backend, gw)
	s.Giveaways = giveaway.NewManager(backend, gw)
	s.Giveaways.OnEnd = func(g models.Giveaway) {
		events.Emit(mqtt.Topic("giveaway", "end"), g)
	}
	s.Tickets = tickets.NewStore(backend)
	s.Questions = dailyquestion.NewRotation(backend)

	var completer assistant.Completer = assistant.Disabled{}
	if cfg.OpenAIKey != "" {
		completer = assistant.NewOpenAI(cfg.OpenAIKey, cfg.OpenAIModel)
	}
	s.Assistant = &assistant.Assistant{Completer: completer, Model: cfg.OpenAIModel}

	return s
}

// Load reads every persisted document. A failing store is reported and the
// others still load.
func (s *Services) Load(ctx context.Context) error {
	loaders := []struct {
		name string
		load func(context.Context) error
	}{
		{"levels", s.Levels.Load},
		{"warnings", s.Warnings.Load},
		{"antilink", s.Exemptions.Load},
		{"role menus", s.RoleMenus.Load},
		{"tiktok", s.TikTok.Load},
		{"invites", s.Invites.Load},
		{"tickets", s.Tickets.Load},
		{"daily questions", s.Questions.Load},
	}

	var errs []error
	for _, l := range loaders {
		if err := l.load(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", l.name, err))
		}
	}
	return errors.Join(errs...)
}

// StartGateway finishes the wiring that needs the logged in user and
// reschedules persisted giveaways.
func (s *Services) StartGateway(ctx context.Context, botID string) error {
	s.Reactions.BotID = botID
	return s.Giveaways.Load(ctx)
}

// StartMusic connects to the Lavalink node. Failures leave Music usable; it
// reconnects in the background.
func (s *Services) StartMusic(session *discordgo.Session, botID string) {
	nodes := []lavalink.NodeConfig{{
		Name:     "main",
		Host:     s.Config.LinkServer,
		Port:     s.Config.LinkPort,
		Password: s.Config.LinkPassword,
	}}
	var events lavalink.Publisher
	if s.Events != nil {
		events = s.Events
	}
	music := lavalink.Init(session, botID, nodes, events)

	music.OnTrackStart = func(p *lavalink.Player, t *lavalink.Track) {
		if p.TextChannelID == "" {
			return
		}
		msg := fmt.Sprintf("🎶 Lecture en cours: **%s** (%s)", t.Info.Title, lavalink.FormatDuration(t.Info.Length))
		if _, err := session.ChannelMessageSend(p.TextChannelID, msg); err != nil {
			logger.Warn("Annonce de la piste impossible: "+err.Error(), "Music")
		}
	}
	music.OnQueueEnd = func(p *lavalink.Player) {
		if p.TextChannelID != "" {
			_, _ = session.ChannelMessageSend(p.TextChannelID, "✅ File d'attente terminée.")
		}
	}
	music.OnTrackError = func(p *lavalink.Player, t *lavalink.Track, reason string) {
		logger.Error(fmt.Sprintf("Erreur de lecture %s: %s", t.Info.Title, reason), "Music")
		if p.TextChannelID != "" {
			_, _ = session.ChannelMessageSend(p.TextChannelID, "❌ Impossible de lire **"+t.Info.Title+"**, piste suivante.")
		}
	}

	if err := music.Connect(); err != nil {
		logger.Warn("Lavalink indisponible: "+err.Error(), "Music")
	}
	s.Music = music
}

// PostQuestion posts the next daily question in guild. It returns
// dailyquestion.ErrNoChannel when the guild has no question channel.
func (s *Services) PostQuestion(ctx context.Context, session *discordgo.Session, guild *discordgo.Guild) error {
	channelID, err := s.Questions.ResolveChannel(ctx, guild.ID, guild.Channels, s.Config.DailyQuestionChannelID)
	if err != nil {
		return err
	}
	question, err := s.Questions.Next(ctx)
	if err != nil {
		return err
	}
	if _, err := session.ChannelMessageSendEmbed(channelID, dailyquestion.Embed(question, time.Now())); err != nil {
		return fmt.Errorf("post question in %s: %w", guild.Name, err)
	}
	logger.Info(fmt.Sprintf("Question du jour envoyée dans %s", guild.Name), "DailyQuestion")
	return nil
}

// PostQuestions is the midnight job: one question per guild that has a channel.
func (s *Services) PostQuestions(ctx context.Context, session *discordgo.Session) {
	session.State.RLock()
	guilds := append([]*discordgo.Guild(nil), session.State.Guilds...)
	session.State.RUnlock()

	for _, guild := range guilds {
		err := s.PostQuestion(ctx, session, guild)
		switch {
		case errors.Is(err, dailyquestion.ErrNoChannel):
			logger.Debug("Aucun salon de question du jour sur "+guild.Name, "DailyQuestion")
		case err != nil:
			logger.Error(err.Error(), "DailyQuestion")
		}
	}
}

// Save flushes the documents that are written lazily.
func (s *Services) Save(ctx context.Context) error {
	return errors.Join(s.Levels.Save(ctx), s.TikTok.Save(ctx))
}

// Close stops timers and background connections.
func (s *Services) Close() {
	s.Giveaways.Close()
	if s.Music != nil {
		s.Music.Close()
	}
}

// eventNotifier publishes TikTok notifications on MQTT after posting them.
type eventNotifier struct {
	inner  tiktok.Notifier
	events *mqtt.Client
}

func (n *eventNotifier) NotifyVideo(ctx context.Context, userID, username string, st tiktok.Status) error {
	err := n.inner.NotifyVideo(ctx, userID, username, st)
	n.events.Emit(mqtt.Topic("tiktok", "video"), map[string]interface{}{
		"userId": userID, "username": username, "url": st.LatestVideoURL,
	})
	return err
}

func (n *eventNotifier) NotifyLive(ctx context.Context, userID, username string) error {
	err := n.inner.NotifyLive(ctx, userID, username)
	n.events.Emit(mqtt.Topic("tiktok", "live"), map[string]interface{}{
		"userId": userID, "username": username,
	})
	return err
}
