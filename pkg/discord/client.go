// Package discord provides the Discord bot client and related structures.
// It wraps discordgo with additional functionality for command and event handling.
package discord

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/ChiiBot/pkg/config"
	pkgerrors "github.com/PancyStudios/ChiiBot/pkg/errors"
	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"github.com/bwmarrin/discordgo"
)

func init() {
	discordgo.Logger = func(msgL int, caller int, format string, a ...interface{}) {
		msg := fmt.Sprintf(format, a...)
		switch msgL {
		case discordgo.LogError:
			logger.Error(msg, "DiscordGo")
		case discordgo.LogWarning:
			logger.Warn(msg, "DiscordGo")
		default:
			logger.Debug(msg, "DiscordGo")
		}
	}
}

// ExtendedClient wraps discordgo.Session with additional functionality
type ExtendedClient struct {
	Session        *discordgo.Session
	Commands       *CommandCollection
	CommandHandler *CommandHandler
	EventHandler   *EventHandler
	StartTime      time.Time
	Prefix         string
	DevGuildID     string

	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.RWMutex
	isReady bool
}

// CommandCollection holds registered commands and their aliases
type CommandCollection struct {
	commands map[string]*Command
	aliases  map[string]string
	mu       sync.RWMutex
}

// NewCommandCollection creates a new CommandCollection
func NewCommandCollection() *CommandCollection {
	return &CommandCollection{
		commands: make(map[string]*Command),
		aliases:  make(map[string]string),
	}
}

// Set adds or updates a command
func (cc *CommandCollection) Set(name string, cmd *Command) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.commands[name] = cmd
	for _, alias := range cmd.Aliases {
		cc.aliases[alias] = name
	}
}

// Get retrieves a command by its registered name
func (cc *CommandCollection) Get(name string) (*Command, bool) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	cmd, ok := cc.commands[name]
	return cmd, ok
}

// Resolve looks a name up directly, then through the aliases.
func (cc *CommandCollection) Resolve(name string) (*Command, bool) {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	if cmd, ok := cc.commands[name]; ok {
		return cmd, true
	}
	if target, ok := cc.aliases[name]; ok {
		cmd, ok := cc.commands[target]
		return cmd, ok
	}
	return nil, false
}

// Size returns the number of commands
func (cc *CommandCollection) Size() int {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	return len(cc.commands)
}

// All returns all commands keyed by registered name
func (cc *CommandCollection) All() map[string]*Command {
	cc.mu.RLock()
	defer cc.mu.RUnlock()
	result := make(map[string]*Command)
	for k, v := range cc.commands {
		result[k] = v
	}
	return result
}

// ByCategory groups the non-dev commands by category, sorted by name.
func (cc *CommandCollection) ByCategory() map[string][]*Command {
	out := make(map[string][]*Command)
	for _, cmd := range cc.All() {
		if cmd.IsDev {
			continue
		}
		out[cmd.Category] = append(out[cmd.Category], cmd)
	}
	for _, cmds := range out {
		sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	}
	return out
}

var (
	client *ExtendedClient
	once   sync.Once
)

// Init initializes the global Discord client
func Init(token string) (*ExtendedClient, error) {
	var err error
	once.Do(func() {
		client, err = NewClient(token)
	})
	return client, err
}

// Get returns the global Discord client
func Get() *ExtendedClient {
	return client
}

// NewClient creates a new ExtendedClient
func NewClient(token string) (*ExtendedClient, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsGuildInvites |
		discordgo.IntentsMessageContent

	session.ShardCount = 1
	session.SyncEvents = false
	session.StateEnabled = true
	session.State.MaxMessageCount = 100
	session.LogLevel = discordgo.LogWarning

	cfg := config.Get()
	ctx, cancel := context.WithCancel(context.Background())
	c := &ExtendedClient{
		Session:    session,
		Commands:   NewCommandCollection(),
		Prefix:     cfg.Prefix,
		DevGuildID: cfg.DevGuildID,
		ctx:        ctx,
		cancel:     cancel,
	}

	c.CommandHandler = NewCommandHandler(c)
	c.EventHandler = NewEventHandler(c)

	return c, nil
}

// Start initializes and starts the bot
func (c *ExtendedClient) Start() error {
	c.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		c.mu.Lock()
		c.isReady = true
		c.mu.Unlock()

		logger.Success("Bot connecté en tant que: "+r.User.Username, "Client")

		if err := c.CommandHandler.SyncCommands(); err != nil {
			logger.Error("Erreur lors de la synchronisation des commandes: "+err.Error(), "Client")
		}
	})
	c.Session.AddHandler(func(s *discordgo.Session, _ *discordgo.Disconnect) {
		c.mu.Lock()
		c.isReady = false
		c.mu.Unlock()
		logger.Warn("Connexion à Discord perdue", "Client")
	})
	c.Session.AddHandler(func(s *discordgo.Session, _ *discordgo.Resumed) {
		c.mu.Lock()
		c.isReady = true
		c.mu.Unlock()
		logger.Info("Session reprise", "Client")
	})

	c.Session.AddHandler(c.handleInteraction)

	c.StartTime = time.Now()

	return c.Session.Open()
}

// commandName builds "name", "name.sub" or "name.group.sub" from interaction data.
func commandName(data discordgo.ApplicationCommandInteractionData) string {
	name := data.Name
	if len(data.Options) > 0 {
		opt := data.Options[0]
		if opt.Type == discordgo.ApplicationCommandOptionSubCommandGroup {
			if len(opt.Options) > 0 {
				name = data.Name + "." + opt.Name + "." + opt.Options[0].Name
			}
		} else if opt.Type == discordgo.ApplicationCommandOptionSubCommand {
			name = data.Name + "." + opt.Name
		}
	}
	return name
}

// handleInteraction runs slash commands and their autocomplete. Buttons and
// modals are left to the event handlers.
func (c *ExtendedClient) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand && i.Type != discordgo.InteractionApplicationCommandAutocomplete {
		return
	}
	defer pkgerrors.RecoverMiddleware()()

	name := commandName(i.ApplicationCommandData())
	cmd, ok := c.Commands.Get(name)
	if !ok {
		logger.Warn("Command not found: "+name, "Client")
		return
	}

	ctx := &CommandContext{
		Session:     s,
		Interaction: i,
		Client:      c,
		Command:     cmd,
	}

	if i.Type == discordgo.InteractionApplicationCommandAutocomplete {
		if cmd.AutoComplete != nil {
			cmd.AutoComplete(ctx)
		}
		return
	}

	c.run(ctx, name)
}

// HandleMessage runs a prefixed command from m. It reports whether m was a
// known command, so callers can skip their own processing of it.
func (c *ExtendedClient) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	if m.Author == nil || m.Author.Bot {
		return false
	}
	name, rest, ok := SplitCommand(m.Content, c.Prefix)
	if !ok {
		return false
	}

	cmd, found := c.Commands.Resolve(name)
	if !found {
		// "!dev eval ..." reaches subcommands registered as "dev.eval".
		sub, subRest := nextField(rest)
		if sub == "" {
			return false
		}
		name = name + "." + strings.ToLower(sub)
		if cmd, found = c.Commands.Resolve(name); !found {
			return false
		}
		rest = subRest
	}

	defer pkgerrors.RecoverMiddleware()()

	ctx := &CommandContext{
		Session: s,
		Message: m,
		Client:  c,
		Command: cmd,
	}

	args, err := ParseArgs(cmd.Options, rest)
	if err != nil {
		if errors.Is(err, ErrMissingArgument) {
			_ = ctx.Reply("❌ Usage: `" + Usage(c.Prefix, cmd) + "`")
			return true
		}
		pkgerrors.Capture(err, "Client")
		return true
	}
	ctx.Args = args

	c.run(ctx, name)
	return true
}

func (c *ExtendedClient) run(ctx *CommandContext, name string) {
	cmd := ctx.Command
	if cmd.IsDev && ctx.GuildID() != c.DevGuildID {
		_ = ctx.ReplyEphemeral("❌ Cette commande est réservée au serveur de développement.")
		return
	}
	if cmd.UserPermissions != 0 && !ctx.HasPermission(cmd.UserPermissions) {
		_ = ctx.ReplyEphemeral("❌ Tu n'as pas la permission d'utiliser cette commande.")
		return
	}
	if cmd.InVoiceChannel && ctx.VoiceChannelID() == "" {
		_ = ctx.ReplyEphemeral("❌ Tu dois être dans un salon vocal pour utiliser cette commande.")
		return
	}

	if err := cmd.Run(ctx); err != nil {
		logger.Error("Error executing command "+name+": "+err.Error(), "Client")
		_ = ctx.Reply(ErrorMessage(err))
	}
}

// Context is cancelled when the client stops.
func (c *ExtendedClient) Context() context.Context {
	return c.ctx
}

// Stop stops the bot and closes the session
func (c *ExtendedClient) Stop() error {
	c.mu.Lock()
	c.isReady = false
	c.mu.Unlock()
	c.cancel()

	if c.Session != nil {
		return c.Session.Close()
	}
	return nil
}

// IsReady returns true if the bot is ready
func (c *ExtendedClient) IsReady() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isReady
}

// GuildCount returns the number of guilds the bot is in
func (c *ExtendedClient) GuildCount() int {
	if c.Session == nil || c.Session.State == nil {
		return 0
	}
	c.Session.State.RLock()
	defer c.Session.State.RUnlock()
	return len(c.Session.State.Guilds)
}

// BotUser returns the logged in user, nil before Ready.
func (c *ExtendedClient) BotUser() *discordgo.User {
	if c.Session == nil || c.Session.State == nil {
		return nil
	}
	return c.Session.State.User
}
