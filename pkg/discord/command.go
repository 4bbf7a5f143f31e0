// Package discord provides command types and structures.
package discord

import (
	"context"
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// CommandContext is handed to every command, whether it came from a slash
// interaction or from a prefixed message. Exactly one of Interaction and
// Message is set.
type CommandContext struct {
	Session     *discordgo.Session
	Interaction *discordgo.InteractionCreate
	Message     *discordgo.MessageCreate
	Client      *ExtendedClient
	Command     *Command

	// Args holds the prefix arguments keyed by option name.
	Args map[string]string

	deferred bool
	reply    *discordgo.Message
}

// Command represents a command usable as /name and as <prefix>name
type Command struct {
	Name            string
	Description     string
	Category        string
	Aliases         []string
	Options         []*discordgo.ApplicationCommandOption
	UserPermissions int64
	BotPermissions  int64
	IsDev           bool
	InVoiceChannel  bool
	Run             CommandRunFunc
	AutoComplete    AutoCompleteFunc
}

// CommandRunFunc is the function type for command execution
type CommandRunFunc func(ctx *CommandContext) error

// AutoCompleteFunc is the function type for autocomplete handling
type AutoCompleteFunc func(ctx *CommandContext)

// NewCommand creates a new Command with required fields
func NewCommand(name, description, category string, run CommandRunFunc) *Command {
	return &Command{
		Name:        name,
		Description: description,
		Category:    category,
		Run:         run,
	}
}

// WithOptions sets the command options
func (c *Command) WithOptions(opts ...*discordgo.ApplicationCommandOption) *Command {
	c.Options = opts
	return c
}

// WithAliases adds prefix-only names
func (c *Command) WithAliases(aliases ...string) *Command {
	c.Aliases = append(c.Aliases, aliases...)
	return c
}

// WithUserPermissions sets required user permissions
func (c *Command) WithUserPermissions(perms int64) *Command {
	c.UserPermissions = perms
	return c
}

// AdminOnly restricts the command to administrators.
func (c *Command) AdminOnly() *Command {
	return c.WithUserPermissions(discordgo.PermissionAdministrator)
}

// WithBotPermissions sets required bot permissions
func (c *Command) WithBotPermissions(perms int64) *Command {
	c.BotPermissions = perms
	return c
}

// AsDev marks the command as a dev-only command
func (c *Command) AsDev() *Command {
	c.IsDev = true
	return c
}

// RequiresVoice marks the command as requiring the user to be in a voice channel
func (c *Command) RequiresVoice() *Command {
	c.InVoiceChannel = true
	return c
}

// WithAutoComplete sets the autocomplete handler
func (c *Command) WithAutoComplete(fn AutoCompleteFunc) *Command {
	c.AutoComplete = fn
	return c
}

// ToApplicationCommand converts the command to a Discord application command.
// Permission-gated commands are hidden from members who lack them.
func (c *Command) ToApplicationCommand() *discordgo.ApplicationCommand {
	app := &discordgo.ApplicationCommand{
		Name:        c.Name,
		Description: c.Description,
		Options:     c.Options,
	}
	if c.UserPermissions != 0 {
		perms := c.UserPermissions
		app.DefaultMemberPermissions = &perms
	}
	return app
}

// IsInteraction reports whether the command came from a slash command.
func (ctx *CommandContext) IsInteraction() bool {
	return ctx.Interaction != nil
}

// Context returns the client's lifetime context.
func (ctx *CommandContext) Context() context.Context {
	if ctx.Client == nil {
		return context.Background()
	}
	return ctx.Client.Context()
}

// GuildID returns the guild the command was used in ("" in DMs).
func (ctx *CommandContext) GuildID() string {
	if ctx.Interaction != nil {
		return ctx.Interaction.GuildID
	}
	return ctx.Message.GuildID
}

// ChannelID returns the channel the command was used in.
func (ctx *CommandContext) ChannelID() string {
	if ctx.Interaction != nil {
		return ctx.Interaction.ChannelID
	}
	return ctx.Message.ChannelID
}

// Reply sends a text answer. After Defer it edits the deferred response.
func (ctx *CommandContext) Reply(content string) error {
	return ctx.respond(&discordgo.MessageSend{Content: content}, false)
}

// ReplyEmbed sends an embed answer.
func (ctx *CommandContext) ReplyEmbed(embed *discordgo.MessageEmbed) error {
	return ctx.respond(&discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}}, false)
}

// ReplyEphemeral sends an answer visible only to the user. Prefix commands
// have no ephemeral messages and get a normal reply.
func (ctx *CommandContext) ReplyEphemeral(content string) error {
	return ctx.respond(&discordgo.MessageSend{Content: content}, true)
}

// ReplyEphemeralEmbed sends an ephemeral embed reply visible only to the user
func (ctx *CommandContext) ReplyEphemeralEmbed(embed *discordgo.MessageEmbed) error {
	return ctx.respond(&discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}}, true)
}

// ReplyComplex sends content, embeds and components in one message.
func (ctx *CommandContext) ReplyComplex(data *discordgo.MessageSend) error {
	return ctx.respond(data, false)
}

func (ctx *CommandContext) respond(data *discordgo.MessageSend, ephemeral bool) error {
	if ctx.Interaction != nil {
		if ctx.deferred {
			return ctx.edit(data)
		}
		resp := &discordgo.InteractionResponseData{
			Content:    data.Content,
			Embeds:     data.Embeds,
			Components: data.Components,
		}
		if ephemeral {
			resp.Flags = discordgo.MessageFlagsEphemeral
		}
		return ctx.Session.InteractionRespond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: resp,
		})
	}

	if ctx.reply != nil {
		return ctx.edit(data)
	}
	data.Reference = ctx.Message.Reference()
	msg, err := ctx.Session.ChannelMessageSendComplex(ctx.Message.ChannelID, data)
	if err != nil {
		return err
	}
	ctx.reply = msg
	return nil
}

// Defer acknowledges a slow command. Prefix commands show the typing indicator.
func (ctx *CommandContext) Defer() error {
	if ctx.Interaction == nil {
		return ctx.Session.ChannelTyping(ctx.Message.ChannelID)
	}
	ctx.deferred = true
	return ctx.Session.InteractionRespond(ctx.Interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

// EditReply replaces the previous answer, or sends one if there is none yet.
func (ctx *CommandContext) EditReply(content string) error {
	return ctx.edit(&discordgo.MessageSend{Content: content})
}

// EditReplyEmbed edits the original response with an embed
func (ctx *CommandContext) EditReplyEmbed(embed *discordgo.MessageEmbed) error {
	return ctx.edit(&discordgo.MessageSend{Embeds: []*discordgo.MessageEmbed{embed}})
}

func (ctx *CommandContext) edit(data *discordgo.MessageSend) error {
	if ctx.Interaction != nil {
		embeds := data.Embeds
		if embeds == nil {
			embeds = []*discordgo.MessageEmbed{}
		}
		_, err := ctx.Session.InteractionResponseEdit(ctx.Interaction.Interaction, &discordgo.WebhookEdit{
			Content: &data.Content,
			Embeds:  &embeds,
		})
		return err
	}

	if ctx.reply == nil {
		data.Reference = ctx.Message.Reference()
		msg, err := ctx.Session.ChannelMessageSendComplex(ctx.Message.ChannelID, data)
		if err == nil {
			ctx.reply = msg
		}
		return err
	}
	edit := discordgo.NewMessageEdit(ctx.reply.ChannelID, ctx.reply.ID).SetContent(data.Content)
	if data.Embeds != nil {
		edit.SetEmbeds(data.Embeds)
	}
	_, err := ctx.Session.ChannelMessageEditComplex(edit)
	return err
}

// GetOption retrieves an option value by name
func (ctx *CommandContext) GetOption(name string) *discordgo.ApplicationCommandInteractionDataOption {
	if ctx.Interaction == nil || ctx.Interaction.Type != discordgo.InteractionApplicationCommand {
		return nil
	}
	options := ctx.Interaction.ApplicationCommandData().Options
	return findOption(options, name)
}

// findOption recursively finds an option by name
func findOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string) *discordgo.ApplicationCommandInteractionDataOption {
	for _, opt := range options {
		if opt.Name == name {
			return opt
		}
		if len(opt.Options) > 0 {
			if found := findOption(opt.Options, name); found != nil {
				return found
			}
		}
	}
	return nil
}

// GetStringOption retrieves a string option value
func (ctx *CommandContext) GetStringOption(name string) string {
	if ctx.Interaction == nil {
		return ctx.Args[name]
	}
	opt := ctx.GetOption(name)
	if opt == nil {
		return ""
	}
	return opt.StringValue()
}

// GetIntOption retrieves an integer option value. Unparsable prefix
// arguments read as 0.
func (ctx *CommandContext) GetIntOption(name string) int64 {
	if ctx.Interaction == nil {
		n, _ := strconv.ParseInt(ctx.Args[name], 10, 64)
		return n
	}
	opt := ctx.GetOption(name)
	if opt == nil {
		return 0
	}
	return opt.IntValue()
}

// HasOption reports whether the user gave a value for name.
func (ctx *CommandContext) HasOption(name string) bool {
	if ctx.Interaction == nil {
		_, ok := ctx.Args[name]
		return ok
	}
	return ctx.GetOption(name) != nil
}

// GetUserOption retrieves a user option value. Prefix commands accept a
// mention or an id.
func (ctx *CommandContext) GetUserOption(name string) *discordgo.User {
	if ctx.Interaction == nil {
		id := MentionID(ctx.Args[name])
		if id == "" {
			return nil
		}
		for _, u := range ctx.Message.Mentions {
			if u.ID == id {
				return u
			}
		}
		u, err := ctx.Session.User(id)
		if err != nil {
			return nil
		}
		return u
	}
	opt := ctx.GetOption(name)
	if opt == nil {
		return nil
	}
	return opt.UserValue(ctx.Session)
}

// GetChannelOption retrieves a channel option value
func (ctx *CommandContext) GetChannelOption(name string) *discordgo.Channel {
	if ctx.Interaction == nil {
		id := MentionID(ctx.Args[name])
		if id == "" {
			return nil
		}
		if ch, err := ctx.Session.State.Channel(id); err == nil {
			return ch
		}
		ch, err := ctx.Session.Channel(id)
		if err != nil {
			return nil
		}
		return ch
	}
	opt := ctx.GetOption(name)
	if opt == nil {
		return nil
	}
	return opt.ChannelValue(ctx.Session)
}

// Guild returns the guild where the command was used
func (ctx *CommandContext) Guild() *discordgo.Guild {
	guildID := ctx.GuildID()
	if guildID == "" {
		return nil
	}
	if guild, err := ctx.Session.State.Guild(guildID); err == nil {
		return guild
	}
	guild, _ := ctx.Session.Guild(guildID)
	return guild
}

// Channel returns the channel where the command was used
func (ctx *CommandContext) Channel() *discordgo.Channel {
	if channel, err := ctx.Session.State.Channel(ctx.ChannelID()); err == nil {
		return channel
	}
	channel, _ := ctx.Session.Channel(ctx.ChannelID())
	return channel
}

// User returns the user who ran the command
func (ctx *CommandContext) User() *discordgo.User {
	if ctx.Interaction != nil {
		if ctx.Interaction.Member != nil {
			return ctx.Interaction.Member.User
		}
		return ctx.Interaction.User
	}
	return ctx.Message.Author
}

// Member returns the guild member who ran the command
func (ctx *CommandContext) Member() *discordgo.Member {
	if ctx.Interaction != nil {
		return ctx.Interaction.Member
	}
	if ctx.Message.Member != nil {
		m := *ctx.Message.Member
		m.User = ctx.Message.Author
		m.GuildID = ctx.Message.GuildID
		return &m
	}
	m, _ := ctx.Session.GuildMember(ctx.Message.GuildID, ctx.Message.Author.ID)
	return m
}

// HasPermission reports whether the invoking member holds perm in the channel.
// Administrators hold every permission.
func (ctx *CommandContext) HasPermission(perm int64) bool {
	if perm == 0 {
		return true
	}
	var perms int64
	if ctx.Interaction != nil {
		if ctx.Interaction.Member == nil {
			return false
		}
		perms = ctx.Interaction.Member.Permissions
	} else {
		if ctx.Message.GuildID == "" {
			return false
		}
		p, err := ctx.Session.UserChannelPermissions(ctx.Message.Author.ID, ctx.Message.ChannelID)
		if err != nil {
			return false
		}
		perms = p
	}
	return perms&discordgo.PermissionAdministrator != 0 || perms&perm == perm
}

// VoiceChannelID returns the voice channel the user is in, or "".
func (ctx *CommandContext) VoiceChannelID() string {
	vs, err := ctx.Session.State.VoiceState(ctx.GuildID(), ctx.User().ID)
	if err != nil || vs == nil {
		return ""
	}
	return vs.ChannelID
}
