package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
)

func noop(*CommandContext) error { return nil }

// TestCommandCreation verifies that commands can be created with the builder pattern
func TestCommandCreation(t *testing.T) {
	cmd := NewCommand("rank", "Affiche ton niveau", "levels", noop).
		WithAliases("niveau", "level")

	if cmd.Name != "rank" {
		t.Errorf("Name = %v, want %v", cmd.Name, "rank")
	}
	if cmd.Category != "levels" {
		t.Errorf("Category = %v, want %v", cmd.Category, "levels")
	}
	if len(cmd.Aliases) != 2 || cmd.Aliases[1] != "level" {
		t.Errorf("Aliases = %v, want [niveau level]", cmd.Aliases)
	}
	if cmd.Run == nil {
		t.Error("Run function is nil")
	}
}

func TestCommandWithPermissions(t *testing.T) {
	cmd := NewCommand("resetxp", "Réinitialise l'XP", "levels", noop).
		AdminOnly().
		WithBotPermissions(discordgo.PermissionManageRoles)

	if cmd.UserPermissions != discordgo.PermissionAdministrator {
		t.Errorf("UserPermissions = %v, want %v", cmd.UserPermissions, discordgo.PermissionAdministrator)
	}
	if cmd.BotPermissions != discordgo.PermissionManageRoles {
		t.Errorf("BotPermissions = %v, want %v", cmd.BotPermissions, discordgo.PermissionManageRoles)
	}
	if !NewCommand("eval", "", "dev", noop).AsDev().IsDev {
		t.Error("IsDev should be true after calling AsDev()")
	}
}

func TestToApplicationCommand(t *testing.T) {
	option := &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionUser,
		Name:        "membre",
		Description: "Membre visé",
		Required:    true,
	}

	appCmd := NewCommand("kick", "Expulse un membre", "mod", noop).
		WithOptions(option).
		WithUserPermissions(discordgo.PermissionKickMembers).
		ToApplicationCommand()

	if appCmd.Name != "kick" || len(appCmd.Options) != 1 {
		t.Fatalf("ApplicationCommand = %+v", appCmd)
	}
	if appCmd.DefaultMemberPermissions == nil || *appCmd.DefaultMemberPermissions != discordgo.PermissionKickMembers {
		t.Errorf("DefaultMemberPermissions = %v, want kick members", appCmd.DefaultMemberPermissions)
	}

	open := NewCommand("ping", "Pong", "utils", noop).ToApplicationCommand()
	if open.DefaultMemberPermissions != nil {
		t.Errorf("ungated command has DefaultMemberPermissions = %v", *open.DefaultMemberPermissions)
	}
}

func TestCommandCollectionResolve(t *testing.T) {
	cc := NewCommandCollection()
	rank := NewCommand("rank", "", "levels", noop).WithAliases("niveau", "level")
	cc.Set("rank", rank)
	cc.Set("dev.eval", NewCommand("eval", "", "dev", noop).AsDev())

	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"rank", "rank", true},
		{"niveau", "rank", true},
		{"level", "rank", true},
		{"dev.eval", "eval", true},
		{"eval", "", false},
		{"nope", "", false},
	}
	for _, tt := range tests {
		cmd, ok := cc.Resolve(tt.name)
		if ok != tt.ok {
			t.Errorf("Resolve(%q) ok = %v, want %v", tt.name, ok, tt.ok)
			continue
		}
		if ok && cmd.Name != tt.want {
			t.Errorf("Resolve(%q) = %v, want %v", tt.name, cmd.Name, tt.want)
		}
	}

	if _, ok := cc.Get("niveau"); ok {
		t.Error("Get should not follow aliases")
	}
	if cc.Size() != 2 {
		t.Errorf("Size() = %v, want 2", cc.Size())
	}
}

func TestByCategorySkipsDev(t *testing.T) {
	cc := NewCommandCollection()
	cc.Set("rank", NewCommand("rank", "", "levels", noop))
	cc.Set("leaderboard", NewCommand("leaderboard", "", "levels", noop))
	cc.Set("dev.eval", NewCommand("eval", "", "dev", noop).AsDev())

	groups := cc.ByCategory()
	if _, ok := groups["dev"]; ok {
		t.Error("dev commands listed")
	}
	levels := groups["levels"]
	if len(levels) != 2 || levels[0].Name != "leaderboard" || levels[1].Name != "rank" {
		t.Errorf("levels = %v, want [leaderboard rank]", levels)
	}
}

func TestCommandName(t *testing.T) {
	data := discordgo.ApplicationCommandInteractionData{
		Name: "dev",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "eval", Type: discordgo.ApplicationCommandOptionSubCommand},
		},
	}
	if got := commandName(data); got != "dev.eval" {
		t.Errorf("commandName() = %q, want dev.eval", got)
	}

	data = discordgo.ApplicationCommandInteractionData{
		Name: "rank",
		Options: []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "membre", Type: discordgo.ApplicationCommandOptionUser, Value: "1"},
		},
	}
	if got := commandName(data); got != "rank" {
		t.Errorf("commandName() = %q, want rank", got)
	}
}

func TestPrefixContextOptions(t *testing.T) {
	ctx := &CommandContext{
		Message: &discordgo.MessageCreate{Message: &discordgo.Message{
			GuildID:   "g1",
			ChannelID: "c1",
			Author:    &discordgo.User{ID: "u1"},
		}},
		Args: map[string]string{"minutes": "15", "raison": "spam répété", "bad": "x"},
	}

	if ctx.IsInteraction() {
		t.Error("IsInteraction() = true for a message")
	}
	if ctx.GuildID() != "g1" || ctx.ChannelID() != "c1" || ctx.User().ID != "u1" {
		t.Errorf("ids = %s %s %s", ctx.GuildID(), ctx.ChannelID(), ctx.User().ID)
	}
	if got := ctx.GetIntOption("minutes"); got != 15 {
		t.Errorf("GetIntOption(minutes) = %v, want 15", got)
	}
	if got := ctx.GetIntOption("bad"); got != 0 {
		t.Errorf("GetIntOption(bad) = %v, want 0", got)
	}
	if got := ctx.GetStringOption("raison"); got != "spam répété" {
		t.Errorf("GetStringOption(raison) = %q", got)
	}
	if ctx.HasOption("membre") || !ctx.HasOption("raison") {
		t.Error("HasOption mismatch")
	}
	if ctx.GetUserOption("membre") != nil {
		t.Error("GetUserOption(missing) should be nil")
	}
}
