package discord

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		content string
		name    string
		rest    string
		ok      bool
	}{
		{"!rank", "rank", "", true},
		{"!RANK <@123>", "rank", "<@123>", true},
		{"!ask   quelle heure   est-il ?", "ask", "quelle heure   est-il ?", true},
		{"!", "", "", false},
		{"! rank", "rank", "", true},
		{"rank", "", "", false},
		{"?rank", "", "", false},
	}
	for _, tt := range tests {
		name, rest, ok := SplitCommand(tt.content, "!")
		if name != tt.name || rest != tt.rest || ok != tt.ok {
			t.Errorf("SplitCommand(%q) = %q, %q, %v, want %q, %q, %v", tt.content, name, rest, ok, tt.name, tt.rest, tt.ok)
		}
	}
}

func TestParseArgs(t *testing.T) {
	warnOpts := []*discordgo.ApplicationCommandOption{
		{Type: discordgo.ApplicationCommandOptionUser, Name: "membre", Required: true},
		{Type: discordgo.ApplicationCommandOptionString, Name: "raison"},
	}

	args, err := ParseArgs(warnOpts, "<@42> lien   interdit dans #général")
	if err != nil {
		t.Fatal(err)
	}
	if args["membre"] != "<@42>" || args["raison"] != "lien   interdit dans #général" {
		t.Errorf("args = %v", args)
	}

	args, err = ParseArgs(warnOpts, "<@42>")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := args["raison"]; ok {
		t.Errorf("optional raison set to %q", args["raison"])
	}

	_, err = ParseArgs(warnOpts, "   ")
	if !errors.Is(err, ErrMissingArgument) {
		t.Errorf("ParseArgs(empty) err = %v, want ErrMissingArgument", err)
	}

	// The rest-of-line rule only applies to a trailing string option.
	gstart := []*discordgo.ApplicationCommandOption{
		{Type: discordgo.ApplicationCommandOptionString, Name: "duree", Required: true},
		{Type: discordgo.ApplicationCommandOptionInteger, Name: "gagnants", Required: true},
		{Type: discordgo.ApplicationCommandOptionString, Name: "prix", Required: true},
	}
	args, err = ParseArgs(gstart, "1h 2 Nitro Classic 1 mois")
	if err != nil {
		t.Fatal(err)
	}
	if args["duree"] != "1h" || args["gagnants"] != "2" || args["prix"] != "Nitro Classic 1 mois" {
		t.Errorf("args = %v", args)
	}

	ints := []*discordgo.ApplicationCommandOption{
		{Type: discordgo.ApplicationCommandOptionInteger, Name: "nombre", Required: true},
	}
	args, _ = ParseArgs(ints, "10 extra")
	if args["nombre"] != "10" {
		t.Errorf("nombre = %q, want 10", args["nombre"])
	}
}

func TestMentionID(t *testing.T) {
	tests := map[string]string{
		"<@123>":   "123",
		"<@!123>":  "123",
		"<@&456>":  "456",
		"<#789>":   "789",
		"101112":   "101112",
		"  <@1> ":  "1",
		"@someone": "",
		"<@abc>":   "",
		"":         "",
	}
	for in, want := range tests {
		if got := MentionID(in); got != want {
			t.Errorf("MentionID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUsage(t *testing.T) {
	cmd := NewCommand("addwarning", "", "mod", noop).WithOptions(
		&discordgo.ApplicationCommandOption{Name: "membre", Required: true},
		&discordgo.ApplicationCommandOption{Name: "raison"},
	)
	if got := Usage("!", cmd); got != "!addwarning <membre> [raison]" {
		t.Errorf("Usage() = %q", got)
	}
}

func TestClassifyError(t *testing.T) {
	restErr := func(status, code int) error {
		return &discordgo.RESTError{
			Response: &http.Response{StatusCode: status},
			Message:  &discordgo.APIErrorMessage{Code: code},
		}
	}

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"missing permissions", restErr(http.StatusForbidden, discordgo.ErrCodeMissingPermissions), ErrorPermission},
		{"forbidden without code", restErr(http.StatusForbidden, 0), ErrorPermission},
		{"unknown member", restErr(http.StatusNotFound, discordgo.ErrCodeUnknownMember), ErrorNotFound},
		{"wrapped unknown message", fmt.Errorf("delete: %w", restErr(http.StatusNotFound, discordgo.ErrCodeUnknownMessage)), ErrorNotFound},
		{"server error", restErr(http.StatusInternalServerError, 0), ErrorOther},
		{"plain error", errors.New("boom"), ErrorOther},
	}
	for _, tt := range tests {
		if got := ClassifyError(tt.err); got != tt.want {
			t.Errorf("%s: ClassifyError() = %v, want %v", tt.name, got, tt.want)
		}
	}
}
