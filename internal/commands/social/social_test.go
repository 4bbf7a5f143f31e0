package social

import (
	"strings"
	"testing"
	"time"

	"github.com/PancyStudios/ChiiBot/pkg/tiktok"
)

func TestNormalizeUsername(t *testing.T) {
	tests := map[string]string{
		"yannlln":                                  "yannlln",
		"@yannlln":                                 "yannlln",
		"  @ninis  ":                               "ninis",
		"https://www.tiktok.com/@yannlln":          "yannlln",
		"https://www.tiktok.com/@yannlln/video/12": "yannlln",
		"tiktok.com/@chii?lang=fr":                 "chii",
	}
	for in, want := range tests {
		if got := NormalizeUsername(in); got != want {
			t.Errorf("NormalizeUsername(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAccountsEmbed(t *testing.T) {
	accounts := []tiktok.Account{
		{UserID: "1", Username: "yannlln"},
		{UserID: "2", Username: "gone"},
	}
	embed := AccountsEmbed(accounts, func(id string) (string, bool) {
		return "Yann", id == "1"
	}, 5*time.Minute)

	if len(embed.Fields) != 1 || embed.Fields[0].Value != "TikTok: @yannlln" {
		t.Errorf("Fields = %+v", embed.Fields)
	}
	if !strings.Contains(embed.Footer.Text, "5 min") {
		t.Errorf("Footer = %q", embed.Footer.Text)
	}
}

func TestChannelCreatedEmbedUsesPrefix(t *testing.T) {
	embed := ChannelCreatedEmbed("?", "<#1>", "<@&2>")
	if !strings.Contains(embed.Description, "`?settiktok @membre") {
		t.Errorf("Description = %q", embed.Description)
	}
	if !strings.Contains(embed.Fields[0].Value, "`?checktiktok`") {
		t.Errorf("commands = %q", embed.Fields[0].Value)
	}
}
