package events

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/PancyStudios/ChiiBot/pkg/invites"
	"github.com/bwmarrin/discordgo"
)

func textChannel(id, name string) *discordgo.Channel {
	return &discordgo.Channel{ID: id, Name: name, Type: discordgo.ChannelTypeGuildText}
}

func TestWelcomeChannel(t *testing.T) {
	channels := []*discordgo.Channel{
		textChannel("1", "général"),
		{ID: "2", Name: "hello-toujours-coquette", Type: discordgo.ChannelTypeGuildVoice},
		textChannel("3", "welcome-zone"),
		textChannel("4", "📌・bienvenue"),
	}

	tests := []struct {
		name       string
		configured string
		want       string
	}{
		{"configured id wins", "1", "1"},
		{"known name before generic match", "", "4"},
		{"unknown configured id falls back", "99", "4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WelcomeChannel(channels, tt.configured)
			if got == nil || got.ID != tt.want {
				t.Errorf("WelcomeChannel() = %v, want channel %s", got, tt.want)
			}
		})
	}

	if got := WelcomeChannel(channels[:3], ""); got == nil || got.ID != "3" {
		t.Errorf("WelcomeChannel() generic = %v, want channel 3", got)
	}
	if got := WelcomeChannel(channels[:2], ""); got != nil {
		t.Errorf("WelcomeChannel() = %v, want nil", got)
	}
}

func TestWelcomeEmbed(t *testing.T) {
	user := &discordgo.User{ID: "42", Username: "mimi"}
	w := Welcome{
		User:         user,
		GuildName:    "Ninis",
		MemberCount:  120,
		InviterID:    "7",
		InviteCount:  3,
		RulesChannel: "10",
		RolesChannel: "11",
	}
	embed := WelcomeEmbed(w)

	if embed.Title != "✨ Bienvenue mimi !" {
		t.Errorf("Title = %q", embed.Title)
	}
	if !strings.Contains(embed.Description, "<@42>") || !strings.Contains(embed.Description, "120 membres") {
		t.Errorf("Description = %q", embed.Description)
	}
	if len(embed.Fields) != 3 {
		t.Fatalf("len(Fields) = %d, want 3", len(embed.Fields))
	}
	if want := "Tu as été invité(e) par <@7> qui a maintenant **3** invitations !"; embed.Fields[0].Value != want {
		t.Errorf("invite field = %q, want %q", embed.Fields[0].Value, want)
	}
	if embed.Footer.Text != "✧ Ninis • Made with 💖" {
		t.Errorf("Footer = %q", embed.Footer.Text)
	}

	w.InviterID = invites.Unknown
	w.RolesChannel = ""
	embed = WelcomeEmbed(w)
	if len(embed.Fields) != 1 || embed.Fields[0].Name != "⚠️ IMPORTANT ⚠️" {
		t.Errorf("Fields without inviter = %+v", embed.Fields)
	}
}

func TestMemberJoinedLog(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	// snowflake from 2016
	old := &discordgo.User{ID: "175928847299117063", Username: "ancien"}
	embed := MemberJoinedLog(old, now)
	if embed.Color != colorGreen {
		t.Errorf("Color = %#x, want %#x", embed.Color, colorGreen)
	}
	for _, f := range embed.Fields {
		if f.Name == "⚠️ Compte Récent" {
			t.Error("old account flagged as recent")
		}
	}

	created := now.Add(-48 * time.Hour)
	id := (created.UnixMilli() - 1420070400000) << 22
	recent := &discordgo.User{ID: strconv.FormatInt(id, 10), Username: "nouveau"}
	embed = MemberJoinedLog(recent, now)
	if embed.Color != colorOrange {
		t.Errorf("Color = %#x, want %#x", embed.Color, colorOrange)
	}
	last := embed.Fields[len(embed.Fields)-1]
	if last.Name != "⚠️ Compte Récent" || !strings.Contains(last.Value, "2 jours") {
		t.Errorf("last field = %+v", last)
	}
}

func TestMessageEditedEmbed(t *testing.T) {
	author := &discordgo.User{ID: "1", Username: "a"}
	before := &discordgo.Message{ID: "m", ChannelID: "c", Author: author, Content: "salut"}
	same := &discordgo.Message{ID: "m", ChannelID: "c", Author: author, Content: "salut"}
	if MessageEditedEmbed(before, same, "g", time.Now()) != nil {
		t.Error("MessageEditedEmbed() with same content != nil")
	}

	after := &discordgo.Message{ID: "m", ChannelID: "c", Author: author, Content: "coucou"}
	embed := MessageEditedEmbed(before, after, "g", time.Now())
	if embed == nil {
		t.Fatal("MessageEditedEmbed() = nil")
	}
	if !strings.Contains(embed.Fields[1].Value, "https://discord.com/channels/g/c/m") {
		t.Errorf("link field = %q", embed.Fields[1].Value)
	}
}

func TestMemberLeftLog(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	m := &discordgo.Member{
		User:     &discordgo.User{ID: "5", Username: "partie"},
		JoinedAt: now.Add(-(49*time.Hour + 30*time.Minute)),
		Roles:    []string{"g", "r1"},
	}
	embed := MemberLeftLog(m, "g", now)
	var stay, roles string
	for _, f := range embed.Fields {
		switch f.Name {
		case "Durée sur le serveur":
			stay = f.Value
		case "Rôles":
			roles = f.Value
		}
	}
	if !strings.Contains(stay, "2 jours, 1 heures, 30 minutes") {
		t.Errorf("stay = %q", stay)
	}
	if roles != "<@&r1>" {
		t.Errorf("roles = %q, want <@&r1>", roles)
	}
}

func TestFieldText(t *testing.T) {
	long := strings.Repeat("é", 2000)
	if got := []rune(fieldText(long)); len(got) != 1024 {
		t.Errorf("len(fieldText()) = %d, want 1024", len(got))
	}
}

func TestIsAdminWithoutCachedMember(t *testing.T) {
	s, err := discordgo.New("Bot test")
	if err != nil {
		t.Fatal(err)
	}
	guild := &discordgo.Guild{ID: "g1", OwnerID: "owner", Roles: []*discordgo.Role{
		{ID: "g1"},
		{ID: "staff", Permissions: discordgo.PermissionManageMessages},
		{ID: "admin", Permissions: discordgo.PermissionAdministrator},
	}}
	if err := s.State.GuildAdd(guild); err != nil {
		t.Fatal(err)
	}

	msg := func(userID string, roles ...string) *discordgo.MessageCreate {
		return &discordgo.MessageCreate{Message: &discordgo.Message{
			GuildID:   "g1",
			ChannelID: "c1",
			Author:    &discordgo.User{ID: userID},
			Member:    &discordgo.Member{Roles: roles},
		}}
	}

	tests := []struct {
		name string
		m    *discordgo.MessageCreate
		want bool
	}{
		{"administrator role", msg("u1", "staff", "admin"), true},
		{"owner", msg("owner"), true},
		{"moderator", msg("u2", "staff"), false},
		{"no roles", msg("u3"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isAdmin(s, tt.m); got != tt.want {
				t.Errorf("isAdmin() = %v, want %v", got, tt.want)
			}
		})
	}
}
