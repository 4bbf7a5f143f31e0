package mod

import (
	"testing"
	"time"

	"github.com/PancyStudios/ChiiBot/pkg/discord"
	"github.com/PancyStudios/ChiiBot/pkg/models"
	"github.com/PancyStudios/ChiiBot/pkg/moderation"
)

func TestFormatMute(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{time.Minute, "1 minute"},
		{45 * time.Minute, "45 minutes"},
		{time.Hour, "1 heure"},
		{3 * time.Hour, "3 heures"},
		{24 * time.Hour, "1 jour"},
		{moderation.MaxMute, "28 jours"},
		{90 * time.Minute, "90 minutes"},
	}
	for _, tt := range tests {
		if got := FormatMute(tt.in); got != tt.want {
			t.Errorf("FormatMute(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMuteArgsPrefix(t *testing.T) {
	tests := []struct {
		name     string
		args     map[string]string
		duration time.Duration
		reason   string
	}{
		{"defaults", map[string]string{}, time.Hour, moderation.DefaultReason},
		{"minutes and reason", map[string]string{"minutes": "10", "raison": "flood"}, 10 * time.Minute, "flood"},
		{"reason only", map[string]string{"minutes": "spam", "raison": "dans #général"}, time.Hour, "spam dans #général"},
		{"single word reason", map[string]string{"minutes": "spam"}, time.Hour, "spam"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := &discord.CommandContext{Args: tt.args}
			d, why, err := muteArgs(ctx)
			if err != nil {
				t.Fatalf("muteArgs() err = %v", err)
			}
			if d != tt.duration || why != tt.reason {
				t.Errorf("muteArgs() = %v, %q, want %v, %q", d, why, tt.duration, tt.reason)
			}
		})
	}

	if _, _, err := muteArgs(&discord.CommandContext{Args: map[string]string{"minutes": "0"}}); err == nil {
		t.Error("muteArgs(0) err = nil")
	}
}

func TestRecordEmbed(t *testing.T) {
	rec := models.WarningRecord{
		Count: 2,
		Entries: []models.WarningEntry{
			{ID: "ab12cd34", Reason: "Envoi de lien non autorisé"},
			{ID: "ef56ab78", Reason: "Spam", Timestamp: 1700000000},
		},
	}
	embed := RecordEmbed("ninis", rec)
	if embed.Description != "**ninis** a **2** avertissement(s)." {
		t.Errorf("Description = %q", embed.Description)
	}
	want := "`ab12cd34` Envoi de lien non autorisé\n`ef56ab78` Spam (<t:1700000000:d>)\n"
	if len(embed.Fields) != 1 || embed.Fields[0].Value != want {
		t.Errorf("Fields = %+v", embed.Fields)
	}
}

func TestListEmbedSkipsDepartedMembers(t *testing.T) {
	rows := []moderation.MemberWarnings{
		{UserID: "a", Record: models.WarningRecord{Count: 3}},
		{UserID: "gone", Record: models.WarningRecord{Count: 2}},
		{UserID: "b", Record: models.WarningRecord{Count: 1}},
	}
	embed := ListEmbed(rows, func(id string) (string, bool) {
		return map[string]string{"a": "Ana", "b": "Bea"}[id], id != "gone"
	})
	if len(embed.Fields) != 2 {
		t.Fatalf("len(Fields) = %d, want 2", len(embed.Fields))
	}
	if embed.Fields[0].Name != "Ana" || embed.Fields[0].Value != "3 avertissement(s)" {
		t.Errorf("first field = %+v", embed.Fields[0])
	}
}

func TestWarningAddedEmbedReason(t *testing.T) {
	if got := len(WarningAddedEmbed("ninis", 1, "").Fields); got != 1 {
		t.Errorf("fields without reason = %d, want 1", got)
	}
	embed := WarningAddedEmbed("ninis", 4, "Insultes")
	if len(embed.Fields) != 2 || embed.Fields[1].Value != "Insultes" {
		t.Errorf("Fields = %+v", embed.Fields)
	}
}
