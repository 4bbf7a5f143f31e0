package levels

import (
	"strings"
	"testing"

	"github.com/PancyStudios/ChiiBot/pkg/leveling"
)

func TestRankEmbed(t *testing.T) {
	tests := []struct {
		name    string
		xp      int
		current string
		next    string
	}{
		{"below first role", 100, "Aucun rôle de niveau encore", "**Nini Nouveau** (Niveau 1)\nPlus que **55** XP !"},
		{"level four", 425, "**Nini Nouveau**", "**Nini Curieux** (Niveau 5)\nPlus que **50** XP !"},
		{"curious", 500, "**Nini Curieux**", "**Nini Actif** (Niveau 10)\nPlus que **600** XP !"},
		{"legend", 100000, "**Nini Légende**", "Tu as atteint le rôle maximum ! 👑"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			embed := RankEmbed("Chii", "", tt.xp, 1)
			fields := map[string]string{}
			for _, f := range embed.Fields {
				fields[f.Name] = f.Value
			}
			if got := fields["🏅 Rôle actuel"]; got != tt.current {
				t.Errorf("current role = %q, want %q", got, tt.current)
			}
			if got := fields["🎯 Prochain rôle"]; got != tt.next {
				t.Errorf("next role = %q, want %q", got, tt.next)
			}
		})
	}
}

func TestLeaderboardSkipsDepartedMembers(t *testing.T) {
	entries := []leveling.Entry{
		{UserID: "a", XP: 500, Level: 5},
		{UserID: "gone", XP: 400, Level: 4},
		{UserID: "b", XP: 300, Level: 3},
		{UserID: "c", XP: 200, Level: 2},
		{UserID: "d", XP: 160, Level: 1},
	}
	names := map[string]string{"a": "Ana", "b": "Bea", "c": "Cy", "d": "Dee"}
	lookup := func(id string) (string, bool) {
		n, ok := names[id]
		return n, ok
	}

	embed := LeaderboardEmbed(entries, lookup)
	lines := strings.Split(embed.Description, "\n")
	want := []string{
		"🥇 **Ana** • Niveau 5 • 500 XP",
		"🥈 **Bea** • Niveau 3 • 300 XP",
		"🥉 **Cy** • Niveau 2 • 200 XP",
		"**4.** **Dee** • Niveau 1 • 160 XP",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d: %q", len(lines), len(want), embed.Description)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}

	dash := DashboardEmbed(entries, lookup)
	if len(dash.Fields) != 4 || dash.Fields[0].Name != "👑 Ana" {
		t.Errorf("dashboard fields = %d, first = %q", len(dash.Fields), dash.Fields[0].Name)
	}
}

func TestLeaderboardAllDeparted(t *testing.T) {
	entries := []leveling.Entry{{UserID: "gone", XP: 200, Level: 1}}
	embed := LeaderboardEmbed(entries, func(string) (string, bool) { return "", false })
	if embed.Description != "Aucun membre actif trouvé." {
		t.Errorf("Description = %q", embed.Description)
	}
}

func TestSetupEmbedErrorsField(t *testing.T) {
	clean := SetupEmbed(SetupReport{Created: []string{"Nini Nouveau"}})
	for _, f := range clean.Fields {
		if f.Name == "Erreurs" {
			t.Error("Erreurs field present without failures")
		}
	}
	failed := SetupEmbed(SetupReport{Failed: []string{"Nini Actif"}})
	found := false
	for _, f := range failed.Fields {
		if f.Name == "Erreurs" && f.Value == "Nini Actif" {
			found = true
		}
	}
	if !found {
		t.Error("Erreurs field missing")
	}
}

func TestHelpEmbedProgression(t *testing.T) {
	embed := HelpEmbed("!")
	for _, f := range embed.Fields {
		if f.Name == "📈 Progression" && !strings.Contains(f.Value, "Niveau 5 = 475 XP, Niveau 10 = 1100 XP") {
			t.Errorf("progression = %q", f.Value)
		}
	}
}
