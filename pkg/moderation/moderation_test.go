package moderation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PancyStudios/ChiiBot/pkg/models"
	"github.com/PancyStudios/ChiiBot/pkg/storage"
	"github.com/bwmarrin/discordgo"
)

func newBackend(t *testing.T) storage.Backend {
	t.Helper()
	b, err := storage.NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileBackend() error = %v", err)
	}
	return b
}

func TestContainsLink(t *testing.T) {
	tests := []struct {
		content string
		want    bool
	}{
		{"http://example.com", true},
		{"regarde HTTPS://Example.com/page", true},
		{"www.example.org", true},
		{"rejoins discord.gg/abc123", true},
		{"discord.com/invite/abc", true},
		{"salut tout le monde", false},
		{"http:// seul", false},
		{"discord.gg", false},
	}
	for _, tt := range tests {
		if got := ContainsLink(tt.content); got != tt.want {
			t.Errorf("ContainsLink(%q) = %v, want %v", tt.content, got, tt.want)
		}
	}
}

type fakeActions struct {
	deleted []string
	embeds  []*discordgo.MessageEmbed
	bans    int
	banErr  error
}

func (f *fakeActions) DeleteMessage(_, messageID string) error {
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeActions) SendEmbed(_ string, embed *discordgo.MessageEmbed) error {
	f.embeds = append(f.embeds, embed)
	return nil
}

func (f *fakeActions) Ban(_, _, _ string) error {
	if f.banErr != nil {
		return f.banErr
	}
	f.bans++
	return nil
}

func newFilter(t *testing.T) (*Filter, *fakeActions) {
	t.Helper()
	backend := newBackend(t)
	actions := &fakeActions{}
	return &Filter{Ledger: NewLedger(backend), Exemptions: NewExemptions(backend), Actions: actions}, actions
}

func linkMessage(id string) Message {
	return Message{GuildID: "g", ChannelID: "c", MessageID: id, AuthorID: "u", AuthorName: "nini", Content: "http://example.com"}
}

func TestFilterDeletesAndWarns(t *testing.T) {
	f, actions := newFilter(t)
	ctx := context.Background()

	out, err := f.Check(ctx, linkMessage("m1"))
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !out.Matched || out.Warnings != 1 || out.Banned {
		t.Errorf("Check() = %+v, want matched with 1 warning", out)
	}
	if len(actions.deleted) != 1 || actions.deleted[0] != "m1" {
		t.Errorf("deleted = %v, want [m1]", actions.deleted)
	}
	rec, _ := f.Ledger.Get("g", "u")
	if rec.Count != 1 || rec.Reasons[0] != LinkReason {
		t.Errorf("record = %+v", rec)
	}

	out, _ = f.Check(ctx, Message{GuildID: "g", ChannelID: "c", MessageID: "m2", AuthorID: "u", Content: "bonjour"})
	if out.Matched || len(actions.deleted) != 1 {
		t.Errorf("plain text Check() = %+v, deleted = %v", out, actions.deleted)
	}
}

func TestFilterSkips(t *testing.T) {
	f, actions := newFilter(t)
	ctx := context.Background()

	admin := linkMessage("a")
	admin.Admin = true
	bot := linkMessage("b")
	bot.Bot = true
	_, _ = f.Check(ctx, admin)
	_, _ = f.Check(ctx, bot)

	if _, err := f.Exemptions.Exempt(ctx, "g", "c"); err != nil {
		t.Fatal(err)
	}
	_, _ = f.Check(ctx, linkMessage("e"))

	if len(actions.deleted) != 0 {
		t.Errorf("deleted = %v, want none", actions.deleted)
	}
}

func TestFilterBansExactlyOnce(t *testing.T) {
	f, actions := newFilter(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, _ = f.Check(ctx, linkMessage("m"))
	}
	if actions.bans != 0 {
		t.Fatalf("bans after 4 warnings = %v, want 0", actions.bans)
	}

	out, _ := f.Check(ctx, linkMessage("m"))
	if !out.Banned || actions.bans != 1 {
		t.Fatalf("5th warning: banned = %v, bans = %v, want true, 1", out.Banned, actions.bans)
	}

	out, _ = f.Check(ctx, linkMessage("m"))
	if out.Banned || actions.bans != 1 {
		t.Errorf("6th warning: banned = %v, bans = %v, want false, 1", out.Banned, actions.bans)
	}
	if out.Warnings != 6 {
		t.Errorf("Warnings = %v, want %v", out.Warnings, 6)
	}
}

func TestFilterFailedBanKeepsWarning(t *testing.T) {
	f, actions := newFilter(t)
	ctx := context.Background()
	actions.banErr = errors.New("missing permissions")

	for i := 0; i < 4; i++ {
		_, _ = f.Check(ctx, linkMessage("m"))
	}
	if _, err := f.Check(ctx, linkMessage("m")); err == nil {
		t.Fatal("Check() error = nil, want ban failure")
	}
	rec, _ := f.Ledger.Get("g", "u")
	if rec.Count != 5 || rec.Banned {
		t.Errorf("record = %+v, want 5 warnings and not banned", rec)
	}

	// the next match retries the ban
	actions.banErr = nil
	if out, _ := f.Check(ctx, linkMessage("m")); !out.Banned {
		t.Error("retry did not ban")
	}
}

func TestLedgerRemoveRebuildsReasons(t *testing.T) {
	l := NewLedger(newBackend(t))
	ctx := context.Background()
	l.data["g"] = map[string]models.WarningRecord{"u": {
		Count:   2,
		Reasons: []string{"ancien", "spam", "liens"},
		Entries: []models.WarningEntry{
			{ID: "w1", Reason: "spam"},
			{ID: "w2", Reason: "liens"},
		},
	}}

	if ok, err := l.Remove(ctx, "g", "u", "w1"); !ok || err != nil {
		t.Fatalf("Remove() = %v, %v, want true, nil", ok, err)
	}
	rec, _ := l.Get("g", "u")
	if rec.Count != 1 || len(rec.Reasons) != 1 || rec.Reasons[0] != "liens" {
		t.Errorf("record after Remove = %+v, want reasons [liens]", rec)
	}
}

func TestLedgerRemoveAndClear(t *testing.T) {
	l := NewLedger(newBackend(t))
	l.now = func() time.Time { return time.Unix(1700000000, 0) }
	ctx := context.Background()

	first, _ := l.Add(ctx, "g", "u", "spam", "mod")
	_, _ = l.Add(ctx, "g", "u", "", "mod")

	rec, _ := l.Get("g", "u")
	if rec.Count != 2 || rec.Reasons[1] != DefaultReason || rec.Entries[0].Timestamp != 1700000000 {
		t.Fatalf("record = %+v", rec)
	}

	ok, err := l.Remove(ctx, "g", "u", first.Entry.ID)
	if !ok || err != nil {
		t.Fatalf("Remove() = %v, %v, want true, nil", ok, err)
	}
	rec, _ = l.Get("g", "u")
	if rec.Count != 1 || rec.Reasons[0] != DefaultReason {
		t.Errorf("record after Remove = %+v", rec)
	}
	if ok, _ := l.Remove(ctx, "g", "u", "nope"); ok {
		t.Error("Remove(unknown id) = true, want false")
	}

	if ok, _ := l.Clear(ctx, "g", "u"); !ok {
		t.Error("Clear() = false, want true")
	}
	if _, ok := l.Get("g", "u"); ok {
		t.Error("record still present after Clear")
	}
	if ok, _ := l.Clear(ctx, "g", "u"); ok {
		t.Error("second Clear() = true, want false")
	}
}

func TestLedgerPersistence(t *testing.T) {
	backend := newBackend(t)
	ctx := context.Background()
	l := NewLedger(backend)
	_, _ = l.Add(ctx, "g", "a", "x", "m")
	_, _ = l.Add(ctx, "g", "b", "x", "m")
	_, _ = l.Add(ctx, "g", "b", "y", "m")

	reloaded := NewLedger(backend)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatal(err)
	}
	list := reloaded.List("g")
	if len(list) != 2 || list[0].UserID != "b" || list[0].Record.Count != 2 {
		t.Errorf("List() = %+v, want b first with 2", list)
	}
}

func TestExemptions(t *testing.T) {
	e := NewExemptions(newBackend(t))
	ctx := context.Background()

	if added, _ := e.Exempt(ctx, "g", "c"); !added {
		t.Error("Exempt() = false, want true")
	}
	if added, _ := e.Exempt(ctx, "g", "c"); added {
		t.Error("second Exempt() = true, want false")
	}
	if e.IsExempt("other", "c") {
		t.Error("exemption leaked to another guild")
	}
	if removed, _ := e.Unexempt(ctx, "g", "c"); !removed {
		t.Error("Unexempt() = false, want true")
	}
	if e.IsExempt("g", "c") {
		t.Error("IsExempt() after Unexempt = true")
	}
}

func TestCheckHierarchy(t *testing.T) {
	tests := []struct {
		name               string
		bot, actor, target int
		owner              bool
		want               error
	}{
		{"ok", 10, 5, 3, false, nil},
		{"bot below", 3, 10, 3, false, ErrBotBelowTarget},
		{"actor below", 10, 3, 3, false, ErrActorBelowTarget},
		{"owner bypass", 10, 0, 3, true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckHierarchy(tt.bot, tt.actor, tt.target, tt.owner); !errors.Is(got, tt.want) {
				t.Errorf("CheckHierarchy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTopRolePosition(t *testing.T) {
	roles := []*discordgo.Role{{ID: "a", Position: 2}, {ID: "b", Position: 7}, {ID: "c", Position: 4}}
	if got := TopRolePosition([]string{"a", "c"}, roles); got != 4 {
		t.Errorf("TopRolePosition() = %v, want %v", got, 4)
	}
	if got := TopRolePosition(nil, roles); got != 0 {
		t.Errorf("TopRolePosition(nil) = %v, want %v", got, 0)
	}
}

func TestParseMuteMinutes(t *testing.T) {
	tests := []struct {
		arg     string
		want    time.Duration
		wantErr bool
	}{
		{"", time.Hour, false},
		{"15", 15 * time.Minute, false},
		{"99999999", MaxMute, false},
		{"0", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseMuteMinutes(tt.arg)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseMuteMinutes(%q) = %v, %v, want %v", tt.arg, got, err, tt.want)
		}
	}
}
