package invites

import (
	"context"
	"strings"
	"testing"

	"github.com/PancyStudios/ChiiBot/pkg/storage"
)

type fakeLister struct {
	invites map[string][]Invite
}

func (f *fakeLister) GuildInvites(guildID string) ([]Invite, error) {
	out := make([]Invite, len(f.invites[guildID]))
	copy(out, f.invites[guildID])
	return out, nil
}

func newTracker(t *testing.T) (*Tracker, *fakeLister, storage.Backend) {
	t.Helper()
	b, err := storage.NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	l := &fakeLister{invites: map[string][]Invite{
		"g": {{Code: "aaa", Uses: 3, InviterID: "alice"}, {Code: "bbb", Uses: 0, InviterID: "bob"}},
	}}
	tr := NewTracker(b, l)
	if err := tr.Refresh("g"); err != nil {
		t.Fatal(err)
	}
	return tr, l, b
}

func TestResolveUsedInvite(t *testing.T) {
	tr, l, _ := newTracker(t)
	ctx := context.Background()

	l.invites["g"][1].Uses = 1
	res, err := tr.Resolve(ctx, "g")
	if err != nil || res == nil {
		t.Fatalf("Resolve() = %v, %v", res, err)
	}
	if res.Code != "bbb" || res.InviterID != "bob" || res.Count != 1 {
		t.Errorf("Resolve() = %+v, want bbb/bob/1", res)
	}

	// nothing changed since the last diff
	if res, _ := tr.Resolve(ctx, "g"); res != nil {
		t.Errorf("Resolve() without change = %+v, want nil", res)
	}
}

func TestResolveNewInviteWithoutInviter(t *testing.T) {
	tr, l, _ := newTracker(t)
	l.invites["g"] = append(l.invites["g"], Invite{Code: "vanity", Uses: 1})

	res, _ := tr.Resolve(context.Background(), "g")
	if res == nil || res.InviterID != Unknown || res.Code != "vanity" {
		t.Errorf("Resolve() = %+v, want vanity/unknown", res)
	}
}

func TestCreatedInviteIsBaseline(t *testing.T) {
	tr, l, _ := newTracker(t)
	tr.Created("g", "ccc", 0)
	l.invites["g"] = append(l.invites["g"], Invite{Code: "ccc", Uses: 0, InviterID: "carol"})

	if res, _ := tr.Resolve(context.Background(), "g"); res != nil {
		t.Errorf("Resolve() = %+v, want nil for unused created invite", res)
	}
}

func TestCountsPersistAndRank(t *testing.T) {
	tr, l, b := newTracker(t)
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		l.invites["g"][0].Uses = 3 + i
		_, _ = tr.Resolve(ctx, "g")
	}
	l.invites["g"][1].Uses = 1
	_, _ = tr.Resolve(ctx, "g")

	reloaded := NewTracker(b, l)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if got := reloaded.Count("g", "alice"); got != 2 {
		t.Errorf("Count(alice) = %v, want %v", got, 2)
	}
	top := reloaded.Top("g", 10)
	if len(top) != 2 || top[0].InviterID != "alice" || top[1].InviterID != "bob" {
		t.Errorf("Top() = %+v", top)
	}

	if err := reloaded.Forget(ctx, "g"); err != nil {
		t.Fatal(err)
	}
	if got := reloaded.Count("g", "alice"); got != 0 {
		t.Errorf("Count after Forget = %v, want 0", got)
	}
}

func TestMessages(t *testing.T) {
	if got := CountMessage("@a", 0); !strings.Contains(got, "n'a pas encore invité") {
		t.Errorf("CountMessage(0) = %q", got)
	}
	if got := CountMessage("@a", 2); !strings.Contains(got, "**2** personnes") {
		t.Errorf("CountMessage(2) = %q", got)
	}

	e := LeaderboardEmbed([]Entry{{"alice", 3}, {Unknown, 1}}, func(id string) string { return "Alice" })
	if !strings.Contains(e.Description, "🥇 **Alice** • 3 invitations") || !strings.Contains(e.Description, "Inviteur inconnu") {
		t.Errorf("Description = %q", e.Description)
	}
}
