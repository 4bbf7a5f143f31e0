package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PancyStudios/ChiiBot/pkg/storage"
	"github.com/bwmarrin/discordgo"
	"github.com/goccy/go-json"
)

type fakeBot struct{ ready bool }

func (b *fakeBot) IsReady() bool            { return b.ready }
func (b *fakeBot) GuildCount() int          { return 3 }
func (b *fakeBot) BotUser() *discordgo.User { return &discordgo.User{ID: "42", Username: "Chii"} }

type fakeRestarter struct{ calls int }

func (r *fakeRestarter) Restart() error {
	r.calls++
	return nil
}

func newTestServer(t *testing.T, bot *fakeBot) (*Server, *Routes, *fakeRestarter) {
	t.Helper()
	backend, err := storage.NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewServer("", "")
	if err != nil {
		t.Fatal(err)
	}
	restarter := &fakeRestarter{}
	r := &Routes{
		Name:    "Chii",
		Started: time.Now().Add(-90 * time.Second),
		Keeper:  &Keeper{Bot: bot, Tracker: NewRestartTracker(backend), Restarter: restarter},
		Sampler: &Sampler{procDir: t.TempDir()},
		Checks:  []Check{{Name: "database", Status: func() (string, bool) { return "🟢 | En ligne", true }}},
	}
	r.Mount(s)
	return s, r, restarter
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.Engine().ServeHTTP(w, req)
	return w
}

func TestPing(t *testing.T) {
	s, _, _ := newTestServer(t, &fakeBot{ready: true})
	w := get(s, "/ping")
	if w.Code != http.StatusOK || w.Body.String() != "pong" {
		t.Errorf("GET /ping = %d %q", w.Code, w.Body.String())
	}
}

func TestExternalHealthCheck(t *testing.T) {
	bot := &fakeBot{ready: true}
	s, r, restarter := newTestServer(t, bot)

	if w := get(s, "/external-health-check"); w.Code != http.StatusOK {
		t.Errorf("ready bot status = %d, want 200", w.Code)
	}

	bot.ready = false
	w := get(s, "/external-health-check")
	if w.Code != http.StatusServiceUnavailable || !strings.Contains(w.Body.String(), "restarting") {
		t.Errorf("down bot = %d %s", w.Code, w.Body.String())
	}
	if restarter.calls != 1 {
		t.Errorf("restarts = %v, want 1", restarter.calls)
	}
	if st := r.Keeper.Tracker.Stats(); st.TotalRestarts != 1 || st.LastRestart == nil {
		t.Errorf("stats = %+v", st)
	}
}

func TestHealth(t *testing.T) {
	s, _, _ := newTestServer(t, &fakeBot{ready: true})
	w := get(s, "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Status string  `json:"status"`
		Uptime string  `json:"uptime"`
		System Metrics `json:"system"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "online" || !strings.HasPrefix(body.Uptime, "0j 0h 1m 3") {
		t.Errorf("body = %+v", body)
	}
}

func TestAPIRoutes(t *testing.T) {
	bot := &fakeBot{ready: false}
	s, _, _ := newTestServer(t, bot)

	if w := get(s, "/api/bot"); w.Code != http.StatusServiceUnavailable {
		t.Errorf("GET /api/bot offline = %d, want 503", w.Code)
	}
	bot.ready = true
	w := get(s, "/api/bot")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"username":"Chii"`) {
		t.Errorf("GET /api/bot = %d %s", w.Code, w.Body.String())
	}
	w = get(s, "/api/status")
	if !strings.Contains(w.Body.String(), `"database"`) {
		t.Errorf("GET /api/status = %s", w.Body.String())
	}
	if w := get(s, "/nope"); w.Code != http.StatusNotFound {
		t.Errorf("GET /nope = %d, want 404", w.Code)
	}
}

func TestAllowedHosts(t *testing.T) {
	s, err := NewServer("", `^(.+\.)?chii\.example$`)
	if err != nil {
		t.Fatal(err)
	}
	(&Routes{}).Mount(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Host = "evil.test"
	s.Engine().ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("foreign host = %d, want 403", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Host = "bot.chii.example"
	s.Engine().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("allowed host = %d, want 200", w.Code)
	}
}

func TestRateLimit(t *testing.T) {
	s, _, _ := newTestServer(t, &fakeBot{ready: true})
	s.limit.MaxRequests = 2
	get(s, "/ping")
	get(s, "/ping")
	if w := get(s, "/ping"); w.Code != http.StatusTooManyRequests {
		t.Errorf("third request = %d, want 429", w.Code)
	}
}

func TestRestartHistoryCapped(t *testing.T) {
	backend, _ := storage.NewFileBackend(t.TempDir())
	tr := NewRestartTracker(backend)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	i := 0
	tr.now = func() time.Time { i++; return base.Add(time.Duration(i) * time.Minute) }

	ctx := context.Background()
	for n := 0; n < 12; n++ {
		if err := tr.Record(ctx); err != nil {
			t.Fatal(err)
		}
	}

	reloaded := NewRestartTracker(backend)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatal(err)
	}
	st := reloaded.Stats()
	if st.TotalRestarts != 12 || len(st.History) != MaxRestartHistory {
		t.Errorf("stats = %d restarts, %d history", st.TotalRestarts, len(st.History))
	}
	if !st.History[0].Equal(base.Add(3 * time.Minute)) {
		t.Errorf("oldest kept = %v, want restart #3", st.History[0])
	}
}

func TestFormatUptime(t *testing.T) {
	d := 26*time.Hour + 3*time.Minute + 4*time.Second
	if got := FormatUptime(d); got != "1j 2h 3m 4s" {
		t.Errorf("FormatUptime() = %q", got)
	}
}

func TestParseProc(t *testing.T) {
	idle, total, ok := parseCPUStat(strings.NewReader("cpu  100 0 50 800 50 0 0 0 0 0\ncpu0 1 2 3 4 5\n"))
	if !ok || idle != 850 || total != 1000 {
		t.Errorf("parseCPUStat() = %d, %d, %v", idle, total, ok)
	}
	totalKB, availKB, ok := parseMeminfo(strings.NewReader("MemTotal:  2048 kB\nMemFree: 10 kB\nMemAvailable: 1024 kB\n"))
	if !ok || totalKB != 2048 || availKB != 1024 {
		t.Errorf("parseMeminfo() = %d, %d, %v", totalKB, availKB, ok)
	}
}

func TestCommandRestarterRequiresCommand(t *testing.T) {
	if err := (CommandRestarter{}).Restart(); err != ErrNoRestartCommand {
		t.Errorf("Restart() = %v, want ErrNoRestartCommand", err)
	}
}
