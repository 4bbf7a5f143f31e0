package logger

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/goccy/go-json"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelCritical, "CRITICAL"},
		{LevelError, "ERROR"},
		{LevelWarn, "WARN"},
		{LevelSuccess, "SUCCESS"},
		{LevelInfo, "INFO"},
		{LevelDebug, "DEBUG"},
		{LevelSystem, "SYSTEM"},
		{LogLevel(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("LogLevel.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestLogLevelDiscordColor(t *testing.T) {
	tests := []struct {
		level LogLevel
		color int
	}{
		{LevelCritical, 0xFF0000},
		{LevelError, 0xFF0000},
		{LevelWarn, 0xFFFF00},
		{LevelSuccess, 0x00FF00},
		{LevelInfo, 0x0000FF},
		{LevelDebug, 0x800080},
		{LevelSystem, 0x808080},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			if got := tt.level.DiscordColor(); got != tt.color {
				t.Errorf("LogLevel.DiscordColor() = %v, want %v", got, tt.color)
			}
		})
	}
}

func TestLoggerWritesFiles(t *testing.T) {
	dir := t.TempDir()
	l := NewLoggerIn(dir, "", "")
	var console bytes.Buffer
	l.SetConsole(&console)

	l.Info("xp enregistrée", "Levels")
	l.Error("échec du bannissement", "AntiLink")
	l.Close()

	combined, err := os.ReadFile(filepath.Join(dir, "combined.log"))
	if err != nil {
		t.Fatalf("read combined.log: %v", err)
	}
	if !strings.Contains(string(combined), "xp enregistrée") || !strings.Contains(string(combined), "échec du bannissement") {
		t.Errorf("combined.log = %q, want both entries", combined)
	}

	errLog, err := os.ReadFile(filepath.Join(dir, "error.log"))
	if err != nil {
		t.Fatalf("read error.log: %v", err)
	}
	if strings.Contains(string(errLog), "xp enregistrée") {
		t.Errorf("error.log contains info entry: %q", errLog)
	}
	if !strings.Contains(string(errLog), "échec du bannissement") {
		t.Errorf("error.log = %q, want error entry", errLog)
	}

	if !strings.Contains(console.String(), "[Levels]: xp enregistrée") {
		t.Errorf("console = %q, want prefixed info line", console.String())
	}
}

func TestMinLevelHidesDebug(t *testing.T) {
	l := NewLoggerIn(t.TempDir(), "", "")
	defer l.Close()
	var console bytes.Buffer
	l.SetConsole(&console)
	l.SetMinLevel(LevelInfo)

	l.Debug("ruido", "Test")
	l.Info("visible", "Test")

	if strings.Contains(console.String(), "ruido") {
		t.Errorf("console = %q, debug line should be hidden", console.String())
	}
	if !strings.Contains(console.String(), "visible") {
		t.Errorf("console = %q, want info line", console.String())
	}
}

func TestSendWebhookEmbed(t *testing.T) {
	var got discordgo.WebhookParams
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	err := SendWebhookEmbed(srv.URL, &discordgo.MessageEmbed{Title: "hola", Color: 0xFF0000})
	if err != nil {
		t.Fatalf("SendWebhookEmbed() error = %v", err)
	}
	if len(got.Embeds) != 1 || got.Embeds[0].Title != "hola" {
		t.Errorf("embeds = %+v, want one embed titled hola", got.Embeds)
	}
}

func TestSendWebhookEmbedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	if err := SendWebhookEmbed(srv.URL, &discordgo.MessageEmbed{}); err == nil {
		t.Error("SendWebhookEmbed() error = nil, want status error")
	}
}

func TestErrorGoesToErrorWebhook(t *testing.T) {
	hits := make(chan string, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits <- r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	l := NewLoggerIn(t.TempDir(), srv.URL+"/errors", srv.URL+"/logs")
	defer l.Close()
	l.SetConsole(&bytes.Buffer{})

	l.Error("boom", "Test")

	select {
	case path := <-hits:
		if path != "/errors" {
			t.Errorf("webhook path = %v, want /errors", path)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("error webhook was not called")
	}
}

func TestGlobalLoggerInit(t *testing.T) {
	logger = nil
	once = sync.Once{}

	l := Init("", "")
	if l == nil {
		t.Fatal("Expected Init to return a logger")
	}

	if l2 := Init("different", "different"); l != l2 {
		t.Error("Expected Init to return the same logger on subsequent calls")
	}

	if l3 := Get(); l != l3 {
		t.Error("Expected Get to return the same logger")
	}

	l.Close()
}
