package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/PancyStudios/ChiiBot/pkg/config"
	"github.com/PancyStudios/ChiiBot/pkg/database"
	"github.com/PancyStudios/ChiiBot/pkg/models"
)

type levelsDoc map[string]map[string]models.XPRecord

func roundTrip(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	var empty levelsDoc
	found, err := b.Load(ctx, KeyLevels, &empty)
	if err != nil {
		t.Fatalf("Load() missing key error = %v", err)
	}
	if found {
		t.Errorf("Load() missing key found = true, want false")
	}

	want := levelsDoc{"g1": {"u1": {XP: 1100, Level: 10}}}
	if err := b.Save(ctx, KeyLevels, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// overwrite to exercise the upsert path
	want["g1"]["u2"] = models.XPRecord{XP: 475, Level: 5}
	if err := b.Save(ctx, KeyLevels, want); err != nil {
		t.Fatalf("Save() second error = %v", err)
	}

	var got levelsDoc
	found, err = b.Load(ctx, KeyLevels, &got)
	if err != nil || !found {
		t.Fatalf("Load() = %v, %v, want true, nil", found, err)
	}
	if got["g1"]["u1"] != want["g1"]["u1"] || got["g1"]["u2"] != want["g1"]["u2"] {
		t.Errorf("Load() = %v, want %v", got, want)
	}

	if err := b.Delete(ctx, KeyLevels); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	found, _ = b.Load(ctx, KeyLevels, &got)
	if found {
		t.Error("Load() after Delete found = true, want false")
	}
}

func TestFileBackend(t *testing.T) {
	b, err := NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileBackend() error = %v", err)
	}
	defer b.Close()
	roundTrip(t, b)
}

func TestSQLiteBackend(t *testing.T) {
	b, err := OpenSQLite(filepath.Join(t.TempDir(), "sub", "chii.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer b.Close()
	roundTrip(t, b)
}

func TestMongoBackendOffline(t *testing.T) {
	b := NewMongoBackend(database.NewDatabase())
	ctx := context.Background()

	want := models.TikTokCache{Usernames: map[string]string{"42": "chii"}}
	if err := b.Save(ctx, "tiktok_offline_test", want); err != nil {
		t.Fatalf("Save() offline error = %v", err)
	}

	var got models.TikTokCache
	found, err := b.Load(ctx, "tiktok_offline_test", &got)
	if err != nil || !found {
		t.Fatalf("Load() = %v, %v, want cached document", found, err)
	}
	if got.Usernames["42"] != "chii" {
		t.Errorf("Usernames[42] = %v, want %v", got.Usernames["42"], "chii")
	}
	if n := b.db.PendingWrites(); n != 1 {
		t.Errorf("PendingWrites() = %v, want %v", n, 1)
	}
}

func TestInvalidKeys(t *testing.T) {
	b, err := NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"", "../etc", "a/b", "levels.json"} {
		if err := b.Save(context.Background(), key, 1); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("Save(%q) error = %v, want ErrInvalidKey", key, err)
		}
	}
}

func TestNew(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		driver  string
		wantErr bool
	}{
		{config.StorageJSON, false},
		{config.StorageSQLite, false},
		{"redis", true},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			cfg := &config.Config{StorageDriver: tt.driver, DataDir: dir, SQLitePath: filepath.Join(dir, "chii.db")}
			b, err := New(cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if b != nil {
				_ = b.Close()
			}
		})
	}
}
