// Package storage persists the bot's documents. Each feature store owns one
// document key and reads or writes it whole through a Backend.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/PancyStudios/ChiiBot/pkg/config"
	"github.com/PancyStudios/ChiiBot/pkg/database"
)

// Document keys
const (
	KeyLevels         = "levels"
	KeyWarnings       = "warnings"
	KeyAntiLink       = "antilink"
	KeyInvites        = "invites"
	KeyRoleMessages   = "role_messages"
	KeyTikTok         = "tiktok"
	KeyDailyQuestions = "daily_questions"
	KeyGiveaways      = "giveaways"
	KeyTickets        = "tickets"
	KeyRestartStats   = "restart_stats"
)

// ErrInvalidKey is returned for empty keys or keys containing path separators.
var ErrInvalidKey = errors.New("invalid document key")

// Backend loads and saves whole documents by key.
type Backend interface {
	// Load decodes the document into dst. It reports false when the key does not exist.
	Load(ctx context.Context, key string, dst any) (bool, error)
	Save(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// New opens the backend selected by cfg.StorageDriver.
func New(cfg *config.Config) (Backend, error) {
	switch cfg.StorageDriver {
	case config.StorageJSON, "":
		return NewFileBackend(cfg.DataDir)
	case config.StorageSQLite:
		return OpenSQLite(cfg.SQLitePath)
	case config.StorageMongo:
		db, err := database.Init(cfg.MongoDBURL, cfg.DBName)
		if err != nil && db == nil {
			return nil, err
		}
		// a failed first connection still yields an offline database that queues writes
		return NewMongoBackend(db), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func validKey(key string) error {
	if key == "" {
		return ErrInvalidKey
	}
	for _, r := range key {
		if r == '/' || r == '\\' || r == '.' {
			return fmt.Errorf("%w: %q", ErrInvalidKey, key)
		}
	}
	return nil
}
