package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/PancyStudios/ChiiBot/pkg/database"
	"github.com/PancyStudios/ChiiBot/pkg/models"
	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
)

const documentsCollection = "documents"

// MongoBackend stores documents in the "documents" collection through a cached DataManager.
// Saves issued while the server is unreachable are queued by the database package.
type MongoBackend struct {
	db   *database.Database
	docs *database.DataManager[models.Document]
}

func NewMongoBackend(db *database.Database) *MongoBackend {
	dm := database.NewDataManager[models.Document](documentsCollection, db)
	dm.PrimeCache()
	return &MongoBackend{db: db, docs: dm}
}

func (b *MongoBackend) Load(ctx context.Context, key string, dst any) (bool, error) {
	if err := validKey(key); err != nil {
		return false, err
	}
	doc, err := b.docs.Get(ctx, bson.M{"key": key})
	if err != nil {
		return false, fmt.Errorf("find %s: %w", key, err)
	}
	if doc == nil {
		return false, nil
	}
	if err := json.Unmarshal([]byte(doc.Data), dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (b *MongoBackend) Save(ctx context.Context, key string, v any) error {
	if err := validKey(key); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	doc := models.Document{Key: key, Data: string(data), UpdatedAt: time.Now().UTC()}
	if _, err := b.docs.Set(ctx, bson.M{"key": key}, doc); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (b *MongoBackend) Delete(ctx context.Context, key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	return b.docs.Delete(ctx, bson.M{"key": key})
}

func (b *MongoBackend) Close() error {
	return b.db.Disconnect()
}
