package database

import (
	"container/list"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/ChiiBot/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotConnected is returned by reads while the database is offline.
var ErrNotConnected = errors.New("database not connected")

// DataManagerOptions contains configuration for a DataManager
type DataManagerOptions struct {
	MaxCacheSize int
}

// DefaultDataManagerOptions returns default options for DataManager
func DefaultDataManagerOptions() DataManagerOptions {
	return DataManagerOptions{
		MaxCacheSize: 1000,
	}
}

// CacheManager is an LRU cache shared across DataManagers
type CacheManager struct {
	cache     map[string]*list.Element
	cacheList *list.List
	mu        sync.Mutex
}

type cacheEntry struct {
	key   string
	value interface{}
}

// NewCacheManager creates an empty cache.
func NewCacheManager() *CacheManager {
	return &CacheManager{
		cache:     make(map[string]*list.Element),
		cacheList: list.New(),
	}
}

var globalCacheManager = NewCacheManager()

// get returns a cached value and marks it as recently used.
func (c *CacheManager) get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	elem, ok := c.cache[key]
	if !ok {
		return nil, false
	}
	c.cacheList.MoveToFront(elem)
	return elem.Value.(*cacheEntry).value, true
}

// put stores a value, evicting the least recently used entries past max.
func (c *CacheManager) put(key string, value interface{}, max int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.cache[key]; ok {
		elem.Value = &cacheEntry{key: key, value: value}
		c.cacheList.MoveToFront(elem)
		return
	}

	c.cache[key] = c.cacheList.PushFront(&cacheEntry{key: key, value: value})
	for max > 0 && c.cacheList.Len() > max {
		oldest := c.cacheList.Back()
		delete(c.cache, oldest.Value.(*cacheEntry).key)
		c.cacheList.Remove(oldest)
	}
}

func (c *CacheManager) remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.cache[key]; ok {
		c.cacheList.Remove(elem)
		delete(c.cache, key)
	}
}

func (c *CacheManager) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*list.Element)
	c.cacheList = list.New()
}

func (c *CacheManager) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cacheList.Len()
}

// DataManager provides cached access to a MongoDB collection
type DataManager[T any] struct {
	collectionName string
	dbInstance     *Database
	cache          *CacheManager
	options        DataManagerOptions
}

// NewDataManager creates a new DataManager for a collection
func NewDataManager[T any](collectionName string, db *Database, opts ...DataManagerOptions) *DataManager[T] {
	dmOptions := DefaultDataManagerOptions()
	if len(opts) > 0 {
		dmOptions = opts[0]
	}

	return &DataManager[T]{
		collectionName: collectionName,
		dbInstance:     db,
		cache:          globalCacheManager,
		options:        dmOptions,
	}
}

// collection resolves lazily so managers built while offline start working after reconnect.
func (dm *DataManager[T]) collection() *mongo.Collection {
	if !dm.dbInstance.Connected() {
		return nil
	}
	return dm.dbInstance.GetCollection(dm.collectionName)
}

// generateCacheKey creates a deterministic key from a query; map keys are sorted.
func (dm *DataManager[T]) generateCacheKey(query bson.M) string {
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, query[k]))
	}

	return fmt.Sprintf("%s:{%s}", dm.collectionName, strings.Join(parts, ","))
}

// Get retrieves a document from cache or database. A missing document is (nil, nil).
func (dm *DataManager[T]) Get(ctx context.Context, query bson.M) (*T, error) {
	cacheKey := dm.generateCacheKey(query)
	if cached, ok := dm.cache.get(cacheKey); ok {
		return cached.(*T), nil
	}

	col := dm.collection()
	if col == nil {
		return nil, ErrNotConnected
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var result T
	if err := col.FindOne(ctx, query).Decode(&result); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		logger.Warn(fmt.Sprintf("Échec de lecture dans la DB (%s): %v", dm.collectionName, err), "DataManager")
		return nil, err
	}

	dm.cache.put(cacheKey, &result, dm.options.MaxCacheSize)
	return &result, nil
}

// GetAll retrieves all documents matching a query from the database
func (dm *DataManager[T]) GetAll(ctx context.Context, query bson.M) ([]*T, error) {
	col := dm.collection()
	if col == nil {
		return nil, ErrNotConnected
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := col.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	var results []*T
	for cursor.Next(ctx) {
		var doc T
		if err := cursor.Decode(&doc); err != nil {
			continue
		}
		results = append(results, &doc)
	}

	return results, cursor.Err()
}

// Set upserts a document. While offline the write is queued and (nil, nil) is returned.
func (dm *DataManager[T]) Set(ctx context.Context, query bson.M, data interface{}) (*T, error) {
	cacheKey := dm.generateCacheKey(query)
	queued := QueuedOperation{
		CollectionName: dm.collectionName,
		Query:          query,
		Operation:      OpSet,
		Data:           data,
	}

	col := dm.collection()
	if col == nil {
		logger.Warn(fmt.Sprintf("DB hors ligne. Écriture mise en file pour '%s'", dm.collectionName), "DataManager")
		// Reads served from cache see the queued value until the queue is replayed.
		if doc, ok := data.(T); ok {
			dm.cache.put(cacheKey, &doc, dm.options.MaxCacheSize)
		} else {
			dm.cache.remove(cacheKey)
		}
		dm.dbInstance.AddToWriteQueue(queued)
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var result T
	if err := col.FindOneAndUpdate(ctx, query, bson.M{"$set": data}, opts).Decode(&result); err != nil {
		logger.Error("Échec de 'set' avec la DB connectée. Écriture mise en file.", "DataManager")
		dm.cache.remove(cacheKey)
		dm.dbInstance.AddToWriteQueue(queued)
		return nil, err
	}

	dm.cache.put(cacheKey, &result, dm.options.MaxCacheSize)
	return &result, nil
}

// Delete removes a document from the database and cache
func (dm *DataManager[T]) Delete(ctx context.Context, query bson.M) error {
	cacheKey := dm.generateCacheKey(query)
	dm.cache.remove(cacheKey)

	queued := QueuedOperation{
		CollectionName: dm.collectionName,
		Query:          query,
		Operation:      OpDelete,
	}

	col := dm.collection()
	if col == nil {
		logger.Warn(fmt.Sprintf("DB hors ligne. Suppression mise en file pour '%s'", dm.collectionName), "DataManager")
		dm.dbInstance.AddToWriteQueue(queued)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := col.DeleteOne(ctx, query); err != nil {
		logger.Error("Échec de 'delete' avec la DB connectée. Suppression mise en file.", "DataManager")
		dm.dbInstance.AddToWriteQueue(queued)
		return err
	}

	return nil
}

// ClearCache clears the entire cache
func (dm *DataManager[T]) ClearCache() {
	dm.cache.clear()
}

// CacheSize returns the current cache size
func (dm *DataManager[T]) CacheSize() int {
	return dm.cache.len()
}

// PrimeCache logs that the cache is ready (caches are filled on demand)
func (dm *DataManager[T]) PrimeCache() {
	logger.System(fmt.Sprintf("Cache de '%s' prêt (taille max: %d). Rempli à la demande.", dm.collectionName, dm.options.MaxCacheSize), "DataManager")
}
