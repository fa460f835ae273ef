package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/bigspawn/tsundoku-sync/internal/domain"
	"github.com/bigspawn/tsundoku-sync/internal/logging"
)

const cacheFile = "catalog.db"

var bucketTrackedLists = []byte("tracked_lists")

type cacheEntry struct {
	List     domain.TrackedList `json:"list"`
	CachedAt time.Time          `json:"cached_at"`
}

// Cache keeps the last successful tracked list per owner in a BoltDB file.
// A nil *Cache is valid and caches nothing.
type Cache struct {
	db *bolt.DB
}

// OpenCache opens (or creates) the cache database inside dir.
func OpenCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	db, err := bolt.Open(filepath.Join(dir, cacheFile), 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketTrackedLists)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func cacheKey(owner domain.OwnerRef) []byte {
	if owner.UserID > 0 {
		return []byte("id:" + strconv.Itoa(owner.UserID))
	}
	return []byte("name:" + strings.ToLower(owner.Username))
}

// Put stores list for owner. Write failures are logged, not returned.
func (c *Cache) Put(ctx context.Context, owner domain.OwnerRef, list domain.TrackedList) {
	if c == nil || c.db == nil {
		return
	}

	list.Stale = false
	data, err := json.Marshal(cacheEntry{List: list, CachedAt: time.Now()})
	if err != nil {
		logging.Warn(ctx, "Failed to encode catalog cache entry: %v", err)
		return
	}

	err = c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTrackedLists).Put(cacheKey(owner), data)
	})
	if err != nil {
		logging.Warn(ctx, "Failed to write catalog cache: %v", err)
	}
}

// Get returns the cached list for owner.
func (c *Cache) Get(owner domain.OwnerRef) (domain.TrackedList, bool) {
	if c == nil || c.db == nil {
		return domain.TrackedList{}, false
	}

	var data []byte
	_ = c.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketTrackedLists).Get(cacheKey(owner)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if data == nil {
		return domain.TrackedList{}, false
	}

	var entry cacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return domain.TrackedList{}, false
	}
	return entry.List, true
}
