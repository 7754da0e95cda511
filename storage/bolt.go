package storage

import (
	"encoding/json"
	"fmt"

	triage "github.com/MegaGrindStone/go-ticket-triage"
	bolt "go.etcd.io/bbolt"
)

var resultsBucket = []byte("results")

// Bolt provides a BoltDB implementation of triage.Cache.
// Results are stored as JSON in a single bucket keyed by cache key.
type Bolt struct {
	DB *bolt.DB
}

// NewBolt opens or creates the BoltDB file at path.
// The function ensures that the results bucket exists in the database.
func NewBolt(path string) (Bolt, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return Bolt{}, fmt.Errorf("failed to open bolt database: %w", err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(resultsBucket)
		return err
	}); err != nil {
		db.Close()
		return Bolt{}, fmt.Errorf("failed to create results bucket: %w", err)
	}

	return Bolt{DB: db}, nil
}

// CachedResult retrieves a stored result by key.
// It returns triage.ErrCacheMiss if the key doesn't exist.
func (b Bolt) CachedResult(key string) (triage.Result, error) {
	var result triage.Result

	err := b.DB.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(resultsBucket)
		if bucket == nil {
			return fmt.Errorf("bucket not found")
		}

		content := bucket.Get([]byte(key))
		if content == nil {
			return triage.ErrCacheMiss
		}

		if err := json.Unmarshal(content, &result); err != nil {
			return fmt.Errorf("failed to unmarshal result: %w", err)
		}

		return nil
	})

	return result, err
}

// CacheResult creates or replaces the result stored under key.
func (b Bolt) CacheResult(key string, result triage.Result) error {
	content, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	return b.DB.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(resultsBucket)
		if bucket == nil {
			return fmt.Errorf("bucket not found")
		}

		if err := bucket.Put([]byte(key), content); err != nil {
			return fmt.Errorf("failed to put result: %w", err)
		}

		return nil
	})
}

// Close releases the database file.
func (b Bolt) Close() error {
	return b.DB.Close()
}
