// Package lintcache persists lint results between runs so that unchanged
// files are not linted again.
package lintcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sync"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/yunfengsa/stylelint-nopx/lint"
)

// ErrClosed is returned when storing into a closed cache.
var ErrClosed = errors.New("lintcache: cache is closed")

var bucketResults = []byte("results")

// entry is the stored form of one file's results.
type entry struct {
	Hash        string         `json:"hash"`
	Fingerprint string         `json:"fingerprint"`
	Warnings    []lint.Warning `json:"warnings"`
}

// Cache is a bbolt-backed store of lint results keyed by file name.
// An entry is only returned when both the file content and the linter
// fingerprint match those it was stored with.
type Cache struct {
	mu sync.RWMutex
	db *bbolt.DB
}

// Open opens (or creates) the cache database at path.
func Open(path string) (*Cache, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketResults)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

// Close closes the underlying database. It is safe to call more than once.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// Get returns the warnings stored for file, if any were stored with the same
// content and fingerprint. A closed cache or a corrupt entry is a miss.
func (c *Cache) Get(file string, content []byte, fingerprint string) ([]lint.Warning, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.db == nil {
		return nil, false
	}

	var e entry
	var found bool
	_ = c.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketResults)
		if b == nil {
			return nil
		}
		v := b.Get([]byte(file))
		if v == nil {
			return nil
		}
		found = json.Unmarshal(v, &e) == nil
		return nil
	})
	if !found || e.Hash != hash(content) || e.Fingerprint != fingerprint {
		return nil, false
	}
	if e.Warnings == nil {
		e.Warnings = []lint.Warning{}
	}
	return e.Warnings, true
}

// Put stores the warnings for file, replacing any previous entry.
func (c *Cache) Put(file string, content []byte, fingerprint string, warnings []lint.Warning) error {
	buf, err := json.Marshal(entry{Hash: hash(content), Fingerprint: fingerprint, Warnings: warnings})
	if err != nil {
		return err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.db == nil {
		return ErrClosed
	}
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketResults).Put([]byte(file), buf)
	})
}

// Delete removes the entry for file.
func (c *Cache) Delete(file string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.db == nil {
		return ErrClosed
	}
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketResults).Delete([]byte(file))
	})
}

// Len returns the number of stored entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.db == nil {
		return 0
	}
	var n int
	_ = c.db.View(func(tx *bbolt.Tx) error {
		if b := tx.Bucket(bucketResults); b != nil {
			n = b.Stats().KeyN
		}
		return nil
	})
	return n
}

// hash returns the hex SHA-256 digest of content.
func hash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
