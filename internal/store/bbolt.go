// Package store provides bbolt-based persistence for minigit.
// A single embedded database file holds objects, branch pointers, the branch
// creation order, and HEAD. It is selected with storage.backend = "bolt".
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/eyue1777/minigit/internal/objects"
	bolt "go.etcd.io/bbolt"
)

// Bucket names used by the store.
var (
	bucketObjects     = []byte("objects")
	bucketBranches    = []byte("branches")
	bucketBranchOrder = []byte("branch_order")
	bucketKV          = []byte("kv")
)

const headKey = "HEAD"

// Store represents the bbolt database store.
type Store struct {
	db     *bolt.DB
	hasher *objects.Hasher
}

// New opens or creates a bbolt database at the given path.
func New(dbPath string, hasher *objects.Hasher) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return &Store{db: db, hasher: hasher}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Initialize creates all required buckets.
func (s *Store) Initialize() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketObjects, bucketBranches, bucketBranchOrder, bucketKV} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
}

// Hasher returns the hash function used for object identities.
func (s *Store) Hasher() *objects.Hasher { return s.hasher }
