package store

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/eyue1777/minigit/internal/models"
	"github.com/eyue1777/minigit/internal/objects"
	bolt "go.etcd.io/bbolt"
)

// Put stores data under its hash. Existing objects are left untouched.
func (s *Store) Put(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id, err := s.hasher.Sum(data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", models.ErrObjectWriteFailed, err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketObjects)
		if b == nil {
			return fmt.Errorf("objects bucket not found")
		}
		if b.Get([]byte(id)) != nil {
			return nil
		}
		// bbolt requires a non-nil value to distinguish it from a missing key
		if data == nil {
			data = []byte{}
		}
		return b.Put([]byte(id), data)
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", models.ErrObjectWriteFailed, id, err)
	}
	return id, nil
}

// Get returns a copy of the object bytes.
func (s *Store) Get(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketObjects)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(id)); v != nil {
			data = bytes.Clone(v)
			if data == nil {
				data = []byte{}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", id, err)
	}
	if data == nil {
		return nil, fmt.Errorf("object %q: %w", id, models.ErrNotFound)
	}
	return data, nil
}

// Has checks whether an object exists.
func (s *Store) Has(_ context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketObjects)
		if b == nil {
			return nil
		}
		exists = b.Get([]byte(id)) != nil
		return nil
	})
	return exists, err
}

// ResolvePrefix expands an abbreviated object id using a cursor seek.
func (s *Store) ResolvePrefix(_ context.Context, prefix string) (string, error) {
	if len(prefix) < objects.MinPrefixLength {
		return "", fmt.Errorf("object prefix %q: %w", prefix, models.ErrNotFound)
	}
	var matches []string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketObjects)
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, _ := c.Seek([]byte(prefix)); k != nil && strings.HasPrefix(string(k), prefix); k, _ = c.Next() {
			matches = append(matches, string(k))
			if len(matches) > 1 {
				break
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("object prefix %q: %w", prefix, models.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("object prefix %q: %w", prefix, models.ErrAmbiguousRef)
	}
}
