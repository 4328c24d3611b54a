package store

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/eyue1777/minigit/internal/models"
	"github.com/eyue1777/minigit/internal/refs"
	bolt "go.etcd.io/bbolt"
)

// Read returns the commit a branch points at; "" for a branch with no commits.
func (s *Store) Read(_ context.Context, branch string) (string, error) {
	var (
		hash  string
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketBranches)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(branch)); v != nil {
			hash, found = string(v), true
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("read ref %s: %w", branch, err)
	}
	if !found {
		return "", fmt.Errorf("branch %s: %w", branch, models.ErrNotFound)
	}
	return hash, nil
}

func (s *Store) Write(_ context.Context, branch, commit string) error {
	if err := refs.ValidateBranchName(branch); err != nil {
		return err
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		return putBranch(tx, branch, commit)
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", models.ErrRefWriteFailed, branch, err)
	}
	return nil
}

// CompareAndSwap runs the check and the write in one transaction.
func (s *Store) CompareAndSwap(_ context.Context, branch, expected, next string) error {
	if err := refs.ValidateBranchName(branch); err != nil {
		return err
	}
	var conflict error
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketBranches)
		if b == nil {
			return fmt.Errorf("branches bucket not found")
		}
		current := string(b.Get([]byte(branch)))
		if current != expected {
			conflict = fmt.Errorf("%w: %s is at %q, expected %q", models.ErrRefConflict, branch, current, expected)
			return nil
		}
		return putBranch(tx, branch, next)
	})
	if conflict != nil {
		return conflict
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", models.ErrRefWriteFailed, branch, err)
	}
	return nil
}

// List returns branch names in creation order.
func (s *Store) List(_ context.Context) ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketBranchOrder)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			names = append(names, string(v))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	return names, nil
}

// Exists checks if a branch with the given name exists.
func (s *Store) Exists(_ context.Context, branch string) (bool, error) {
	var exists bool
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketBranches)
		if b == nil {
			return nil
		}
		exists = b.Get([]byte(branch)) != nil
		return nil
	})
	return exists, err
}

func (s *Store) ReadHead(_ context.Context) (models.Head, error) {
	var raw string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketKV)
		if b == nil {
			return nil
		}
		raw = string(b.Get([]byte(headKey)))
		return nil
	})
	if err != nil {
		return models.Head{}, fmt.Errorf("read HEAD: %w", err)
	}
	return models.ParseHead(raw)
}

func (s *Store) WriteHead(_ context.Context, head models.Head) error {
	if !head.IsDetached() {
		if err := refs.ValidateBranchName(head.Branch); err != nil {
			return err
		}
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketKV)
		if b == nil {
			return fmt.Errorf("kv bucket not found")
		}
		return b.Put([]byte(headKey), []byte(head.String()))
	})
	if err != nil {
		return fmt.Errorf("%w: HEAD: %w", models.ErrRefWriteFailed, err)
	}
	return nil
}

// putBranch stores the pointer and, for a new branch, appends its name to the
// creation order under the next bucket sequence.
func putBranch(tx *bolt.Tx, branch, commit string) error {
	b := tx.Bucket(bucketBranches)
	if b == nil {
		return fmt.Errorf("branches bucket not found")
	}
	isNew := b.Get([]byte(branch)) == nil
	if err := b.Put([]byte(branch), []byte(commit)); err != nil {
		return err
	}
	if !isNew {
		return nil
	}

	order := tx.Bucket(bucketBranchOrder)
	if order == nil {
		return fmt.Errorf("branch_order bucket not found")
	}
	seq, err := order.NextSequence()
	if err != nil {
		return err
	}
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return order.Put(key, []byte(branch))
}
