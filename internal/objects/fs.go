package objects

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/eyue1777/minigit/internal/fsutil"
	"github.com/eyue1777/minigit/internal/models"
	"github.com/spf13/afero"
)

// FSStore implements Store on a filesystem. Objects are stored in a
// two-level directory structure using the first two characters of the hash
// as a prefix directory.
type FSStore struct {
	fs     afero.Fs
	root   string
	hasher *Hasher
}

// NewFSStore creates a filesystem-backed object store rooted at the given directory.
func NewFSStore(afs afero.Fs, root string, hasher *Hasher) (*FSStore, error) {
	if err := afs.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("create object root: %w", err)
	}
	return &FSStore{fs: afs, root: root, hasher: hasher}, nil
}

// Put stores data under its hash. Idempotent: if the object exists, this is a no-op.
func (s *FSStore) Put(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id, err := s.hasher.Sum(data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", models.ErrObjectWriteFailed, err)
	}

	path := s.objectPath(id)
	exists, err := fsutil.Exists(s.fs, path)
	if err != nil {
		return "", fmt.Errorf("%w: stat %s: %w", models.ErrObjectWriteFailed, id, err)
	}
	if exists {
		return id, nil
	}

	if err := s.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("%w: create object dir: %w", models.ErrObjectWriteFailed, err)
	}
	if err := fsutil.SafeWrite(s.fs, path, data, 0444); err != nil {
		return "", fmt.Errorf("%w: %s: %w", models.ErrObjectWriteFailed, id, err)
	}
	return id, nil
}

// Get reads an object by hash. Returns models.ErrNotFound for unknown or malformed ids.
func (s *FSStore) Get(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !s.hasher.Valid(id) {
		return nil, fmt.Errorf("object %q: %w", id, models.ErrNotFound)
	}
	data, err := afero.ReadFile(s.fs, s.objectPath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("object %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", id, err)
	}
	return data, nil
}

// Has checks whether an object exists.
func (s *FSStore) Has(_ context.Context, id string) (bool, error) {
	if !s.hasher.Valid(id) {
		return false, nil
	}
	ok, err := fsutil.Exists(s.fs, s.objectPath(id))
	if err != nil {
		return false, fmt.Errorf("stat object %s: %w", id, err)
	}
	return ok, nil
}

// Hasher returns the hash function used for identities.
func (s *FSStore) Hasher() *Hasher { return s.hasher }

func (s *FSStore) objectPath(id string) string {
	return filepath.Join(s.root, id[:2], id[2:])
}

// ResolvePrefix expands an abbreviated object id by listing its fan-out directory.
func (s *FSStore) ResolvePrefix(_ context.Context, prefix string) (string, error) {
	if len(prefix) < MinPrefixLength || len(prefix) > s.hasher.length ||
		!s.hasher.Valid(prefix+strings.Repeat("0", s.hasher.length-len(prefix))) {
		return "", fmt.Errorf("object prefix %q: %w", prefix, models.ErrNotFound)
	}
	entries, err := afero.ReadDir(s.fs, filepath.Join(s.root, prefix[:2]))
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("object prefix %q: %w", prefix, models.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("list objects: %w", err)
	}

	var matches []string
	for _, e := range entries {
		id := prefix[:2] + e.Name()
		if !e.IsDir() && strings.HasPrefix(id, prefix) && s.hasher.Valid(id) {
			matches = append(matches, id)
		}
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
