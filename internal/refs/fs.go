package refs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/eyue1777/minigit/internal/fsutil"
	"github.com/eyue1777/minigit/internal/models"
	"github.com/spf13/afero"
)

const (
	headFile     = "HEAD"
	branchesFile = "branches"
	headsDir     = "refs/heads"
)

// FSStore implements Store with one file per branch under refs/heads, a
// branches file listing names in creation order, and a HEAD file.
type FSStore struct {
	fs  afero.Fs
	dir string
}

// NewFSStore creates a reference store inside the repository directory.
func NewFSStore(afs afero.Fs, repoDir string) (*FSStore, error) {
	if err := afs.MkdirAll(filepath.Join(repoDir, headsDir), 0755); err != nil {
		return nil, fmt.Errorf("create refs dir: %w", err)
	}
	return &FSStore{fs: afs, dir: repoDir}, nil
}

func (s *FSStore) Read(_ context.Context, branch string) (string, error) {
	if err := ValidateBranchName(branch); err != nil {
		return "", err
	}
	data, err := afero.ReadFile(s.fs, s.refPath(branch))
	if err == nil {
		return strings.TrimSpace(string(data)), nil
	}
	if !fsutil.IsNotExist(err) {
		return "", fmt.Errorf("read ref %s: %w", branch, err)
	}

	// Listed without a ref file: the branch was created before its first commit.
	names, err := s.readList()
	if err != nil {
		return "", err
	}
	if slices.Contains(names, branch) {
		return "", nil
	}
	return "", fmt.Errorf("branch %s: %w", branch, models.ErrNotFound)
}

func (s *FSStore) Write(_ context.Context, branch, commit string) error {
	if err := ValidateBranchName(branch); err != nil {
		return err
	}
	return s.write(branch, commit)
}

func (s *FSStore) CompareAndSwap(ctx context.Context, branch, expected, next string) error {
	current, err := s.Read(ctx, branch)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return err
	}
	if current != expected {
		return fmt.Errorf("%w: %s is at %q, expected %q", models.ErrRefConflict, branch, current, expected)
	}
	return s.write(branch, next)
}

func (s *FSStore) List(_ context.Context) ([]string, error) {
	return s.readList()
}

func (s *FSStore) Exists(_ context.Context, branch string) (bool, error) {
	if ValidateBranchName(branch) != nil {
		return false, nil
	}
	names, err := s.readList()
	if err != nil {
		return false, err
	}
	if slices.Contains(names, branch) {
		return true, nil
	}
	ok, err := fsutil.Exists(s.fs, s.refPath(branch))
	if err != nil {
		return false, fmt.Errorf("stat ref %s: %w", branch, err)
	}
	return ok, nil
}

func (s *FSStore) ReadHead(_ context.Context) (models.Head, error) {
	data, err := afero.ReadFile(s.fs, filepath.Join(s.dir, headFile))
	if errors.Is(err, fs.ErrNotExist) {
		return models.Head{}, fmt.Errorf("HEAD: %w", models.ErrNotFound)
	}
	if err != nil {
		return models.Head{}, fmt.Errorf("read HEAD: %w", err)
	}
	return models.ParseHead(string(data))
}

func (s *FSStore) WriteHead(_ context.Context, head models.Head) error {
	if !head.IsDetached() {
		if err := ValidateBranchName(head.Branch); err != nil {
			return err
		}
	}
	if err := fsutil.SafeWrite(s.fs, filepath.Join(s.dir, headFile), []byte(head.String()+"\n"), 0644); err != nil {
		return fmt.Errorf("%w: HEAD: %w", models.ErrRefWriteFailed, err)
	}
	return nil
}

// write replaces the ref file, then records a new branch in the list. If the
// list cannot be updated the new ref file is removed again.
func (s *FSStore) write(branch, commit string) error {
	names, err := s.readList()
	if err != nil {
		return fmt.Errorf("%w: %w", models.ErrRefWriteFailed, err)
	}

	if !slices.Contains(names, branch) {
		if other, ok := nestedRef(names, branch); ok {
			return fmt.Errorf("%w: %q cannot coexist with branch %q", models.ErrInvalidRefName, branch, other)
		}
	}

	path := s.refPath(branch)
	if err := s.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("%w: %s: %w", models.ErrRefWriteFailed, branch, err)
	}
	if err := fsutil.SafeWrite(s.fs, path, []byte(commit+"\n"), 0644); err != nil {
		return fmt.Errorf("%w: %s: %w", models.ErrRefWriteFailed, branch, err)
	}

	if slices.Contains(names, branch) {
		return nil
	}
	var buf bytes.Buffer
	for _, n := range append(names, branch) {
		buf.WriteString(n)
		buf.WriteByte('\n')
	}
	if err := fsutil.SafeWrite(s.fs, filepath.Join(s.dir, branchesFile), buf.Bytes(), 0644); err != nil {
		_ = s.fs.Remove(path)
		return fmt.Errorf("%w: branch list: %w", models.ErrRefWriteFailed, err)
	}
	return nil
}

func (s *FSStore) readList() ([]string, error) {
	data, err := afero.ReadFile(s.fs, filepath.Join(s.dir, branchesFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read branch list: %w", err)
	}
	var names []string
	for _, line := range strings.Split(string(data), "\n") {
		if name := strings.TrimSpace(line); name != "" && !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return names, nil
}

// nestedRef finds an existing branch that is a path prefix of branch, or has
// branch as a path prefix. One of the two would need to be both a file and a
// directory under refs/heads.
func nestedRef(names []string, branch string) (string, bool) {
	for _, n := range names {
		if strings.HasPrefix(branch, n+"/") || strings.HasPrefix(n, branch+"/") {
			return n, true
		}
	}
	return "", false
}

func (s *FSStore) refPath(branch string) string {
	return filepath.Join(s.dir, headsDir, filepath.FromSlash(branch))
}
