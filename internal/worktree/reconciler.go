// Package worktree keeps the working directory in step with a manifest:
// listing the working set, pruning untracked files, and restoring blobs.
package worktree

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/eyue1777/minigit/internal/fsutil"
	"github.com/eyue1777/minigit/internal/models"
	"github.com/eyue1777/minigit/internal/objects"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Reconciler reads and writes files under a working tree root.
type Reconciler struct {
	fs     afero.Fs
	root   string
	blobs  objects.Reader
	ignore *Matcher
	log    zerolog.Logger
}

// New creates a reconciler for the tree at root. ignore may be nil.
func New(afs afero.Fs, root string, blobs objects.Reader, ignore *Matcher, logger zerolog.Logger) *Reconciler {
	return &Reconciler{fs: afs, root: root, blobs: blobs, ignore: ignore, log: logger}
}

// Ignored reports whether rel is outside version control.
func (r *Reconciler) Ignored(rel string) bool {
	return r.ignore.Match(rel)
}

// TrackedFiles lists the working set: every regular file under the root that
// no ignore rule matches, as sorted slash-separated relative paths.
func (r *Reconciler) TrackedFiles(ctx context.Context) ([]string, error) {
	var files []string
	err := afero.Walk(r.fs, r.root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := r.rel(path)
		if err != nil || rel == "." {
			return err
		}
		if r.ignore.Match(rel) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.Mode().IsRegular() {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan working tree: %w", err)
	}
	slices.Sort(files)
	return files, nil
}

// Reconcile makes the working set equal to manifest. Files not in the
// manifest are removed (with directories left empty by that), then every
// manifest entry is written from its blob. Ignored paths are never touched.
// Per-path failures are collected in the result; the error return is
// reserved for failures that stop the pass as a whole.
func (r *Reconciler) Reconcile(ctx context.Context, manifest models.Manifest) (*Result, error) {
	current, err := r.TrackedFiles(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	var pruned []string
	for _, rel := range current {
		if _, ok := manifest.Lookup(rel); ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}
		err := r.fs.Remove(r.abs(rel))
		result.record(rel, ActionRemoved, err)
		if err == nil {
			pruned = append(pruned, rel)
		}
	}
	r.removeEmptyParents(pruned)

	for _, rel := range manifest.Paths() {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if r.ignore.Match(rel) {
			r.log.Warn().Str("path", rel).Msg("manifest entry matches an ignore rule, not restoring")
			result.record(rel, ActionSkipped, nil)
			continue
		}
		hash, _ := manifest.Lookup(rel)
		result.record(rel, ActionRestored, r.restore(ctx, rel, hash))
	}

	r.log.Debug().
		Int("restored", result.Count(ActionRestored)).
		Int("removed", result.Count(ActionRemoved)).
		Int("failed", len(result.Failed())).
		Msg("Working tree reconciled")
	return result, nil
}

// WriteFile replaces the content of rel, creating parent directories.
func (r *Reconciler) WriteFile(rel string, data []byte) error {
	abs, err := r.checkedAbs(rel)
	if err != nil {
		return err
	}
	if info, err := r.fs.Stat(abs); err == nil && info.IsDir() {
		if err := r.fs.RemoveAll(abs); err != nil {
			return fmt.Errorf("replace directory %s: %w", rel, err)
		}
	}
	if err := r.fs.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return fmt.Errorf("create parent of %s: %w", rel, err)
	}
	return fsutil.SafeWrite(r.fs, abs, data, 0644)
}

// ReadFile returns the content of rel.
func (r *Reconciler) ReadFile(rel string) ([]byte, error) {
	abs, err := r.checkedAbs(rel)
	if err != nil {
		return nil, err
	}
	return afero.ReadFile(r.fs, abs)
}

// RemoveFile deletes rel and any parent directories it leaves empty.
// A file that is already gone is not an error.
func (r *Reconciler) RemoveFile(rel string) error {
	abs, err := r.checkedAbs(rel)
	if err != nil {
		return err
	}
	if err := r.fs.Remove(abs); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	r.removeEmptyParents([]string{rel})
	return nil
}

// Stat describes rel.
func (r *Reconciler) Stat(rel string) (fs.FileInfo, error) {
	abs, err := r.checkedAbs(rel)
	if err != nil {
		return nil, err
	}
	return r.fs.Stat(abs)
}

// Rel converts a path (absolute, or relative to the root) into the
// slash-separated form used in manifests.
func (r *Reconciler) Rel(path string) (string, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.root, path)
	}
	rel, err := r.rel(path)
	if err != nil {
		return "", err
	}
	if rel != "." && !filepath.IsLocal(filepath.FromSlash(rel)) {
		return "", fmt.Errorf("%s is outside the working tree", path)
	}
	return rel, nil
}

func (r *Reconciler) restore(ctx context.Context, rel, hash string) error {
	data, err := r.blobs.Get(ctx, hash)
	if err != nil {
		return err
	}
	return r.WriteFile(rel, data)
}

// removeEmptyParents walks up from each removed path, deepest directories
// first, and removes directories that are now empty. The root is kept.
func (r *Reconciler) removeEmptyParents(removed []string) {
	dirs := make(map[string]bool)
	for _, rel := range removed {
		for dir := filepath.Dir(filepath.FromSlash(rel)); dir != "." && dir != string(filepath.Separator); dir = filepath.Dir(dir) {
			dirs[dir] = true
		}
	}
	ordered := make([]string, 0, len(dirs))
	for d := range dirs {
		ordered = append(ordered, d)
	}
	slices.SortFunc(ordered, func(a, b string) int {
		return strings.Count(b, string(filepath.Separator)) - strings.Count(a, string(filepath.Separator))
	})

	for _, dir := range ordered {
		abs := filepath.Join(r.root, dir)
		entries, err := afero.ReadDir(r.fs, abs)
		if err != nil || len(entries) > 0 {
			continue
		}
		if err := r.fs.Remove(abs); err != nil {
			r.log.Debug().Err(err).Str("dir", dir).Msg("could not remove empty directory")
		}
	}
}

func (r *Reconciler) checkedAbs(rel string) (string, error) {
	native := filepath.FromSlash(rel)
	if !filepath.IsLocal(native) {
		return "", fmt.Errorf("path %q escapes the working tree: %w", rel, os.ErrInvalid)
	}
	return filepath.Join(r.root, native), nil
}

func (r *Reconciler) abs(rel string) string {
	return filepath.Join(r.root, filepath.FromSlash(rel))
}

func (r *Reconciler) rel(path string) (string, error) {
	rel, err := filepath.Rel(r.root, path)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
