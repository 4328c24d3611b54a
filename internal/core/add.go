package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/eyue1777/minigit/internal/models"
)

// AddResult lists what Add staged.
type AddResult struct {
	Added    []string // paths staged with their current content
	Removed  []string // tracked paths missing from disk, staged for removal
	Warnings []string
}

// Add stages files. Paths are relative to the working tree root or absolute;
// a directory (or ".") stages every file below it. A tracked file that no
// longer exists on disk is staged for removal.
func Add(ctx context.Context, repo *Repository, paths []string) (*AddResult, error) {
	result := &AddResult{}
	tracked, err := repo.trackedManifest(ctx)
	if err != nil {
		return nil, err
	}

	for _, p := range paths {
		rel, err := repo.Tree.Rel(p)
		if err != nil {
			return result, err
		}
		if rel != "." && repo.Tree.Ignored(rel) {
			return result, fmt.Errorf("path %s is ignored", rel)
		}
		if strings.ContainsAny(rel, "\n\r") {
			return result, fmt.Errorf("path %q contains a line break", rel)
		}

		info, err := repo.Tree.Stat(rel)
		if rel == "." || (err == nil && info.IsDir()) {
			if err := addDirectory(ctx, repo, rel, tracked, result); err != nil {
				return result, err
			}
			continue
		}
		if errors.Is(err, fs.ErrNotExist) {
			if _, ok := tracked.Lookup(rel); ok {
				if err := repo.Stage.Remove(rel); err != nil {
					return result, err
				}
				result.Removed = append(result.Removed, rel)
				continue
			}
			return result, fmt.Errorf("file %s does not exist", rel)
		}
		if err != nil {
			return result, err
		}
		if err := addFile(ctx, repo, rel, result); err != nil {
			return result, err
		}
	}

	slices.Sort(result.Added)
	result.Added = slices.Compact(result.Added)
	slices.Sort(result.Removed)
	result.Removed = slices.Compact(result.Removed)
	repo.Log.Debug().Int("added", len(result.Added)).Int("removed", len(result.Removed)).Msg("Staged files")
	return result, nil
}

// Remove deletes tracked files from the working tree and stages their removal.
func Remove(ctx context.Context, repo *Repository, paths []string) ([]string, error) {
	tracked, err := repo.trackedManifest(ctx)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, p := range paths {
		rel, err := repo.Tree.Rel(p)
		if err != nil {
			return removed, err
		}
		if _, ok := tracked.Lookup(rel); !ok {
			return removed, fmt.Errorf("path %s is not tracked", rel)
		}
		if err := repo.Tree.RemoveFile(rel); err != nil {
			return removed, fmt.Errorf("remove %s: %w", rel, err)
		}
		if err := repo.Stage.Remove(rel); err != nil {
			return removed, err
		}
		removed = append(removed, rel)
	}
	return removed, nil
}

func addDirectory(ctx context.Context, repo *Repository, dir string, tracked models.Manifest, result *AddResult) error {
	files, err := repo.Tree.TrackedFiles(ctx)
	if err != nil {
		return err
	}
	inDir := func(p string) bool {
		return dir == "." || p == dir || strings.HasPrefix(p, dir+"/")
	}

	present := make(map[string]bool, len(files))
	for _, f := range files {
		if !inDir(f) {
			continue
		}
		present[f] = true
		if err := addFile(ctx, repo, f, result); err != nil {
			return err
		}
	}

	// Tracked files that vanished from this directory
	for p := range tracked {
		if inDir(p) && !present[p] && !repo.Tree.Ignored(p) {
			if err := repo.Stage.Remove(p); err != nil {
				return err
			}
			result.Removed = append(result.Removed, p)
		}
	}
	return nil
}

func addFile(ctx context.Context, repo *Repository, rel string, result *AddResult) error {
	data, err := repo.Tree.ReadFile(rel)
	if err != nil {
		return fmt.Errorf("read %s: %w", rel, err)
	}
	if len(data) == 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("file %s is empty", rel))
	}
	hash, err := repo.Objects.Put(ctx, data)
	if err != nil {
		return err
	}
	if err := repo.Stage.Add(rel, hash); err != nil {
		return err
	}
	result.Added = append(result.Added, rel)
	return nil
}

// trackedManifest is the manifest the next commit starts from: HEAD's files
// with the staged changes applied.
func (r *Repository) trackedManifest(ctx context.Context) (models.Manifest, error) {
	head, err := r.Refs.ReadHead(ctx)
	if err != nil {
		return nil, err
	}
	commit, err := r.currentCommit(ctx, head)
	if err != nil {
		return nil, err
	}
	files, err := r.manifestOf(ctx, commit)
	if err != nil {
		return nil, err
	}
	changes, err := r.Stage.Pending()
	if err != nil {
		return nil, err
	}
	return changes.Apply(files), nil
}
