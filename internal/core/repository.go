// Package core implements the repository operations: init, add, commit,
// branch, checkout, log, and merge. Every operation receives an explicit
// Repository carrying its stores, so tests can run entirely in memory.
package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/eyue1777/minigit/internal/config"
	"github.com/eyue1777/minigit/internal/history"
	"github.com/eyue1777/minigit/internal/logging"
	"github.com/eyue1777/minigit/internal/models"
	"github.com/eyue1777/minigit/internal/objects"
	"github.com/eyue1777/minigit/internal/refs"
	"github.com/eyue1777/minigit/internal/staging"
	"github.com/eyue1777/minigit/internal/store"
	"github.com/eyue1777/minigit/internal/worktree"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Repository bundles the stores of one working tree.
type Repository struct {
	Config  *config.Config
	Hasher  *objects.Hasher
	Objects objects.Store
	Refs    refs.Store
	Stage   *staging.Area
	Tree    *worktree.Reconciler
	History *history.Walker
	Log     zerolog.Logger

	// Now supplies commit timestamps.
	Now func() time.Time

	prefixes objects.PrefixResolver
	closer   io.Closer
}

// Open opens the repository described by cfg on the local filesystem.
func Open(cfg *config.Config) (*Repository, error) {
	return openWithFs(cfg, afero.NewOsFs())
}

// openWithFs wires the stores for cfg over afs. The bolt backend always uses
// the local filesystem for its database file.
func openWithFs(cfg *config.Config, afs afero.Fs) (*Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	hasher, err := objects.NewHasher(cfg.Core.Hash)
	if err != nil {
		return nil, err
	}

	repo := &Repository{
		Config: cfg,
		Hasher: hasher,
		Log:    logging.GetLogger("core"),
		Now:    time.Now,
	}

	var base objects.Store
	switch cfg.Storage.Backend {
	case config.BackendBolt:
		st, err := store.New(cfg.DatabasePath(), hasher)
		if err != nil {
			return nil, err
		}
		if err := st.Initialize(); err != nil {
			st.Close()
			return nil, fmt.Errorf("initialize database: %w", err)
		}
		base, repo.Refs, repo.prefixes, repo.closer = st, st, st, st
	default:
		fsObjects, err := objects.NewFSStore(afs, cfg.ObjectsPath(), hasher)
		if err != nil {
			return nil, err
		}
		fsRefs, err := refs.NewFSStore(afs, cfg.RepoPath())
		if err != nil {
			return nil, err
		}
		base, repo.Refs, repo.prefixes = fsObjects, fsRefs, fsObjects
	}

	cached, err := objects.NewCachedStore(base, cfg.Storage.CacheSize)
	if err != nil {
		repo.Close()
		return nil, err
	}
	repo.Objects = cached

	ignoreFile, err := worktree.LoadIgnoreFile(afs, cfg.IgnoreFilePath())
	if err != nil {
		repo.Close()
		return nil, err
	}
	matcher, err := worktree.NewMatcher(worktree.DefaultPatterns, cfg.Worktree.Ignore, ignoreFile)
	if err != nil {
		repo.Close()
		return nil, err
	}
	repo.Tree = worktree.New(afs, cfg.Root(), cached, matcher, logging.GetLogger("worktree"))

	walker, err := history.NewWalker(cached, 0, logging.GetLogger("history"))
	if err != nil {
		repo.Close()
		return nil, err
	}
	repo.History = walker
	repo.Stage = staging.New(afs, cfg.StagingPath())

	return repo, nil
}

// Close releases the database handle of the bolt backend.
func (r *Repository) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// CommitID returns the identity of c: the hash of its canonical encoding.
func CommitID(hasher *objects.Hasher, c *models.Commit) (string, error) {
	return hasher.Sum(models.EncodeCommit(c))
}

// writeCommit stores c and sets its ID.
func (r *Repository) writeCommit(ctx context.Context, c *models.Commit) error {
	id, err := r.Objects.Put(ctx, models.EncodeCommit(c))
	if err != nil {
		return fmt.Errorf("store commit: %w", err)
	}
	c.ID = id
	return nil
}

// currentCommit returns the commit HEAD resolves to, "" on an unborn branch.
func (r *Repository) currentCommit(ctx context.Context, head models.Head) (string, error) {
	if head.IsDetached() {
		return head.Commit, nil
	}
	return r.Refs.Read(ctx, head.Branch)
}

// manifestOf returns the files of a commit, or an empty manifest for "".
func (r *Repository) manifestOf(ctx context.Context, commitID string) (models.Manifest, error) {
	if commitID == "" {
		return models.Manifest{}, nil
	}
	c, err := r.History.Commit(ctx, commitID)
	if err != nil {
		return nil, err
	}
	return c.Files, nil
}

// IsNotFound reports whether err means a missing ref or object.
func IsNotFound(err error) bool {
	return errors.Is(err, models.ErrNotFound)
}
