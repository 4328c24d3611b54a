// Package history walks the commit graph: parent lookup, lazy ancestor
// traversal, and common-ancestor discovery.
package history

import (
	"context"
	"fmt"
	"iter"

	"github.com/eyue1777/minigit/internal/models"
	"github.com/eyue1777/minigit/internal/objects"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
)

// DefaultCacheSize is the number of decoded commits a Walker keeps.
const DefaultCacheSize = 512

// WalkOptions controls which edges an ancestor walk follows.
type WalkOptions struct {
	// AllParents follows every parent breadth-first instead of the first parent only.
	AllParents bool
}

// Walker reads commits from an object store and traverses their parent links.
type Walker struct {
	objects objects.Reader
	cache   *lru.Cache[string, *models.Commit]
	log     zerolog.Logger
}

// NewWalker creates a walker over r keeping up to cacheSize decoded commits.
func NewWalker(r objects.Reader, cacheSize int, logger zerolog.Logger) (*Walker, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, *models.Commit](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create commit cache: %w", err)
	}
	return &Walker{objects: r, cache: cache, log: logger}, nil
}

// Commit reads and decodes a commit. The returned value is a private copy.
// Decoder diagnostics are logged, not returned.
func (w *Walker) Commit(ctx context.Context, id string) (*models.Commit, error) {
	if c, ok := w.cache.Get(id); ok {
		return cloneCommit(c), nil
	}

	data, err := w.objects.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("read commit %s: %w", id, err)
	}
	c, diagnostics, err := models.DecodeCommit(data)
	if err != nil {
		return nil, fmt.Errorf("decode commit %s: %w", id, err)
	}
	for _, d := range diagnostics {
		w.log.Warn().Str("commit", id).Msg(d)
	}
	c.ID = id

	w.cache.Add(id, c)
	return cloneCommit(c), nil
}

// ParentsOf returns the parents of a commit in stored order; empty at a root.
func (w *Walker) ParentsOf(ctx context.Context, id string) ([]string, error) {
	c, err := w.Commit(ctx, id)
	if err != nil {
		return nil, err
	}
	return c.Parents, nil
}

// Ancestors returns a lazy walk starting at (and including) start. Each
// iteration is independent, so the sequence can be ranged over again. A hash
// that was already visited is not expanded a second time. A read failure is
// yielded once and ends the walk.
func (w *Walker) Ancestors(ctx context.Context, start string, opts WalkOptions) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if start == "" {
			return
		}
		visited := make(map[string]bool)
		queue := []string{start}

		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			if visited[id] {
				continue
			}
			visited[id] = true

			if err := ctx.Err(); err != nil {
				yield("", err)
				return
			}
			if !yield(id, nil) {
				return
			}

			parents, err := w.ParentsOf(ctx, id)
			if err != nil {
				yield("", err)
				return
			}
			if !opts.AllParents && len(parents) > 1 {
				parents = parents[:1]
			}
			queue = append(queue, parents...)
		}
	}
}

// AncestorSet collects every commit reachable from start, start included.
func (w *Walker) AncestorSet(ctx context.Context, start string) (map[string]bool, error) {
	set := make(map[string]bool)
	for id, err := range w.Ancestors(ctx, start, WalkOptions{AllParents: true}) {
		if err != nil {
			return nil, err
		}
		set[id] = true
	}
	return set, nil
}

// IsAncestor reports whether ancestor is reachable from descendant.
func (w *Walker) IsAncestor(ctx context.Context, ancestor, descendant string) (bool, error) {
	for id, err := range w.Ancestors(ctx, descendant, WalkOptions{AllParents: true}) {
		if err != nil {
			return false, err
		}
		if id == ancestor {
			return true, nil
		}
	}
	return false, nil
}

func cloneCommit(c *models.Commit) *models.Commit {
	out := *c
	if c.Parents != nil {
		out.Parents = append([]string(nil), c.Parents...)
	}
	out.Files = c.Files.Clone()
	return &out
}
