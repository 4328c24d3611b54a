package core

import (
	"context"
	"fmt"

	"github.com/eyue1777/minigit/internal/models"
	"github.com/eyue1777/minigit/internal/worktree"
)

// ResetMode defines how reset affects the working tree and staging list
type ResetMode int

const (
	// ResetModeSoft moves HEAD and stages the changes of the undone commits
	ResetModeSoft ResetMode = iota
	// ResetModeMixed moves HEAD and clears staging, leaving files alone
	ResetModeMixed
	// ResetModeHard moves HEAD, clears staging, and reconciles the working tree
	ResetModeHard
)

// String returns a human-readable name for the reset mode
func (m ResetMode) String() string {
	switch m {
	case ResetModeSoft:
		return "soft"
	case ResetModeMixed:
		return "mixed"
	case ResetModeHard:
		return "hard"
	default:
		return "unknown"
	}
}

// ResetOptions configures reset behavior
type ResetOptions struct {
	Mode ResetMode
}

// ResetResult contains the result of a reset operation
type ResetResult struct {
	PreviousCommit string
	TargetCommit   string
	BranchName     string // Branch that was moved (empty if detached)
	Mode           ResetMode
	ChangesStaged  int // soft only
	// Only populated for hard reset
	Restored int
	Removed  int
}

// ResetToCommit moves the current branch (or a detached HEAD) to target.
func ResetToCommit(ctx context.Context, repo *Repository, target string, opts ResetOptions) (*ResetResult, error) {
	result := &ResetResult{Mode: opts.Mode}

	// Step 1: Resolve target to commit ID
	targetID, _, err := ResolveRef(ctx, repo, target)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve '%s': %w", target, err)
	}
	if targetID == "" {
		return nil, fmt.Errorf("cannot reset to '%s': no commits yet", target)
	}
	targetFiles, err := repo.manifestOf(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("commit '%s' not readable: %w", target, err)
	}

	// Step 2: Get current state
	head, err := repo.Refs.ReadHead(ctx)
	if err != nil {
		return nil, err
	}
	previous, err := repo.currentCommit(ctx, head)
	if err != nil {
		return nil, err
	}
	previousFiles, err := repo.manifestOf(ctx, previous)
	if err != nil {
		return nil, err
	}
	result.PreviousCommit = previous
	result.TargetCommit = targetID
	result.BranchName = head.Branch

	// Step 3: Move the ref
	if head.IsDetached() {
		err = repo.Refs.WriteHead(ctx, models.DetachedHead(targetID))
	} else {
		err = repo.Refs.CompareAndSwap(ctx, head.Branch, previous, targetID)
	}
	if err != nil {
		return nil, err
	}

	// Step 4: Staging and working tree
	if err := repo.Stage.Clear(); err != nil {
		return result, err
	}
	switch opts.Mode {
	case ResetModeSoft:
		n, err := stageDifference(repo, targetFiles, previousFiles)
		result.ChangesStaged = n
		if err != nil {
			return result, err
		}
	case ResetModeHard:
		tree, err := repo.Tree.Reconcile(ctx, targetFiles)
		if tree != nil {
			result.Restored = tree.Count(worktree.ActionRestored)
			result.Removed = tree.Count(worktree.ActionRemoved)
		}
		if err != nil {
			return result, err
		}
		if !tree.OK() {
			return result, fmt.Errorf("%w: %w", models.ErrCheckoutIncomplete, tree.Err())
		}
	}

	repo.Log.Info().Str("mode", opts.Mode.String()).Str("commit", shortID(targetID)).Msg("Reset")
	return result, nil
}

// stageDifference stages what turns from into to.
func stageDifference(repo *Repository, from, to models.Manifest) (int, error) {
	n := 0
	for _, path := range to.Paths() {
		if h, ok := from.Lookup(path); ok && h == to[path] {
			continue
		}
		if err := repo.Stage.Add(path, to[path]); err != nil {
			return n, err
		}
		n++
	}
	for _, path := range from.Paths() {
		if _, ok := to.Lookup(path); ok {
			continue
		}
		if err := repo.Stage.Remove(path); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
