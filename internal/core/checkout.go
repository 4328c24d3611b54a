package core

import (
	"context"
	"fmt"

	"github.com/eyue1777/minigit/internal/models"
	"github.com/eyue1777/minigit/internal/worktree"
)

// CheckoutOptions configures checkout behavior
type CheckoutOptions struct {
	Force         bool   // Discard staged and modified files
	CreateBranch  bool   // Create new branch at HEAD (for -b flag)
	NewBranchName string // Name for new branch
}

// CheckoutResult contains the result of a checkout operation
type CheckoutResult struct {
	PreviousCommit string
	TargetCommit   string
	BranchName     string // Empty if detached
	IsDetached     bool
	Restored       int
	Removed        int
	Outcomes       []worktree.Outcome
}

// Checkout resolves target to a branch or commit and switches to it.
func Checkout(ctx context.Context, repo *Repository, target string, opts CheckoutOptions) (*CheckoutResult, error) {
	// Step 1: Check for uncommitted changes (unless --force)
	if !opts.Force {
		dirty, err := HasUncommittedChanges(ctx, repo)
		if err != nil {
			return nil, fmt.Errorf("failed to check for changes: %w", err)
		}
		if dirty {
			return nil, fmt.Errorf("you have uncommitted changes; commit them or use --force to discard")
		}
	}

	// Step 2: Resolve target to commit ID and determine if branch
	var (
		commitID, branchName string
		err                  error
	)
	if opts.CreateBranch {
		if opts.NewBranchName == "" {
			return nil, fmt.Errorf("branch name required with -b")
		}
		start := target
		if start == "" {
			start = "HEAD"
		}
		commitID, err = CreateBranch(ctx, repo, opts.NewBranchName, start)
		if err != nil {
			return nil, err
		}
		branchName = opts.NewBranchName
	} else {
		commitID, branchName, err = ResolveRef(ctx, repo, target)
		if err != nil {
			return nil, err
		}
	}

	// Step 3: Switch and reconcile
	result, err := CheckoutCommit(ctx, repo, commitID, branchName)
	if err != nil {
		return result, err
	}
	if opts.Force {
		if err := repo.Stage.Clear(); err != nil {
			return result, err
		}
	}
	return result, nil
}

// CheckoutCommit points HEAD at branch (or detaches it at commitID when
// branch is empty) and reconciles the working set to the commit's manifest.
// An empty commitID stands for an unborn branch and empties the working set.
// Per-file failures do not stop the pass; they are reported in the result
// and the returned error wraps ErrCheckoutIncomplete.
func CheckoutCommit(ctx context.Context, repo *Repository, commitID, branch string) (*CheckoutResult, error) {
	head, err := repo.Refs.ReadHead(ctx)
	if err != nil {
		return nil, err
	}
	previous, err := repo.currentCommit(ctx, head)
	if err != nil {
		return nil, err
	}

	result := &CheckoutResult{
		PreviousCommit: previous,
		TargetCommit:   commitID,
		BranchName:     branch,
		IsDetached:     branch == "",
	}

	// Load the target first so a missing commit leaves HEAD untouched
	manifest, err := repo.manifestOf(ctx, commitID)
	if err != nil {
		return nil, fmt.Errorf("cannot checkout %s: %w", shortID(commitID), err)
	}

	newHead := models.AttachedHead(branch)
	if branch == "" {
		if commitID == "" {
			return nil, fmt.Errorf("cannot detach HEAD without a commit")
		}
		newHead = models.DetachedHead(commitID)
	}
	if err := repo.Refs.WriteHead(ctx, newHead); err != nil {
		return nil, err
	}

	tree, err := repo.Tree.Reconcile(ctx, manifest)
	if tree != nil {
		result.Restored = tree.Count(worktree.ActionRestored)
		result.Removed = tree.Count(worktree.ActionRemoved)
		result.Outcomes = tree.Outcomes
	}
	if err != nil {
		return result, err
	}

	repo.Log.Info().
		Str("head", newHead.String()).
		Int("restored", result.Restored).
		Int("removed", result.Removed).
		Msg("Checked out")

	if !tree.OK() {
		return result, fmt.Errorf("%w: %w", models.ErrCheckoutIncomplete, tree.Err())
	}
	return result, nil
}

// HasUncommittedChanges reports staged changes or tracked files that differ
// from HEAD. Untracked files do not count.
func HasUncommittedChanges(ctx context.Context, repo *Repository) (bool, error) {
	status, err := GetStatus(ctx, repo)
	if err != nil {
		return false, err
	}
	return status.HasChanges(), nil
}
