package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/eyue1777/minigit/internal/models"
)

// CreateCommit records the staged changes as a new commit on top of HEAD and
// advances the current branch, or HEAD itself when detached.
func CreateCommit(ctx context.Context, repo *Repository, message string) (*models.Commit, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("commit message cannot be empty")
	}

	// Step 1: Find the parent
	head, err := repo.Refs.ReadHead(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read HEAD: %w", err)
	}
	parent, err := repo.currentCommit(ctx, head)
	if err != nil {
		return nil, err
	}

	// Step 2: Collect staged changes that differ from the parent
	base, err := repo.manifestOf(ctx, parent)
	if err != nil {
		return nil, fmt.Errorf("failed to load parent %s: %w", parent, err)
	}
	pending, err := repo.Stage.Pending()
	if err != nil {
		return nil, err
	}
	changes := pending.Against(base)
	if changes.Empty() {
		return nil, models.ErrNothingToCommit
	}

	// Step 3: Build the manifest from the parent's files

	commit := &models.Commit{
		Message:   message,
		Timestamp: repo.Now().Unix(),
		Branch:    head.Branch,
		Files:     changes.Apply(base),
	}
	if parent != "" {
		commit.Parents = []string{parent}
	}
	if err := repo.writeCommit(ctx, commit); err != nil {
		return nil, err
	}

	// Step 4: Advance the ref
	if head.IsDetached() {
		if err := repo.Refs.WriteHead(ctx, models.DetachedHead(commit.ID)); err != nil {
			return nil, err
		}
	} else if err := repo.Refs.CompareAndSwap(ctx, head.Branch, parent, commit.ID); err != nil {
		return nil, err
	}

	// Step 5: Clear staging
	if err := repo.Stage.Clear(); err != nil {
		return nil, fmt.Errorf("commit %s created but staging was not cleared: %w", commit.ShortID(), err)
	}

	repo.Log.Info().
		Str("commit", commit.ShortID()).
		Str("branch", head.Branch).
		Int("files", len(commit.Files)).
		Msg("Created commit")
	return commit, nil
}
