package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/eyue1777/minigit/internal/models"
	"github.com/eyue1777/minigit/internal/objects"
	"github.com/eyue1777/minigit/internal/refs"
)

// ListBranches returns all branches in creation order with the current one marked
func ListBranches(ctx context.Context, repo *Repository) ([]*models.Branch, error) {
	names, err := repo.Refs.List(ctx)
	if err != nil {
		return nil, err
	}
	head, err := repo.Refs.ReadHead(ctx)
	if err != nil {
		return nil, err
	}

	branches := make([]*models.Branch, 0, len(names))
	for _, name := range names {
		commitID, err := repo.Refs.Read(ctx, name)
		if err != nil {
			return nil, err
		}
		branches = append(branches, &models.Branch{
			Name:     name,
			CommitID: commitID,
			Current:  name == head.Branch,
		})
	}
	return branches, nil
}

// CreateBranch creates a new branch at the current HEAD or the given start
// point and returns the commit it points at. On an unborn current branch a
// root commit is created first so the new branch has something to point at.
func CreateBranch(ctx context.Context, repo *Repository, name, startPoint string) (string, error) {
	if err := refs.ValidateBranchName(name); err != nil {
		return "", err
	}
	exists, err := repo.Refs.Exists(ctx, name)
	if err != nil {
		return "", err
	}
	if exists {
		return "", fmt.Errorf("%w: %s", models.ErrBranchExists, name)
	}

	var commitID string
	if startPoint != "" {
		commitID, _, err = ResolveRef(ctx, repo, startPoint)
		if err != nil {
			return "", err
		}
	} else {
		head, err := repo.Refs.ReadHead(ctx)
		if err != nil {
			return "", err
		}
		commitID, err = repo.currentCommit(ctx, head)
		if err != nil {
			return "", err
		}
		if commitID == "" {
			commitID, err = repo.createRootCommit(ctx, head.Branch)
			if err != nil {
				return "", err
			}
		}
	}

	if err := repo.Refs.Write(ctx, name, commitID); err != nil {
		return "", err
	}
	repo.Log.Info().Str("branch", name).Str("commit", shortID(commitID)).Msg("Created branch")
	return commitID, nil
}

// ResolveRef resolves a ref to a commit ID.
// Returns (commitID, branchName, error) where branchName is empty unless ref names a branch.
// Supports: branch names, full/short commit IDs, HEAD, <ref>~N
func ResolveRef(ctx context.Context, repo *Repository, ref string) (commitID string, branchName string, err error) {
	if base, steps, ok := strings.Cut(ref, "~"); ok {
		n, err := strconv.Atoi(steps)
		if err != nil || n < 0 {
			return "", "", fmt.Errorf("invalid ref '%s': expected <ref>~N where N is a non-negative number", ref)
		}
		commitID, _, err := ResolveRef(ctx, repo, base)
		if err != nil {
			return "", "", err
		}
		commitID, err = walkFirstParents(ctx, repo, commitID, n)
		return commitID, "", err
	}

	if ref == "HEAD" {
		head, err := repo.Refs.ReadHead(ctx)
		if err != nil {
			return "", "", err
		}
		commitID, err := repo.currentCommit(ctx, head)
		return commitID, head.Branch, err
	}

	// Try as branch first
	exists, err := repo.Refs.Exists(ctx, ref)
	if err != nil {
		return "", "", err
	}
	if exists {
		commitID, err := repo.Refs.Read(ctx, ref)
		return commitID, ref, err
	}

	// Try as full commit ID
	if repo.Hasher.Valid(ref) {
		ok, err := repo.Objects.Has(ctx, ref)
		if err != nil {
			return "", "", err
		}
		if ok {
			return ref, "", nil
		}
	}

	// Try as short commit ID
	if len(ref) >= objects.MinPrefixLength && repo.prefixes != nil {
		id, err := repo.prefixes.ResolvePrefix(ctx, ref)
		if err == nil {
			return id, "", nil
		}
		if errors.Is(err, models.ErrAmbiguousRef) {
			return "", "", err
		}
	}

	return "", "", fmt.Errorf("'%s' is not a valid branch or commit: %w", ref, models.ErrNotFound)
}

// walkFirstParents follows the mainline n steps back from commitID.
func walkFirstParents(ctx context.Context, repo *Repository, commitID string, n int) (string, error) {
	if commitID == "" {
		return "", fmt.Errorf("cannot walk back: no commits yet")
	}
	for i := 0; i < n; i++ {
		commit, err := repo.History.Commit(ctx, commitID)
		if err != nil {
			return "", err
		}
		if commit.IsRoot() {
			return "", fmt.Errorf("reached root commit after %d step(s)", i)
		}
		commitID = commit.FirstParent()
	}
	return commitID, nil
}

func shortID(id string) string {
	return (&models.Commit{ID: id}).ShortID()
}
