package core

import (
	"context"

	"github.com/eyue1777/minigit/internal/history"
	"github.com/eyue1777/minigit/internal/models"
)

// LogOptions configures log output
type LogOptions struct {
	Start      string // ref to start from, HEAD when empty
	Limit      int    // 0 means no limit
	AllParents bool   // follow merge parents too
}

// Log returns commits reachable from the start ref, newest first along the
// first-parent chain unless AllParents is set.
func Log(ctx context.Context, repo *Repository, opts LogOptions) ([]*models.Commit, error) {
	start := opts.Start
	if start == "" {
		start = "HEAD"
	}
	commitID, _, err := ResolveRef(ctx, repo, start)
	if err != nil {
		return nil, err
	}
	if commitID == "" {
		return nil, nil
	}

	var commits []*models.Commit
	for id, err := range repo.History.Ancestors(ctx, commitID, history.WalkOptions{AllParents: opts.AllParents}) {
		if err != nil {
			return commits, err
		}
		commit, err := repo.History.Commit(ctx, id)
		if err != nil {
			return commits, err
		}
		commits = append(commits, commit)
		if opts.Limit > 0 && len(commits) >= opts.Limit {
			break
		}
	}
	return commits, nil
}
