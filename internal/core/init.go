package core

import (
	"context"
	"fmt"

	"github.com/eyue1777/minigit/internal/config"
	"github.com/eyue1777/minigit/internal/models"
)

// InitialCommitMessage is the message of the root commit created by Init.
const InitialCommitMessage = "Initial commit"

// Init creates a repository in root and returns it opened. The default
// branch starts at an empty root commit and HEAD is attached to it.
func Init(ctx context.Context, root string, cfg *config.Config) (*Repository, error) {
	cfg, err := config.Initialize(root, cfg)
	if err != nil {
		return nil, err
	}
	repo, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := repo.bootstrap(ctx); err != nil {
		repo.Close()
		return nil, err
	}
	return repo, nil
}

func (r *Repository) bootstrap(ctx context.Context) error {
	branch := r.Config.Core.DefaultBranch
	if _, err := r.createRootCommit(ctx, branch); err != nil {
		return err
	}
	if err := r.Refs.WriteHead(ctx, models.AttachedHead(branch)); err != nil {
		return err
	}
	if err := r.Stage.Clear(); err != nil {
		return err
	}
	r.Log.Info().Str("branch", branch).Str("root", r.Config.Root()).Msg("Initialized repository")
	return nil
}

// createRootCommit writes an empty parentless commit and points the unborn
// branch at it.
func (r *Repository) createRootCommit(ctx context.Context, branch string) (string, error) {
	root := &models.Commit{
		Message:   InitialCommitMessage,
		Timestamp: r.Now().Unix(),
		Branch:    branch,
		Files:     models.Manifest{},
	}
	if err := r.writeCommit(ctx, root); err != nil {
		return "", err
	}
	if err := r.Refs.CompareAndSwap(ctx, branch, "", root.ID); err != nil {
		return "", fmt.Errorf("point %s at root commit: %w", branch, err)
	}
	return root.ID, nil
}
