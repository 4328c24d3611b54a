package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/eyue1777/minigit/internal/config"
	"github.com/eyue1777/minigit/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_CreatesRootCommit(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	head, err := repo.Refs.ReadHead(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.AttachedHead("main"), head)

	branches, err := repo.Refs.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"main"}, branches)

	root, err := repo.History.Commit(ctx, branchCommit(t, repo, "main"))
	require.NoError(t, err)
	assert.Equal(t, InitialCommitMessage, root.Message)
	assert.True(t, root.IsRoot())
	assert.Empty(t, root.Files)
	assert.Equal(t, "main", root.Branch)
}

func TestInit_OnDisk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	repo, err := Init(ctx, dir, nil)
	require.NoError(t, err)
	defer repo.Close()

	_, err = os.Stat(filepath.Join(dir, config.RepoDir, "HEAD"))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello\n"), 0644))
	_, err = Add(ctx, repo, []string{filepath.Join(dir, "a.txt")})
	require.NoError(t, err)
	commit, err := CreateCommit(ctx, repo, "add a")
	require.NoError(t, err)
	assert.Contains(t, commit.Files, "a.txt")

	_, err = Init(ctx, dir, nil)
	assert.Error(t, err, "second init in the same directory fails")
}

func TestInit_BoltBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Storage.Backend = config.BackendBolt
	repo, err := Init(ctx, dir, cfg)
	require.NoError(t, err)
	defer repo.Close()

	_, err = os.Stat(filepath.Join(dir, config.RepoDir, config.DatabaseFile))
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "f.txt"), []byte("v1"), 0644))
	_, err = Add(ctx, repo, []string{"f.txt"})
	require.NoError(t, err)
	first, err := CreateCommit(ctx, repo, "v1")
	require.NoError(t, err)

	_, err = CreateBranch(ctx, repo, "feature", "")
	require.NoError(t, err)
	_, err = Checkout(ctx, repo, "feature", CheckoutOptions{})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "f.txt"), []byte("v2"), 0644))
	_, err = Add(ctx, repo, []string{"f.txt"})
	require.NoError(t, err)
	_, err = CreateCommit(ctx, repo, "v2")
	require.NoError(t, err)

	_, err = Checkout(ctx, repo, "main", CheckoutOptions{})
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))

	result, err := Merge(ctx, repo, "feature", models.MergeOptions{})
	require.NoError(t, err)
	assert.Equal(t, models.MergeClean, result.Outcome)
	assert.Equal(t, []string{first.ID, result.Theirs}, result.MergeCommit.Parents)

	data, err = os.ReadFile(filepath.Join(dir, "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
}
