package core

import (
	"context"
	"testing"
	"time"

	"github.com/eyue1777/minigit/internal/config"
	"github.com/eyue1777/minigit/internal/models"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// newTestRepo creates an initialized repository rooted at /repo on an
// in-memory filesystem. Its clock advances one second per commit.
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := openWithFs(config.ForRoot("/repo"), afero.NewMemMapFs())
	require.NoError(t, err)

	clock := time.Unix(1700000000, 0)
	repo.Now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	require.NoError(t, repo.bootstrap(context.Background()))
	return repo
}

func writeFile(t *testing.T, repo *Repository, path, content string) {
	t.Helper()
	require.NoError(t, repo.Tree.WriteFile(path, []byte(content)))
}

func readFile(t *testing.T, repo *Repository, path string) string {
	t.Helper()
	data, err := repo.Tree.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func fileExists(repo *Repository, path string) bool {
	_, err := repo.Tree.Stat(path)
	return err == nil
}

// commitFiles writes each file, stages it and commits.
func commitFiles(t *testing.T, repo *Repository, message string, files map[string]string) *models.Commit {
	t.Helper()
	ctx := context.Background()
	paths := make([]string, 0, len(files))
	for path, content := range files {
		writeFile(t, repo, path, content)
		paths = append(paths, path)
	}
	_, err := Add(ctx, repo, paths)
	require.NoError(t, err)
	commit, err := CreateCommit(ctx, repo, message)
	require.NoError(t, err)
	return commit
}

func headCommit(t *testing.T, repo *Repository) string {
	t.Helper()
	ctx := context.Background()
	head, err := repo.Refs.ReadHead(ctx)
	require.NoError(t, err)
	id, err := repo.currentCommit(ctx, head)
	require.NoError(t, err)
	return id
}

func branchCommit(t *testing.T, repo *Repository, branch string) string {
	t.Helper()
	id, err := repo.Refs.Read(context.Background(), branch)
	require.NoError(t, err)
	return id
}

func blobHash(t *testing.T, repo *Repository, content string) string {
	t.Helper()
	h, err := repo.Hasher.Sum([]byte(content))
	require.NoError(t, err)
	return h
}

func checkout(t *testing.T, repo *Repository, target string) {
	t.Helper()
	_, err := Checkout(context.Background(), repo, target, CheckoutOptions{})
	require.NoError(t, err)
}
