package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStatus(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	commitFiles(t, repo, "base", map[string]string{
		"clean.txt":    "c",
		"edited.txt":   "e",
		"deleted.txt":  "d",
		"unstaged.txt": "u",
	})

	writeFile(t, repo, "edited.txt", "changed")
	require.NoError(t, repo.Tree.RemoveFile("deleted.txt"))
	writeFile(t, repo, "new.txt", "n")
	writeFile(t, repo, "staged.txt", "s")
	_, err := Add(ctx, repo, []string{"staged.txt"})
	require.NoError(t, err)
	_, err = Remove(ctx, repo, []string{"unstaged.txt"})
	require.NoError(t, err)

	status, err := GetStatus(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, "main", status.Branch)
	assert.Equal(t, []string{"staged.txt"}, status.Staged)
	assert.Equal(t, []string{"unstaged.txt"}, status.Unstaged)
	assert.Equal(t, []string{"edited.txt"}, status.Modified)
	assert.Equal(t, []string{"deleted.txt"}, status.Deleted)
	assert.Equal(t, []string{"new.txt"}, status.Untracked)
	assert.True(t, status.HasChanges())
}

func TestGetStatus_Clean(t *testing.T) {
	repo := newTestRepo(t)
	commitFiles(t, repo, "base", map[string]string{"a.txt": "a"})
	writeFile(t, repo, "scratch.txt", "x")

	status, err := GetStatus(context.Background(), repo)
	require.NoError(t, err)
	assert.False(t, status.HasChanges())
	assert.Equal(t, []string{"scratch.txt"}, status.Untracked)
}

func TestGetStatus_RestagedUnchangedFilesAreClean(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	commitFiles(t, repo, "base", map[string]string{"a.txt": "a", "b.txt": "b"})

	_, err := Add(ctx, repo, []string{"."})
	require.NoError(t, err)

	status, err := GetStatus(ctx, repo)
	require.NoError(t, err)
	assert.Empty(t, status.Staged)
	assert.Empty(t, status.Unstaged)
	assert.False(t, status.HasChanges())
}
