package core

import (
	"context"
	"testing"

	"github.com/eyue1777/minigit/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// divergedRepo commits base on main, then one commit on feature and one on
// main, and leaves main checked out.
func divergedRepo(t *testing.T, base, feature, main map[string]string) *Repository {
	t.Helper()
	ctx := context.Background()
	repo := newTestRepo(t)
	commitFiles(t, repo, "base", base)
	_, err := CreateBranch(ctx, repo, "feature", "")
	require.NoError(t, err)

	checkout(t, repo, "feature")
	applyFiles(t, repo, "feature change", feature)
	checkout(t, repo, "main")
	applyFiles(t, repo, "main change", main)
	return repo
}

// applyFiles writes or, for an empty value, deletes each file and commits.
func applyFiles(t *testing.T, repo *Repository, message string, files map[string]string) {
	t.Helper()
	if len(files) == 0 {
		return
	}
	ctx := context.Background()
	for path, content := range files {
		if content == "" {
			_, err := Remove(ctx, repo, []string{path})
			require.NoError(t, err)
			continue
		}
		writeFile(t, repo, path, content)
		_, err := Add(ctx, repo, []string{path})
		require.NoError(t, err)
	}
	_, err := CreateCommit(ctx, repo, message)
	require.NoError(t, err)
}

// ==== Fast-Forward Tests ====

func TestMerge_FastForwardUnbornBranch(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	tip := commitFiles(t, repo, "work", map[string]string{"a.txt": "a"})

	require.NoError(t, repo.Refs.Write(ctx, "fresh", ""))
	_, err := CheckoutCommit(ctx, repo, "", "fresh")
	require.NoError(t, err)
	assert.False(t, fileExists(repo, "a.txt"))

	result, err := Merge(ctx, repo, "main", models.MergeOptions{})
	require.NoError(t, err)
	assert.Equal(t, models.MergeFastForward, result.Outcome)
	assert.Nil(t, result.MergeCommit)
	assert.Equal(t, tip.ID, branchCommit(t, repo, "fresh"), "adopts the exact commit")
	assert.Equal(t, "a", readFile(t, repo, "a.txt"))
}

// ==== Clean Merge Tests ====

func TestMerge_TakesTheirChange(t *testing.T) {
	ctx := context.Background()
	repo := divergedRepo(t,
		map[string]string{"f.txt": "h1"},
		map[string]string{"f.txt": "h2"},
		map[string]string{"unrelated.txt": "u"},
	)
	ours := branchCommit(t, repo, "main")
	theirs := branchCommit(t, repo, "feature")

	result, err := Merge(ctx, repo, "feature", models.MergeOptions{})
	require.NoError(t, err)
	require.Equal(t, models.MergeClean, result.Outcome)

	merge := result.MergeCommit
	require.NotNil(t, merge)
	assert.Equal(t, []string{ours, theirs}, merge.Parents)
	assert.Equal(t, "Merge branch 'feature' into main", merge.Message)
	assert.Equal(t, "main", merge.Branch)
	assert.Equal(t, blobHash(t, repo, "h2"), merge.Files["f.txt"])
	assert.Equal(t, blobHash(t, repo, "u"), merge.Files["unrelated.txt"])
	assert.Equal(t, merge.ID, branchCommit(t, repo, "main"))
	assert.Equal(t, theirs, branchCommit(t, repo, "feature"), "the merged branch does not move")

	assert.Equal(t, "h2", readFile(t, repo, "f.txt"))
	assert.Equal(t, []string{"f.txt"}, result.TakenTheirs)

	changes, err := repo.Stage.Pending()
	require.NoError(t, err)
	assert.True(t, changes.Empty(), "staging is cleared after the merge commit")
}

func TestMerge_NewAndDeletedFiles(t *testing.T) {
	ctx := context.Background()
	repo := divergedRepo(t,
		map[string]string{"keep.txt": "k", "drop.txt": "d"},
		map[string]string{"drop.txt": "", "added.txt": "new"},
		map[string]string{"keep.txt": "k2"},
	)

	result, err := Merge(ctx, repo, "feature", models.MergeOptions{Message: "combine"})
	require.NoError(t, err)
	require.Equal(t, models.MergeClean, result.Outcome)

	merge := result.MergeCommit
	assert.Equal(t, "combine", merge.Message)
	assert.Equal(t, []string{"added.txt", "keep.txt"}, merge.Files.Paths())
	assert.Equal(t, blobHash(t, repo, "k2"), merge.Files["keep.txt"])
	assert.Equal(t, []string{"drop.txt"}, result.Removed)
	assert.False(t, fileExists(repo, "drop.txt"))
	assert.Equal(t, "new", readFile(t, repo, "added.txt"))
}

func TestMerge_IdenticalChangesOnBothSides(t *testing.T) {
	repo := divergedRepo(t,
		map[string]string{"f.txt": "old"},
		map[string]string{"f.txt": "same"},
		map[string]string{"f.txt": "same"},
	)

	result, err := Merge(context.Background(), repo, "feature", models.MergeOptions{})
	require.NoError(t, err)
	assert.Equal(t, models.MergeClean, result.Outcome)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.TakenTheirs)
}

func TestMerge_TargetAlreadyMergedStillCommits(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	_, err := CreateBranch(ctx, repo, "old", "")
	require.NoError(t, err)
	old := branchCommit(t, repo, "old")
	tip := commitFiles(t, repo, "ahead", map[string]string{"a.txt": "a"})

	result, err := Merge(ctx, repo, "old", models.MergeOptions{})
	require.NoError(t, err)
	require.Equal(t, models.MergeClean, result.Outcome)
	assert.Equal(t, old, result.Base)

	merge := result.MergeCommit
	require.NotNil(t, merge)
	assert.Equal(t, []string{tip.ID, old}, merge.Parents)
	assert.True(t, merge.Files.Equal(tip.Files), "every path keeps the current side")
	assert.Equal(t, merge.ID, branchCommit(t, repo, "main"))
	assert.Equal(t, old, branchCommit(t, repo, "old"))
	assert.Empty(t, result.TakenTheirs)
	assert.Empty(t, result.Removed)
	assert.Equal(t, "a", readFile(t, repo, "a.txt"))
}

func TestMerge_BaseIsOursCreatesMergeCommit(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	start := headCommit(t, repo)
	_, err := CreateBranch(ctx, repo, "feature", "")
	require.NoError(t, err)
	checkout(t, repo, "feature")
	ahead := commitFiles(t, repo, "ahead", map[string]string{"a.txt": "a"})
	checkout(t, repo, "main")

	result, err := Merge(ctx, repo, "feature", models.MergeOptions{})
	require.NoError(t, err)
	require.Equal(t, models.MergeClean, result.Outcome)
	assert.Equal(t, start, result.Base)
	assert.Equal(t, []string{start, ahead.ID}, result.MergeCommit.Parents)
	assert.Equal(t, "a", readFile(t, repo, "a.txt"))
}

func TestMerge_RestagedUnchangedTreeIsNotDirty(t *testing.T) {
	ctx := context.Background()
	repo := divergedRepo(t,
		map[string]string{"f.txt": "h1"},
		map[string]string{"f.txt": "h2"},
		map[string]string{"u.txt": "u"},
	)
	_, err := Add(ctx, repo, []string{"."})
	require.NoError(t, err)

	result, err := Merge(ctx, repo, "feature", models.MergeOptions{})
	require.NoError(t, err)
	require.Equal(t, models.MergeClean, result.Outcome)
	require.NotNil(t, result.MergeCommit)
	assert.Equal(t, "h2", readFile(t, repo, "f.txt"))

	_, err = CreateCommit(ctx, repo, "nothing new")
	assert.ErrorIs(t, err, models.ErrNothingToCommit)
}

// ==== Conflict Tests ====

func TestMerge_ConflictWritesMarkers(t *testing.T) {
	ctx := context.Background()
	repo := divergedRepo(t,
		map[string]string{"f.txt": "base\n"},
		map[string]string{"f.txt": "theirs\n"},
		map[string]string{"f.txt": "ours\n"},
	)
	before := branchCommit(t, repo, "main")

	result, err := Merge(ctx, repo, "feature", models.MergeOptions{})
	require.NoError(t, err)
	assert.Equal(t, models.MergeConflicted, result.Outcome)
	assert.False(t, result.Success())
	assert.Nil(t, result.MergeCommit)
	assert.Equal(t, before, branchCommit(t, repo, "main"), "no merge commit on conflict")

	require.Len(t, result.Conflicts, 1)
	conflict := result.Conflicts[0]
	assert.Equal(t, "f.txt", conflict.Path)
	assert.Equal(t, models.ConflictModifyModify, conflict.Type)

	expected := "<<<<<<< HEAD\nours\n=======\ntheirs\n>>>>>>> feature\n"
	assert.Equal(t, expected, readFile(t, repo, "f.txt"))

	changes, err := repo.Stage.Pending()
	require.NoError(t, err)
	assert.Equal(t, blobHash(t, repo, expected), changes.Updated["f.txt"], "conflicted file is staged")

	marker, err := repo.Objects.Get(ctx, changes.Updated["f.txt"])
	require.NoError(t, err)
	assert.Equal(t, expected, string(marker))
}

func TestMerge_ConflictTypes(t *testing.T) {
	tests := []struct {
		name     string
		base     map[string]string
		feature  map[string]string
		main     map[string]string
		expected models.MergeConflictType
	}{
		{
			name:     "add-add",
			base:     map[string]string{"seed.txt": "s"},
			feature:  map[string]string{"f.txt": "theirs"},
			main:     map[string]string{"f.txt": "ours"},
			expected: models.ConflictAddAdd,
		},
		{
			name:     "modify-delete",
			base:     map[string]string{"f.txt": "base", "seed.txt": "s"},
			feature:  map[string]string{"f.txt": ""},
			main:     map[string]string{"f.txt": "ours"},
			expected: models.ConflictModifyDelete,
		},
		{
			name:     "delete-modify",
			base:     map[string]string{"f.txt": "base", "seed.txt": "s"},
			feature:  map[string]string{"f.txt": "theirs"},
			main:     map[string]string{"f.txt": ""},
			expected: models.ConflictDeleteModify,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := divergedRepo(t, tt.base, tt.feature, tt.main)

			result, err := Merge(context.Background(), repo, "feature", models.MergeOptions{})
			require.NoError(t, err)
			require.Equal(t, models.MergeConflicted, result.Outcome)
			require.Len(t, result.Conflicts, 1)
			assert.Equal(t, tt.expected, result.Conflicts[0].Type)
			assert.True(t, fileExists(repo, "f.txt"))
		})
	}
}

// ==== Rejection Tests ====

func TestMerge_Rejected(t *testing.T) {
	ctx := context.Background()

	t.Run("into itself", func(t *testing.T) {
		repo := newTestRepo(t)
		result, err := Merge(ctx, repo, "main", models.MergeOptions{})
		assert.ErrorIs(t, err, models.ErrMergeRejected)
		assert.Equal(t, models.MergeRejected, result.Outcome)
	})

	t.Run("missing branch", func(t *testing.T) {
		repo := newTestRepo(t)
		result, err := Merge(ctx, repo, "ghost", models.MergeOptions{})
		assert.ErrorIs(t, err, models.ErrMergeRejected)
		assert.Equal(t, models.MergeRejected, result.Outcome)
	})

	t.Run("detached head", func(t *testing.T) {
		repo := newTestRepo(t)
		_, err := CreateBranch(ctx, repo, "feature", "")
		require.NoError(t, err)
		_, err = CheckoutCommit(ctx, repo, headCommit(t, repo), "")
		require.NoError(t, err)

		result, err := Merge(ctx, repo, "feature", models.MergeOptions{})
		assert.ErrorIs(t, err, models.ErrMergeRejected)
		assert.Equal(t, models.MergeRejected, result.Outcome)
	})

	t.Run("staged changes", func(t *testing.T) {
		repo := newTestRepo(t)
		_, err := CreateBranch(ctx, repo, "feature", "")
		require.NoError(t, err)
		writeFile(t, repo, "wip.txt", "wip")
		_, err = Add(ctx, repo, []string{"wip.txt"})
		require.NoError(t, err)

		result, err := Merge(ctx, repo, "feature", models.MergeOptions{})
		assert.ErrorIs(t, err, models.ErrMergeRejected)
		assert.Equal(t, models.MergeRejected, result.Outcome)
	})
}

func TestMerge_NoCommonAncestor(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	commitFiles(t, repo, "work", map[string]string{"a.txt": "a"})

	stranger := &models.Commit{Message: "unrelated root", Timestamp: 1, Branch: "other", Files: models.Manifest{}}
	require.NoError(t, repo.writeCommit(ctx, stranger))
	require.NoError(t, repo.Refs.Write(ctx, "other", stranger.ID))

	mainBefore := branchCommit(t, repo, "main")
	headBefore, err := repo.Refs.ReadHead(ctx)
	require.NoError(t, err)

	result, err := Merge(ctx, repo, "other", models.MergeOptions{})
	assert.ErrorIs(t, err, models.ErrNoCommonAncestor)
	assert.ErrorIs(t, err, models.ErrMergeRejected)
	assert.Equal(t, models.MergeRejected, result.Outcome)

	assert.Equal(t, mainBefore, branchCommit(t, repo, "main"))
	assert.Equal(t, stranger.ID, branchCommit(t, repo, "other"))
	headAfter, err := repo.Refs.ReadHead(ctx)
	require.NoError(t, err)
	assert.Equal(t, headBefore, headAfter)
	assert.Equal(t, "a", readFile(t, repo, "a.txt"))
}

// ==== Merge Base Tests ====

func TestMerge_BaseFoundFromEitherSide(t *testing.T) {
	ctx := context.Background()
	repo := divergedRepo(t,
		map[string]string{"f.txt": "1"},
		map[string]string{"g.txt": "2"},
		map[string]string{"h.txt": "3"},
	)
	main := branchCommit(t, repo, "main")
	feature := branchCommit(t, repo, "feature")

	ab, err := repo.History.MergeBase(ctx, main, feature)
	require.NoError(t, err)
	ba, err := repo.History.MergeBase(ctx, feature, main)
	require.NoError(t, err)
	assert.Equal(t, ab, ba)

	mainCommit, err := repo.History.Commit(ctx, main)
	require.NoError(t, err)
	assert.Equal(t, mainCommit.FirstParent(), ab)
}

// ==== Resolution Rules ====

func TestClassify(t *testing.T) {
	absent := side{}
	h := func(s string) side { return side{hash: s, present: true} }

	tests := []struct {
		name               string
		base, ours, theirs side
		expected           resolution
	}{
		{"new on their side", absent, absent, h("x"), takeTheirs},
		{"changed only on their side", h("a"), h("a"), h("b"), takeTheirs},
		{"deleted only on their side", h("a"), h("a"), absent, takeTheirs},
		{"changed only on our side", h("a"), h("b"), h("a"), keepOurs},
		{"deleted only on our side", h("a"), absent, h("a"), keepOurs},
		{"new on our side", absent, h("x"), absent, keepOurs},
		{"both changed alike", h("a"), h("b"), h("b"), keepOurs},
		{"both deleted", h("a"), absent, absent, keepOurs},
		{"both changed differently", h("a"), h("b"), h("c"), conflicted},
		{"both added differently", absent, h("b"), h("c"), conflicted},
		{"we changed, they deleted", h("a"), h("b"), absent, conflicted},
		{"empty hash is not absence", h(""), absent, h(""), keepOurs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classify(tt.base, tt.ours, tt.theirs))
		})
	}
}

func TestConflictMarker(t *testing.T) {
	assert.Equal(t,
		"<<<<<<< HEAD\nours\n=======\ntheirs\n>>>>>>> topic\n",
		string(ConflictMarker([]byte("ours"), []byte("theirs\n"), "topic")))
	assert.Equal(t,
		"<<<<<<< HEAD\n=======\ntheirs\n>>>>>>> topic\n",
		string(ConflictMarker(nil, []byte("theirs\n"), "topic")))
}
