package refs

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/eyue1777/minigit/internal/models"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRefs(t *testing.T) (*FSStore, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	st, err := NewFSStore(fs, "/repo/.minigit")
	require.NoError(t, err)
	return st, fs
}

// failRenameFs fails renames onto one target path.
type failRenameFs struct {
	afero.Fs
	target string
}

func (f *failRenameFs) Rename(oldname, newname string) error {
	if newname == f.target {
		return errors.New("disk full")
	}
	return f.Fs.Rename(oldname, newname)
}

func TestFSStore_WriteRead(t *testing.T) {
	st, _ := newTestRefs(t)
	ctx := context.Background()

	require.NoError(t, st.Write(ctx, "main", "abc"))
	hash, err := st.Read(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, "abc", hash)

	require.NoError(t, st.Write(ctx, "main", "def"))
	hash, err = st.Read(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, "def", hash)
}

func TestFSStore_ReadUnknown(t *testing.T) {
	st, _ := newTestRefs(t)

	_, err := st.Read(context.Background(), "nope")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestFSStore_UnbornBranch(t *testing.T) {
	st, fs := newTestRefs(t)
	ctx := context.Background()

	// A listed branch with no ref file has no commits yet
	require.NoError(t, afero.WriteFile(fs, "/repo/.minigit/branches", []byte("main\n"), 0644))
	hash, err := st.Read(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, "", hash)

	// So does a branch written with an empty hash
	require.NoError(t, st.Write(ctx, "dev", ""))
	hash, err = st.Read(ctx, "dev")
	require.NoError(t, err)
	assert.Equal(t, "", hash)

	ok, err := st.Exists(ctx, "main")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFSStore_ListCreationOrder(t *testing.T) {
	st, _ := newTestRefs(t)
	ctx := context.Background()

	for _, name := range []string{"main", "zeta", "alpha", "feature/login"} {
		require.NoError(t, st.Write(ctx, name, "h-"+name))
	}
	// Rewriting an existing branch does not move it
	require.NoError(t, st.Write(ctx, "main", "h2"))

	names, err := st.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"main", "zeta", "alpha", "feature/login"}, names)

	hash, err := st.Read(ctx, "feature/login")
	require.NoError(t, err)
	assert.Equal(t, "h-feature/login", hash)
}

func TestFSStore_ListEmpty(t *testing.T) {
	st, _ := newTestRefs(t)

	names, err := st.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestFSStore_CompareAndSwap(t *testing.T) {
	st, _ := newTestRefs(t)
	ctx := context.Background()

	// Missing branch matches an empty expectation
	require.NoError(t, st.CompareAndSwap(ctx, "main", "", "c1"))
	require.NoError(t, st.CompareAndSwap(ctx, "main", "c1", "c2"))

	err := st.CompareAndSwap(ctx, "main", "c1", "c3")
	assert.ErrorIs(t, err, models.ErrRefConflict)

	hash, err := st.Read(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, "c2", hash)
}

func TestFSStore_FailedWriteKeepsPreviousValue(t *testing.T) {
	base := afero.NewMemMapFs()
	st, err := NewFSStore(base, "/repo/.minigit")
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, st.Write(ctx, "main", "old"))

	broken := &FSStore{fs: &failRenameFs{Fs: base, target: filepath.Join("/repo/.minigit", headsDir, "main")}, dir: "/repo/.minigit"}
	err = broken.Write(ctx, "main", "new")
	assert.ErrorIs(t, err, models.ErrRefWriteFailed)

	hash, err := st.Read(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, "old", hash)
}

func TestFSStore_FailedListWriteRollsBackNewBranch(t *testing.T) {
	base := afero.NewMemMapFs()
	st, err := NewFSStore(base, "/repo/.minigit")
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, st.Write(ctx, "main", "c1"))

	broken := &FSStore{fs: &failRenameFs{Fs: base, target: filepath.Join("/repo/.minigit", branchesFile)}, dir: "/repo/.minigit"}
	err = broken.Write(ctx, "feature", "c1")
	assert.ErrorIs(t, err, models.ErrRefWriteFailed)

	ok, err := st.Exists(ctx, "feature")
	require.NoError(t, err)
	assert.False(t, ok)

	names, err := st.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"main"}, names)
}

func TestFSStore_Head(t *testing.T) {
	st, fs := newTestRefs(t)
	ctx := context.Background()

	_, err := st.ReadHead(ctx)
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, st.WriteHead(ctx, models.AttachedHead("main")))
	head, err := st.ReadHead(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.AttachedHead("main"), head)

	data, err := afero.ReadFile(fs, "/repo/.minigit/HEAD")
	require.NoError(t, err)
	assert.Equal(t, "ref: main\n", string(data))

	require.NoError(t, st.WriteHead(ctx, models.DetachedHead("abc123")))
	head, err = st.ReadHead(ctx)
	require.NoError(t, err)
	assert.True(t, head.IsDetached())
	assert.Equal(t, "abc123", head.Commit)
}

func TestFSStore_CorruptHead(t *testing.T) {
	st, fs := newTestRefs(t)
	ctx := context.Background()

	for _, content := range []string{"ref: \n", "ref:", "garbage\n"} {
		require.NoError(t, afero.WriteFile(fs, "/repo/.minigit/HEAD", []byte(content), 0644))
		_, err := st.ReadHead(ctx)
		assert.ErrorIs(t, err, models.ErrInvalidRefName, "HEAD %q", content)
	}
}

func TestFSStore_NestedBranchNames(t *testing.T) {
	st, _ := newTestRefs(t)
	ctx := context.Background()
	require.NoError(t, st.Write(ctx, "feature", "abc"))
	require.NoError(t, st.Write(ctx, "topic/one", "def"))

	assert.ErrorIs(t, st.Write(ctx, "feature/x", "abc"), models.ErrInvalidRefName)
	assert.ErrorIs(t, st.Write(ctx, "topic", "abc"), models.ErrInvalidRefName)
	require.NoError(t, st.Write(ctx, "topic/two", "abc"), "siblings share a directory")
	require.NoError(t, st.Write(ctx, "feature", "def"), "existing refs can still move")

	names, err := st.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"feature", "topic/one", "topic/two"}, names)
}

func TestFSStore_NestedLookupOnDisk(t *testing.T) {
	afs := afero.NewBasePathFs(afero.NewOsFs(), t.TempDir())
	st, err := NewFSStore(afs, "/.minigit")
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, st.Write(ctx, "feature", "abc"))

	ok, err := st.Exists(ctx, "feature/x")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = st.Read(ctx, "feature/x")
	assert.ErrorIs(t, err, models.ErrNotFound)

	err = st.CompareAndSwap(ctx, "feature/x", "", "abc")
	assert.ErrorIs(t, err, models.ErrInvalidRefName)
}

func TestValidateBranchName(t *testing.T) {
	valid := []string{"main", "feature/login", "v1.2", "fix_bug-3"}
	for _, name := range valid {
		assert.NoError(t, ValidateBranchName(name), name)
	}

	invalid := []string{"", "HEAD", "/abs", "trailing/", "a//b", "..", "a/../b", "has space", "tab\there", "-flag", "main~1", "a:b"}
	for _, name := range invalid {
		assert.ErrorIs(t, ValidateBranchName(name), models.ErrInvalidRefName, name)
	}
}
