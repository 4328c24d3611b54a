package fsutil

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeWrite_ReplacesContent(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/repo", 0755))

	require.NoError(t, SafeWrite(fs, "/repo/HEAD", []byte("one"), 0644))
	require.NoError(t, SafeWrite(fs, "/repo/HEAD", []byte("two"), 0644))

	data, err := afero.ReadFile(fs, "/repo/HEAD")
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	// No temp files left behind
	entries, err := afero.ReadDir(fs, "/repo")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSafeWrite_MissingDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	err := SafeWrite(afero.NewReadOnlyFs(fs), "/nowhere/file", []byte("x"), 0644)
	assert.Error(t, err)
}

func TestSafeAppend(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/repo", 0755))

	require.NoError(t, SafeAppend(fs, "/repo/log", []byte("a\n")))
	require.NoError(t, SafeAppend(fs, "/repo/log", []byte("b\n")))

	data, err := afero.ReadFile(fs, "/repo/log")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", string(data))
}

func TestExists(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/a", []byte("x"), 0644))

	ok, err := Exists(fs, "/a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Exists(fs, "/b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExists_BelowRegularFile(t *testing.T) {
	dir := t.TempDir()
	fs := afero.NewBasePathFs(afero.NewOsFs(), dir)
	require.NoError(t, afero.WriteFile(fs, "/feature", []byte("abc\n"), 0644))

	ok, err := Exists(fs, "/feature/x")
	require.NoError(t, err)
	assert.False(t, ok)
}
