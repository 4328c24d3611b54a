package staging

import (
	"testing"

	"github.com/eyue1777/minigit/internal/models"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestArea(t *testing.T) (*Area, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/repo/.minigit", 0755))
	return New(fs, "/repo/.minigit/staging"), fs
}

func TestArea_PendingWithoutFile(t *testing.T) {
	a, _ := newTestArea(t)

	changes, err := a.Pending()
	require.NoError(t, err)
	assert.True(t, changes.Empty())
}

func TestArea_LastEntryWins(t *testing.T) {
	a, fs := newTestArea(t)

	require.NoError(t, a.Add("a.txt", "h1"))
	require.NoError(t, a.Add("b.txt", "h2"))
	require.NoError(t, a.Add("a.txt", "h3"))

	changes, err := a.Pending()
	require.NoError(t, err)
	assert.Equal(t, models.Manifest{"a.txt": "h3", "b.txt": "h2"}, changes.Updated)

	// The file itself stays append-only
	data, err := afero.ReadFile(fs, "/repo/.minigit/staging")
	require.NoError(t, err)
	assert.Equal(t, "a.txt h1\nb.txt h2\na.txt h3\n", string(data))
}

func TestArea_PathWithSpaces(t *testing.T) {
	a, _ := newTestArea(t)

	require.NoError(t, a.Add("my docs/read me.md", "h1"))

	changes, err := a.Pending()
	require.NoError(t, err)
	assert.Equal(t, "h1", changes.Updated["my docs/read me.md"])
}

func TestArea_RemoveAndReAdd(t *testing.T) {
	a, _ := newTestArea(t)

	require.NoError(t, a.Add("gone.txt", "h1"))
	require.NoError(t, a.Remove("gone.txt"))
	require.NoError(t, a.Remove("back.txt"))
	require.NoError(t, a.Add("back.txt", "h2"))

	changes, err := a.Pending()
	require.NoError(t, err)
	assert.Equal(t, []string{"gone.txt"}, changes.Removed)
	assert.Equal(t, models.Manifest{"back.txt": "h2"}, changes.Updated)
}

func TestChanges_Apply(t *testing.T) {
	changes := &Changes{
		Updated: models.Manifest{"b": "2", "c": "3"},
		Removed: []string{"a"},
	}
	base := models.Manifest{"a": "1", "b": "1"}

	assert.Equal(t, models.Manifest{"b": "2", "c": "3"}, changes.Apply(base))
	assert.Equal(t, "1", base["a"], "base must not be modified")
}

func TestChanges_Against(t *testing.T) {
	changes := &Changes{
		Updated: models.Manifest{"same": "1", "edited": "2", "new": "3"},
		Removed: []string{"gone", "never"},
	}
	base := models.Manifest{"same": "1", "edited": "1", "gone": "x"}

	effective := changes.Against(base)
	assert.Equal(t, models.Manifest{"edited": "2", "new": "3"}, effective.Updated)
	assert.Equal(t, []string{"gone"}, effective.Removed)
	assert.True(t, effective.Apply(base).Equal(changes.Apply(base)))

	noop := (&Changes{Updated: models.Manifest{"same": "1"}}).Against(base)
	assert.True(t, noop.Empty())
}

func TestArea_Clear(t *testing.T) {
	a, _ := newTestArea(t)

	require.NoError(t, a.Add("a.txt", "h1"))
	require.NoError(t, a.Clear())

	changes, err := a.Pending()
	require.NoError(t, err)
	assert.True(t, changes.Empty())

	// Adding after a clear starts a fresh list
	require.NoError(t, a.Add("b.txt", "h2"))
	changes, err = a.Pending()
	require.NoError(t, err)
	assert.Equal(t, models.Manifest{"b.txt": "h2"}, changes.Updated)
}

func TestArea_RejectsInvalidEntries(t *testing.T) {
	a, _ := newTestArea(t)

	assert.Error(t, a.Add("", "h1"))
	assert.Error(t, a.Add("multi\nline", "h1"))
	assert.Error(t, a.Add("a.txt", ""))
	assert.Error(t, a.Add("a.txt", "-"))
	assert.Error(t, a.Add("a.txt", "has space"))
}

func TestArea_MalformedLine(t *testing.T) {
	a, fs := newTestArea(t)
	require.NoError(t, afero.WriteFile(fs, "/repo/.minigit/staging", []byte("nohash\n"), 0644))

	_, err := a.Pending()
	assert.Error(t, err)
}
