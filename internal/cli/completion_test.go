package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/eyue1777/minigit/internal/core"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteBranches(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo, err := core.Init(ctx, dir, nil)
	require.NoError(t, err)
	_, err = core.CreateBranch(ctx, repo, "feature", "")
	require.NoError(t, err)
	require.NoError(t, repo.Close())
	t.Chdir(dir)

	names, directive := completeBranches(checkoutCmd, nil, "")
	assert.ElementsMatch(t, []string{"main", "feature"}, names)
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)

	names, _ = completeBranches(mergeCmd, []string{"feature"}, "")
	assert.Empty(t, names, "only the first argument is a branch")
}

func TestCompleteBranches_OutsideRepository(t *testing.T) {
	t.Chdir(t.TempDir())

	names, directive := completeBranches(checkoutCmd, nil, "")
	assert.Empty(t, names)
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
}

func TestCompletionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"completion", "bash"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "minigit")
}
