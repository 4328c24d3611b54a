package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/eyue1777/minigit/internal/core"
	"github.com/eyue1777/minigit/internal/models"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var mergeCmd = &cobra.Command{
	Use:   "merge <branch>",
	Short: "Merge a branch into the current branch",
	Long: `Merge the specified branch into the current branch.

If there are no conflicts, a merge commit will be created.
If conflicts are detected, conflicted files are rewritten with markers and
staged; resolve them, add them, and commit. The command then exits with
status 2.

Examples:
  minigit merge feature           # Merge 'feature' into current branch
  minigit merge -m "msg" feature  # Use custom merge commit message`,
	Args: cobra.ExactArgs(1),
	Run:  runMerge,
}

var mergeMessage string

func init() {
	mergeCmd.Flags().StringVarP(&mergeMessage, "message", "m", "", "Custom merge commit message")
}

func runMerge(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	repo := openRepo()
	defer repo.Close()

	targetBranch := args[0]
	result, err := core.Merge(ctx, repo, targetBranch, models.MergeOptions{Message: mergeMessage})
	if err != nil {
		exitError("%v", err)
	}

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed, color.Bold)

	// Handle conflicts
	if result.Outcome == models.MergeConflicted {
		printMergeConflicts(result, red)
		fmt.Fprintf(os.Stderr, "error: %v\n", fmt.Errorf("%w: fix conflicts and then commit the result", models.ErrMergeConflict))
		repo.Close()
		os.Exit(exitConflict)
	}

	// Success output
	switch {
	case result.Outcome == models.MergeFastForward:
		green.Println("Fast-forward")
	case result.MergeCommit != nil:
		fmt.Println("Merge made by the three-way strategy.")
		fmt.Printf("  Merge commit: %s\n", shortID(result.MergeCommit.ID))
	}

	if n := len(result.TakenTheirs); n > 0 {
		green.Printf("  %d file(s) updated from '%s'\n", n, targetBranch)
	}
	if n := len(result.Removed); n > 0 {
		red.Printf("  %d file(s) removed\n", n)
	}

	// Show warnings
	for _, warning := range result.Warnings {
		yellow.Printf("  %s\n", warning)
	}
}

func printMergeConflicts(result *models.MergeResult, red *color.Color) {
	red.Println("\nCONFLICTS:")
	for _, c := range result.Conflicts {
		fmt.Printf("  %s: %s\n", c.Type, c.Path)
	}
}
