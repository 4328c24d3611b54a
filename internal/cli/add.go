package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/eyue1777/minigit/internal/core"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <path>...",
	Short: "Stage files for the next commit",
	Long: `Record the current content of files in the staging list.

Directories are added recursively; "." adds the whole working tree.
A tracked file that was deleted from disk is staged for removal.

Examples:
  minigit add README.md
  minigit add src
  minigit add .`,
	Args: cobra.MinimumNArgs(1),
	Run:  runAdd,
}

var rmCmd = &cobra.Command{
	Use:   "rm <path>...",
	Short: "Remove tracked files and stage the removal",
	Args:  cobra.MinimumNArgs(1),
	Run:   runRm,
}

func runAdd(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	repo := openRepo()
	defer repo.Close()

	result, err := core.Add(ctx, repo, absPaths(args))
	if err != nil {
		exitError("%v", err)
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	for _, p := range result.Added {
		green.Printf("  added:   %s\n", p)
	}
	for _, p := range result.Removed {
		red.Printf("  removed: %s\n", p)
	}
	for _, w := range result.Warnings {
		yellow.Printf("  Warning: %s\n", w)
	}
	if len(result.Added)+len(result.Removed) == 0 {
		fmt.Println("Nothing to add")
	}
}

func runRm(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	repo := openRepo()
	defer repo.Close()

	removed, err := core.Remove(ctx, repo, absPaths(args))
	if err != nil {
		exitError("%v", err)
	}
	for _, p := range removed {
		fmt.Printf("rm '%s'\n", p)
	}
}

// absPaths makes command-line paths absolute so they resolve against the
// current directory rather than the working tree root.
func absPaths(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		abs, err := filepath.Abs(a)
		if err != nil {
			exitError("%v", err)
		}
		out = append(out, abs)
	}
	return out
}
