package cli

import (
	"context"
	"fmt"

	"github.com/eyue1777/minigit/internal/core"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var branchCmd = &cobra.Command{
	Use:   "branch [name] [start-point]",
	Short: "List or create branches",
	Long: `Manage branches in the repository.

Without arguments, lists all branches in creation order.
With a name argument, creates a new branch at HEAD.

Examples:
  minigit branch                  # List all branches
  minigit branch feature          # Create 'feature' branch at HEAD
  minigit branch feature abc123   # Create 'feature' branch at commit abc123`,
	Args: cobra.MaximumNArgs(2),
	Run:  runBranch,
}

func runBranch(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	repo := openRepo()
	defer repo.Close()

	// Create branch
	if len(args) > 0 {
		name := args[0]
		startPoint := ""
		if len(args) > 1 {
			startPoint = args[1]
		}

		commitID, err := core.CreateBranch(ctx, repo, name, startPoint)
		if err != nil {
			exitError("%v", err)
		}
		fmt.Printf("Created branch '%s' at %s\n", name, shortID(commitID))
		return
	}

	// List branches
	branches, err := core.ListBranches(ctx, repo)
	if err != nil {
		exitError("failed to list branches: %v", err)
	}

	green := color.New(color.FgGreen)
	for _, branch := range branches {
		suffix := ""
		if branch.CommitID == "" {
			suffix = " (no commits)"
		}
		if branch.Current {
			green.Printf("* %s%s\n", branch.Name, suffix)
		} else {
			fmt.Printf("  %s%s\n", branch.Name, suffix)
		}
	}
}
