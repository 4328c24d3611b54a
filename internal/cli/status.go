package cli

import (
	"context"
	"fmt"

	"github.com/eyue1777/minigit/internal/core"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the working tree status",
	Long:  `Show the working tree compared to the last commit and the staging list.`,
	Run:   runStatus,
}

func runStatus(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	repo := openRepo()
	defer repo.Close()

	status, err := core.GetStatus(ctx, repo)
	if err != nil {
		exitError("failed to compute status: %v", err)
	}

	// Show branch info
	if status.Branch != "" {
		fmt.Printf("On branch %s\n", status.Branch)
	} else {
		fmt.Printf("HEAD detached at %s\n", shortID(status.Commit))
	}
	if status.Commit == "" {
		fmt.Println("No commits yet")
	}

	if !status.HasChanges() && len(status.Untracked) == 0 {
		fmt.Println("\nNothing to commit, working tree clean")
		return
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)
	const indent = "        "

	// Show staged changes
	if len(status.Staged)+len(status.Unstaged) > 0 {
		fmt.Println("\nChanges to be committed:")
		cyan.Println("  (use \"minigit reset\" to unstage)")
		fmt.Println()
		for _, p := range status.Staged {
			green.Printf("%sstaged:   %s\n", indent, p)
		}
		for _, p := range status.Unstaged {
			red.Printf("%sremoved:  %s\n", indent, p)
		}
	}

	// Show unstaged changes
	if len(status.Modified)+len(status.Deleted) > 0 {
		fmt.Println("\nChanges not staged for commit:")
		cyan.Println("  (use \"minigit add <file>...\" to stage)")
		fmt.Println()
		for _, p := range status.Modified {
			yellow.Printf("%smodified: %s\n", indent, p)
		}
		for _, p := range status.Deleted {
			red.Printf("%sdeleted:  %s\n", indent, p)
		}
	}

	if len(status.Untracked) > 0 {
		fmt.Println("\nUntracked files:")
		fmt.Println()
		for _, p := range status.Untracked {
			red.Printf("%s%s\n", indent, p)
		}
	}
}
