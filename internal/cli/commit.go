package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/eyue1777/minigit/internal/core"
	"github.com/eyue1777/minigit/internal/models"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Record changes to the repository",
	Long: `Create a new commit with staged changes.

The commit records the parent's files with every staged addition and
removal applied. Use -a to stage all tracked and new files first.`,
	Run: runCommit,
}

var (
	commitMessage string
	commitAll     bool
)

func init() {
	commitCmd.Flags().StringVarP(&commitMessage, "message", "m", "", "Commit message (required)")
	commitCmd.Flags().BoolVarP(&commitAll, "all", "a", false, "Automatically stage all changes before committing")
	commitCmd.MarkFlagRequired("message")
}

func runCommit(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	repo := openRepo()
	defer repo.Close()

	if commitAll {
		if _, err := core.Add(ctx, repo, []string{"."}); err != nil {
			exitError("failed to stage changes: %v", err)
		}
	}

	commit, err := core.CreateCommit(ctx, repo, commitMessage)
	if errors.Is(err, models.ErrNothingToCommit) {
		fmt.Println("nothing to commit (use \"minigit add\" to stage files)")
		return
	}
	if err != nil {
		exitError("%v", err)
	}

	branch := commit.Branch
	if branch == "" {
		branch = "detached HEAD"
	}
	color.New(color.FgYellow).Printf("[%s %s] ", branch, commit.ShortID())
	fmt.Println(commit.Message)
	fmt.Printf(" %d file(s) tracked\n", len(commit.Files))
}
