package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/eyue1777/minigit/internal/core"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log [ref]",
	Short: "Show commit history",
	Long: `Display the commit history starting at HEAD or the given ref.

By default only the first parent of each merge is followed; --all-parents
also walks the history of merged branches.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLog,
}

var (
	logOneline    bool
	logLimit      int
	logAllParents bool
)

func init() {
	logCmd.Flags().BoolVar(&logOneline, "oneline", false, "Show each commit on a single line")
	logCmd.Flags().IntVarP(&logLimit, "n", "n", 0, "Limit the number of commits to show")
	logCmd.Flags().BoolVar(&logAllParents, "all-parents", false, "Follow every parent of merge commits")
}

func runLog(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	repo := openRepo()
	defer repo.Close()

	opts := core.LogOptions{Limit: logLimit, AllParents: logAllParents}
	if len(args) > 0 {
		opts.Start = args[0]
	}
	commits, err := core.Log(ctx, repo, opts)
	if err != nil {
		exitError("failed to get commit log: %v", err)
	}

	if len(commits) == 0 {
		fmt.Println("No commits yet")
		return
	}

	head, _, _ := core.ResolveRef(ctx, repo, "HEAD")
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	for _, commit := range commits {
		isHead := commit.ID == head

		if logOneline {
			yellow.Printf("%s ", commit.ShortID())
			if isHead {
				cyan.Print("(HEAD) ")
			}
			fmt.Println(commit.Message)
			continue
		}

		yellow.Printf("commit %s", commit.ID)
		if isHead {
			cyan.Print(" (HEAD)")
		}
		fmt.Println()
		if commit.IsMergeCommit() {
			fmt.Print("Merge:")
			for _, p := range commit.Parents {
				fmt.Printf(" %s", shortID(p))
			}
			fmt.Println()
		}
		if commit.Branch != "" {
			fmt.Printf("Branch: %s\n", commit.Branch)
		}
		fmt.Printf("Date:   %s\n", time.Unix(commit.Timestamp, 0).Format("Mon Jan 2 15:04:05 2006"))
		fmt.Printf("\n    %s\n\n", commit.Message)
	}
}
