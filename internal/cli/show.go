package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/eyue1777/minigit/internal/core"
	"github.com/eyue1777/minigit/internal/models"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [commit]",
	Short: "Show commit details",
	Long:  `Show details about a specific commit including the files it changed relative to its first parent.`,
	Args:  cobra.MaximumNArgs(1),
	Run:   runShow,
}

func runShow(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	repo := openRepo()
	defer repo.Close()

	ref := "HEAD"
	if len(args) > 0 {
		ref = args[0]
	}
	commitID, _, err := core.ResolveRef(ctx, repo, ref)
	if err != nil {
		exitError("%v", err)
	}
	if commitID == "" {
		exitError("no commits yet")
	}

	commit, err := repo.History.Commit(ctx, commitID)
	if err != nil {
		exitError("failed to read commit: %v", err)
	}

	color.New(color.FgYellow).Printf("commit %s\n", commit.ID)
	for _, p := range commit.Parents {
		fmt.Printf("Parent: %s\n", p)
	}
	fmt.Printf("Branch: %s\n", commit.Branch)
	fmt.Printf("Date:   %s\n", time.Unix(commit.Timestamp, 0).Format("Mon Jan 2 15:04:05 2006"))
	fmt.Printf("\n    %s\n\n", commit.Message)

	parentFiles := models.Manifest{}
	if p := commit.FirstParent(); p != "" {
		parent, err := repo.History.Commit(ctx, p)
		if err != nil {
			exitError("failed to read parent: %v", err)
		}
		parentFiles = parent.Files
	}
	printManifestDiff(parentFiles, commit.Files)
}

func printManifestDiff(before, after models.Manifest) {
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	for _, path := range after.Paths() {
		old, existed := before.Lookup(path)
		switch {
		case !existed:
			green.Printf("  A %s\n", path)
		case old != after[path]:
			yellow.Printf("  M %s\n", path)
		}
	}
	for _, path := range before.Paths() {
		if _, ok := after.Lookup(path); !ok {
			red.Printf("  D %s\n", path)
		}
	}
}
