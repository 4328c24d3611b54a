package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/eyue1777/minigit/internal/core"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	resetSoft  bool
	resetMixed bool
	resetHard  bool
	resetForce bool
)

var resetCmd = &cobra.Command{
	Use:   "reset [<commit>]",
	Short: "Unstage changes or reset HEAD to a commit",
	Long: `Unstage changes from the staging list, or reset HEAD to a specific commit.

Examples:
  minigit reset                    Unstage all changes
  minigit reset HEAD~1             Reset to parent commit (mixed mode)
  minigit reset --soft HEAD~1      Reset to parent, keep changes staged
  minigit reset --hard main        Reset to main, restore the working tree

Reset modes:
  --soft   Move HEAD and branch pointer. Auto-stage changes from undone commits.
           Files unchanged. Use case: Redo last commit with different message.
  --mixed  Move HEAD, clear staging list. Files unchanged. (default)
  --hard   Move HEAD, clear staging, restore the working tree to the target.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetSoft, "soft", false, "Soft reset: move HEAD and auto-stage changes from undone commits")
	resetCmd.Flags().BoolVar(&resetMixed, "mixed", false, "Mixed reset: move HEAD and clear staging (default)")
	resetCmd.Flags().BoolVar(&resetHard, "hard", false, "Hard reset: move HEAD, clear staging, restore the working tree")
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "Skip confirmation prompt for hard reset")
}

func runReset(cmd *cobra.Command, args []string) {
	target := "HEAD"
	if len(args) > 0 {
		target = args[0]
	}

	// Validate mutually exclusive flags
	modeCount := 0
	for _, set := range []bool{resetSoft, resetMixed, resetHard} {
		if set {
			modeCount++
		}
	}
	if modeCount > 1 {
		exitError("cannot use --soft, --mixed, and --hard together")
	}

	// Determine mode (default to mixed)
	mode := core.ResetModeMixed
	if resetSoft {
		mode = core.ResetModeSoft
	} else if resetHard {
		mode = core.ResetModeHard
	}

	// Confirm hard reset unless --force
	if mode == core.ResetModeHard && !resetForce {
		fmt.Print("Hard reset will discard all uncommitted changes in the working tree. Continue? [y/N] ")
		reader := bufio.NewReader(os.Stdin)
		response, _ := reader.ReadString('\n')
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Println("Aborted.")
			return
		}
	}

	ctx := context.Background()
	repo := openRepo()
	defer repo.Close()

	result, err := core.ResetToCommit(ctx, repo, target, core.ResetOptions{Mode: mode})
	if err != nil {
		exitError("%v", err)
	}

	displayResetResult(result)
}

func displayResetResult(result *core.ResetResult) {
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	id := shortID(result.TargetCommit)
	green.Printf("Reset to %s (%s)\n", id, result.Mode.String())

	if result.BranchName != "" {
		cyan.Printf("Branch '%s' now at %s\n", result.BranchName, id)
	} else {
		cyan.Printf("HEAD now at %s (detached)\n", id)
	}

	if result.Mode == core.ResetModeSoft && result.ChangesStaged > 0 {
		yellow.Printf("Staged %d change(s)\n", result.ChangesStaged)
	}
	if result.Mode == core.ResetModeHard && (result.Restored > 0 || result.Removed > 0) {
		fmt.Printf("Working tree: %d restored, %d removed\n", result.Restored, result.Removed)
	}
}
