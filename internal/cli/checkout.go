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

var checkoutCmd = &cobra.Command{
	Use:   "checkout <branch|commit>",
	Short: "Switch branches or restore working tree",
	Long: `Switch to a branch or checkout a specific commit.

The working tree is made to match the target: tracked files missing from
its manifest are removed and every file it records is restored.

Examples:
  minigit checkout main          # Switch to main branch
  minigit checkout abc1234       # Checkout specific commit (detached HEAD)
  minigit checkout -b feature    # Create and switch to new branch
  minigit checkout -f main       # Force checkout, discarding uncommitted changes`,
	Args: cobra.MaximumNArgs(2),
	Run:  runCheckout,
}

var (
	checkoutCreateBranch bool
	checkoutForce        bool
)

func init() {
	checkoutCmd.Flags().BoolVarP(&checkoutCreateBranch, "branch", "b", false, "Create and checkout a new branch")
	checkoutCmd.Flags().BoolVarP(&checkoutForce, "force", "f", false, "Force checkout, discarding local changes")
}

func runCheckout(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	repo := openRepo()
	defer repo.Close()

	// Determine target
	var target string
	if len(args) > 0 {
		target = args[0]
	}
	if target == "" {
		if checkoutCreateBranch {
			exitError("branch name required with -b flag")
		}
		exitError("branch or commit required")
	}

	opts := core.CheckoutOptions{Force: checkoutForce}

	// With -b the first argument names the new branch and the optional
	// second one is its start point
	if checkoutCreateBranch {
		opts.CreateBranch = true
		opts.NewBranchName = target
		target = ""
		if len(args) > 1 {
			target = args[1]
		}
	}

	result, err := core.Checkout(ctx, repo, target, opts)
	if err != nil && !errors.Is(err, models.ErrCheckoutIncomplete) {
		exitError("%v", err)
	}

	yellow := color.New(color.FgYellow)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	if checkoutCreateBranch {
		green.Printf("Switched to a new branch '%s'\n", result.BranchName)
	} else if result.IsDetached {
		yellow.Printf("HEAD is now at %s\n", shortID(result.TargetCommit))
		fmt.Println("You are in 'detached HEAD' state. You can look around, make experimental")
		fmt.Println("changes and commit them. To create a branch to retain commits, use:")
		fmt.Println("  minigit checkout -b <new-branch-name>")
	} else {
		green.Printf("Switched to branch '%s'\n", result.BranchName)
	}

	if result.Restored > 0 || result.Removed > 0 {
		fmt.Printf("  %d restored, %d removed\n", result.Restored, result.Removed)
	}

	if err != nil {
		red.Println("\nSome files could not be updated:")
		for _, o := range result.Outcomes {
			if o.Err != nil {
				red.Printf("  %s %s: %v\n", o.Action, o.Path, o.Err)
			}
		}
		exitError("checkout incomplete")
	}
}
