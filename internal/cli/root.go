// Package cli implements the command-line interface for minigit.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/eyue1777/minigit/internal/config"
	"github.com/eyue1777/minigit/internal/core"
	"github.com/eyue1777/minigit/internal/logging"
	"github.com/spf13/cobra"
)

// exitConflict is the exit status of a merge that stopped in conflict.
const exitConflict = 2

var verbosity int

// openRepo loads the configuration from the working directory and opens the repository.
func openRepo() *core.Repository {
	cfg, err := config.Load(".")
	if err != nil {
		exitError("%v", err)
	}
	if verbosity == 0 && cfg.Log.Level != "" {
		if err := logging.SetLevel(cfg.Log.Level); err != nil {
			exitError("%v", err)
		}
	}

	repo, err := core.Open(cfg)
	if err != nil {
		exitError("failed to open repository: %v", err)
	}
	return repo
}

var rootCmd = &cobra.Command{
	Use:   "minigit",
	Short: "A small local version control system",
	Long: `minigit tracks the files of a working tree in a content-addressed object
store, with branches, history, three-way merges and checkout.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.SetupLogger(verbosity, os.Stderr)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug, -vvv trace)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(branchCmd)
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(completionCmd)
}

// exitError prints an error and exits
func exitError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

// shortID returns first 8 characters of an ID
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func isNotRepository(err error) bool {
	return errors.Is(err, config.ErrNotRepository)
}
