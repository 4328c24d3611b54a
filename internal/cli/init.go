package cli

import (
	"context"
	"fmt"

	"github.com/eyue1777/minigit/internal/config"
	"github.com/eyue1777/minigit/internal/core"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Initialize a new repository",
	Long: `Initialize a new repository in the current (or given) directory.
This creates a .minigit directory holding objects, refs and configuration,
and an empty root commit on the default branch.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runInit,
}

var (
	initBranch  string
	initBackend string
	initHash    string
)

func init() {
	initCmd.Flags().StringVar(&initBranch, "initial-branch", "main", "Name of the default branch")
	initCmd.Flags().StringVar(&initBackend, "backend", config.BackendFiles, "Storage backend (files or bolt)")
	initCmd.Flags().StringVar(&initHash, "hash", "", "Object hash function (default sha2-256)")
}

func runInit(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	// Check if already initialized
	if root, err := config.FindRoot(dir); err == nil {
		exitError("repository already exists at %s", root)
	} else if !isNotRepository(err) {
		exitError("%v", err)
	}

	cfg := config.Default()
	cfg.Core.DefaultBranch = initBranch
	cfg.Storage.Backend = initBackend
	if initHash != "" {
		cfg.Core.Hash = initHash
	}

	repo, err := core.Init(ctx, dir, cfg)
	if err != nil {
		exitError("failed to initialize repository: %v", err)
	}
	defer repo.Close()

	fmt.Printf("Initialized empty repository in %s\n", repo.Config.RepoPath())
	fmt.Printf("On branch %s (%s objects, %s backend)\n", cfg.Core.DefaultBranch, repo.Hasher.Name(), cfg.Storage.Backend)
}
