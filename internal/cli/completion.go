package cli

import (
	"context"

	"github.com/eyue1777/minigit/internal/config"
	"github.com/eyue1777/minigit/internal/core"
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion <bash|zsh|fish|powershell>",
	Short: "Print a shell completion script",
	Long: `Print a completion script for minigit. Branch names are completed for
checkout, merge, log, show and reset.

  $ source <(minigit completion bash)
  $ minigit completion zsh > "${fpath[1]}/_minigit"
  $ minigit completion fish > ~/.config/fish/completions/minigit.fish
  PS> minigit completion powershell | Out-String | Invoke-Expression`,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletionV2(out, true)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		default:
			return rootCmd.GenPowerShellCompletionWithDesc(out)
		}
	},
}

// completeBranches offers branch names for the first argument. Completion
// must stay quiet, so any failure to open the repository yields no candidates.
func completeBranches(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg, err := config.Load(".")
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	repo, err := core.Open(cfg)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer repo.Close()

	branches, err := core.ListBranches(context.Background(), repo)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	names := make([]string, 0, len(branches))
	for _, b := range branches {
		names = append(names, b.Name)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	for _, cmd := range []*cobra.Command{checkoutCmd, mergeCmd, logCmd, showCmd, resetCmd} {
		cmd.ValidArgsFunction = completeBranches
	}
}
