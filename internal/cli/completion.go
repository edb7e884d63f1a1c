package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/extrasrequire/pkg/sources"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for extrasrequire.

Extra names are completed from setup.cfg and pyproject.toml of the
configured repository.

Bash:
  $ source <(extrasrequire completion bash)

Zsh:
  $ extrasrequire completion zsh > "${fpath[1]}/_extrasrequire"

Fish:
  $ extrasrequire completion fish > ~/.config/fish/completions/extrasrequire.fish

PowerShell:
  PS> extrasrequire completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// completeExtras completes the first argument with the extras declared in
// the repository metadata.
func (c *CLI) completeExtras(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	if cmd.Context() == nil {
		cmd.SetContext(context.Background())
	}
	env, err := c.sourceEnv(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var names []string
	for _, name := range sources.Extras(env) {
		if strings.HasPrefix(name, toComplete) {
			names = append(names, name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// completeRequirementsFile completes --file with text files.
func completeRequirementsFile(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return []string{"txt", "in"}, cobra.ShellCompDirectiveFilterFileExt
}
