package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for logofield.

To load completions:

Bash:
  $ source <(logofield completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ logofield completion bash > /etc/bash_completion.d/logofield
  # macOS:
  $ logofield completion bash > $(brew --prefix)/etc/bash_completion.d/logofield

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ logofield completion zsh > "${fpath[1]}/_logofield"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ logofield completion fish | source

  # To load completions for each session, execute once:
  $ logofield completion fish > ~/.config/fish/completions/logofield.fish

PowerShell:
  PS> logofield completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> logofield completion powershell > logofield.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}

// completeTenants completes --tenant with the configured tenant names.
func (c *CLI) completeTenants(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := c.config()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return cfg.TenantNames(), cobra.ShellCompDirectiveNoFileComp
}

// registerTenantCompletion wires completeTenants to every subcommand with a
// --tenant flag.
func (c *CLI) registerTenantCompletion(root *cobra.Command) {
	for _, sub := range root.Commands() {
		if sub.Flags().Lookup("tenant") != nil {
			_ = sub.RegisterFlagCompletionFunc("tenant", c.completeTenants)
		}
	}
}
