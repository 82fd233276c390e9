// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// newCompletionCommand creates the `pyboot completion` command.
func newCompletionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for pyboot.

To enable shell completions, run one of the following commands:

` + SubtitleStyle.Render("Bash:") + `
  # Add to ~/.bashrc:
  eval "$(pyboot completion bash)"

  # Or install system-wide:
  pyboot completion bash > /etc/bash_completion.d/pyboot

` + SubtitleStyle.Render("Zsh:") + `
  # Add to ~/.zshrc:
  eval "$(pyboot completion zsh)"

  # Or install to fpath:
  pyboot completion zsh > "${fpath[1]}/_pyboot"

` + SubtitleStyle.Render("Fish:") + `
  pyboot completion fish > ~/.config/fish/completions/pyboot.fish

` + SubtitleStyle.Render("PowerShell:") + `
  pyboot completion powershell | Out-String | Invoke-Expression

  # Or add to $PROFILE:
  pyboot completion powershell >> $PROFILE
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}
