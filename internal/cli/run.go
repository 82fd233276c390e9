// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pyboot/internal/bootstrap"
)

// newRunCommand creates the `pyboot run` command: the full bootstrap sequence
// followed by the application launch.
func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run [-- args...]",
		Short: "Bootstrap the environment and launch the application",
		Long: `Bootstrap the environment and launch the application.

The sequence is: create the virtual environment if its interpreter is
absent (fatal on failure), upgrade pip (warning on failure), install the
requirements manifest (warning on failure), then run the entry point with
the environment's interpreter. Arguments after '--' are passed to the
application.

With --strict, installer failures become fatal. With --propagate, pyboot
exits with the application's exit code instead of its own.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true

			cfg, dir, err := loadConfig()
			if err != nil {
				return fail(err)
			}

			b := bootstrap.New(cfg, dir, newLogger(cfg))
			b.ExtraArgs = args

			report, err := b.Run(cmd.Context())
			if err != nil {
				return fail(err)
			}

			for _, warn := range report.Warnings() {
				fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+
					fmt.Sprintf("%s: %s", warn.Name, formatErrorForDisplay(warn.Err, cfg.UI.Verbose)))
			}

			if cfg.Launch.PropagateExitCode && b.AppExitCode() != 0 {
				return &ExitError{Code: b.AppExitCode()}
			}
			return nil
		},
	}
}

// fail renders err for the user and converts it into a generic non-zero exit.
func fail(err error) error {
	fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
	return &ExitError{Code: 1, Err: err}
}
