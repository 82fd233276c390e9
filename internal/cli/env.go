// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pyboot/internal/bootstrap"
	"pyboot/internal/pyenv"
)

// newEnvCommand creates the `pyboot env` command group for managing the
// virtual environment without launching the application.
func newEnvCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Manage the project's virtual environment",
		Long: `Manage the project's virtual environment.

The environment lives inside the project directory (by default under
.venv) and is considered present when its interpreter binary exists.`,
	}

	cmd.AddCommand(newEnvCreateCommand())
	cmd.AddCommand(newEnvRecreateCommand())
	cmd.AddCommand(newEnvInfoCommand())

	return cmd
}

// newEnvCreateCommand creates the `pyboot env create` command.
func newEnvCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create the virtual environment if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true

			cfg, dir, err := loadConfig()
			if err != nil {
				return fail(err)
			}

			b := bootstrap.New(cfg, dir, newLogger(cfg))
			if b.Env.Exists() {
				fmt.Println(SuccessStyle.Render("âœ“") + " Environment already exists at " + CmdStyle.Render(b.Env.Root))
				return nil
			}

			if err := b.EnsureEnv(cmd.Context()); err != nil {
				return fail(err)
			}

			fmt.Println(SuccessStyle.Render("âœ“") + " Environment created at " + CmdStyle.Render(b.Env.Root))
			return nil
		},
	}
}

// newEnvRecreateCommand creates the `pyboot env recreate` command.
func newEnvRecreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "recreate",
		Short: "Delete and rebuild the virtual environment",
		Long: `Delete and rebuild the virtual environment.

The environment directory is removed entirely, then created again from
the host interpreter. Installed packages are lost; run 'pyboot deps
install' (or 'pyboot run') afterwards to restore them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true

			cfg, dir, err := loadConfig()
			if err != nil {
				return fail(err)
			}

			b := bootstrap.New(cfg, dir, newLogger(cfg))
			if b.Env.Exists() {
				if err := b.Env.Remove(); err != nil {
					return fail(err)
				}
			}

			if err := b.EnsureEnv(cmd.Context()); err != nil {
				return fail(err)
			}

			fmt.Println(SuccessStyle.Render("âœ“") + " Environment recreated at " + CmdStyle.Render(b.Env.Root))
			return nil
		},
	}
}

// newEnvInfoCommand creates the `pyboot env info` command.
func newEnvInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the environment's location and recorded state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true

			cfg, dir, err := loadConfig()
			if err != nil {
				return fail(err)
			}

			env := pyenv.New(dir, cfg.Venv.Dir)

			fmt.Println(TitleStyle.Render("Environment"))
			fmt.Printf("  Project dir:  %s\n", dir)
			fmt.Printf("  Root:         %s\n", env.Root)
			fmt.Printf("  Interpreter:  %s\n", env.Interpreter())

			if !env.Exists() {
				fmt.Println("  Status:       " + WarningStyle.Render("not created"))
				return nil
			}
			fmt.Println("  Status:       " + SuccessStyle.Render("present"))

			if version, err := pyenv.InterpreterVersion(cmd.Context(), env); err == nil {
				fmt.Printf("  Version:      %s\n", version)
			}

			st, err := env.LoadState()
			if err != nil {
				fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+
					fmt.Sprintf("state file unreadable: %v", err))
				return nil
			}
			if !st.CreatedAt.IsZero() {
				fmt.Printf("  Created:      %s\n", st.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			if !st.InstalledAt.IsZero() {
				fmt.Printf("  Deps install: %s\n", st.InstalledAt.Format("2006-01-02 15:04:05"))
			}
			if st.RequirementsHash != "" {
				fmt.Printf("  Manifest:     sha256:%s\n", st.RequirementsHash)
			}
			return nil
		},
	}
}
