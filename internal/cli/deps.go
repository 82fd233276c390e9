// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pyboot/internal/bootstrap"
)

// newDepsCommand creates the `pyboot deps` command group. Unlike the
// bootstrap pipeline, where installer failures are warnings by default,
// an explicit deps invocation always treats them as errors.
func newDepsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Manage the environment's installed dependencies",
	}

	cmd.AddCommand(newDepsInstallCommand())
	cmd.AddCommand(newDepsUpgradePipCommand())

	return cmd
}

// newDepsInstallCommand creates the `pyboot deps install` command.
func newDepsInstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Install the requirements manifest into the environment",
		Long: `Install the requirements manifest into the environment.

Creates the environment first if it does not exist, then runs the
environment's pip against the configured requirements file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true

			cfg, dir, err := loadConfig()
			if err != nil {
				return fail(err)
			}

			b := bootstrap.New(cfg, dir, newLogger(cfg))
			if err := b.EnsureEnv(cmd.Context()); err != nil {
				return fail(err)
			}
			if err := b.InstallDeps(cmd.Context()); err != nil {
				return fail(err)
			}

			fmt.Println(SuccessStyle.Render("âœ“") + " Installed " + CmdStyle.Render(b.RequirementsPath()))
			return nil
		},
	}
}

// newDepsUpgradePipCommand creates the `pyboot deps upgrade-pip` command.
func newDepsUpgradePipCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "upgrade-pip",
		Short: "Upgrade pip inside the environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true

			cfg, dir, err := loadConfig()
			if err != nil {
				return fail(err)
			}

			b := bootstrap.New(cfg, dir, newLogger(cfg))
			if err := b.EnsureEnv(cmd.Context()); err != nil {
				return fail(err)
			}
			if err := b.UpgradeInstaller(cmd.Context()); err != nil {
				return fail(err)
			}

			fmt.Println(SuccessStyle.Render("âœ“") + " pip upgraded")
			return nil
		},
	}
}
