// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pyboot/internal/config"
)

// fileExistsCheck reports whether path exists and is a regular file.
func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// newConfigCommand creates the `pyboot config` command tree.
func newConfigCommand() *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage pyboot configuration",
		Long: `Manage pyboot configuration.

Project configuration lives in a 'pyboot.cue' file inside the project
directory. An optional machine-wide config is stored in:
  - Linux: ~/.config/pyboot/config.cue
  - macOS: ~/Library/Application Support/pyboot/config.cue
  - Windows: %APPDATA%\pyboot\config.cue

The project file overrides the machine-wide one field by field; built-in
defaults fill whatever neither provides.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(newConfigShowCommand())
	cfgCmd.AddCommand(newConfigInitCommand())
	cfgCmd.AddCommand(newConfigPathCommand())

	return cfgCmd
}

// newConfigShowCommand creates the `pyboot config show` command.
func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Show the effective configuration as CUE.

The output is the merge of built-in defaults, the machine-wide config,
the project's pyboot.cue, and any command-line overrides.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true

			cfg, dir, err := loadConfig()
			if err != nil {
				return fail(err)
			}

			fmt.Println(TitleStyle.Render("Effective Configuration"))
			fmt.Printf("%s: %s\n", CmdStyle.Render("Project dir"), dir)

			projectPath := config.ProjectConfigPath(dir)
			if fileExistsCheck(projectPath) {
				fmt.Printf("%s: %s\n", CmdStyle.Render("Project file"), projectPath)
			} else {
				fmt.Printf("%s: %s\n", CmdStyle.Render("Project file"), SubtitleStyle.Render("(none, using defaults)"))
			}
			fmt.Println()
			fmt.Print(config.GenerateCUE(cfg))
			return nil
		},
	}
}

// newConfigInitCommand creates the `pyboot config init` command.
func newConfigInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Scaffold a pyboot.cue in the project directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true

			dir, err := resolveProjectDir()
			if err != nil {
				return fail(err)
			}

			if err := config.WriteProjectConfig(dir, config.DefaultConfig()); err != nil {
				return fail(err)
			}

			fmt.Println(SuccessStyle.Render("âœ“") + " Created " + CmdStyle.Render(config.ProjectConfigPath(dir)))
			return nil
		},
	}
}

// newConfigPathCommand creates the `pyboot config path` command.
func newConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the configuration file paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true

			dir, err := resolveProjectDir()
			if err != nil {
				return fail(err)
			}
			fmt.Printf("%s: %s\n", CmdStyle.Render("Project"), config.ProjectConfigPath(dir))

			cfgDir, err := config.ConfigDir()
			if err != nil {
				return fail(err)
			}
			fmt.Printf("%s: %s\n", CmdStyle.Render("Global"), filepath.Join(cfgDir, config.GlobalConfigFileName))
			return nil
		},
	}
}
