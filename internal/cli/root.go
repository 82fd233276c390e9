// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"pyboot/internal/config"
	"pyboot/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// projectDir overrides project directory resolution
	projectDir string
	// strict promotes installer failures to fatal errors
	strict bool
	// propagate makes pyboot exit with the application's exit code
	propagate bool

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "pyboot",
		Short: "A Python environment bootstrap launcher",
		Long: TitleStyle.Render("pyboot") + SubtitleStyle.Render(" - A Python environment bootstrap launcher") + `

pyboot prepares an isolated Python environment for a project and hands
control to its entry point: it creates the virtual environment on first
run, upgrades pip, installs the requirements manifest, and launches the
application - all relative to the project directory, regardless of where
pyboot is invoked from.

Projects are described by an optional 'pyboot.cue' file next to the
entry point; without one, the stock layout (.venv, requirements.txt,
app.py) is assumed.

` + SubtitleStyle.Render("Examples:") + `
  pyboot run                Bootstrap and launch the application
  pyboot run -- --batch     Launch with extra application arguments
  pyboot env create         Prepare the environment without launching
  pyboot deps install       (Re)install the requirements manifest
  pyboot config init        Scaffold a pyboot.cue for the project`,
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <project>/pyboot.cue)")
	rootCmd.PersistentFlags().StringVar(&projectDir, "project-dir", "", "project directory (default is the directory containing the pyboot executable)")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "treat installer failures as fatal")
	rootCmd.PersistentFlags().BoolVar(&propagate, "propagate", false, "exit with the application's exit code")

	// Add subcommands
	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newEnvCommand())
	rootCmd.AddCommand(newDepsCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newCompletionCommand())
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code.Int())
		}
		os.Exit(1)
	}
}

// resolveProjectDir determines the base path every step resolves against:
// the --project-dir flag when given, otherwise the directory containing the
// pyboot executable. The caller's working directory is never used, so
// invocations from unrelated directories behave identically.
func resolveProjectDir() (string, error) {
	if projectDir != "" {
		abs, err := filepath.Abs(projectDir)
		if err != nil {
			return "", fmt.Errorf("resolve project dir: %w", err)
		}
		return abs, nil
	}

	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate pyboot executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// loadConfig resolves the project directory and its configuration.
func loadConfig() (*config.Config, string, error) {
	dir, err := resolveProjectDir()
	if err != nil {
		return nil, "", err
	}

	cfg, err := config.Load(config.LoadOptions{
		ConfigFilePath: cfgFile,
		ProjectDir:     dir,
	})
	if err != nil {
		return nil, "", err
	}

	// Flags override config
	if strict {
		cfg.Deps.Strict = true
	}
	if propagate {
		cfg.Launch.PropagateExitCode = true
	}
	if verbose {
		cfg.UI.Verbose = true
	}

	return cfg, dir, nil
}

// newLogger builds the phase logger for bootstrap runs.
func newLogger(cfg *config.Config) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "pyboot",
	})
	if cfg.UI.Verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
