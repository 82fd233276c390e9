// SPDX-License-Identifier: MPL-2.0

package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"pyboot/internal/issue"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "pyboot"
	// GlobalConfigFileName is the name of the user-wide config file.
	GlobalConfigFileName = "config.cue"
	// ProjectConfigFileName is the name of the per-project config file.
	ProjectConfigFileName = "pyboot.cue"

	// maxConfigFileSize bounds config reads; anything bigger is not a
	// config file.
	maxConfigFileSize = 1 << 20
)

//go:embed config_schema.cue
var configSchema string

// LoadOptions controls config resolution.
type LoadOptions struct {
	// ConfigFilePath, when set (via --config), is used exclusively.
	ConfigFilePath string
	// ProjectDir is where the project config file is searched.
	ProjectDir string
	// ConfigDirPath overrides the global config directory (tests).
	ConfigDirPath string
}

// ConfigDir returns the pyboot configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	// Allow tests to override the config directory
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// Load resolves the configuration for a project directory.
//
// Resolution order:
//  1. An explicit ConfigFilePath is used exclusively; a missing file is an error.
//  2. Otherwise the global config (ConfigDir()/config.cue) is merged over the
//     defaults, then the project file (<ProjectDir>/pyboot.cue) over that.
//     Missing files are fine; defaults cover everything.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("entrypoint", defaults.Entrypoint)
	v.SetDefault("requirements", defaults.Requirements)
	v.SetDefault("venv.dir", defaults.Venv.Dir)
	v.SetDefault("deps.strict", defaults.Deps.Strict)
	v.SetDefault("deps.skip_unchanged", defaults.Deps.SkipUnchanged)
	v.SetDefault("launch.propagate_exit_code", defaults.Launch.PropagateExitCode)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Run 'pyboot config init' to create a project config").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		if err := loadCUEIntoViper(v, opts.ConfigFilePath); err != nil {
			return nil, wrapConfigLoadError(err, opts.ConfigFilePath)
		}
	} else {
		cfgDir, err := configDirWithOverride(opts.ConfigDirPath)
		if err != nil {
			return nil, err
		}

		globalPath := filepath.Join(cfgDir, GlobalConfigFileName)
		if fileExists(globalPath) {
			if err := loadCUEIntoViper(v, globalPath); err != nil {
				return nil, wrapConfigLoadError(err, globalPath)
			}
		}

		if opts.ProjectDir != "" {
			projectPath := filepath.Join(opts.ProjectDir, ProjectConfigFileName)
			if fileExists(projectPath) {
				if err := loadCUEIntoViper(v, projectPath); err != nil {
					return nil, wrapConfigLoadError(err, projectPath)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithSuggestion("See 'pyboot config show' for the effective configuration").
			Wrap(err).
			BuildError()
	}

	return &cfg, nil
}

// wrapConfigLoadError attaches user-facing context to a config parse failure.
func wrapConfigLoadError(err error, path string) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithSuggestion("Check that the file contains valid CUE syntax").
		WithSuggestion("Verify the configuration values match the expected schema").
		Wrap(err).
		BuildError()
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}
	return ConfigDir()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) > maxConfigFileSize {
		return fmt.Errorf("config file %s exceeds %d bytes", path, maxConfigFileSize)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return fmt.Errorf("invalid CUE in %s: %w", path, userValue.Err())
	}

	// Unify with schema to validate against the #Config definition
	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return fmt.Errorf("config %s does not match schema: %w", path, err)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	// Merge into Viper (preserves defaults, later files override)
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// ProjectConfigPath returns the path of the project config file.
func ProjectConfigPath(projectDir string) string {
	return filepath.Join(projectDir, ProjectConfigFileName)
}

// WriteProjectConfig creates a project config file with the given settings.
// An existing file is left untouched and reported via os.ErrExist semantics.
func WriteProjectConfig(projectDir string, cfg *Config) error {
	path := ProjectConfigPath(projectDir)

	if fileExists(path) {
		return fmt.Errorf("config file already exists: %s", path)
	}

	if err := os.WriteFile(path, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateCUE generates a CUE representation of the configuration.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// pyboot project configuration.\n\n")

	if cfg.Python != "" {
		sb.WriteString(fmt.Sprintf("python: %q\n", cfg.Python))
	}
	sb.WriteString(fmt.Sprintf("entrypoint: %q\n", cfg.Entrypoint))
	sb.WriteString(fmt.Sprintf("requirements: %q\n", cfg.Requirements))

	if len(cfg.Args) > 0 {
		sb.WriteString("args: [")
		for i, arg := range cfg.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(fmt.Sprintf("%q", arg))
		}
		sb.WriteString("]\n")
	}

	sb.WriteString("\nvenv: {\n")
	sb.WriteString(fmt.Sprintf("\tdir: %q\n", cfg.Venv.Dir))
	sb.WriteString("}\n")

	sb.WriteString("\ndeps: {\n")
	sb.WriteString(fmt.Sprintf("\tstrict: %v\n", cfg.Deps.Strict))
	sb.WriteString(fmt.Sprintf("\tskip_unchanged: %v\n", cfg.Deps.SkipUnchanged))
	sb.WriteString("}\n")

	sb.WriteString("\nlaunch: {\n")
	sb.WriteString(fmt.Sprintf("\tpropagate_exit_code: %v\n", cfg.Launch.PropagateExitCode))
	if len(cfg.Launch.EnvFiles) > 0 {
		sb.WriteString("\tenv_files: [\n")
		for _, f := range cfg.Launch.EnvFiles {
			sb.WriteString(fmt.Sprintf("\t\t%q,\n", f))
		}
		sb.WriteString("\t]\n")
	}
	sb.WriteString("}\n")

	if cfg.Hooks.PreLaunch != "" || cfg.Hooks.PostLaunch != "" {
		sb.WriteString("\nhooks: {\n")
		if cfg.Hooks.PreLaunch != "" {
			sb.WriteString(fmt.Sprintf("\tpre_launch: %q\n", cfg.Hooks.PreLaunch))
		}
		if cfg.Hooks.PostLaunch != "" {
			sb.WriteString(fmt.Sprintf("\tpost_launch: %q\n", cfg.Hooks.PostLaunch))
		}
		sb.WriteString("}\n")
	}

	sb.WriteString("\nui: {\n")
	sb.WriteString(fmt.Sprintf("\tcolor_scheme: %q\n", cfg.UI.ColorScheme))
	sb.WriteString(fmt.Sprintf("\tverbose: %v\n", cfg.UI.Verbose))
	sb.WriteString("}\n")

	return sb.String()
}
