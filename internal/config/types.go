// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme selects the terminal color scheme for styled output.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not
	// recognized. It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidConfigError collects field-level validation errors for a Config.
	// It wraps ErrInvalidConfig for errors.Is() compatibility.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// VenvConfig describes the isolated environment location.
	VenvConfig struct {
		// Dir is the environment directory, relative to the project dir.
		Dir string `mapstructure:"dir"`
	}

	// DepsConfig controls dependency installation policy.
	DepsConfig struct {
		// Strict promotes installer failures (pip self-upgrade, manifest
		// install) from warnings to fatal errors.
		Strict bool `mapstructure:"strict"`
		// SkipUnchanged skips the install step when the requirements
		// manifest hash matches the one recorded at the last successful
		// install. Off by default: the stock behavior installs every run.
		SkipUnchanged bool `mapstructure:"skip_unchanged"`
	}

	// LaunchConfig controls how the application entry point is run.
	LaunchConfig struct {
		// PropagateExitCode makes the bootstrapper exit with the
		// application's exit code instead of its own (default off).
		PropagateExitCode bool `mapstructure:"propagate_exit_code"`
		// EnvVars are extra environment variables for the application.
		EnvVars map[string]string `mapstructure:"env_vars"`
		// EnvFiles are dotenv files loaded before launch, in order.
		// A trailing '?' marks a file as optional.
		EnvFiles []string `mapstructure:"env_files"`
	}

	// HooksConfig holds optional shell snippets run around the launch.
	// Hooks execute in the embedded shell interpreter.
	HooksConfig struct {
		PreLaunch  string `mapstructure:"pre_launch"`
		PostLaunch string `mapstructure:"post_launch"`
	}

	// UIConfig holds user interface settings.
	UIConfig struct {
		ColorScheme ColorScheme `mapstructure:"color_scheme"`
		Verbose     bool        `mapstructure:"verbose"`
	}

	// Config is the bootstrapper configuration.
	Config struct {
		// Python overrides host interpreter discovery (name or path).
		Python string `mapstructure:"python"`
		// Entrypoint is the application entry point, relative to the
		// project dir.
		Entrypoint string `mapstructure:"entrypoint"`
		// Args are default arguments passed to the entry point.
		Args []string `mapstructure:"args"`
		// Requirements is the dependency manifest, relative to the
		// project dir.
		Requirements string `mapstructure:"requirements"`

		Venv   VenvConfig   `mapstructure:"venv"`
		Deps   DepsConfig   `mapstructure:"deps"`
		Launch LaunchConfig `mapstructure:"launch"`
		Hooks  HooksConfig  `mapstructure:"hooks"`
		UI     UIConfig     `mapstructure:"ui"`
	}
)

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (must be auto, dark, or light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// IsValid returns whether the ColorScheme is a recognized value.
func (s ColorScheme) IsValid() bool {
	switch s {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true
	}
	return false
}

// DefaultConfig returns the configuration matching the original launcher's
// fixed layout: .venv beside the script, requirements.txt, app.py.
func DefaultConfig() *Config {
	return &Config{
		Entrypoint:   "app.py",
		Requirements: "requirements.txt",
		Venv:         VenvConfig{Dir: ".venv"},
		UI:           UIConfig{ColorScheme: ColorSchemeAuto},
	}
}

// Validate checks constraints the CUE schema cannot express and collects all
// violations into a single InvalidConfigError.
func (c *Config) Validate() error {
	var fieldErrors []error

	if !c.UI.ColorScheme.IsValid() {
		fieldErrors = append(fieldErrors, &InvalidColorSchemeError{Value: c.UI.ColorScheme})
	}
	if strings.TrimSpace(c.Entrypoint) == "" {
		fieldErrors = append(fieldErrors, errors.New("entrypoint must not be empty"))
	}
	if strings.TrimSpace(c.Requirements) == "" {
		fieldErrors = append(fieldErrors, errors.New("requirements must not be empty"))
	}
	if strings.TrimSpace(c.Venv.Dir) == "" {
		fieldErrors = append(fieldErrors, errors.New("venv.dir must not be empty"))
	}

	if len(fieldErrors) > 0 {
		return &InvalidConfigError{FieldErrors: fieldErrors}
	}
	return nil
}
