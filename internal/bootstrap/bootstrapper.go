// SPDX-License-Identifier: MPL-2.0

package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"pyboot/internal/config"
	"pyboot/internal/execrun"
	"pyboot/internal/issue"
	"pyboot/internal/pyenv"
)

// Step names, used in logs, reports, and tests.
const (
	StepEnsureEnv        = "ensure environment"
	StepUpgradeInstaller = "upgrade installer"
	StepInstallDeps      = "install dependencies"
	StepPreLaunchHook    = "pre-launch hook"
	StepLaunch           = "launch application"
	StepPostLaunchHook   = "post-launch hook"
)

// Bootstrapper prepares the isolated environment for one project and launches
// its entry point. The project directory is carried explicitly into every
// step; the bootstrapper never changes the process working directory.
type Bootstrapper struct {
	// Config is the resolved project configuration.
	Config *config.Config
	// ProjectDir is the absolute base path for all relative paths.
	ProjectDir string
	// Env is the isolated environment under management.
	Env pyenv.Env
	// ExtraArgs are appended after the configured entry point args.
	ExtraArgs []string
	// Logger receives phase and warning output.
	Logger *log.Logger

	// Stdin, Stdout, Stderr are the streams inherited by child processes.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	process *execrun.ProcessRunner
	script  *execrun.ScriptRunner

	// appExitCode is the launched application's exit code, recorded by the
	// launch step for optional propagation.
	appExitCode execrun.ExitCode
}

// New creates a Bootstrapper for the project at projectDir.
func New(cfg *config.Config, projectDir string, logger *log.Logger) *Bootstrapper {
	if logger == nil {
		logger = log.Default()
	}
	return &Bootstrapper{
		Config:     cfg,
		ProjectDir: projectDir,
		Env:        pyenv.New(projectDir, cfg.Venv.Dir),
		Logger:     logger,
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		process:    execrun.NewProcessRunner(),
		script:     execrun.NewScriptRunner(),
	}
}

// AppExitCode returns the launched application's exit code. Valid after a
// pipeline run whose launch step executed.
func (b *Bootstrapper) AppExitCode() execrun.ExitCode {
	return b.appExitCode
}

// RequirementsPath returns the absolute path of the dependency manifest.
func (b *Bootstrapper) RequirementsPath() string {
	return filepath.Join(b.ProjectDir, filepath.FromSlash(b.Config.Requirements))
}

// EntrypointPath returns the absolute path of the application entry point.
func (b *Bootstrapper) EntrypointPath() string {
	return filepath.Join(b.ProjectDir, filepath.FromSlash(b.Config.Entrypoint))
}

// installerPolicy is lenient by default, matching the original launcher's
// unchecked pip invocations; strict mode promotes failures to fatal.
func (b *Bootstrapper) installerPolicy() Policy {
	if b.Config.Deps.Strict {
		return PolicyFatal
	}
	return PolicyLenient
}

// Steps assembles the full bootstrap sequence.
func (b *Bootstrapper) Steps() []Step {
	steps := []Step{
		{Name: StepEnsureEnv, Policy: PolicyFatal, Run: b.EnsureEnv},
		{Name: StepUpgradeInstaller, Policy: b.installerPolicy(), Run: b.UpgradeInstaller},
		{Name: StepInstallDeps, Policy: b.installerPolicy(), Run: b.InstallDeps},
	}
	if b.Config.Hooks.PreLaunch != "" {
		steps = append(steps, Step{Name: StepPreLaunchHook, Policy: PolicyLenient, Run: b.preLaunchHook})
	}
	steps = append(steps, Step{Name: StepLaunch, Policy: PolicyFatal, Run: b.Launch})
	if b.Config.Hooks.PostLaunch != "" {
		steps = append(steps, Step{Name: StepPostLaunchHook, Policy: PolicyLenient, Run: b.postLaunchHook})
	}
	return steps
}

// Run executes the full bootstrap sequence.
func (b *Bootstrapper) Run(ctx context.Context) (*Report, error) {
	return NewPipeline(b.Logger, b.Steps()...).Run(ctx)
}

// EnsureEnv creates the isolated environment if its interpreter is absent.
// Creation failure is fatal: nothing may run after a failed creation attempt.
func (b *Bootstrapper) EnsureEnv(ctx context.Context) error {
	if b.Env.Exists() {
		b.Logger.Debug("reusing virtual environment", "path", b.Env.Root)
		return nil
	}

	hostPython, err := pyenv.FindHostInterpreter(b.Config.Python)
	if err != nil {
		return err
	}

	b.Logger.Info("creating virtual environment", "path", b.Env.Root, "python", hostPython)
	if err := pyenv.Create(ctx, b.Env, hostPython, b.Stdout, b.Stderr); err != nil {
		return err
	}

	st := pyenv.State{CreatedAt: time.Now().UTC()}
	if version, verr := pyenv.InterpreterVersion(ctx, b.Env); verr == nil {
		st.PythonVersion = version
	}
	if serr := b.Env.SaveState(st); serr != nil {
		// State is advisory; a failed write never blocks the bootstrap.
		b.Logger.Warn("could not record environment state", "err", serr)
	}
	return nil
}

// UpgradeInstaller upgrades pip inside the environment. Standard output is
// discarded; errors still reach the user's stderr.
func (b *Bootstrapper) UpgradeInstaller(ctx context.Context) error {
	b.Logger.Info("updating package installer")

	execCtx := b.newExecContext(ctx)
	execCtx.Argv = []string{b.Env.Pip(), "install", "--upgrade", "pip"}
	execCtx.Stdout = io.Discard

	result := b.process.Execute(execCtx)
	return b.installerError(result, "upgrade package installer", b.Env.Pip())
}

// InstallDeps installs the requirements manifest into the environment. When
// deps.skip_unchanged is enabled and the manifest hash matches the recorded
// one, the step is a no-op.
func (b *Bootstrapper) InstallDeps(ctx context.Context) error {
	manifest := b.RequirementsPath()

	var hash string
	if b.Config.Deps.SkipUnchanged {
		var err error
		if hash, err = pyenv.HashRequirements(manifest); err == nil {
			if st, serr := b.Env.LoadState(); serr == nil && st.RequirementsHash == hash {
				b.Logger.Info("dependencies unchanged, skipping install")
				return nil
			}
		}
	}

	b.Logger.Info("installing dependencies", "manifest", manifest)

	execCtx := b.newExecContext(ctx)
	execCtx.Argv = []string{b.Env.Pip(), "install", "-r", manifest}

	result := b.process.Execute(execCtx)
	if err := b.installerError(result, "install dependencies", manifest); err != nil {
		return err
	}

	b.recordInstall(manifest, hash)
	return nil
}

// recordInstall updates the environment state after a successful install.
func (b *Bootstrapper) recordInstall(manifest, hash string) {
	if hash == "" {
		var err error
		if hash, err = pyenv.HashRequirements(manifest); err != nil {
			return
		}
	}

	st, err := b.Env.LoadState()
	if err != nil {
		return
	}
	st.RequirementsHash = hash
	st.InstalledAt = time.Now().UTC()
	if err := b.Env.SaveState(st); err != nil {
		b.Logger.Warn("could not record install state", "err", err)
	}
}

// Launch runs the application entry point synchronously with the environment's
// interpreter, the project directory as working directory, and the configured
// launch environment. The application's exit code is recorded, not returned as
// an error: the bootstrapper's own exit status stays independent of it.
func (b *Bootstrapper) Launch(ctx context.Context) error {
	env, err := b.launchEnv()
	if err != nil {
		return err
	}

	b.Logger.Info("launching application", "entrypoint", b.EntrypointPath())

	execCtx := b.newExecContext(ctx)
	execCtx.Argv = append([]string{b.Env.Interpreter(), b.EntrypointPath()}, b.launchArgs()...)
	execCtx.Env = env

	result := b.process.Execute(execCtx)
	if result.Error != nil {
		return issue.NewErrorContext().
			WithOperation("launch application").
			WithResource(b.EntrypointPath()).
			WithSuggestion("Check that the entry point file exists").
			WithSuggestion("Run 'pyboot env info' to inspect the environment").
			Wrap(result.Error).
			BuildError()
	}

	b.appExitCode = result.ExitCode
	if result.ExitCode != 0 {
		b.Logger.Debug("application exited non-zero", "code", result.ExitCode)
	}
	return nil
}

// launchArgs combines configured default args with per-invocation extras.
func (b *Bootstrapper) launchArgs() []string {
	args := make([]string, 0, len(b.Config.Args)+len(b.ExtraArgs))
	args = append(args, b.Config.Args...)
	args = append(args, b.ExtraArgs...)
	return args
}

// launchEnv assembles the application environment: venv activation variables,
// configured dotenv files (in order), then inline vars (highest priority).
func (b *Bootstrapper) launchEnv() (map[string]string, error) {
	env := map[string]string{
		"VIRTUAL_ENV": b.Env.Root,
		"PATH":        b.Env.BinDir() + string(os.PathListSeparator) + os.Getenv("PATH"),
	}

	for _, file := range b.Config.Launch.EnvFiles {
		if err := execrun.LoadEnvFile(env, file, b.ProjectDir); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load launch environment").
				WithResource(file).
				WithSuggestion("Check the dotenv file syntax").
				WithSuggestion("Suffix the path with '?' to make it optional").
				Wrap(err).
				BuildError()
		}
	}

	for k, v := range b.Config.Launch.EnvVars {
		env[k] = v
	}
	return env, nil
}

func (b *Bootstrapper) preLaunchHook(ctx context.Context) error {
	return b.runHook(ctx, "pre_launch", b.Config.Hooks.PreLaunch)
}

func (b *Bootstrapper) postLaunchHook(ctx context.Context) error {
	return b.runHook(ctx, "post_launch", b.Config.Hooks.PostLaunch)
}

// runHook executes a configured hook snippet in the embedded shell
// interpreter, with the project directory as working directory.
func (b *Bootstrapper) runHook(ctx context.Context, name, script string) error {
	b.Logger.Debug("running hook", "hook", name)

	execCtx := b.newExecContext(ctx)
	execCtx.Script = script
	execCtx.Env = map[string]string{
		"PYBOOT_PROJECT_DIR": b.ProjectDir,
		"PYBOOT_VENV":        b.Env.Root,
	}

	if err := b.script.Validate(execCtx); err != nil {
		return fmt.Errorf("hook %s: %w", name, err)
	}

	result := b.script.Execute(execCtx)
	if result.Error != nil {
		return fmt.Errorf("hook %s: %w", name, result.Error)
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("hook %s exited with code %d", name, result.ExitCode)
	}
	return nil
}

// installerError converts an installer Result into an error, or nil. How the
// caller treats it (warning vs fatal) is the pipeline's decision.
func (b *Bootstrapper) installerError(result *execrun.Result, operation, resource string) error {
	if !result.Failed() {
		return nil
	}
	cause := result.Error
	if cause == nil {
		cause = fmt.Errorf("pip exited with code %d", result.ExitCode)
	}
	return issue.NewErrorContext().
		WithOperation(operation).
		WithResource(resource).
		WithSuggestion("Run 'pyboot env recreate' if the environment is broken").
		Wrap(cause).
		BuildError()
}

// newExecContext builds an execution context rooted at the project directory
// with the bootstrapper's streams attached.
func (b *Bootstrapper) newExecContext(ctx context.Context) *execrun.ExecutionContext {
	execCtx := execrun.NewExecutionContext(b.ProjectDir)
	execCtx.Context = ctx
	execCtx.Stdin = b.Stdin
	execCtx.Stdout = b.Stdout
	execCtx.Stderr = b.Stderr
	return execCtx
}
