// SPDX-License-Identifier: MPL-2.0

package bootstrap

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"pyboot/internal/config"
)

// newTestProject builds a throwaway project directory plus a fake Python
// toolchain on PATH. The fake `python3 -m venv` creates a venv whose python
// and pip are stub scripts that append their argv to calls.log in the project
// directory, so tests can assert exactly which children ran.
func newTestProject(t *testing.T) (*Bootstrapper, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake toolchain uses POSIX shell")
	}

	projectDir := t.TempDir()
	logFile := filepath.Join(projectDir, "calls.log")
	t.Setenv("PYBOOT_TEST_LOG", logFile)

	if err := os.WriteFile(filepath.Join(projectDir, "requirements.txt"), []byte("ezdxf==1.3.0\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(projectDir, "app.py"), []byte("print('hi')\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	template := t.TempDir()
	pipStub := `#!/bin/sh
echo "pip $@" >> "$PYBOOT_TEST_LOG"
if [ -n "$PYBOOT_TEST_PIP_FAIL" ]; then
  echo "pip: install failed" >&2
  exit 1
fi
`
	pythonStub := `#!/bin/sh
echo "python $@" >> "$PYBOOT_TEST_LOG"
exit "${PYBOOT_TEST_APP_EXIT:-0}"
`
	if err := os.WriteFile(filepath.Join(template, "pip"), []byte(pipStub), 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(template, "python"), []byte(pythonStub), 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("PYBOOT_TEST_TEMPLATE", template)

	toolDir := t.TempDir()
	creator := `#!/bin/sh
if [ -n "$PYBOOT_TEST_VENV_FAIL" ]; then
  echo "venv: creation failed" >&2
  exit 1
fi
echo "venv-create $@" >> "$PYBOOT_TEST_LOG"
for last; do :; done
mkdir -p "$last/bin"
cp "$PYBOOT_TEST_TEMPLATE/python" "$last/bin/python"
cp "$PYBOOT_TEST_TEMPLATE/pip" "$last/bin/pip"
chmod +x "$last/bin/python" "$last/bin/pip"
`
	if err := os.WriteFile(filepath.Join(toolDir, "python3"), []byte(creator), 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("PATH", toolDir+string(os.PathListSeparator)+os.Getenv("PATH"))

	b := New(config.DefaultConfig(), projectDir, quietLogger())
	b.Stdin = strings.NewReader("")
	b.Stdout = &bytes.Buffer{}
	b.Stderr = &bytes.Buffer{}
	return b, logFile
}

func readCalls(t *testing.T, logFile string) []string {
	t.Helper()
	data, err := os.ReadFile(logFile)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func countPrefix(calls []string, prefix string) int {
	n := 0
	for _, c := range calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func TestRun_FullSequence(t *testing.T) {
	b, logFile := newTestProject(t)

	report, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if report.Failed() {
		t.Errorf("Run() report has failures: %+v", report.Steps)
	}

	calls := readCalls(t, logFile)
	if countPrefix(calls, "venv-create") != 1 {
		t.Errorf("environment should be created exactly once, calls: %v", calls)
	}
	if countPrefix(calls, "pip install --upgrade pip") != 1 {
		t.Errorf("pip self-upgrade should run once, calls: %v", calls)
	}
	if countPrefix(calls, "pip install -r") != 1 {
		t.Errorf("manifest install should run once, calls: %v", calls)
	}
	// the final python call is the application launch
	if countPrefix(calls, "python "+filepath.Join(b.ProjectDir, "app.py")) != 1 {
		t.Errorf("application should be launched once, calls: %v", calls)
	}
}

func TestRun_SecondRunSkipsCreation(t *testing.T) {
	b, logFile := newTestProject(t)

	if _, err := b.Run(context.Background()); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	if _, err := b.Run(context.Background()); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	calls := readCalls(t, logFile)
	if got := countPrefix(calls, "venv-create"); got != 1 {
		t.Errorf("creation attempted %d times across two runs, want 1", got)
	}
}

func TestRun_CreationFailureHaltsEverything(t *testing.T) {
	b, logFile := newTestProject(t)
	t.Setenv("PYBOOT_TEST_VENV_FAIL", "1")

	report, err := b.Run(context.Background())
	if err == nil {
		t.Fatal("Run() should fail when environment creation fails")
	}

	calls := readCalls(t, logFile)
	if countPrefix(calls, "pip") != 0 {
		t.Errorf("installer must never run after a failed creation, calls: %v", calls)
	}
	if countPrefix(calls, "python") != 0 {
		t.Errorf("launch must never run after a failed creation, calls: %v", calls)
	}
	if len(report.Steps) != 1 || report.Steps[0].Name != StepEnsureEnv {
		t.Errorf("report should end at %q, got %+v", StepEnsureEnv, report.Steps)
	}
}

func TestRun_LenientInstallerFailureStillLaunches(t *testing.T) {
	b, logFile := newTestProject(t)
	t.Setenv("PYBOOT_TEST_PIP_FAIL", "1")

	report, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v, installer failures are lenient by default", err)
	}
	if got := len(report.Warnings()); got != 2 {
		t.Errorf("expected 2 warnings (self-upgrade, install), got %d", got)
	}

	calls := readCalls(t, logFile)
	if countPrefix(calls, "python "+filepath.Join(b.ProjectDir, "app.py")) != 1 {
		t.Errorf("launch should still happen after installer failures, calls: %v", calls)
	}
}

func TestRun_StrictModeStopsOnInstallerFailure(t *testing.T) {
	b, logFile := newTestProject(t)
	b.Config.Deps.Strict = true
	t.Setenv("PYBOOT_TEST_PIP_FAIL", "1")

	_, err := b.Run(context.Background())
	if err == nil {
		t.Fatal("Run() in strict mode should fail on installer errors")
	}

	calls := readCalls(t, logFile)
	if countPrefix(calls, "python ") != 0 {
		t.Errorf("launch must not happen after a strict installer failure, calls: %v", calls)
	}
}

func TestRun_AppExitCodeIsNotPropagatedAsError(t *testing.T) {
	b, _ := newTestProject(t)
	t.Setenv("PYBOOT_TEST_APP_EXIT", "5")

	_, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v, app exit codes are pass-through", err)
	}
	if b.AppExitCode() != 5 {
		t.Errorf("AppExitCode() = %d, want 5", b.AppExitCode())
	}
}

func TestRun_PreLaunchHook(t *testing.T) {
	b, _ := newTestProject(t)
	b.Config.Hooks.PreLaunch = "echo ran > hook-marker"

	if _, err := b.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(b.ProjectDir, "hook-marker")); err != nil {
		t.Errorf("pre-launch hook should run in the project dir: %v", err)
	}
}

func TestRun_FailingHookIsLenient(t *testing.T) {
	b, logFile := newTestProject(t)
	b.Config.Hooks.PreLaunch = "exit 9"

	report, err := b.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v, hook failures are lenient", err)
	}
	if len(report.Warnings()) != 1 {
		t.Errorf("expected the hook failure among warnings, got %+v", report.Steps)
	}

	calls := readCalls(t, logFile)
	if countPrefix(calls, "python "+filepath.Join(b.ProjectDir, "app.py")) != 1 {
		t.Error("launch should still happen after a failing hook")
	}
}

func TestInstallDeps_SkipUnchanged(t *testing.T) {
	b, logFile := newTestProject(t)
	b.Config.Deps.SkipUnchanged = true

	if _, err := b.Run(context.Background()); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	if _, err := b.Run(context.Background()); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	calls := readCalls(t, logFile)
	if got := countPrefix(calls, "pip install -r"); got != 1 {
		t.Errorf("unchanged manifest should be installed once, got %d installs", got)
	}

	// Changing the manifest re-triggers the install
	if err := os.WriteFile(b.RequirementsPath(), []byte("ezdxf==1.4.0\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := b.Run(context.Background()); err != nil {
		t.Fatalf("third Run() error = %v", err)
	}
	calls = readCalls(t, logFile)
	if got := countPrefix(calls, "pip install -r"); got != 2 {
		t.Errorf("changed manifest should re-install, got %d installs", got)
	}
}

func TestPaths_ResolveAgainstProjectDir(t *testing.T) {
	cfg := config.DefaultConfig()
	b := New(cfg, "/srv/flatpattern", quietLogger())

	if got := b.RequirementsPath(); got != filepath.Join("/srv/flatpattern", "requirements.txt") {
		t.Errorf("RequirementsPath() = %q", got)
	}
	if got := b.EntrypointPath(); got != filepath.Join("/srv/flatpattern", "app.py") {
		t.Errorf("EntrypointPath() = %q", got)
	}
	if got := b.Env.Root; got != filepath.Join("/srv/flatpattern", ".venv") {
		t.Errorf("Env.Root = %q", got)
	}
}

func TestSteps_HooksOnlyWhenConfigured(t *testing.T) {
	cfg := config.DefaultConfig()
	b := New(cfg, t.TempDir(), quietLogger())

	names := func() []string {
		var out []string
		for _, s := range b.Steps() {
			out = append(out, s.Name)
		}
		return out
	}

	base := names()
	for _, n := range base {
		if n == StepPreLaunchHook || n == StepPostLaunchHook {
			t.Errorf("hook step %q present without configuration", n)
		}
	}

	cfg.Hooks.PreLaunch = "echo pre"
	cfg.Hooks.PostLaunch = "echo post"
	withHooks := names()
	if len(withHooks) != len(base)+2 {
		t.Errorf("expected two extra hook steps, got %v", withHooks)
	}
}
