package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/winappkit/winapp/internal/config"
	"github.com/winappkit/winapp/internal/testutil"
)

// runCommand executes the root command with args against captured output.
func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func withWorkingDirVar(t *testing.T, dir string) {
	t.Helper()
	original := getwd
	t.Cleanup(func() { getwd = original })
	getwd = func() (string, error) { return dir, nil }
}

func hostArchDir() string {
	switch runtime.GOARCH {
	case "arm64":
		return "arm64"
	case "386":
		return "x86"
	default:
		return "x64"
	}
}

func TestCacheDirHonorsEnvOverride(t *testing.T) {
	cacheRoot := t.TempDir()
	t.Setenv("WINAPP_CLI_CACHE_DIRECTORY", cacheRoot)

	stdout, _, err := runCommand(t, "cache", "dir")
	require.NoError(t, err)
	require.Equal(t, cacheRoot, strings.TrimSpace(stdout))
}

func TestCacheClearRemovesPackages(t *testing.T) {
	cacheRoot := t.TempDir()
	t.Setenv("WINAPP_CLI_CACHE_DIRECTORY", cacheRoot)
	pkgDir := filepath.Join(cacheRoot, "packages", "Microsoft.Windows.SDK.BuildTools.10.0.26100.1")
	require.NoError(t, os.MkdirAll(pkgDir, 0o755))

	stdout, _, err := runCommand(t, "cache", "clear", "--yes")
	require.NoError(t, err)
	require.Contains(t, stdout, cacheRoot)

	_, statErr := os.Stat(filepath.Join(cacheRoot, "packages"))
	require.True(t, os.IsNotExist(statErr))
}

func TestCacheClearWithoutConfirmationFails(t *testing.T) {
	cacheRoot := t.TempDir()
	t.Setenv("WINAPP_CLI_CACHE_DIRECTORY", cacheRoot)

	// No TTY in tests, so the command must refuse rather than prompt.
	_, _, err := runCommand(t, "cache", "clear")
	require.Error(t, err)
	require.Contains(t, err.Error(), "--yes")
}

func TestCacheSetDirPersistsPointer(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("pointer location depends on XDG_CONFIG_HOME")
	}
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	target := t.TempDir()

	stdout, _, err := runCommand(t, "cache", "set-dir", target)
	require.NoError(t, err)
	require.Contains(t, stdout, target)

	data, err := os.ReadFile(filepath.Join(configHome, "winapp", "cache_location.txt"))
	require.NoError(t, err)
	require.Equal(t, target, strings.TrimSpace(string(data)))
}

func TestPackagesListShowsVersionsAndSelection(t *testing.T) {
	cacheRoot := t.TempDir()
	t.Setenv("WINAPP_CLI_CACHE_DIRECTORY", cacheRoot)
	for _, ver := range []string{"10.0.22000.1", "10.0.26100.1"} {
		dir := filepath.Join(cacheRoot, "packages", "Microsoft.Windows.SDK.BuildTools."+ver)
		require.NoError(t, os.MkdirAll(dir, 0o755))
	}
	withWorkingDirVar(t, t.TempDir())

	stdout, _, err := runCommand(t, "packages", "list")
	require.NoError(t, err)
	require.Contains(t, stdout, "Microsoft.Windows.SDK.BuildTools")
	require.Contains(t, stdout, "10.0.22000.1")
	require.Contains(t, stdout, "10.0.26100.1 (selected)")
}

func TestPackagesListRespectsProjectPin(t *testing.T) {
	cacheRoot := t.TempDir()
	t.Setenv("WINAPP_CLI_CACHE_DIRECTORY", cacheRoot)
	for _, ver := range []string{"10.0.22000.1", "10.0.26100.1"} {
		dir := filepath.Join(cacheRoot, "packages", "Microsoft.Windows.SDK.BuildTools."+ver)
		require.NoError(t, os.MkdirAll(dir, 0o755))
	}

	projectDir := t.TempDir()
	configBody := "app:\n  name: Contoso Notes\npackages:\n  - name: Microsoft.Windows.SDK.BuildTools\n    version: 10.0.22000.1\n"
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, config.ConfigFileName), []byte(configBody), 0o644))
	withWorkingDirVar(t, projectDir)

	stdout, _, err := runCommand(t, "packages", "list")
	require.NoError(t, err)
	require.Contains(t, stdout, "10.0.22000.1 (selected)")
	require.NotContains(t, stdout, "10.0.26100.1 (selected)")
}

func TestPackagesListToleratesInvalidConfig(t *testing.T) {
	cacheRoot := t.TempDir()
	t.Setenv("WINAPP_CLI_CACHE_DIRECTORY", cacheRoot)
	dir := filepath.Join(cacheRoot, "packages", "Microsoft.Windows.SDK.BuildTools.10.0.26100.1")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	projectDir := t.TempDir()
	configBody := "app:\n  name: Contoso Notes\npackages:\n  - name: Microsoft.Windows.SDK.BuildTools\n    version: not-a-version\n"
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, config.ConfigFileName), []byte(configBody), 0o644))
	withWorkingDirVar(t, projectDir)

	stdout, _, err := runCommand(t, "packages", "list")
	require.NoError(t, err)
	require.Contains(t, stdout, "10.0.26100.1 (selected)")
}

func TestPackagesListEmptyCache(t *testing.T) {
	cacheRoot := t.TempDir()
	t.Setenv("WINAPP_CLI_CACHE_DIRECTORY", cacheRoot)
	withWorkingDirVar(t, t.TempDir())

	stdout, _, err := runCommand(t, "packages", "list")
	require.NoError(t, err)
	require.Contains(t, stdout, "no packages installed")
}

func TestToolPathPrintsInstalledTool(t *testing.T) {
	cacheRoot := t.TempDir()
	t.Setenv("WINAPP_CLI_CACHE_DIRECTORY", cacheRoot)
	want := testutil.WriteInstalledTool(t, cacheRoot, "Microsoft.Windows.SDK.BuildTools", "10.0.26100.1", "10.0.26100.0", hostArchDir(), "makeappx")
	withWorkingDirVar(t, t.TempDir())

	stdout, _, err := runCommand(t, "tool", "path", "makeappx")
	require.NoError(t, err)
	require.Equal(t, want, strings.TrimSpace(stdout))
}

func TestToolRunExecutesInstalledTool(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	cacheRoot := t.TempDir()
	t.Setenv("WINAPP_CLI_CACHE_DIRECTORY", cacheRoot)
	testutil.WriteInstalledTool(t, cacheRoot, "Microsoft.Windows.SDK.BuildTools", "10.0.26100.1", "10.0.26100.0", hostArchDir(), "makeappx")
	withWorkingDirVar(t, t.TempDir())

	_, _, err := runCommand(t, "tool", "run", "makeappx", "--", "pack")
	require.NoError(t, err)
}

func TestToolRunWarnsWhenPinOutdated(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	cacheRoot := t.TempDir()
	t.Setenv("WINAPP_CLI_CACHE_DIRECTORY", cacheRoot)
	testutil.WriteInstalledTool(t, cacheRoot, "Microsoft.Windows.SDK.BuildTools", "10.0.22000.1", "10.0.22000.0", hostArchDir(), "makeappx")
	testutil.WriteInstalledTool(t, cacheRoot, "Microsoft.Windows.SDK.BuildTools", "10.0.26100.1", "10.0.26100.0", hostArchDir(), "makeappx")

	projectDir := t.TempDir()
	configBody := "app:\n  name: Contoso Notes\npackages:\n  - name: Microsoft.Windows.SDK.BuildTools\n    version: 10.0.22000.1\n"
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, config.ConfigFileName), []byte(configBody), 0o644))
	withWorkingDirVar(t, projectDir)

	_, stderr, err := runCommand(t, "tool", "run", "makeappx")
	require.NoError(t, err)
	require.Contains(t, stderr, "10.0.26100.1")

	_, stderrQuiet, err := runCommand(t, "--quiet", "tool", "run", "makeappx")
	require.NoError(t, err)
	require.NotContains(t, stderrQuiet, "10.0.26100.1")
}

func TestToolPathUnknownToolFails(t *testing.T) {
	t.Setenv("WINAPP_CLI_CACHE_DIRECTORY", t.TempDir())
	withWorkingDirVar(t, t.TempDir())

	_, _, err := runCommand(t, "tool", "path", "mystery-tool")
	require.Error(t, err)
	require.Contains(t, err.Error(), "mystery-tool")
}

func TestUpdateWithoutProjectOrArgumentFails(t *testing.T) {
	t.Setenv("WINAPP_CLI_CACHE_DIRECTORY", t.TempDir())
	withWorkingDirVar(t, t.TempDir())

	_, _, err := runCommand(t, "update")
	require.Error(t, err)
	require.Contains(t, err.Error(), "winapp init")
}

func TestInitNonInteractiveWritesConfig(t *testing.T) {
	projectDir := t.TempDir()
	withWorkingDirVar(t, projectDir)
	t.Setenv("WINAPP_CLI_CACHE_DIRECTORY", t.TempDir())

	stdout, _, err := runCommand(t, "init", "--app-name", "Contoso Notes", "--publisher", "Contoso Ltd")
	require.NoError(t, err)
	require.Contains(t, stdout, config.ConfigFileName)

	cfg, err := config.Load(filepath.Join(projectDir, config.ConfigFileName))
	require.NoError(t, err)
	require.Equal(t, "Contoso Notes", cfg.App.Name)
	require.Equal(t, "Contoso Ltd", cfg.App.Publisher)
}

func TestInitWithoutTerminalOrFlagsFails(t *testing.T) {
	withWorkingDirVar(t, t.TempDir())

	_, _, err := runCommand(t, "init")
	require.Error(t, err)
	require.Contains(t, err.Error(), "--app-name")
}
