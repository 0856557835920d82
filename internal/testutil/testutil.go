// Package testutil holds helpers shared by tests that exercise installed
// tool binaries via shell stubs.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteStub writes an executable shell stub that exits successfully.
// t is the active test; dir is the output directory; name is the executable file name.
func WriteStub(t *testing.T, dir string, name string) {
	t.Helper()
	WriteStubWithExit(t, dir, name, 0)
}

// WriteStubWithExit writes an executable shell stub that exits with the provided code.
// t is the active test; dir is the output directory; name is the executable file name.
func WriteStubWithExit(t *testing.T, dir string, name string, exitCode int) {
	t.Helper()
	path := filepath.Join(dir, name)
	content := []byte(fmt.Sprintf("#!/bin/sh\nexit %d\n", exitCode))
	if err := os.WriteFile(path, content, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
}

// WriteToolStub writes an executable shell stub that prints stdout and
// stderr text before exiting with the provided code. Either text may be
// empty to silence that stream.
// t is the active test; dir is the output directory; name is the executable file name.
func WriteToolStub(t *testing.T, dir string, name string, stdout string, stderr string, exitCode int) {
	t.Helper()
	path := filepath.Join(dir, name)
	script := "#!/bin/sh\n"
	if stdout != "" {
		script += "printf '%s' " + shellQuote(stdout) + "\n"
	}
	if stderr != "" {
		script += "printf '%s' " + shellQuote(stderr) + " >&2\n"
	}
	script += fmt.Sprintf("exit %d\n", exitCode)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write tool stub: %v", err)
	}
}

// shellQuote wraps s in single quotes so the shell passes it through
// byte-for-byte, newlines included.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// WriteStubExpectArg writes an executable shell stub that succeeds only when expectedArg is present.
// t is the active test; dir is the output directory; name is the executable file name.
func WriteStubExpectArg(t *testing.T, dir string, name string, expectedArg string) {
	t.Helper()
	path := filepath.Join(dir, name)
	content := []byte(fmt.Sprintf("#!/bin/sh\nfor arg in \"$@\"; do\n  if [ \"$arg\" = \"%s\" ]; then exit 0; fi\ndone\nexit 1\n", expectedArg))
	if err := os.WriteFile(path, content, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
}

// WriteInstalledTool lays out <cacheRoot>/packages/<pkg>.<version>/bin/<sdk>/<arch>/<tool>
// as a successful shell stub and returns the tool path.
// t is the active test; the remaining arguments name the placement of the stub.
func WriteInstalledTool(t *testing.T, cacheRoot, pkg, version, sdk, arch, tool string) string {
	t.Helper()
	binDir := filepath.Join(cacheRoot, "packages", pkg+"."+version, "bin", sdk, arch)
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir tool dir: %v", err)
	}
	WriteStub(t, binDir, tool)
	return filepath.Join(binDir, tool)
}

// WithWorkingDir runs fn with dir as the current working directory and restores the previous directory.
// t is the active test; dir is the temporary working directory for fn.
func WithWorkingDir(t *testing.T, dir string, fn func()) {
	t.Helper()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer func() {
		if err := os.Chdir(cwd); err != nil {
			t.Fatalf("restore chdir: %v", err)
		}
	}()
	fn()
}
