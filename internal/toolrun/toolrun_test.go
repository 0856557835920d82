package toolrun

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/winappkit/winapp/internal/testutil"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
}

func TestRunCapturesStdoutAndStderr(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	testutil.WriteToolStub(t, dir, "makeappx", "pack succeeded\n", "note: verbose off\n", 0)

	runner := &Runner{}
	result, err := runner.Run(context.Background(), filepath.Join(dir, "makeappx"), nil, false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.ExitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", result.ExitCode)
	}
	if result.Stdout != "pack succeeded\n" {
		t.Fatalf("unexpected stdout %q", result.Stdout)
	}
	if result.Stderr != "note: verbose off\n" {
		t.Fatalf("unexpected stderr %q", result.Stderr)
	}
}

func TestRunNonZeroExitYieldsExecError(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	testutil.WriteToolStub(t, dir, "signtool", "", "SignTool Error: no certificate\n", 3)

	runner := &Runner{}
	result, err := runner.Run(context.Background(), filepath.Join(dir, "signtool"), []string{"sign"}, false)
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	var execErr *ExecError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected *ExecError, got %T", err)
	}
	if execErr.ExitCode != 3 {
		t.Fatalf("expected exit code 3, got %d", execErr.ExitCode)
	}
	if execErr.Stderr != "SignTool Error: no certificate\n" {
		t.Fatalf("unexpected stderr %q", execErr.Stderr)
	}
	if result.ExitCode != 3 {
		t.Fatalf("result exit code should match, got %d", result.ExitCode)
	}
	if !strings.Contains(execErr.Error(), "signtool") {
		t.Fatalf("error should name the tool, got %q", execErr.Error())
	}
	if !strings.Contains(execErr.Error(), "3") {
		t.Fatalf("error should carry the exit code, got %q", execErr.Error())
	}
}

func TestRunPrintErrorsWritesStderrToDiag(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	testutil.WriteToolStub(t, dir, "mt", "", "manifest error\n", 1)

	var diag strings.Builder
	runner := &Runner{Diag: &diag}
	_, err := runner.Run(context.Background(), filepath.Join(dir, "mt"), nil, true)
	if err == nil {
		t.Fatal("expected error")
	}
	if diag.String() != "manifest error\n" {
		t.Fatalf("expected stderr forwarded to diag, got %q", diag.String())
	}
}

func TestRunPrintErrorsFalseKeepsDiagQuiet(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	testutil.WriteToolStub(t, dir, "mt", "", "manifest error\n", 1)

	var diag strings.Builder
	runner := &Runner{Diag: &diag}
	_, err := runner.Run(context.Background(), filepath.Join(dir, "mt"), nil, false)
	if err == nil {
		t.Fatal("expected error")
	}
	if diag.String() != "" {
		t.Fatalf("expected no diag output, got %q", diag.String())
	}
}

func TestRunMergesExtraEnvironment(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	script := "#!/bin/sh\nprintf '%s' \"$WINAPP_SIGNING_PROFILE\"\n"
	if err := os.WriteFile(filepath.Join(dir, "envtool"), []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	runner := &Runner{Env: map[string]string{"WINAPP_SIGNING_PROFILE": "release"}}
	result, err := runner.Run(context.Background(), filepath.Join(dir, "envtool"), nil, false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Stdout != "release" {
		t.Fatalf("expected injected env value, got %q", result.Stdout)
	}
}

func TestRunCapturesOutputVerbatim(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	script := "#!/bin/sh\nprintf 'Processing.\\r\\n50%%\\r100%%'\n"
	if err := os.WriteFile(filepath.Join(dir, "progress"), []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	runner := &Runner{}
	result, err := runner.Run(context.Background(), filepath.Join(dir, "progress"), nil, false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Stdout != "Processing.\r\n50%\r100%" {
		t.Fatalf("carriage returns and missing final newline must survive, got %q", result.Stdout)
	}
}

func TestRunLargeOutputDoesNotDeadlock(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	lines := 20000
	script := fmt.Sprintf("#!/bin/sh\ni=0\nwhile [ $i -lt %d ]; do\n  echo \"line $i\"\n  i=$((i+1))\ndone\n", lines)
	if err := os.WriteFile(filepath.Join(dir, "chatty"), []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	runner := &Runner{}
	result, err := runner.Run(context.Background(), filepath.Join(dir, "chatty"), nil, false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	got := strings.Count(result.Stdout, "\n")
	if got != lines {
		t.Fatalf("expected %d lines captured, got %d", lines, got)
	}
}

func TestRunSingleLineBeyondMegabyteDoesNotDeadlock(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	const lineBytes = 2 * 1024 * 1024
	script := fmt.Sprintf("#!/bin/sh\nhead -c %d /dev/zero | tr '\\0' 'x'\necho\n", lineBytes)
	if err := os.WriteFile(filepath.Join(dir, "verbose"), []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	runner := &Runner{}
	result, err := runner.Run(ctx, filepath.Join(dir, "verbose"), nil, false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Stdout) != lineBytes+1 {
		t.Fatalf("expected %d bytes captured, got %d", lineBytes+1, len(result.Stdout))
	}
}

func TestRunCancelledContextKillsChild(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	script := "#!/bin/sh\nexec sleep 30\n"
	if err := os.WriteFile(filepath.Join(dir, "slow"), []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	runner := &Runner{}
	start := time.Now()
	_, err := runner.Run(ctx, filepath.Join(dir, "slow"), nil, false)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context deadline error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("child not killed promptly, took %v", elapsed)
	}
}

func TestRunMissingBinaryFailsWithoutExecError(t *testing.T) {
	runner := &Runner{}
	_, err := runner.Run(context.Background(), filepath.Join(t.TempDir(), "absent"), nil, false)
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	var execErr *ExecError
	if errors.As(err, &execErr) {
		t.Fatalf("missing binary must not look like a tool failure, got %v", err)
	}
}

func TestRunEmptyPathRejected(t *testing.T) {
	runner := &Runner{}
	_, err := runner.Run(context.Background(), "  ", nil, false)
	if err == nil {
		t.Fatal("expected error for blank path")
	}
}

func TestQuoteArgs(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want string
	}{
		{"plain", []string{"pack", "/o"}, "pack /o"},
		{"spaces", []string{"/p", `C:\out dir\app.msix`}, `/p "C:\out dir\app.msix"`},
		{"embedded quote", []string{`say "hi"`}, `"say \"hi\""`},
		{"trailing backslash", []string{`C:\path\`}, `C:\path\`},
		{"trailing backslash quoted", []string{`C:\path with space\`}, `"C:\path with space\\"`},
		{"empty arg", []string{""}, `""`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := QuoteArgs(tc.args); got != tc.want {
				t.Fatalf("QuoteArgs(%q) = %q, want %q", tc.args, got, tc.want)
			}
		})
	}
}
