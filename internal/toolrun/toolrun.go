// Package toolrun executes located tool binaries as child processes and
// captures what they write.
package toolrun

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/winappkit/winapp/internal/messages"
)

// Result holds the outcome of one tool invocation. It is produced once per
// run and never mutated afterwards.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// ExecError reports a tool that ran but exited non-zero. The captured
// streams are carried verbatim for caller inspection.
type ExecError struct {
	Path     string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *ExecError) Error() string {
	return fmt.Sprintf(messages.ToolRunExitFmt, filepath.Base(e.Path), e.ExitCode)
}

// Runner executes tool binaries.
type Runner struct {
	// Diag receives captured stderr on failure when printErrors is set.
	// os.Stderr when nil.
	Diag io.Writer
	// Env is merged over the parent environment for every run.
	Env map[string]string
}

// Run executes the binary at toolPath with args and captures both output
// streams concurrently while the process runs, so output of any size cannot
// back up the pipes. Captured bytes are kept verbatim. Both streams are
// fully drained before the process is awaited.
//
// A non-zero exit yields the populated Result plus an *ExecError. When
// printErrors is true the captured stderr is also written to the Diag
// writer; when false it only travels inside the error. Cancellation of ctx
// kills the child and surfaces ctx's error.
func (r *Runner) Run(ctx context.Context, toolPath string, args []string, printErrors bool) (Result, error) {
	if strings.TrimSpace(toolPath) == "" {
		return Result{}, errors.New(messages.ToolRunPathRequired)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cmd := exec.CommandContext(ctx, toolPath, args...)
	cmd.Env = mergedEnv(os.Environ(), r.Env)
	applyCommandLine(cmd, toolPath, args)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return Result{}, fmt.Errorf(messages.ToolRunStdoutFmt, filepath.Base(toolPath), err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return Result{}, fmt.Errorf(messages.ToolRunStderrFmt, filepath.Base(toolPath), err)
	}

	if err := cmd.Start(); err != nil {
		return Result{}, fmt.Errorf(messages.ToolRunStartFmt, filepath.Base(toolPath), err)
	}

	var stdout, stderr strings.Builder
	var wg sync.WaitGroup
	wg.Add(2)
	go drainStream(&wg, stdoutPipe, &stdout)
	go drainStream(&wg, stderrPipe, &stderr)
	wg.Wait()

	waitErr := cmd.Wait()
	result := Result{
		ExitCode: cmd.ProcessState.ExitCode(),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}

	if ctx.Err() != nil {
		return result, ctx.Err()
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return result, waitErr
		}
		if printErrors {
			r.printDiag(result.Stderr)
		}
		return result, &ExecError{
			Path:     toolPath,
			ExitCode: result.ExitCode,
			Stdout:   result.Stdout,
			Stderr:   result.Stderr,
		}
	}
	return result, nil
}

// drainStream copies reader into builder until EOF. A raw copy keeps the
// captured bytes verbatim and never stops reading mid-stream, so the child
// cannot block on a full pipe regardless of how long its lines are.
func drainStream(wg *sync.WaitGroup, reader io.Reader, builder *strings.Builder) {
	defer wg.Done()
	_, _ = io.Copy(builder, reader)
}

func (r *Runner) printDiag(stderrText string) {
	diag := r.Diag
	if diag == nil {
		diag = os.Stderr
	}
	if stderrText == "" {
		return
	}
	_, _ = io.WriteString(diag, stderrText)
}

// mergedEnv layers extra over base, replacing duplicates.
func mergedEnv(base []string, extra map[string]string) []string {
	if len(extra) == 0 {
		return base
	}
	merged := make([]string, 0, len(base)+len(extra))
	for _, kv := range base {
		key := kv
		if idx := strings.Index(kv, "="); idx >= 0 {
			key = kv[:idx]
		}
		if _, replaced := extra[key]; replaced {
			continue
		}
		merged = append(merged, kv)
	}
	for key, value := range extra {
		merged = append(merged, key+"="+value)
	}
	return merged
}
