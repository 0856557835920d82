package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/winappkit/winapp/internal/messages"
	"github.com/winappkit/winapp/internal/toolrun"
)

var executeFunc = execute
var getwd = os.Getwd

// Version, Commit, and BuildDate are overridden at build time.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	runMain(os.Args, os.Stdout, os.Stderr, os.Exit)
}

// SilentExitError reports an exit code without emitting error output.
type SilentExitError struct {
	Code int
}

func (e *SilentExitError) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}

// execute runs the CLI command with the provided args and output writers.
func execute(args []string, stdout io.Writer, stderr io.Writer) error {
	cmd := newRootCmd()
	cmd.Version = versionString()
	cmd.SetVersionTemplate(messages.VersionTemplate)
	if len(args) > 1 {
		cmd.SetArgs(args[1:])
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.Execute()
}

// runMain executes the CLI and maps error types to process exit codes. Any
// failure exits 1; a failed tool invocation stays quiet here because its
// diagnostics were already streamed by the runner.
func runMain(args []string, stdout io.Writer, stderr io.Writer, exit func(int)) {
	err := executeFunc(args, stdout, stderr)
	if err == nil {
		return
	}
	code, printErr := exitCodeFor(err)
	if printErr {
		_, _ = fmt.Fprintln(stderr, err)
	}
	exit(code)
}

// exitCodeFor picks the process exit code for err and reports whether the
// error should still be printed to stderr. Tool failures already carried
// their own diagnostics, so they exit without extra output.
func exitCodeFor(err error) (code int, printErr bool) {
	var silent *SilentExitError
	var toolErr *toolrun.ExecError
	switch {
	case errors.As(err, &silent):
		return silent.Code, false
	case errors.As(err, &toolErr):
		return 1, false
	default:
		return 1, true
	}
}

// versionString formats Version with any build metadata the linker stamped in.
func versionString() string {
	var meta []string
	if known(Commit) {
		meta = append(meta, fmt.Sprintf(messages.VersionCommitFmt, Commit))
	}
	if known(BuildDate) {
		meta = append(meta, fmt.Sprintf(messages.VersionBuildFmt, BuildDate))
	}
	if len(meta) == 0 {
		return Version
	}
	return fmt.Sprintf(messages.VersionFullFmt, Version, strings.Join(meta, ", "))
}

func known(value string) bool {
	return value != "" && value != "unknown"
}
