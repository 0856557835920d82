//go:build windows

package toolrun

import (
	"os/exec"
	"syscall"
)

// applyCommandLine hands Windows the full command line as one string so the
// child's argument splitting matches what QuoteArgs produced.
func applyCommandLine(cmd *exec.Cmd, toolPath string, args []string) {
	line := quoteArg(toolPath)
	if len(args) > 0 {
		line += " " + QuoteArgs(args)
	}
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.CmdLine = line
}
