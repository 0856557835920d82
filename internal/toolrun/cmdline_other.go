//go:build !windows

package toolrun

import "os/exec"

func applyCommandLine(_ *exec.Cmd, _ string, _ []string) {}
