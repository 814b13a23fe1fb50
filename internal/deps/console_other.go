//go:build !windows

package deps

import "os/exec"

// hideConsole is a no-op: only Windows opens a console for child processes.
func hideConsole(*exec.Cmd) {}
