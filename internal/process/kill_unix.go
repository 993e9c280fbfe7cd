//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// Configure starts cmd in its own process group so the whole tree can be
// signalled at once.
func Configure(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true
}

// Terminate asks a process group to exit by sending SIGTERM.
func Terminate(pid int) error {
	return syscall.Kill(-pid, syscall.SIGTERM)
}

// KillProcessGroup kills a process and all its children by sending SIGKILL
// to the process group (negative PID).
func KillProcessGroup(pid int) {
	// Best-effort; callers still Wait on the command.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
