//go:build !windows

package exec

import (
	"os/exec"
	"syscall"
)

// configureCommandProcess puts the command in its own process group so
// the agent and anything it spawns can be killed together.
func configureCommandProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// terminateCommandProcess kills the whole process group of a started
// command, falling back to the process alone if the group is gone.
func terminateCommandProcess(cmd *exec.Cmd) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	pid := cmd.Process.Pid
	if pid <= 0 {
		return
	}
	if pgid, err := syscall.Getpgid(pid); err == nil && pgid > 0 {
		_ = syscall.Kill(-pgid, syscall.SIGKILL)
		return
	}
	_ = cmd.Process.Kill()
}
