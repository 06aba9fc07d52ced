//go:build !windows

// Package process stops browser process trees left behind by a launcher.
package process

import "syscall"

// KillProcessGroup sends SIGKILL to the process group led by pid. It
// reports false without signalling when pid cannot lead a child group.
func KillProcessGroup(pid int) bool {
	if pid <= 1 {
		return false
	}
	// launcher.Kill is the fallback, so the error is not surfaced.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
	return true
}
