//go:build windows

// Package process stops browser process trees left behind by a launcher.
package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup force-kills pid and its children with taskkill. It
// reports false without running taskkill for invalid pids.
func KillProcessGroup(pid int) bool {
	if pid <= 1 {
		return false
	}
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run() // #nosec G204 -- numeric pid
	return true
}
