//go:build unix

package cache

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// helperNice is the niceness increment applied to the helper.
const helperNice = 10

func detachedAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

func lowerPriority(pid int) error {
	return unix.Setpriority(unix.PRIO_PROCESS, pid, helperNice)
}
