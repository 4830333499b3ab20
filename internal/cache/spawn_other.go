//go:build !unix

package cache

import "syscall"

func detachedAttr() *syscall.SysProcAttr {
	return nil
}

func lowerPriority(int) error {
	return nil
}
