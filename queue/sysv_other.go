//go:build !linux

package queue

import (
	"fmt"
	"runtime"
)

// SysVQueue is unavailable outside Linux; OpenSysVQueue always fails.
// Use MemQueue for in-process tasks and tests on other platforms.
type SysVQueue struct{}

// OpenSysVQueue always fails on non-Linux platforms: SysV message
// queues are a Linux/POSIX kernel facility this module otherwise only
// needs for its real-transport build.
func OpenSysVQueue(key int, perm uint32) (*SysVQueue, error) {
	return nil, fmt.Errorf("queue: SysV message queues are only supported on linux (GOOS=%s)", runtime.GOOS)
}
