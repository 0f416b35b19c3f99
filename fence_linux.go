//go:build linux

package rcu

import (
	"golang.org/x/sys/unix"
)

// Linux membarrier(2) commands this package needs. golang.org/x/sys/unix
// exposes the syscall number (SYS_MEMBARRIER) but not these command
// values, since they come from <linux/membarrier.h> rather than the
// generic syscall tables; the numbering is part of the stable Linux
// UAPI.
const (
	membarrierCmdRegisterPrivateExpedited = 1 << 4
	membarrierCmdPrivateExpedited         = 1 << 3
)

func lightFenceImpl() {
	// Compiler-only barrier: nothing to emit. Correctness relies
	// entirely on a concurrent heavyFence.fence() promoting this to a
	// real fence when it matters; see fence.go.
}

type linuxHeavyFence struct{}

func newHeavyFenceImpl() (heavyFence, error) {
	if err := membarrier(membarrierCmdRegisterPrivateExpedited, 0); err != nil {
		return nil, err
	}
	return linuxHeavyFence{}, nil
}

func (linuxHeavyFence) fence() {
	if err := membarrier(membarrierCmdPrivateExpedited, 0); err != nil {
		// The only way a registered, previously-successful command can
		// fail here is a host bug outside this package's control; a
		// correctness-critical fence primitive has nowhere safe to
		// report this to, so there is nothing better to do than panic.
		panic("rcu: membarrier(MEMBARRIER_CMD_PRIVATE_EXPEDITED) failed: " + err.Error())
	}
}

func membarrier(cmd, flags int) error {
	_, _, errno := unix.Syscall(unix.SYS_MEMBARRIER, uintptr(cmd), uintptr(flags), 0)
	if errno != 0 {
		return errno
	}
	return nil
}
