//go:build linux

package rcu

import (
	"math"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	futexWait = 0
	futexWake = 1
)

type linuxWaitChan struct {
	word *atomic.Uint32
}

func newWaitChan(word *atomic.Uint32) waitChan {
	return &linuxWaitChan{word: word}
}

func (c *linuxWaitChan) wait(expected uint32) {
	_, _, errno := unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(c.word)),
		uintptr(futexWait),
		uintptr(expected),
		0, 0, 0,
	)
	switch errno {
	case 0, unix.EAGAIN, unix.EINTR:
		// EAGAIN: the word changed between our caller's load and this
		// syscall — benign, the caller re-checks. EINTR: benign per
		// spec.md §4.7; Synchronize's wait loop simply re-reads the
		// word and calls wait again if it's still equal.
		return
	default:
		// No other futex(2) error is expected for FUTEX_WAIT on a
		// private word we fully own; a correctness-critical wait
		// primitive has no sensible fallback at this point.
		panic("rcu: futex wait failed: " + errno.Error())
	}
}

func (c *linuxWaitChan) wake() {
	_, _, errno := unix.Syscall6(
		unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(c.word)),
		uintptr(futexWake),
		uintptr(math.MaxInt32),
		0, 0, 0,
	)
	if errno != 0 && errno != unix.EAGAIN {
		panic("rcu: futex wake failed: " + errno.Error())
	}
}
