package rcu

import "sync/atomic"

// waitChan is the futex-like wait-while-equal / wake-all channel that
// Synchronize sleeps on while waiting for the last holdout, and that
// reportQuiescence uses to wake it. It is always bound to a single
// *atomic.Uint32 word (Domain.holdouts) for the lifetime of a Domain.
type waitChan interface {
	// wait blocks while the bound word still equals expected. It may
	// return spuriously; callers must re-check the word themselves.
	wait(expected uint32)
	// wake wakes every goroutine currently blocked in wait.
	wake()
}
