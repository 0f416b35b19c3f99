package rcu

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Domain is an independent RCU domain: the registry of joined
// Participants, the grace-period lock, and the holdout counter a
// grace period waits on. A process may construct more than one Domain;
// they never share state.
//
// Domain replaces the source implementation's single process-wide
// global (see the design notes in SPEC_FULL.md) with an explicit
// handle, which is what makes the package testable without relying on
// package-level mutable state surviving across test cases.
type Domain struct {
	gpLock sync.Mutex

	// head/count: registry state, mutated only under gpLock.
	head  *Participant
	count int

	// holdouts is the wait-channel word: during a grace period it
	// counts the participants Synchronize has not yet confirmed
	// quiescent; outside one, its value is stale and ignored.
	holdouts atomic.Uint32

	heavyFence heavyFence
	waitChan   waitChan
}

// NewDomain constructs a Domain, registering the process with the
// host's asymmetric-fence facility. Registration failure (for
// instance, because the kernel does not support private-expedited
// membarrier) is returned as an error; the caller must not use the
// returned Domain, or call any other operation on it, if NewDomain
// fails.
//
// NewDomain does not need to be called more than once per Domain, and
// multiple Domains may coexist in the same process.
func NewDomain() (*Domain, error) {
	hf, err := newHeavyFence()
	if err != nil {
		return nil, fmt.Errorf("rcu: registering asymmetric fence: %w", err)
	}

	d := &Domain{
		heavyFence: hf,
	}
	d.waitChan = newWaitChan(&d.holdouts)
	return d, nil
}
