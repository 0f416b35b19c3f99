package rcu

// Synchronize blocks until every read-side critical section that was
// already open on d when Synchronize was called has closed. A writer
// that swaps out a shared pointer, calls Synchronize, and only then
// reclaims the old value is guaranteed no reader can still observe it
// through a load performed inside a critical section that started
// before Synchronize returns.
//
// Synchronize cannot fail. It blocks as long as any participant that
// was mid-section at its start stays there — by design, since that's
// exactly the condition a grace period exists to wait out.
//
// The calling goroutine must not itself be a participant with an open
// read-side critical section on this Domain; doing so deadlocks
// waiting on its own nesting counter, and is a caller bug spec.md
// §4.4 explicitly does not ask implementations to detect.
func (d *Domain) Synchronize() {
	d.gpLock.Lock()
	defer d.gpLock.Unlock()

	// Arm: snapshot the registry size and arm the holdout counter for
	// this grace period.
	count := uint32(d.count)
	d.holdouts.Store(count)

	// Fence E: synchronizes-with fence D via the writes to needQS
	// below, so a reader reporting itself quiescent observes this
	// grace period's holdouts count rather than a stale one.
	releaseFence()

	for p := d.head; p != nil; p = p.next {
		p.needQS.Store(true)
	}

	// Fence F: pairs with fences A and C.
	//   - Pairing with A: if our read of nesting below reads-before a
	//     given ReadLock, everything preceding this grace period
	//     happens-before that critical section.
	//   - Pairing with C: prevents store buffering between this fence
	//     and a reader's own fence C — either we observe the reader's
	//     store to nesting in the scan below, or the reader observes
	//     our store to needQS above.
	// It also discharges requirement 1 from spec.md §4.5 (at least one
	// SC fence runs on the writer's thread during this grace period)
	// and the SC-fence half of requirement 2.i for any reader it
	// happens-before.
	d.heavyFence.fence()

	var quiescent uint32
	for p := d.head; p != nil; p = p.next {
		if p.nesting.Load() == 0 {
			if p.needQS.CompareAndSwap(true, false) {
				// p was quiescent; we now own reporting it.
				quiescent++
			}
		}
	}

	if quiescent > 0 {
		// Fence G: pairs with fence B, discharging the SC-fence half
		// of requirement 2.ii — if we claimed responsibility for a
		// participant above, we also observe every access inside the
		// critical section it just closed.
		d.heavyFence.fence()
		d.holdouts.Add(^(quiescent - 1)) // holdouts -= quiescent
	}

	if quiescent != count {
		// Some participants have to report themselves; wait for the
		// last one.
		for {
			h := d.holdouts.Load()
			if h == 0 {
				break
			}
			d.waitChan.wait(h)
		}

		// Fence H: synchronizes-with fence D via the holdouts
		// decrements we waited on, discharging the SC-fence half of
		// requirement 2.ii for every participant we waited for rather
		// than claimed ourselves.
		scFence()
	}
}
