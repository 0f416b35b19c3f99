package rcu

// ReadLock opens (or re-opens, if nested) a read-side critical section
// on p. Critical sections nest: an inner ReadLock/ReadUnlock pair costs
// only a relaxed load/store pair and a fence, never an atomic
// read-modify-write — nesting is single-writer, mutated only by the
// goroutine that owns p, so there is no concurrent writer to race
// against. Only the outermost ReadUnlock checks whether a writer is
// waiting on this participant.
//
// The caller must not call Synchronize on the same Domain while p has
// an open critical section — that goroutine would be waiting for its
// own nesting counter to drop to a value it can never reach on its
// own. This is a caller bug and is not detected.
func (d *Domain) ReadLock(p *Participant) {
	n := p.nesting.Load()
	p.nesting.Store(n + 1)

	// Fence A: pairs with fence F in Synchronize. If a grace period's
	// read of p.nesting reads-before this increment, everything that
	// preceded the grace period happens-before this critical section.
	lightFence()
}

// ReadUnlock closes a read-side critical section previously opened
// with ReadLock on the same p.
func (d *Domain) ReadUnlock(p *Participant) {
	// Fence B: pairs with fence G in Synchronize. If a concurrent
	// Synchronize observes the post-decrement zero below and claims
	// responsibility for reporting p quiescent, everything in this
	// critical section happens-before the end of that grace period.
	lightFence()

	n := p.nesting.Load()
	p.nesting.Store(n - 1)

	if n-1 == 0 {
		// Fence C: pairs with fence F in Synchronize, preventing store
		// buffering: either Synchronize observes our store to nesting
		// above this fence, or we observe its store to needQS above
		// its own fence F.
		lightFence()

		if p.needQS.Load() {
			d.reportQuiescence(p)
		}
	}
}

// reportQuiescence is called from ReadUnlock, on a top-level exit,
// when needQS is still observed set. It implements
// rcu_read_unlock_report_qs from spec.md §4.6.
func (d *Domain) reportQuiescence(p *Participant) {
	if !p.needQS.CompareAndSwap(true, false) {
		// The writer already noticed we were quiescent and claimed
		// responsibility for us via fence G; nothing left to do here.
		return
	}

	// Fence D: synchronizes-with fence E (via this exchange of needQS)
	// and with fence H (via the decrement below), ensuring we observe
	// at least the current grace period's holdouts count and that this
	// critical section happens-before the grace period's return.
	//
	// spec.md §9 mandates acq_rel here rather than seq_cst: the SC
	// requirement on the writer's own thread is supplied by fences F,
	// G, and H, never by D.
	acqRelFence()

	if d.holdouts.Add(^uint32(0)) == 0 {
		// We were the last holdout for this grace period.
		d.waitChan.wake()
	}
}
