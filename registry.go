package rcu

// Join registers the calling goroutine as a participant in d, and
// returns the handle it must pass to every subsequent ReadLock,
// ReadUnlock, and finally Leave call. Join must be called before the
// goroutine's first read-side critical section, and before it ever
// calls Synchronize on d.
//
// Join inserts the new Participant at the head of the registry, so a
// traversal from the head visits participants in reverse join order;
// the order has no bearing on correctness.
func (d *Domain) Join() *Participant {
	p := &Participant{}

	d.gpLock.Lock()
	p.next = d.head
	p.pprev = &d.head
	if d.head != nil {
		d.head.pprev = &p.next
	}
	d.head = p
	d.count++
	d.gpLock.Unlock()

	return p
}

// Leave withdraws p from d's registry. The caller must not be holding
// any read-side critical section on p, and p must have no outstanding
// quiescence request pending (that is, it must not be in the middle of
// reporting itself to a concurrent Synchronize); calling Leave from
// inside ReadLock/ReadUnlock is a caller bug.
//
// A concurrent Synchronize that has already snapshotted the registry
// before Leave runs is unaffected: Leave and Synchronize both serialize
// on gpLock, so Leave either fully precedes a given grace period's scan
// (in which case that grace period never sees p) or fully follows it.
func (d *Domain) Leave(p *Participant) {
	d.gpLock.Lock()
	*p.pprev = p.next
	if p.next != nil {
		p.next.pprev = p.pprev
	}
	d.count--
	d.gpLock.Unlock()

	p.next = nil
	p.pprev = nil
}
