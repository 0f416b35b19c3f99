package rcu

import "sync/atomic"

// Publish stores v into slot with release ordering, making it visible
// to any reader that subsequently loads slot with Read inside an open
// critical section. This is the "publisher" half of the collaborator
// contract from spec.md §6.
func Publish[T any](slot *atomic.Pointer[T], v *T) {
	slot.Store(v)
}

// Read loads slot with acquire ordering. The caller must be inside an
// open read-side critical section on p for the duration it keeps
// dereferencing the result — once ReadUnlock(p) returns, any pointer
// obtained from Read while that section was open may be concurrently
// reclaimed by a writer's Retire.
//
// The source implementation this package is modeled on treats this as
// a C11 consume load, relying on the compiler not breaking the address
// dependency from the load to the dereference. Go gives no dependable
// consume ordering, so per spec.md §9 this is implemented as a full
// acquire load instead — correct, at a small cost on weak-memory
// hardware relative to a true consume load.
func Read[T any](p *Participant, slot *atomic.Pointer[T]) *T {
	return slot.Load()
}

// Retire swaps v into slot, releases it to readers, waits out the
// grace period on d, and then — once no reader can still be observing
// the old value through a pointer loaded inside a critical section
// that predates this call — invokes poison (if non-nil) on the value
// slot held before the swap. poison is the caller's hook for anything
// from marking the value as retired for testing (spec.md §8's
// SENTINEL scenario) to returning it to an allocator; Retire itself
// knows nothing about reclamation, matching spec.md §1's exclusion of
// the allocator from the core's scope.
//
// If slot held nil before the swap, Retire returns nil at once: it does
// not wait for a grace period and does not call poison.
//
// The old value is returned in addition to being passed to poison, in
// case the caller wants to do more with it than poison's signature
// allows for (for instance, returning it to a sync.Pool after
// poisoning it for a test).
func Retire[T any](d *Domain, slot *atomic.Pointer[T], v *T, poison func(*T)) *T {
	old := slot.Swap(v)
	if old == nil {
		return nil
	}
	d.Synchronize()
	if poison != nil {
		poison(old)
	}
	return old
}
