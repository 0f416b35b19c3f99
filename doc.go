// Package rcu implements a user-space read-copy-update synchronization
// scheme for shared-nothing readers and rare writers.
//
// A reader brackets the code that dereferences a shared pointer with
// ReadLock/ReadUnlock. That bracket is the cheapest lock in the package:
// on the fast path it costs a relaxed load and store to a
// goroutine-local counter and nothing else — no atomic
// read-modify-write, no system call, no contended cache line, no
// blocking.
//
// A writer that wants to retire an object publishes its replacement,
// calls Synchronize, and only then frees (or otherwise reuses) the old
// object. Synchronize blocks until every critical section that was
// already open when it was called has closed, which is exactly the
// guarantee a writer needs to know nobody can still be looking at the
// old object through a pointer loaded inside one of those sections.
//
// ## Overview
//
// Unlike a reader-writer lock, RCU readers never block a writer and
// never block each other: the "lock" a reader takes is purely local
// bookkeeping. The cost is pushed onto the writer, which must pay for
// one process-wide fence (a Linux membarrier(2) syscall under the
// hood) to promote every reader's cheap compiler-only fence into a
// real memory fence on demand, and then wait for any reader that was
// mid-section to finish and say so.
//
// Because there is no language-level notion of "the current OS
// thread" that survives a goroutine hopping between Ms, this package
// does not use thread-local storage. Instead each participating
// goroutine calls Domain.Join once to obtain a *Participant handle,
// and passes that handle to ReadLock, ReadUnlock and Leave itself.
// This is more verbose than an implicit thread-local would be, but it
// is also what makes the package testable without a real OS thread per
// test case, and it lets a process run more than one independent RCU
// Domain concurrently.
//
// ## Collaborator contract
//
// The package core is deliberately narrow: it knows nothing about what
// a reader dereferences or how a writer allocates and frees. The
// expected protocol, spelled out for anyone wiring their own pointer
// into this scheme (and implemented generically in publish.go for
// convenience):
//
//  1. A publisher stores the new pointer with release ordering.
//  2. A reader loads the pointer with acquire ordering inside an open
//     critical section, and only dereferences it while that section
//     stays open.
//  3. A retirer swaps the old pointer out, calls Synchronize, and only
//     then reclaims the old object.
package rcu
