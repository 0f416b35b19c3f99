package rcu

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// Participant is a goroutine's handle onto a Domain. A goroutine that
// wants to take read-side critical sections, or ever call Synchronize,
// must first obtain one from Domain.Join and hold onto it for the
// rest of its participation; it must not be shared between goroutines
// or used after Domain.Leave.
//
// The zero value is not a valid Participant; Domain.Join is the only
// constructor.
type Participant struct {
	// nesting is the read-side critical section depth. Zero means
	// this participant is outside any critical section. Owned
	// exclusively by the goroutine holding this handle; Synchronize
	// only ever reads it.
	nesting atomic.Int32

	_ cpu.CacheLinePad

	// needQS is set by a writer at the start of a grace period and
	// cleared by whichever of {writer, owning goroutine} observes
	// this participant quiescent first. See readside.go and
	// synchronize.go for the exchange protocol.
	needQS atomic.Bool

	_ cpu.CacheLinePad

	// next/pprev: registry linkage, mutated only under the owning
	// Domain's gpLock.
	next  *Participant
	pprev **Participant
}
