//go:build !linux

package rcu

import (
	"sync"
	"sync/atomic"
)

// condWaitChan emulates the futex wait-while-equal / wake-all contract
// with a sync.Mutex/sync.Cond pair, for hosts without a Linux futex.
// Matches the bucket-and-condvar shape used elsewhere in the ecosystem
// for futex emulation: lock, double-check the word under the lock so a
// wake that raced ahead of us is never missed, then Wait.
type condWaitChan struct {
	word *atomic.Uint32
	mu   sync.Mutex
	cond *sync.Cond
}

func newWaitChan(word *atomic.Uint32) waitChan {
	c := &condWaitChan{word: word}
	c.cond = sync.NewCond(&c.mu)
	return c
}

func (c *condWaitChan) wait(expected uint32) {
	c.mu.Lock()
	if c.word.Load() == expected {
		c.cond.Wait()
	}
	c.mu.Unlock()
}

func (c *condWaitChan) wake() {
	c.mu.Lock()
	c.cond.Broadcast()
	c.mu.Unlock()
}
