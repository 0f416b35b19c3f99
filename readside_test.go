package rcu

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReadLockUnlockBasic(t *testing.T) {
	d := newTestDomain(t)
	p := d.Join()
	defer d.Leave(p)

	assert.EqualValues(t, 0, p.nesting.Load())
	d.ReadLock(p)
	assert.EqualValues(t, 1, p.nesting.Load())
	d.ReadUnlock(p)
	assert.EqualValues(t, 0, p.nesting.Load())
}

// TestNestingDoesNotDoubleCountHoldouts checks the nesting bookkeeping
// behind P4 from spec.md §8: three nested entries raise nesting to 3,
// inner exits only lower it, and with no grace period in progress no
// exit leaves needQS set. It runs no concurrent grace period itself.
func TestNestingDoesNotDoubleCountHoldouts(t *testing.T) {
	d := newTestDomain(t)
	p := d.Join()
	defer d.Leave(p)

	d.ReadLock(p)
	d.ReadLock(p)
	d.ReadLock(p)
	assert.EqualValues(t, 3, p.nesting.Load())

	d.ReadUnlock(p)
	d.ReadUnlock(p)
	assert.EqualValues(t, 1, p.nesting.Load())
	// needQS was never set (no concurrent grace period), so the inner
	// exits must not have touched holdouts at all.
	assert.False(t, p.needQS.Load())

	d.ReadUnlock(p)
	assert.EqualValues(t, 0, p.nesting.Load())
}

// TestNestedReaderBlocksGracePeriod is scenario 3 from spec.md §8: a
// reader enters twice, a writer concurrently calls Synchronize, and
// the writer must not observe the grace period complete until the
// reader has exited both the inner and outer sections.
func TestNestedReaderBlocksGracePeriod(t *testing.T) {
	d := newTestDomain(t)
	reader := d.Join()
	defer d.Leave(reader)
	writer := d.Join()
	defer d.Leave(writer)

	d.ReadLock(reader)
	d.ReadLock(reader)

	gpDone := make(chan struct{})
	go func() {
		d.Synchronize()
		close(gpDone)
	}()

	// Give the writer a chance to observe the reader as non-quiescent;
	// this is a timing-sensitive "best effort" check, not a proof —
	// the real assertion is the ordering below.
	select {
	case <-gpDone:
		t.Fatal("Synchronize returned before the nested reader exited its outer section")
	case <-time.After(20 * time.Millisecond):
	}

	d.ReadUnlock(reader)

	select {
	case <-gpDone:
		t.Fatal("Synchronize returned after only the inner exit")
	case <-time.After(20 * time.Millisecond):
	}

	d.ReadUnlock(reader)
	<-gpDone
}

// TestManyReadersConcurrentGracePeriods exercises many goroutines
// opening and closing nested critical sections while grace periods run
// continuously, as a looser version of spec.md §8 scenario 2.
func TestManyReadersConcurrentGracePeriods(t *testing.T) {
	d := newTestDomain(t)
	const readers = 32
	const iterations = 2000

	var wg sync.WaitGroup

	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := d.Join()
			defer d.Leave(p)
			for j := 0; j < iterations; j++ {
				d.ReadLock(p)
				d.ReadLock(p)
				d.ReadUnlock(p)
				d.ReadUnlock(p)
			}
		}()
	}

	writer := d.Join()
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			d.Synchronize()
		}
	}()

	wg.Wait()
	d.Leave(writer)
}
