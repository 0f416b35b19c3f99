package rcu

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishRead(t *testing.T) {
	d := newTestDomain(t)
	p := d.Join()
	defer d.Leave(p)

	var slot atomic.Pointer[int]
	v := 42
	Publish(&slot, &v)

	d.ReadLock(p)
	got := Read(p, &slot)
	d.ReadUnlock(p)

	require.NotNil(t, got)
	assert.Equal(t, 42, *got)
}

func TestRetirePoisonsOnlyAfterGracePeriod(t *testing.T) {
	d := newTestDomain(t)

	var slot atomic.Pointer[int]
	first := 1
	Publish(&slot, &first)

	second := 2
	var poisoned bool
	old := Retire(d, &slot, &second, func(v *int) {
		poisoned = true
		*v = -1
	})

	require.NotNil(t, old)
	assert.Equal(t, 1, *old)
	assert.True(t, poisoned, "poison must run once Retire's internal Synchronize has returned")
	assert.Equal(t, -1, *old)

	got := slot.Load()
	require.NotNil(t, got)
	assert.Equal(t, 2, *got)
}

func TestRetireFirstPublishHasNoPriorValue(t *testing.T) {
	d := newTestDomain(t)

	var slot atomic.Pointer[int]
	v := 1
	var poisonCalled bool
	old := Retire(d, &slot, &v, func(*int) { poisonCalled = true })

	assert.Nil(t, old)
	assert.False(t, poisonCalled, "poison must not run when there was no prior value")
	assert.Equal(t, 1, *slot.Load())
}

func TestRetireWithoutPoisonHook(t *testing.T) {
	d := newTestDomain(t)

	var slot atomic.Pointer[int]
	first := 1
	Publish(&slot, &first)

	second := 2
	old := Retire[int](d, &slot, &second, nil)
	require.NotNil(t, old)
	assert.Equal(t, 1, *old)
}
