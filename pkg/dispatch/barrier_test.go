package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalWithNoWaiters(t *testing.T) {
	d := NewTaskDispatcher(NewManualClock(0).Now, nil)
	b := NewEventBarrier(d)

	assert.False(t, b.Signal())
	assert.Same(t, d, b.Dispatcher())
}

func TestWhenFiresOnceThenIdles(t *testing.T) {
	clock := NewManualClock(0)
	d := NewTaskDispatcher(clock.Now, NewDynamicContextPool(0))
	b := NewEventBarrier(d)

	fired := 0
	c := b.When(Func(func() { fired++ }), nil)
	require.NotNil(t, c)
	require.True(t, c.IsPending())

	require.True(t, b.Signal())
	require.True(t, d.Run())
	assert.Equal(t, 1, fired)
	assert.False(t, c.IsPending(), "one-shot waiter goes idle after firing")

	// A later signal has nothing to release.
	assert.False(t, b.Signal())
}

func TestWheneverFiresPerSignal(t *testing.T) {
	clock := NewManualClock(0)
	d := NewTaskDispatcher(clock.Now, NewDynamicContextPool(0))
	b := NewEventBarrier(d)

	fired := 0
	c := b.Whenever(Func(func() { fired++ }), nil)
	require.NotNil(t, c)

	require.True(t, b.Signal())
	require.True(t, d.Run())
	require.True(t, b.Signal())
	require.True(t, d.Run())
	assert.Equal(t, 2, fired)

	// Re-parked on the barrier: without another signal nothing is due.
	assert.False(t, d.Run())
	assert.True(t, c.IsPending())
	assert.True(t, b.contains(c))
}

func TestSignalBeforeWaiterIsLost(t *testing.T) {
	clock := NewManualClock(0)
	d := NewTaskDispatcher(clock.Now, NewDynamicContextPool(0))
	b := NewEventBarrier(d)

	// Signals do not queue up: with the sole waiter already released, the
	// second signal finds an empty barrier.
	fired := 0
	b.Whenever(Func(func() { fired++ }), nil)

	assert.True(t, b.Signal())
	assert.False(t, b.Signal())
	require.True(t, d.Run())
	assert.False(t, d.Run())
	assert.Equal(t, 1, fired)
}

func TestSignalAllReleasesFIFO(t *testing.T) {
	clock := NewManualClock(0)
	d := NewTaskDispatcher(clock.Now, nil)
	b := NewEventBarrier(d)

	var order []string
	for _, name := range []string{"a", "b", "c"} {
		b.WhenContext(NewTaskContext(Func(func() {
			order = append(order, name)
		}), nil))
	}

	b.SignalAll()
	for d.Run() {
	}
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestWheneverReparksBehindNewWaiters(t *testing.T) {
	clock := NewManualClock(0)
	d := NewTaskDispatcher(clock.Now, nil)
	b := NewEventBarrier(d)

	var order []string
	repeating := NewTaskContext(Func(func() { order = append(order, "repeating") }), nil)
	b.WheneverContext(repeating)

	require.True(t, b.Signal())

	// A one-shot arrives while the repeating waiter is off being fired; the
	// re-park goes to the tail, behind it.
	oneShot := NewTaskContext(Func(func() { order = append(order, "one-shot") }), nil)
	b.WhenContext(oneShot)

	require.True(t, d.Run()) // fires repeating, re-parks it last
	require.True(t, b.Signal())
	require.True(t, d.Run())

	assert.Equal(t, []string{"repeating", "one-shot"}, order)
	assert.True(t, repeating.IsPending())
}

func TestWhenDedupsAcrossDispatcher(t *testing.T) {
	clock := NewManualClock(0)
	d := NewTaskDispatcher(clock.Now, NewDynamicContextPool(0))
	b := NewEventBarrier(d)

	target := Func(func() {})
	scheduled := d.CallAfter(50, target, nil)
	require.NotNil(t, scheduled)

	waiter := b.When(target, nil)
	require.NotNil(t, waiter)

	assert.False(t, scheduled.IsPending(), "pool-based when cancels same-target work")
	assert.True(t, waiter.IsPending())
}

func TestWaitTimesOut(t *testing.T) {
	var now Ticks
	timing := func() Ticks {
		now++
		return now
	}
	d := NewTaskDispatcher(timing, nil)
	b := NewEventBarrier(d)

	start := now
	ok := b.Wait(50)

	assert.False(t, ok)
	assert.GreaterOrEqual(t, int32(now-start), int32(50))
	assert.Empty(t, collect(&b.TaskQueue), "timed-out waiter is cancelled")
}

func TestWaitReturnsOnSignal(t *testing.T) {
	var now Ticks
	timing := func() Ticks {
		now++
		return now
	}
	d := NewTaskDispatcher(timing, nil)
	b := NewEventBarrier(d)

	trigger := NewTaskContext(Func(func() { b.Signal() }), nil)
	d.CallAfterContext(trigger, 10)

	assert.True(t, b.Wait(Forever))
	assert.Empty(t, collect(&b.TaskQueue))
}

func TestWaitZeroStillRunsDispatcherOnce(t *testing.T) {
	var now Ticks
	timing := func() Ticks {
		now++
		return now
	}
	d := NewTaskDispatcher(timing, nil)
	b := NewEventBarrier(d)

	ran := false
	d.CallAfterContext(NewTaskContext(Func(func() { ran = true }), nil), 0)

	assert.False(t, b.Wait(0))
	assert.True(t, ran, "the loop gets at least one step before the timeout check")
}

func TestWheneverStateCycle(t *testing.T) {
	clock := NewManualClock(0)
	d := NewTaskDispatcher(clock.Now, nil)
	b := NewEventBarrier(d)

	c := NewTaskContext(Func(func() {}), nil)

	// idle -> parked
	b.WheneverContext(c)
	assert.True(t, b.contains(c))

	// parked -> ready on dispatcher
	require.True(t, b.Signal())
	assert.False(t, b.contains(c))
	assert.True(t, d.contains(c))

	// ready -> fired -> re-parked
	require.True(t, d.Run())
	assert.True(t, b.contains(c))

	// re-parked -> idle
	c.Cancel()
	assert.False(t, c.IsPending())
}
