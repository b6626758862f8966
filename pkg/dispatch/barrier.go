// pkg/dispatch/barrier.go

package dispatch

// Forever disables the timeout in EventBarrier.Wait.
const Forever int32 = -1

// EventBarrier is a logical event: a TaskQueue that parks waiters until
// Signal releases them through the owning dispatcher. Barriers register
// themselves on the dispatcher's subqueue chain at construction, so bulk
// cancellation on the dispatcher reaches parked waiters too.
//
// Parking is FIFO: waiters append at the tail and release from the head. A
// Whenever waiter re-parks at the tail after each firing and therefore
// cycles fairly behind newly arrived one-shots.
//
// A barrier is bound to one dispatcher for its lifetime and must not be
// copied.
type EventBarrier struct {
	TaskQueue

	dispatcher *TaskDispatcher
}

// NewEventBarrier creates a barrier parked on the given dispatcher.
func NewEventBarrier(d *TaskDispatcher) *EventBarrier {
	b := &EventBarrier{dispatcher: d}
	d.addSubqueue(&b.TaskQueue)
	return b
}

// Dispatcher returns the dispatcher this barrier was built on.
func (b *EventBarrier) Dispatcher() *TaskDispatcher {
	return b.dispatcher
}

// When registers a pool-backed one-shot waiter: target runs once after the
// next Signal. Like the dispatcher's pool entrypoints it dedups by target
// across the dispatcher and its barriers, and returns nil when the pool is
// exhausted.
func (b *EventBarrier) When(target Task, tag any) *TaskContext {
	return b.onSignal(target, tag, false)
}

// Whenever registers a pool-backed repeating waiter: target runs after every
// Signal, re-parking here each time the dispatcher has fired it.
func (b *EventBarrier) Whenever(target Task, tag any) *TaskContext {
	return b.onSignal(target, tag, true)
}

// WhenContext parks a caller-owned context as a one-shot waiter, using its
// current Target and Tag. No dedup is applied.
func (b *EventBarrier) WhenContext(c *TaskContext) {
	b.register(c, false)
}

// WheneverContext parks a caller-owned context as a repeating waiter, using
// its current Target and Tag. No dedup is applied.
func (b *EventBarrier) WheneverContext(c *TaskContext) {
	b.register(c, true)
}

// Signal releases the head waiter for immediate execution by the dispatcher.
// Returns true iff a waiter was released; the callback itself runs on a
// subsequent Run step.
func (b *EventBarrier) Signal() bool {
	c := b.firstContext
	if c == nil {
		return false
	}

	b.firstContext = c.nextContext
	c.nextContext = nil
	b.dispatcher.recycleContext(c)
	b.dispatcher.trace(TraceSignal, c)
	return true
}

// SignalAll releases every current waiter, in FIFO order.
func (b *EventBarrier) SignalAll() {
	for b.Signal() {
	}
}

// Wait parks a stack context on the barrier and runs the dispatcher until
// either the context has fired (true) or ticks have elapsed (false; the
// waiter is cancelled). Pass Forever to wait without a timeout. The
// dispatcher gets at least one Run step even with a zero timeout.
func (b *EventBarrier) Wait(ticks int32) bool {
	timing := b.dispatcher.timingFunction
	endTime := timing() + Ticks(ticks)

	var c TaskContext
	b.WhenContext(&c)

	for {
		b.dispatcher.Run()
		if !c.IsPending() {
			return true
		}
		if ticks != Forever && !tickBefore(timing(), endTime) {
			break
		}
	}

	c.Cancel()
	return false
}

func (b *EventBarrier) onSignal(target Task, tag any, repeat bool) *TaskContext {
	var c *TaskContext

	if pool := b.dispatcher.contextPool; pool != nil {
		c = pool.Fetch()
	}

	if c == nil {
		b.dispatcher.trace(TracePoolEmpty, nil)
		return nil
	}

	b.dispatcher.CancelTask(target)
	c.Target = target
	c.Tag = tag
	b.register(c, repeat)

	return c
}

func (b *EventBarrier) register(c *TaskContext, repeat bool) {
	c.Cancel()
	if repeat {
		c.signalEvent = b
	} else {
		c.signalEvent = nil
	}
	b.park(c)
}

// park appends c at the tail of the waiter list.
func (b *EventBarrier) park(c *TaskContext) {
	pp := &b.firstContext
	for *pp != nil {
		pp = &(*pp).nextContext
	}

	c.queue = &b.TaskQueue
	c.nextContext = nil
	*pp = c
}
