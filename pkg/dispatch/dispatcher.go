// pkg/dispatch/dispatcher.go

package dispatch

// SchedulingPolicy selects how a periodic context is re-armed after its
// callback returns.
type SchedulingPolicy uint8

const (
	// PolicyInterval rests between runs: the next dispatch time is measured
	// from the callback's completion. Cadence drifts with callback duration
	// but backlog never accumulates.
	PolicyInterval SchedulingPolicy = iota

	// PolicyCycle measures from the callback's start and snaps late targets
	// to now. Individual late firings shift; overall cadence resumes.
	PolicyCycle

	// PolicyTiming keeps a fixed grid. When the dispatcher falls more than
	// one period behind it resynchronizes to the next grid point instead of
	// firing a burst of catch-up events.
	PolicyTiming
)

func (p SchedulingPolicy) String() string {
	switch p {
	case PolicyCycle:
		return "cycle"
	case PolicyTiming:
		return "timing"
	default:
		return "interval"
	}
}

// TaskDispatcher is a TaskQueue specialized as a time-ordered ready queue.
// Contexts are held in ascending dispatch time (signed-difference order,
// FIFO among equals) and Run dispatches at most one due task per call.
type TaskDispatcher struct {
	TaskQueue

	// SchedulingPolicy controls periodic re-arming. It may be changed at any
	// time and takes effect at the next re-arm.
	SchedulingPolicy SchedulingPolicy

	// Tracer, if set, observes dispatch activity. See trace.go.
	Tracer Tracer

	timingFunction TimingFunc
	contextPool    ContextPool
}

// NewTaskDispatcher creates a dispatcher with the given tick source and
// context pool. A nil timing function defaults to Millis; a nil pool simply
// disables the pool-based entrypoints.
func NewTaskDispatcher(timing TimingFunc, pool ContextPool) *TaskDispatcher {
	if timing == nil {
		timing = Millis
	}
	return &TaskDispatcher{timingFunction: timing, contextPool: pool}
}

// TimingFunction returns the tick source, fixed at construction.
func (d *TaskDispatcher) TimingFunction() TimingFunc {
	return d.timingFunction
}

// ContextPool returns the pool used by the pool-based entrypoints, or nil.
func (d *TaskDispatcher) ContextPool() ContextPool {
	return d.contextPool
}

// CallAfter schedules target to run once after interval ticks. See Schedule.
func (d *TaskDispatcher) CallAfter(interval int32, target Task, tag any) *TaskContext {
	return d.Schedule(interval, -1, target, tag)
}

// CallEvery schedules target to run immediately and then every interval
// ticks. See Schedule.
func (d *TaskDispatcher) CallEvery(interval int32, target Task, tag any) *TaskContext {
	return d.Schedule(0, interval, target, tag)
}

// Schedule fetches a context from the pool, cancels every context in this
// dispatcher (and its barriers) with the same target, and arms it to run
// after firstInterval ticks, repeating every nextInterval ticks
// (nextInterval < 0 means one-shot). A negative firstInterval skips the
// arming. Returns the borrowed context as a cancellation handle, or nil if
// the pool was exhausted.
func (d *TaskDispatcher) Schedule(firstInterval, nextInterval int32, target Task, tag any) *TaskContext {
	var c *TaskContext

	if d.contextPool != nil {
		c = d.contextPool.Fetch()
	}

	if c == nil {
		d.trace(TracePoolEmpty, nil)
		return nil
	}

	d.CancelTask(target)
	if firstInterval >= 0 {
		c.Target = target
		c.Tag = tag
		d.ScheduleContext(c, firstInterval, nextInterval)
	}

	return c
}

// CallAfterContext arms a caller-owned context as a one-shot. See
// ScheduleContext.
func (d *TaskDispatcher) CallAfterContext(c *TaskContext, interval int32) {
	d.ScheduleContext(c, interval, -1)
}

// CallEveryContext arms a caller-owned context as immediately eligible and
// then periodic. See ScheduleContext.
func (d *TaskDispatcher) CallEveryContext(c *TaskContext, interval int32) {
	d.ScheduleContext(c, 0, interval)
}

// ScheduleContext arms a caller-owned context using its current Target and
// Tag. The context is cancelled out of whatever queue holds it first, so it
// never sits on two queues. Unlike the pool-based entrypoints there is no
// dedup-by-target: the caller is assumed to know what they are doing. A
// negative firstInterval is a no-op. The storage must stay alive until the
// context is idle again.
func (d *TaskDispatcher) ScheduleContext(c *TaskContext, firstInterval, nextInterval int32) {
	if firstInterval < 0 {
		return
	}

	c.Cancel()
	c.dispatchTime = d.timingFunction() + Ticks(firstInterval)
	c.repeatInterval = nextInterval
	c.signalEvent = nil
	d.enqueueContext(c)
}

// Run performs a single dispatch step: at most one due task is invoked.
// Returns true iff a task was dispatched, which is how Delay and Wait know
// the tick has progressed.
func (d *TaskDispatcher) Run() bool {
	c := d.firstContext
	if c == nil {
		return false
	}

	now := d.timingFunction()
	dispatchTime := c.dispatchTime

	if tickBefore(now, dispatchTime) {
		return false
	}

	d.firstContext = c.nextContext
	c.nextContext = nil

	if c.repeatInterval < 0 && c.signalEvent == nil {
		c.queue = nil
	}

	// If c.queue is still set the context stays marked busy: the pool's
	// round-robin skips it and a nested Run cannot dispatch it again while
	// its own callback is on the stack.

	d.trace(TraceDispatch, c)
	if c.Target.Valid() {
		c.Target.Invoke()
	}

	// Re-arming was deferred until after the callback so the task is never
	// entered recursively. The callback may have cancelled, rescheduled, or
	// reused the context in the meantime; in that case its decision stands.

	if c.queue == &d.TaskQueue && c.nextContext == nil && !d.contains(c) {
		repeatInterval := c.repeatInterval

		if repeatInterval >= 0 {
			then := now
			now = d.timingFunction()

			switch d.SchedulingPolicy {
			case PolicyCycle:
				dispatchTime = then + Ticks(repeatInterval)
				if tickBefore(dispatchTime, now) {
					dispatchTime = now
				}
			case PolicyTiming:
				dispatchTime += Ticks(repeatInterval)
				// Missed a cycle entirely: pick up again at the next
				// grid point. A zero interval has no grid and just snaps
				// to now.
				if overrun := int32(now - dispatchTime); overrun > 0 {
					if repeatInterval > 0 {
						dispatchTime = now + Ticks(overrun%repeatInterval)
					} else {
						dispatchTime = now
					}
				}
			default:
				dispatchTime = now + Ticks(repeatInterval)
			}

			c.dispatchTime = dispatchTime
			d.enqueueContext(c)
			d.trace(TraceRequeue, c)
		} else if c.signalEvent != nil {
			c.signalEvent.park(c)
			d.trace(TracePark, c)
		} else {
			c.queue = nil
		}
	}

	return true
}

// Delay blocks for the given number of ticks by repeatedly running the
// dispatcher, so other scheduled tasks continue to run during the wait. The
// tick source must advance on its own for Delay to return.
func (d *TaskDispatcher) Delay(ticks int32) {
	endTime := d.timingFunction() + Ticks(ticks)

	for tickBefore(d.timingFunction(), endTime) {
		d.Run()
	}
}

// recycleContext is how a barrier hands a released waiter over for immediate
// execution.
func (d *TaskDispatcher) recycleContext(c *TaskContext) {
	c.dispatchTime = d.timingFunction()
	c.repeatInterval = -1
	d.enqueueContext(c)
}

// enqueueContext splices c into the ready queue in ascending dispatch-time
// order. Insertion goes before the first strictly later context, so contexts
// with equal times run in arrival order.
func (d *TaskDispatcher) enqueueContext(c *TaskContext) {
	pp := &d.firstContext

	for {
		cur := *pp
		if cur == nil || tickBefore(c.dispatchTime, cur.dispatchTime) {
			c.queue = &d.TaskQueue
			c.nextContext = cur
			*pp = c
			return
		}
		pp = &cur.nextContext
	}
}

func (d *TaskDispatcher) trace(kind TraceKind, c *TaskContext) {
	if d.Tracer == nil {
		return
	}
	d.Tracer.Trace(TraceEvent{Kind: kind, Context: c, Tick: d.timingFunction()})
}
