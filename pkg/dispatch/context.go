// pkg/dispatch/context.go

package dispatch

// TaskContext is the unit of scheduling: one record per scheduled callback,
// holding when it runs, how often, and which queue currently owns it.
//
// Contexts may be caller-owned (stack or static storage kept alive until the
// context is idle again) or borrowed from a ContextPool, in which case the
// pointer returned by the scheduling entrypoints serves only as a
// cancellation handle.
type TaskContext struct {
	// Target is the task invoked when the context fires.
	Target Task

	// Tag is an opaque identity token for bulk cancellation. It is compared
	// with ==, so pointers match by identity and plain values (small
	// integers, strings) by value. It must be of a comparable type.
	Tag any

	queue          *TaskQueue
	nextContext    *TaskContext
	dispatchTime   Ticks
	repeatInterval int32
	signalEvent    *EventBarrier
}

// NewTaskContext returns an idle context pre-bound to target and tag.
func NewTaskContext(target Task, tag any) *TaskContext {
	return &TaskContext{Target: target, Tag: tag}
}

// BoundContext builds a context for the named method of recv, with recv
// itself as the tag. This mirrors the common pattern of cancelling all work
// belonging to one object by its pointer.
func BoundContext(recv any, method string) *TaskContext {
	return &TaskContext{Target: Bound(recv, method), Tag: recv}
}

// IsPending reports whether the context is linked into some queue.
func (c *TaskContext) IsPending() bool {
	return c.queue != nil
}

// Cancel unlinks the context from whatever queue owns it. Cancelling an idle
// context is a no-op; Cancel is always safe to call.
func (c *TaskContext) Cancel() {
	if c.queue != nil {
		c.queue.Cancel(c)
	}
}

// Clone copies only the target and tag. The copy starts idle: the intrusive
// links are per-instance and never travel with a copy.
func (c *TaskContext) Clone() *TaskContext {
	return NewTaskContext(c.Target, c.Tag)
}
