// pkg/dispatch/queue.go

package dispatch

import "iter"

// TaskQueue is the common base of TaskDispatcher and EventBarrier: an
// intrusive singly-linked list of contexts plus a chain of subqueues so that
// a dispatcher's bulk cancellations reach its event barriers.
//
// A context is pending while linked here (its queue field points back at the
// owner) and never sits on two queues at once.
type TaskQueue struct {
	firstContext  *TaskContext
	firstSubqueue *TaskQueue
	nextSubqueue  *TaskQueue
}

// Cancel unlinks the given context if it is on this queue; otherwise it does
// nothing.
func (q *TaskQueue) Cancel(c *TaskContext) {
	for pp := &q.firstContext; *pp != nil; pp = &(*pp).nextContext {
		if *pp == c {
			q.unlink(pp)
			return
		}
	}

	// Owned but not linked: the context is mid-callback with only the busy
	// marker set. Clearing the owner makes the cancellation stick; the
	// dispatcher re-examines the field after the callback and will not
	// re-arm.
	if c.queue == q {
		c.queue = nil
		c.nextContext = nil
	}
}

// CancelTask unlinks every context on this queue, and recursively on each
// subqueue, whose target equals the given task.
func (q *TaskQueue) CancelTask(target Task) {
	pp := &q.firstContext
	for *pp != nil {
		if (*pp).Target.Equal(target) {
			q.unlink(pp)
		} else {
			pp = &(*pp).nextContext
		}
	}

	for sub := q.firstSubqueue; sub != nil; sub = sub.nextSubqueue {
		sub.CancelTask(target)
	}
}

// CancelTag unlinks every context on this queue, and recursively on each
// subqueue, whose tag compares equal to the given tag.
func (q *TaskQueue) CancelTag(tag any) {
	pp := &q.firstContext
	for *pp != nil {
		if (*pp).Tag == tag {
			q.unlink(pp)
		} else {
			pp = &(*pp).nextContext
		}
	}

	for sub := q.firstSubqueue; sub != nil; sub = sub.nextSubqueue {
		sub.CancelTag(tag)
	}
}

// CancelAll unlinks everything on this queue and recursively on each
// subqueue.
func (q *TaskQueue) CancelAll() {
	for q.firstContext != nil {
		q.unlink(&q.firstContext)
	}

	for sub := q.firstSubqueue; sub != nil; sub = sub.nextSubqueue {
		sub.CancelAll()
	}
}

// Contexts iterates over the currently linked contexts. The successor is
// captured before each element is yielded, so cancelling the element under
// the cursor does not invalidate the walk.
func (q *TaskQueue) Contexts() iter.Seq[*TaskContext] {
	return func(yield func(*TaskContext) bool) {
		c := q.firstContext
		for c != nil {
			next := c.nextContext
			if !yield(c) {
				return
			}
			c = next
		}
	}
}

// unlink removes *pp from the list and marks the removed context idle.
func (q *TaskQueue) unlink(pp **TaskContext) {
	c := *pp
	*pp = c.nextContext
	c.queue = nil
	c.nextContext = nil
}

// contains reports whether c is currently linked on this queue.
func (q *TaskQueue) contains(c *TaskContext) bool {
	for cur := q.firstContext; cur != nil; cur = cur.nextContext {
		if cur == c {
			return true
		}
	}
	return false
}

// addSubqueue pushes sub onto the subqueue chain.
func (q *TaskQueue) addSubqueue(sub *TaskQueue) {
	sub.nextSubqueue = q.firstSubqueue
	q.firstSubqueue = sub
}
