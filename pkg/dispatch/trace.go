// pkg/dispatch/trace.go

package dispatch

// TraceKind classifies a trace event.
type TraceKind uint8

const (
	// TraceDispatch: a due context was detached and its task is about to be
	// invoked.
	TraceDispatch TraceKind = iota

	// TraceRequeue: a periodic context was re-armed after its callback.
	TraceRequeue

	// TracePark: a Whenever context was handed back to its barrier.
	TracePark

	// TraceSignal: a barrier released a waiter to the dispatcher.
	TraceSignal

	// TracePoolEmpty: a pool-based entrypoint could not fetch a context.
	TracePoolEmpty
)

func (k TraceKind) String() string {
	switch k {
	case TraceDispatch:
		return "dispatch"
	case TraceRequeue:
		return "requeue"
	case TracePark:
		return "park"
	case TraceSignal:
		return "signal"
	case TracePoolEmpty:
		return "pool-empty"
	default:
		return "unknown"
	}
}

// TraceEvent describes one observable scheduling action. Context is nil for
// TracePoolEmpty.
type TraceEvent struct {
	Kind    TraceKind
	Context *TaskContext
	Tick    Ticks
}

// Tracer observes dispatcher activity. A tracer runs synchronously on the
// dispatch path and must not block.
type Tracer interface {
	Trace(TraceEvent)
}

// TracerFunc adapts a function to the Tracer interface.
type TracerFunc func(TraceEvent)

func (f TracerFunc) Trace(ev TraceEvent) {
	f(ev)
}
