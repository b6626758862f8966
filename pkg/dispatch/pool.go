// pkg/dispatch/pool.go

package dispatch

import "github.com/emirpasic/gods/lists/singlylinkedlist"

// ContextPool supplies reusable TaskContext storage to the pool-based
// scheduling entrypoints. Fetch returns an idle context, or nil when the
// pool is exhausted and has no fallback.
type ContextPool interface {
	Fetch() *TaskContext
}

// DynamicContextPool grows on demand up to PoolLimit and reuses idle
// contexts round-robin. Storage is never freed piecewise: the pool holds on
// to every context it has allocated.
type DynamicContextPool struct {
	// PoolLimit caps the number of contexts ever allocated; 0 means
	// unbounded.
	PoolLimit uint

	// EmptyPoolHandler, if set, is consulted by Fetch when the pool itself
	// comes up empty. It may allocate from elsewhere, log, or abort.
	EmptyPoolHandler func() *TaskContext

	entries *singlylinkedlist.List // of *TaskContext, in allocation order
	cursor  int
}

// NewDynamicContextPool creates a pool that will allocate at most limit
// contexts (0 = unbounded).
func NewDynamicContextPool(limit uint) *DynamicContextPool {
	return &DynamicContextPool{
		PoolLimit: limit,
		entries:   singlylinkedlist.New(),
	}
}

// Fetch returns an idle context, growing the pool if necessary. When the
// pool is exhausted it falls back to EmptyPoolHandler, or returns nil.
func (p *DynamicContextPool) Fetch() *TaskContext {
	c := p.fetchCore()

	if c == nil && p.EmptyPoolHandler != nil {
		c = p.EmptyPoolHandler()
	}

	return c
}

// Size returns how many contexts the pool has allocated so far.
func (p *DynamicContextPool) Size() int {
	if p.entries == nil {
		return 0
	}
	return p.entries.Size()
}

// fetchCore scans the chain starting at the cursor, wrapping to the head,
// and returns the first context that is not pending. The cursor then points
// past the returned slot so that a just-recycled context is not handed out
// again immediately; an observer gets a window to notice a fired one-shot
// before its slot is rewritten. The empty-pool handler is never consulted
// here, even on the growth path.
func (p *DynamicContextPool) fetchCore() *TaskContext {
	if p.entries == nil {
		p.entries = singlylinkedlist.New()
	}

	n := p.entries.Size()
	for i := 0; i < n; i++ {
		idx := (p.cursor + i) % n
		v, _ := p.entries.Get(idx)
		c := v.(*TaskContext)
		if !c.IsPending() {
			p.cursor = (idx + 1) % n
			return c
		}
	}

	if p.PoolLimit != 0 && uint(n) >= p.PoolLimit {
		return nil
	}

	c := &TaskContext{}
	p.entries.Add(c)
	p.cursor = 0
	return c
}
