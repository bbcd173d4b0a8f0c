package registry

import (
	"sync"
	"sync/atomic"

	"github.com/kolkov/rcu/internal/rcu/ilist"
	"github.com/kolkov/rcu/internal/rcu/membarrier"
)

// Registry is the global table of registered readers, protected by a
// mutex exactly as urcu.c's rcu_gp_lock guards reader_list. The mutex is
// held across RegisterThread/UnregisterThread list mutation and across
// the grace-period scanner's whole scan (released only while it backs
// off), never across a reader's ReadLock/ReadUnlock fast path.
type Registry struct {
	mu   sync.Mutex
	list *ilist.List

	// byGoid substitutes for pthread_getspecific: Go has no public
	// per-goroutine storage, so readers are looked up by the
	// goroutine-ID key extracted in goid.go. sync.Map is the natural fit
	// here: one write per RegisterThread/UnregisterThread pair, many
	// concurrent lock-free reads from ReadLock/ReadUnlock on every other
	// live goroutine, the exact read-mostly, stable-keyset access pattern
	// sync.Map's documentation recommends it for.
	byGoid sync.Map // int64 -> *Reader

	count atomic.Int64
}

// New returns an empty reader registry.
func New() *Registry {
	return &Registry{list: ilist.New()}
}

// RegisterThread enrolls the calling goroutine as an RCU reader. Calling
// it twice for the same goroutine without an intervening UnregisterThread
// is a caller error; this implementation panics rather than silently
// succeeding, the same way a double pthread_key registration would
// surface as a logic bug.
func (reg *Registry) RegisterThread() *Reader {
	goid := goroutineID()
	if _, dup := reg.byGoid.Load(goid); dup {
		panic(&UsageError{Op: "RegisterThread", Detail: "called twice for the same goroutine without an intervening UnregisterThread"})
	}

	if err := membarrier.Default().RegisterReader(); err != nil {
		panic(&membarrier.FatalError{Op: "RegisterThread", Err: err})
	}

	r := newReader(goid)
	reg.byGoid.Store(goid, r)

	reg.mu.Lock()
	reg.list.PushFront(&r.node)
	reg.mu.Unlock()
	reg.count.Add(1)

	return r
}

// UnregisterThread removes the calling goroutine's reader record. The
// reader must not be inside a read-side critical section.
func (reg *Registry) UnregisterThread() {
	goid := goroutineID()
	v, ok := reg.byGoid.LoadAndDelete(goid)
	if !ok {
		panic(&UsageError{Op: "UnregisterThread", Detail: "called without a matching RegisterThread"})
	}

	r := v.(*Reader)
	reg.mu.Lock()
	ilist.Remove(&r.node)
	reg.mu.Unlock()
	reg.count.Add(-1)
}

// Current returns the calling goroutine's reader record, or nil if it has
// not called RegisterThread. ReadLock/ReadUnlock use this on every call,
// so it must stay allocation-free and lock-free; sync.Map.Load satisfies
// both.
func (reg *Registry) Current() *Reader {
	v, ok := reg.byGoid.Load(goroutineID())
	if !ok {
		return nil
	}
	return v.(*Reader)
}

// Lock acquires the registry mutex, serializing RegisterThread,
// UnregisterThread and the grace-period scanner against each other. It is
// exported for gpengine, which must hold it across an entire
// drainAgainstPhase scan to keep the reader count from changing mid-walk.
func (reg *Registry) Lock() { reg.mu.Lock() }

// Unlock releases the registry mutex.
func (reg *Registry) Unlock() { reg.mu.Unlock() }

// List returns the live-reader intrusive list. Callers must hold Lock for
// the duration of any traversal or splice.
func (reg *Registry) List() *ilist.List { return reg.list }

// Count returns the number of currently registered readers, for
// observability (see rcu.Stats). It is a plain atomic load, not
// serialized against Lock, so it is advisory under concurrent
// register/unregister activity.
func (reg *Registry) Count() int64 { return reg.count.Load() }
