// Package registry tracks the set of goroutines that have called
// RegisterThread, and gives the grace-period scanner a zero-allocation
// way to walk them. It is the Go realization of urcu.c's global
// reader_list plus its pthread_key_t/TLS lookup.
package registry

import (
	"sync/atomic"

	"github.com/kolkov/rcu/internal/rcu/gpcounter"
	"github.com/kolkov/rcu/internal/rcu/ilist"
)

// Reader is one thread's RCU reader-side state: the nesting/phase counter
// a reader flips on every ReadLock/ReadUnlock, and the intrusive list node
// the registry and grace-period scanner use to track which bucket the
// reader currently sits in (urcu.c's struct reader_registry).
type Reader struct {
	ctr  atomic.Uint64
	node ilist.Node

	goid int64
}

func newReader(goid int64) *Reader {
	r := &Reader{goid: goid}
	r.node.Value = r
	return r
}

// Counter loads the reader's current nest-depth/phase word.
func (r *Reader) Counter() gpcounter.Counter {
	return gpcounter.Counter(r.ctr.Load())
}

// StoreCounter publishes a new nest-depth/phase word. Writers (the
// scanner) only ever read this field; only the owning reader goroutine
// ever writes it, so a plain atomic store is sufficient. There is no
// read-modify-write race to arbitrate.
func (r *Reader) StoreCounter(c gpcounter.Counter) {
	r.ctr.Store(uint64(c))
}

// ReaderOf returns the Reader that owns the intrusive node n, used by the
// grace-period scanner when deciding which bucket a node belongs to.
func ReaderOf(n *ilist.Node) *Reader {
	return n.Value.(*Reader)
}
