// Package gpengine implements the grace-period engine: the reader fast
// path (ReadLock/ReadUnlock/ReadOngoing) and the writer-side Synchronize
// protocol, including leader election, the two-phase scan-flip-scan, and
// adaptive backoff.
package gpengine

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/kolkov/rcu/internal/rcu/futex"
	"github.com/kolkov/rcu/internal/rcu/gpcounter"
	"github.com/kolkov/rcu/internal/rcu/ilist"
	"github.com/kolkov/rcu/internal/rcu/membarrier"
	"github.com/kolkov/rcu/internal/rcu/registry"
	"github.com/kolkov/rcu/internal/rcu/waitqueue"
)

// DefaultQSActiveAttempts is RCU_QS_ACTIVE_ATTEMPTS: the number of
// cheap-spin rescans the grace-period scanner performs before declaring
// sleep intent and resorting to a futex wait, absent an overriding
// rcu.Config.
const DefaultQSActiveAttempts = 100

// Engine owns one grace-period domain's mutable state: the phase counter
// readers snapshot into their own ctr word, the futex word writers sleep
// on while waiting out stragglers, the writer wait queue that coalesces
// concurrent Synchronize callers, and the grace-period mutex serializing
// elected leaders. One Engine corresponds to one instance of urcu.c's
// process-wide globals; the public rcu package keeps a package-level
// default Engine and lets callers build independent ones via rcu.Domain.
type Engine struct {
	registry *registry.Registry

	gpCtr   atomic.Uint64 // initialized to 1, matching urcu.c's gp.ctr
	gpFutex *futex.Word

	gpMutex   sync.Mutex
	waitQueue waitqueue.Stack

	waitAttempts     int
	qsActiveAttempts int

	gracePeriods atomic.Uint64 // completed grace periods, for rcu.Stats
}

// New returns a grace-period engine backed by reg, using
// DefaultSpinAttempts/DefaultQSActiveAttempts for its adaptive backoff
// budgets.
func New(reg *registry.Registry) *Engine {
	return NewWithAttempts(reg, waitqueue.DefaultSpinAttempts, DefaultQSActiveAttempts)
}

// NewWithAttempts returns a grace-period engine backed by reg, with the
// follower spin budget and scanner spin budget overridden from their
// defaults. This is the backing implementation of rcu.Config's
// WaitAttempts/QSActiveAttempts fields.
func NewWithAttempts(reg *registry.Registry, waitAttempts, qsActiveAttempts int) *Engine {
	e := &Engine{
		registry:         reg,
		gpFutex:          futex.NewWord(0),
		waitAttempts:     waitAttempts,
		qsActiveAttempts: qsActiveAttempts,
	}
	e.gpCtr.Store(1)
	return e
}

// ReadLock opens (or nests) a read-side critical section on r.
func (e *Engine) ReadLock(r *registry.Reader) {
	c := r.Counter()
	if c.NestDepth() == 0 {
		r.StoreCounter(gpcounter.EnterOutermost(e.gpCtr.Load()))
		membarrier.Slave()
		return
	}
	r.StoreCounter(c.Nest())
}

// ReadUnlock closes one level of r's read-side critical section. On the
// outermost exit it also performs the reader-to-writer futex handoff: if
// a writer has declared sleep intent (gpFutex == -1), this call clears it
// and wakes the writer.
func (e *Engine) ReadUnlock(r *registry.Reader) {
	c := r.Counter()
	if c.NestDepth() == 1 {
		membarrier.Slave()
		r.StoreCounter(c.Unnest())
		membarrier.Slave()
		if e.gpFutex.Load() == -1 {
			if e.gpFutex.CompareAndSwap(-1, 0) {
				e.gpFutex.Wake()
			}
		}
		return
	}
	r.StoreCounter(c.Unnest())
}

// ReadOngoing reports whether r's read-side nest depth is non-zero. It
// exists only for debug assertions by callers.
func ReadOngoing(r *registry.Reader) bool {
	return !r.Counter().Inactive()
}

// Synchronize blocks until every read-side critical section active at
// entry has completed. Concurrent callers coalesce behind a single
// elected leader via the Treiber-stack wait queue.
func (e *Engine) Synchronize() {
	node := &waitqueue.Node{}
	prev := e.waitQueue.Push(node)
	if prev != nil {
		// Follower: the leader that drains this node will run the scan
		// that covers our call too.
		node.Wait(e.waitAttempts)
		return
	}

	// Leader. Mark our own node RUNNING now so that when we later walk
	// the drained chain (which includes ourselves, since we already
	// pushed), we skip waking a node nobody is parked on.
	node.Or(waitqueue.StateRunning)

	e.gpMutex.Lock()
	waiters := e.waitQueue.Drain()
	e.runGracePeriod()
	e.gpMutex.Unlock()

	waitqueue.Each(waiters, func(n *waitqueue.Node) {
		if n.Load()&waitqueue.StateRunning == 0 {
			n.Wake()
		}
	})
}

// runGracePeriod performs one full scan-flip-scan cycle under the
// registry mutex. Caller must hold gpMutex.
func (e *Engine) runGracePeriod() {
	reg := e.registry

	reg.Lock()
	if reg.List().Empty() {
		reg.Unlock()
		e.gracePeriods.Add(1)
		return
	}

	membarrier.Default().Master()

	currentSnap := ilist.New()
	quiescent := ilist.New()

	e.drainAgainstPhase(reg.List(), currentSnap, quiescent)

	newPhase := e.gpCtr.Load() ^ gpcounter.PhaseBit
	e.gpCtr.Store(newPhase)

	e.drainAgainstPhase(currentSnap, nil, quiescent)

	ilist.Splice(quiescent, reg.List())
	membarrier.Default().Master()
	reg.Unlock()

	e.gracePeriods.Add(1)
}

// Stats snapshots the engine's observable state.
type Stats struct {
	RegisteredReaders int64
	Phase             uint64
	GracePeriods      uint64
}

// Stats returns a point-in-time snapshot of the engine's state. It is
// ambient observability, not part of the core RCU contract.
func (e *Engine) Stats() Stats {
	return Stats{
		RegisteredReaders: e.registry.Count(),
		Phase:             e.gpCtr.Load(),
		GracePeriods:      e.gracePeriods.Load(),
	}
}

// drainAgainstPhase repeatedly scans src, classifying each reader against
// the engine's current phase and splicing it into currentSnap (readers
// whose snapshot phase matches, when currentSnap is non-nil) or quiescent
// (inactive readers), until src is empty. Between passes it applies the
// adaptive backoff: a bounded number of cheap rescans, then a futex wait.
// Caller must hold the registry lock; this method releases and
// reacquires it internally while backing off.
func (e *Engine) drainAgainstPhase(src, currentSnap, quiescent *ilist.List) {
	attempts := 0
	slept := false

	for {
		e.scanOnce(src, currentSnap, quiescent)
		if src.Empty() {
			break
		}

		attempts++
		if attempts <= e.qsActiveAttempts {
			e.registry.Unlock()
			runtime.Gosched()
			e.registry.Lock()
			continue
		}

		slept = true
		e.gpFutex.Store(-1)
		membarrier.Default().Master()

		e.scanOnce(src, currentSnap, quiescent)
		if src.Empty() {
			break
		}

		e.registry.Unlock()
		if e.gpFutex.Load() == -1 {
			e.gpFutex.Sleep()
		}
		e.registry.Lock()
	}

	if slept {
		e.gpFutex.Store(0)
		membarrier.Default().Master()
	}
}

// scanOnce is one pass over src, classifying each reader by comparing its
// snapshot phase against the engine's current gp.ctr.
//
// On the second scan currentSnap is nil: a reader classified
// ACTIVE_CURRENT here has re-entered on the phase the writer just flipped
// to, which for the second scan's purposes counts as quiescent for this
// grace period, so it is spliced into quiescent rather than left in
// place.
func (e *Engine) scanOnce(src, currentSnap, quiescent *ilist.List) {
	phase := e.gpCtr.Load()
	src.Each(func(n *ilist.Node) {
		r := registry.ReaderOf(n)
		c := r.Counter()
		switch {
		case c.Inactive():
			ilist.MoveTo(n, quiescent)
		case c.SamePhase(phase):
			if currentSnap != nil {
				ilist.MoveTo(n, currentSnap)
			} else {
				ilist.MoveTo(n, quiescent)
			}
		default:
			// ACTIVE_OLD: left in src, rescanned on the next pass.
		}
	})
}
