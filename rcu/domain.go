package rcu

import (
	"github.com/kolkov/rcu/internal/rcu/gpengine"
	"github.com/kolkov/rcu/internal/rcu/registry"
	"github.com/kolkov/rcu/internal/rcu/waitqueue"
)

// Domain is one independent instance of the RCU protocol: its own reader
// registry, its own grace-period phase counter, and its own writer wait
// queue. Most programs need only the package-level default domain; build
// additional domains with [NewDomain] to isolate unrelated subsystems or
// to run parallel test cases without shared global state.
type Domain struct {
	reg    *registry.Registry
	engine *gpengine.Engine
}

// Config overrides the tunables the protocol otherwise fixes at compile
// time: the follower's spin budget and the scanner's rescan budget. The
// zero value of Config selects the documented defaults.
type Config struct {
	// WaitAttempts bounds a follower's cheap-spin phase before it blocks
	// on the wait-queue futex. Zero selects DefaultWaitAttempts.
	WaitAttempts int
	// QSActiveAttempts bounds the scanner's cheap-spin rescans before it
	// declares sleep intent and blocks. Zero selects
	// DefaultQSActiveAttempts.
	QSActiveAttempts int
}

// Default tunable values.
const (
	DefaultWaitAttempts     = waitqueue.DefaultSpinAttempts
	DefaultQSActiveAttempts = gpengine.DefaultQSActiveAttempts
)

// NewDomain returns a fresh, empty RCU domain. An optional [Config]
// overrides the default spin budgets; passing none (or a zero Config)
// uses the documented defaults.
func NewDomain(cfg ...Config) *Domain {
	var c Config
	if len(cfg) > 0 {
		c = cfg[0]
	}
	if c.WaitAttempts <= 0 {
		c.WaitAttempts = DefaultWaitAttempts
	}
	if c.QSActiveAttempts <= 0 {
		c.QSActiveAttempts = DefaultQSActiveAttempts
	}

	reg := registry.New()
	return &Domain{reg: reg, engine: gpengine.NewWithAttempts(reg, c.WaitAttempts, c.QSActiveAttempts)}
}

var defaultDomain = NewDomain()

// RegisterThread enrolls the calling goroutine as an RCU reader on d. It
// must be called once before the goroutine's first [Domain.ReadLock] and
// must be matched by exactly one [Domain.UnregisterThread]. Calling it
// twice for the same goroutine without an intervening unregister, or
// calling it from inside a read-side critical section, is a programming
// error; this implementation panics rather than corrupting registry
// state silently.
func (d *Domain) RegisterThread() {
	d.reg.RegisterThread()
}

// UnregisterThread removes the calling goroutine's reader record from d.
// The goroutine must not be inside a read-side critical section.
func (d *Domain) UnregisterThread() {
	d.reg.UnregisterThread()
}

// ReadLock opens (or nests) a read-side critical section for the calling
// goroutine on d. The goroutine must have called [Domain.RegisterThread]
// first.
func (d *Domain) ReadLock() {
	r := d.currentReader("ReadLock")
	d.engine.ReadLock(r)
}

// ReadUnlock closes one level of the calling goroutine's read-side
// critical section on d.
func (d *Domain) ReadUnlock() {
	r := d.currentReader("ReadUnlock")
	d.engine.ReadUnlock(r)
}

// ReadOngoing reports whether the calling goroutine currently holds an
// open read-side critical section on d. It is a debug predicate only.
func (d *Domain) ReadOngoing() bool {
	r := d.reg.Current()
	if r == nil {
		return false
	}
	return gpengine.ReadOngoing(r)
}

// Synchronize blocks until every read-side critical section on d that was
// open at the moment of the call has closed.
func (d *Domain) Synchronize() {
	d.engine.Synchronize()
}

// Stats returns a point-in-time snapshot of d's state.
func (d *Domain) Stats() Stats {
	s := d.engine.Stats()
	return Stats{
		RegisteredReaders: s.RegisteredReaders,
		Phase:             s.Phase,
		GracePeriods:      s.GracePeriods,
	}
}

func (d *Domain) currentReader(op string) *registry.Reader {
	r := d.reg.Current()
	if r == nil {
		panic(&UsageError{Op: op, Detail: "called by a goroutine that never called RegisterThread"})
	}
	return r
}

// Stats is an observability snapshot of a [Domain]'s state.
type Stats struct {
	// RegisteredReaders is the number of currently registered readers.
	RegisteredReaders int64
	// Phase is the current grace-period phase word (implementation detail,
	// exposed for diagnostics and for cmd/rcudoctor).
	Phase uint64
	// GracePeriods is the number of grace periods this domain has
	// completed since it was created.
	GracePeriods uint64
}
