// Package rcu provides a user-space Read-Copy-Update synchronization
// primitive: the memory-barrier variant, with expedited grace periods
// backed by Linux's membarrier(2) facility where available.
//
// # Quick Start
//
//	func main() {
//		rcu.RegisterThread()
//		defer rcu.UnregisterThread()
//
//		var counter rcu.Published[int]
//		one := 1
//		counter.Assign(&one)
//
//		go func() {
//			rcu.RegisterThread()
//			defer rcu.UnregisterThread()
//
//			rcu.ReadLock()
//			v := counter.Dereference()
//			_ = v
//			rcu.ReadUnlock()
//		}()
//
//		two := 2
//		counter.Assign(&two)
//		rcu.Synchronize()
//		// every ReadLock/ReadUnlock section open before this line has
//		// closed by the time Synchronize returns.
//	}
//
// # Model
//
// Readers bracket access to shared data with [ReadLock] and [ReadUnlock].
// Both are lock-free, wait-free, and safe to nest. A writer publishes a
// new version of data with [AssignPointer] (or [Published.Assign]), then
// calls [Synchronize], which blocks until every read-side section that
// was open at the moment it was called has closed. Only after
// Synchronize returns may the writer reclaim the old version.
//
// # What this package does not provide
//
// There is no writer fairness guarantee, no bound on grace-period
// latency, and no deferred-reclamation callback queue: callers reclaim
// memory themselves after Synchronize returns. There is no signal-safe
// variant and no quiescent-state-based (QSBR) variant; every registered
// reader is tracked explicitly. Writer-side critical sections (nested
// Synchronize calls from the same goroutine) are not supported.
//
// # Concurrency domains
//
// The package-level functions operate on a single process-wide [Domain].
// Programs that need independent RCU instances, for testing or for
// isolating unrelated subsystems, can construct additional domains with
// [NewDomain].
package rcu
