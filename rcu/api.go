package rcu

// RegisterThread enrolls the calling goroutine as a reader on the
// package-level default [Domain]. See [Domain.RegisterThread].
func RegisterThread() { defaultDomain.RegisterThread() }

// UnregisterThread removes the calling goroutine's reader record from the
// default domain. See [Domain.UnregisterThread].
func UnregisterThread() { defaultDomain.UnregisterThread() }

// ReadLock opens (or nests) a read-side critical section on the default
// domain. See [Domain.ReadLock].
func ReadLock() { defaultDomain.ReadLock() }

// ReadUnlock closes one level of a read-side critical section on the
// default domain. See [Domain.ReadUnlock].
func ReadUnlock() { defaultDomain.ReadUnlock() }

// ReadOngoing reports whether the calling goroutine holds an open
// read-side critical section on the default domain. See
// [Domain.ReadOngoing].
func ReadOngoing() bool { return defaultDomain.ReadOngoing() }

// Synchronize blocks until every read-side critical section on the
// default domain that was open when it was called has closed. See
// [Domain.Synchronize].
func Synchronize() { defaultDomain.Synchronize() }

// GetStats returns a snapshot of the default domain's state.
func GetStats() Stats { return defaultDomain.Stats() }
