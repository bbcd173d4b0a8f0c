package rcu

import (
	"github.com/kolkov/rcu/internal/rcu/membarrier"
	"github.com/kolkov/rcu/internal/rcu/registry"
)

// FatalError reports an unrecoverable failure of an operating-system
// facility the grace-period protocol depends on (membarrier(2) or its
// fallback). Such a failure leaves grace-period correctness impossible to
// guarantee, so it is treated as fatal. Go has no abort(), so a
// FatalError is panicked instead of returned. Callers
// that want to observe it can recover and type-assert:
//
//	defer func() {
//		if r := recover(); r != nil {
//			if fe, ok := r.(*rcu.FatalError); ok {
//				log.Fatalf("rcu: %v", fe)
//			}
//			panic(r)
//		}
//	}()
type FatalError = membarrier.FatalError

// UsageError reports a caller-discipline violation: registering twice
// without unregistering, unregistering without registering, or calling
// [ReadLock]/[ReadUnlock] from a goroutine that never called
// [RegisterThread]. The protocol leaves these undefined; this
// implementation detects the ones that are cheap to detect and panics a
// typed error rather than corrupting registry state silently.
type UsageError = registry.UsageError
