package registry

import "fmt"

// UsageError reports a caller-discipline violation left undefined by the
// classic register_thread/unregister_thread contract (double register,
// or unregister without a matching register). Go has no way to leave
// these silently undefined without risking registry corruption, so this
// implementation detects the two that are cheap to detect (both are a
// single map lookup already on the hot path) and panics with a typed
// error instead of leaving the registry in an inconsistent state.
type UsageError struct {
	Op     string
	Detail string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("rcu: usage error: %s: %s", e.Op, e.Detail)
}
