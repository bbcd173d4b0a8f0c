package registry

import "runtime"

// goroutineID returns an identifier unique to the calling goroutine for as
// long as it is alive. Go deliberately exposes no public goroutine-ID API
// (the runtime scheduler is free to treat goroutines as anonymous), so this
// parses the one line of runtime.Stack output that does carry it, the same
// technique production Go code reaches for when it needs a goroutine-local
// key, such as a thread-local-storage substitute.
//
// This is the slow, always-correct path (~1-2µs): there is no assembly
// fast path here, unlike implementations that peek at the runtime.g
// struct's private layout directly, because that offset changes across Go
// versions and reading a stack trace once per RegisterThread/ReadLock call
// (rather than per memory access) does not sit on a hot enough path to
// justify the fragility.
func goroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	return parseGoroutineID(buf[:n])
}

// parseGoroutineID extracts the numeric ID from a "goroutine 123 [running]:"
// stack trace header.
func parseGoroutineID(buf []byte) int64 {
	const prefix = "goroutine "
	if len(buf) < len(prefix) || string(buf[:len(prefix)]) != prefix {
		return 0
	}
	var id int64
	for _, c := range buf[len(prefix):] {
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + int64(c-'0')
	}
	return id
}
