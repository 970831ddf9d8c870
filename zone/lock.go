package zone

import "sync"

// CoarseLock_t is a per-zone coarse lock (the free-area lock or the LRU
// lock). It wraps a plain mutex; ContentionHook lets tests and the daemon
// simulate spin_is_contended without a real multi-CPU spinlock, since this
// repo runs compaction on ordinary goroutines rather than kernel threads.
type CoarseLock_t struct {
	mu sync.Mutex

	// ContentionHook, when set, reports whether the lock should be
	// treated as contended by the next lockhelper.Helper_t.Step call.
	// nil means never contended.
	ContentionHook func() bool
}

// Lock acquires the underlying mutex.
func (l *CoarseLock_t) Lock() { l.mu.Lock() }

// Unlock releases the underlying mutex.
func (l *CoarseLock_t) Unlock() { l.mu.Unlock() }

// Contended reports whether the lock should be treated as contended.
func (l *CoarseLock_t) Contended() bool {
	if l.ContentionHook == nil {
		return false
	}
	return l.ContentionHook()
}
