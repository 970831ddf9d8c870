// Package lockhelper implements a single contention-aware lock helper:
// the one primitive shared by every inner scanning loop that acquires
// or re-checks a coarse lock, yielding to preemption in sync runs and
// aborting on contention in async runs. Grounded on biscuit's
// accnt.Accnt_t embedded-mutex idiom (accnt/accnt.go) and vm.As_t's
// Lock/Unlock pairing (vm/as.go), generalized into its own helper since
// this repo's inner loops re-check contention far more often than any
// single biscuit lock user does.
package lockhelper

import "runtime"

// Result_t is the outcome of one Helper_t.Step call.
type Result_t int

const (
	// Locked means the lock is held and the caller may proceed.
	Locked Result_t = iota
	// Aborted means the caller must stop scanning: async contention,
	// or a fatal signal observed during a sync yield.
	Aborted
)

// Lock_i is satisfied by zone.CoarseLock_t; it is an interface here so
// this package never imports zone and stays usable against any coarse
// lock.
type Lock_i interface {
	Lock()
	Unlock()
	Contended() bool
}

// Helper_t bundles everything one Step call needs: which lock, which run
// mode, where to publish the contended-out-flag, and the hooks a test
// uses to simulate scheduling pressure and fatal signals.
type Helper_t struct {
	Lock Lock_i
	Sync bool

	// Contended is set to true when an async run aborts due to
	// contention, mirroring an optional *contended out-param.
	Contended *bool

	// NeedResched reports whether the current goroutine should yield
	// before continuing. nil means never.
	NeedResched func() bool

	// FatalPending reports whether a fatal signal is pending; checked
	// only after a sync yield. nil means never.
	FatalPending func() bool

	// Yield performs the sync-mode cooperative yield. nil defaults to
	// runtime.Gosched, matching cond_resched's role of giving other
	// goroutines a chance to run.
	Yield func()
}

// Step is the single contention-check-and-(re)acquire primitive. locked is the
// caller's current lock-held state; the return value reports the new
// state (true iff the lock is held on return).
//
// Behavior:
//   - if NeedResched() or Lock.Contended(): release the lock if held;
//     async aborts (setting *Contended), sync yields and checks for a
//     fatal signal, also aborting if one is pending.
//   - if not holding the lock at this point, acquire it.
//   - return Locked with the lock held, unless an abort occurred above.
func (h *Helper_t) Step(locked bool) (Result_t, bool) {
	resched := h.NeedResched != nil && h.NeedResched()
	if resched || h.Lock.Contended() {
		if locked {
			h.Lock.Unlock()
			locked = false
		}
		if !h.Sync {
			if h.Contended != nil {
				*h.Contended = true
			}
			return Aborted, false
		}
		if h.Yield != nil {
			h.Yield()
		} else {
			runtime.Gosched()
		}
		if h.FatalPending != nil && h.FatalPending() {
			return Aborted, false
		}
	}
	if !locked {
		h.Lock.Lock()
		locked = true
	}
	return Locked, true
}
