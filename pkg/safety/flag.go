package safety

import "sync/atomic"

// Flag is the fast-path emergency flag. It holds the time of the latest
// trip in microseconds, or 0 when safe, in a single atomic word.
type Flag struct {
	trippedAt atomic.Uint64
}

// Trip marks the flag unsafe. It is safe to call from restricted contexts.
func (f *Flag) Trip(now uint64) {
	if now == 0 {
		now = 1
	}
	f.trippedAt.Store(now)
}

// Safe indicates the flag is not tripped.
func (f *Flag) Safe() bool {
	return f.trippedAt.Load() == 0
}

// TrippedAt returns the time of the latest trip, 0 if safe.
func (f *Flag) TrippedAt() uint64 {
	return f.trippedAt.Load()
}

// clear resets the flag only if no trip happened after the observed one.
func (f *Flag) clear(observed uint64) bool {
	if observed == 0 {
		return true
	}
	return f.trippedAt.CompareAndSwap(observed, 0)
}
