package audio

import "sync/atomic"

// Lock admits at most one in-flight playback. Only the request that
// acquired it may release it.
type Lock struct {
	busy atomic.Bool
}

// TryAcquire takes the lock, reporting false when a playback is in flight.
func (l *Lock) TryAcquire() bool {
	return l.busy.CompareAndSwap(false, true)
}

// Release frees the lock.
func (l *Lock) Release() {
	l.busy.Store(false)
}

// Busy reports whether a playback is in flight.
func (l *Lock) Busy() bool {
	return l.busy.Load()
}
