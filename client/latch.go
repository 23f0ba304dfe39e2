package client

import "sync"

// Latch is a one-shot guard for the forced-logout redirect: when several
// concurrent requests observe a 401 at once, only the first caller to
// TryAcquire wins and triggers the sign-out sequence. It never resets on its
// own; Reset exists so a long-lived process (or a test) can rearm it.
type Latch struct {
	mu    sync.Mutex
	fired bool
}

// TryAcquire fires the latch. It returns true for exactly one caller until
// Reset is called.
func (l *Latch) TryAcquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fired {
		return false
	}
	l.fired = true
	return true
}

// Reset rearms the latch.
func (l *Latch) Reset() {
	l.mu.Lock()
	l.fired = false
	l.mu.Unlock()
}
