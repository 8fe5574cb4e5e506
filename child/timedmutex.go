package child

import "time"

// timedMutex is a mutual-exclusion lock whose acquisition can be bounded
// by a deadline, modeling the Rust source's timed tokio::Mutex::lock
// pattern: the endpoint lock is shared between the fetch loop and the
// user-initiated send path, and the fetch loop must be able to give up on
// acquiring it rather than starve a concurrent send.
type timedMutex struct {
	ch chan struct{}
}

func newTimedMutex() *timedMutex {
	m := &timedMutex{ch: make(chan struct{}, 1)}
	m.ch <- struct{}{}
	return m
}

// Lock blocks until the lock is available.
func (m *timedMutex) Lock() {
	<-m.ch
}

// TryLock attempts to acquire the lock within d, reporting whether it
// succeeded.
func (m *timedMutex) TryLock(d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-m.ch:
		return true
	case <-t.C:
		return false
	}
}

// Unlock releases the lock. Must only be called by the goroutine that
// holds it.
func (m *timedMutex) Unlock() {
	m.ch <- struct{}{}
}
