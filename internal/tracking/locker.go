package tracking

import "sync"

// Locker hands out one mutex per repository. Callers hold it across a
// lookup-then-write sequence so no other task observes the intermediate state.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLocker creates an empty Locker
func NewLocker() *Locker {
	return &Locker{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the lock of owner/repo and returns the function that releases it
func (l *Locker) Lock(owner, repo string) (unlock func()) {
	key := owner + "/" + repo

	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
