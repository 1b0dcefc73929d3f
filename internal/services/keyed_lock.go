package services

import "sync"

// keyedLock serializes workflow sections per logical key (booking per email,
// offer response per offer id). The check-then-write sequences in the
// workflows are only correct while a single writer holds the key.
type keyedLock struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedLock() *keyedLock {
	return &keyedLock{locks: make(map[string]*lockEntry)}
}

// Lock acquires the mutex for key and returns the matching unlock function.
// Entries are reference-counted and removed once the last holder releases,
// so the map does not grow with the key space.
func (l *keyedLock) Lock(key string) (unlock func()) {
	l.mu.Lock()
	entry, ok := l.locks[key]
	if !ok {
		entry = &lockEntry{}
		l.locks[key] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}
