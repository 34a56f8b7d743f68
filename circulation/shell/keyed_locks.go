package shell

import (
	"sync"
)

// KeyedLocks is a mutex per key, serializing in-process operations on one item or one member.
// Entries are dropped once no goroutine holds or waits for them.
type KeyedLocks struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedLocks creates an empty lock table.
func NewKeyedLocks() *KeyedLocks {
	return &KeyedLocks{locks: make(map[string]*keyedLock)}
}

// Lock blocks until key is free and returns the function releasing it.
// It does not watch any context; callers check cancellation once they hold the lock.
func (l *KeyedLocks) Lock(key string) (unlock func()) {
	l.mu.Lock()
	lock, ok := l.locks[key]
	if !ok {
		lock = &keyedLock{}
		l.locks[key] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()

		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

// Len returns the number of keys currently locked or waited for.
func (l *KeyedLocks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.locks)
}
