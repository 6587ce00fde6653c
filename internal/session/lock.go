package session

import "sync"

// KeyedMutex serializes work per key. Different keys never block each
// other. Waiters on one key acquire in the order they called Lock.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

// keyLock is held while present in the map. Waiters are handed the lock by
// closing their channel.
type keyLock struct {
	waiters []chan struct{}
}

// NewKeyedMutex creates a KeyedMutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyLock)}
}

// Lock acquires the lock for key and returns the function that releases it.
func (k *KeyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	l, held := k.locks[key]
	if !held {
		k.locks[key] = &keyLock{}
		k.mu.Unlock()
		return k.releaser(key)
	}
	ready := make(chan struct{})
	l.waiters = append(l.waiters, ready)
	k.mu.Unlock()

	<-ready
	return k.releaser(key)
}

func (k *KeyedMutex) releaser(key string) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			k.mu.Lock()
			defer k.mu.Unlock()

			l := k.locks[key]
			if len(l.waiters) == 0 {
				delete(k.locks, key)
				return
			}
			next := l.waiters[0]
			l.waiters = l.waiters[1:]
			close(next)
		})
	}
}

// Len returns the number of keys currently held or waited on.
func (k *KeyedMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

// waiting returns the number of callers queued behind the holder of key.
func (k *KeyedMutex) waiting(key string) int {
	k.mu.Lock()
	defer k.mu.Unlock()
	if l, ok := k.locks[key]; ok {
		return len(l.waiters)
	}
	return 0
}
