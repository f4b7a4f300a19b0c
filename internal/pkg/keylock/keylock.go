// Package keylock provides per-key mutual exclusion. Workflow services
// take the lock for an entity id around their read-transition-append-
// write sequence so two concurrent validations cannot both observe the
// same pre-transition status.
package keylock

import "sync"

// KeyLock hands out one mutex per key. Locks are retained for the
// lifetime of the process; the key space is bounded by the number of
// live entities.
type KeyLock struct {
	locks sync.Map // key -> *sync.Mutex
}

// New creates an empty KeyLock
func New() *KeyLock {
	return &KeyLock{}
}

// Lock acquires the mutex for key and returns its unlock function.
//
//	defer kl.Lock(key)()
func (k *KeyLock) Lock(key string) func() {
	v, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
