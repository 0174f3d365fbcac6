// Copyright The Callstash Authors.
// SPDX-License-Identifier: MIT

package concurrent

import "sync"

// KeyedMutex provides mutual exclusion per string key. The ingestion
// pipeline locks on the engagement id so duplicate webhook deliveries for
// the same engagement serialize instead of racing on the same destination
// file and store upsert. Distinct keys never contend.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedMutex creates an empty keyed mutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyedLock)}
}

// Lock acquires the mutex for key, blocking while another holder owns it,
// and returns the matching unlock function. Entries are removed once the
// last holder releases, so the map does not grow with the id space.
func (km *KeyedMutex) Lock(key string) (unlock func()) {
	km.mu.Lock()
	l, ok := km.locks[key]
	if !ok {
		l = &keyedLock{}
		km.locks[key] = l
	}
	l.refs++
	km.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		km.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(km.locks, key)
		}
		km.mu.Unlock()
	}
}
