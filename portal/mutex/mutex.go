// Package mutex serializes upstream operations per identity. The WebForms
// backend regenerates view-state per postback, so two concurrent operations
// on the same dealer session are not independently consistent and must run
// one at a time.
package mutex

import (
	"sync"
	"sync/atomic"
)

// refs counts the goroutines holding or waiting on the entry; -1 marks an
// entry retired from the table, never to be handed out again.
type entry struct {
	mu   sync.Mutex
	refs int32
}

// Keyed is a mutex per key. Entries are reference counted across the whole
// Lock/Unlock span and removed from the table once the last holder unlocks,
// so idle keys do not accumulate.
type Keyed[K comparable] struct {
	table sync.Map // map[K]*entry
}

func (m *Keyed[K]) get(key K) *entry {
	for {
		v, loaded := m.table.LoadOrStore(key, &entry{refs: 1})
		e := v.(*entry)
		if !loaded {
			return e
		}
		for {
			r := atomic.LoadInt32(&e.refs)
			if r < 0 {
				// retired; reload until the delete lands
				break
			}
			if atomic.CompareAndSwapInt32(&e.refs, r, r+1) {
				return e
			}
		}
	}
}

func (m *Keyed[K]) put(key K, e *entry) {
	if atomic.AddInt32(&e.refs, -1) == 0 {
		// A CAS loss here means another goroutine revived the entry
		// between our decrement and the retire; it stays in the table.
		if atomic.CompareAndSwapInt32(&e.refs, 0, -1) {
			m.table.CompareAndDelete(key, e)
		}
	}
}

func (m *Keyed[K]) Lock(key K) {
	m.get(key).mu.Lock()
}

func (m *Keyed[K]) Unlock(key K) {
	v, ok := m.table.Load(key)
	if !ok {
		panic("mutex: unlock of unheld key")
	}
	e := v.(*entry)
	e.mu.Unlock()
	m.put(key, e)
}
