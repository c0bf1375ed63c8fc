package container

import "sync"

// entry is a cache slot. It is reserved (pending) when construction starts
// and settled exactly once; ready is closed on settlement. A failed
// construction removes its slot, so only pending and successful entries are
// ever found in the cache.
type entry struct {
	ready chan struct{}
	value any
	err   error
}

func newEntry() *entry {
	return &entry{ready: make(chan struct{})}
}

func (e *entry) wait() (any, error) {
	<-e.ready
	return e.value, e.err
}

func (e *entry) settled() bool {
	select {
	case <-e.ready:
		return true
	default:
		return false
	}
}

// instanceCache holds one container's Singleton and PerScope instances keyed
// by producer identity. Names are only for logs; two producers sharing a name
// never share a slot.
type instanceCache struct {
	mu      sync.RWMutex
	entries map[Producer]*entry
}

func newInstanceCache() *instanceCache {
	return &instanceCache{entries: make(map[Producer]*entry)}
}

// lookup returns the slot for p, pending or settled.
func (ic *instanceCache) lookup(p Producer) (*entry, bool) {
	ic.mu.RLock()
	defer ic.mu.RUnlock()
	e, ok := ic.entries[p]
	return e, ok
}

// reserve returns the existing slot for p, or creates a pending one.
// owner is true when the caller created the slot and must settle it.
func (ic *instanceCache) reserve(p Producer) (e *entry, owner bool) {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	if existing, ok := ic.entries[p]; ok {
		return existing, false
	}
	e = newEntry()
	ic.entries[p] = e
	return e, true
}

// complete settles a reserved slot with its instance.
func (ic *instanceCache) complete(e *entry, value any) {
	e.value = value
	close(e.ready)
}

// fail settles a reserved slot with an error and drops it from the cache so
// the next resolution tries again.
func (ic *instanceCache) fail(p Producer, e *entry, err error) {
	ic.mu.Lock()
	if ic.entries[p] == e {
		delete(ic.entries, p)
	}
	ic.mu.Unlock()
	e.err = err
	close(e.ready)
}

// store puts an already-built value in the cache.
func (ic *instanceCache) store(p Producer, value any) {
	e := newEntry()
	e.value = value
	close(e.ready)

	ic.mu.Lock()
	ic.entries[p] = e
	ic.mu.Unlock()
}

// get returns a settled instance without waiting on pending slots.
func (ic *instanceCache) get(p Producer) (any, bool) {
	e, ok := ic.lookup(p)
	if !ok || !e.settled() || e.err != nil {
		return nil, false
	}
	return e.value, true
}

func (ic *instanceCache) len() int {
	ic.mu.RLock()
	defer ic.mu.RUnlock()
	return len(ic.entries)
}

// reset drops every slot. Constructions still in flight settle their own
// (now detached) slots and are not cached.
func (ic *instanceCache) reset() {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	ic.entries = make(map[Producer]*entry)
}
