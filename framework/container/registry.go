package container

import "sync"

// registry maps identifiers to the ordered list of producers bound to them.
// Identifiers must be comparable; every Identifier this package hands out is.
type registry struct {
	mu       sync.RWMutex
	bindings map[Identifier][]Producer
}

func newRegistry() *registry {
	return &registry{bindings: make(map[Identifier][]Producer)}
}

// add appends p to id's binding. Binding the same producer twice is a no-op
// so multi-resolution never yields it twice.
func (r *registry) add(id Identifier, p Producer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.bindings[id] {
		if existing == p {
			return
		}
	}
	r.bindings[id] = append(r.bindings[id], p)
}

// set replaces id's binding with a single producer.
func (r *registry) set(id Identifier, p Producer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings[id] = []Producer{p}
}

// remove drops p from id's binding.
func (r *registry) remove(id Identifier, p Producer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.bindings[id]
	for i, existing := range list {
		if existing == p {
			r.bindings[id] = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(r.bindings[id]) == 0 {
		delete(r.bindings, id)
	}
}

// producers returns a copy of id's binding in registration order.
func (r *registry) producers(id Identifier) ([]Producer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list, ok := r.bindings[id]
	if !ok || len(list) == 0 {
		return nil, false
	}
	out := make([]Producer, len(list))
	copy(out, list)
	return out, true
}

func (r *registry) has(id Identifier) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bindings[id]) > 0
}

// identifiers returns every bound identifier's name, for debugging.
func (r *registry) identifiers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.bindings))
	for id := range r.bindings {
		out = append(out, id.ServiceName())
	}
	return out
}

func (r *registry) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bindings = make(map[Identifier][]Producer)
}
