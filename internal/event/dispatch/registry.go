package dispatch

import "sync"

// Registry maps event kinds to ordered listener lists.
// Registration is safe for concurrent use; listeners are normally
// registered once during setup and never removed.
type Registry struct {
	mu        sync.RWMutex
	listeners map[Kind][]Listener
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		listeners: make(map[Kind][]Listener),
	}
}

// Add appends a listener for kind. Nil listeners are ignored.
// Returns the number of listeners now registered for kind.
func (r *Registry) Add(kind Kind, l Listener) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if l != nil {
		r.listeners[kind] = append(r.listeners[kind], l)
	}
	return len(r.listeners[kind])
}

// Listeners returns a copy of the listeners for kind in registration order.
func (r *Registry) Listeners(kind Kind) []Listener {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ls := r.listeners[kind]
	if len(ls) == 0 {
		return nil
	}
	return append([]Listener(nil), ls...)
}

// Count returns the number of listeners for kind.
func (r *Registry) Count(kind Kind) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listeners[kind])
}

// Has returns true if at least one listener is registered for kind.
func (r *Registry) Has(kind Kind) bool {
	return r.Count(kind) > 0
}

// Clear removes all listeners for kind.
func (r *Registry) Clear(kind Kind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.listeners, kind)
}
