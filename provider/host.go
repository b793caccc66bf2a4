package provider

import "sync"

// DefaultName is the global name wallet extensions inject themselves under.
const DefaultName = "solana"

// Host is a process-wide registry of injected objects.
type Host struct {
	mu      sync.RWMutex
	objects map[string]any
}

// NewHost creates an empty host environment
func NewHost() *Host {
	return &Host{objects: make(map[string]any)}
}

// Inject publishes obj under name, replacing any previous object.
func (h *Host) Inject(name string, obj any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.objects[name] = obj
}

// Remove withdraws whatever is published under name.
func (h *Host) Remove(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.objects, name)
}

// Lookup returns the object published under name.
func (h *Host) Lookup(name string) (any, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	obj, ok := h.objects[name]
	return obj, ok
}
