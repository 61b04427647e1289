package bot

import (
	"slices"
	"sync"
)

// Registry holds registered modules in registration order.
type Registry struct {
	mu      sync.RWMutex
	modules []Module
}

// NewRegistry creates a new module registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a module to the registry.
// A module registered under an existing name replaces the earlier one in place.
func (r *Registry) Register(m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := slices.IndexFunc(r.modules, func(existing Module) bool {
		return existing.Name() == m.Name()
	})
	if idx >= 0 {
		r.modules[idx] = m
		return
	}
	r.modules = append(r.modules, m)
}

// Modules returns a snapshot of all registered modules.
func (r *Registry) Modules() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.modules)
}

var globalRegistry = NewRegistry()

// Register adds a module to the global registry.
// Modules call it from their init functions.
func Register(m Module) {
	globalRegistry.Register(m)
}

// Modules returns all modules from the global registry.
func Modules() []Module {
	return globalRegistry.Modules()
}

// ResetGlobalRegistry resets the global registry. Tests only.
func ResetGlobalRegistry() {
	globalRegistry = NewRegistry()
}
