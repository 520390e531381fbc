package bot

import "sync"

// Registry holds registered modules in registration order, indexed by name.
type Registry struct {
	mu      sync.RWMutex
	modules []Module
	byName  map[string]Module
}

// NewRegistry creates a new module registry.
func NewRegistry() *Registry {
	return &Registry{
		modules: make([]Module, 0),
		byName:  make(map[string]Module),
	}
}

// Register adds a module to the registry. It panics if m is nil or a module
// with the same name is already registered.
func (r *Registry) Register(m Module) {
	if m == nil {
		panic("bot: Register module is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.byName[m.Name()]; dup {
		panic("bot: Register called twice for module " + m.Name())
	}
	r.modules = append(r.modules, m)
	r.byName[m.Name()] = m
}

// Lookup returns the module registered under name.
func (r *Registry) Lookup(name string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byName[name]
	return m, ok
}

// Modules returns a copy of the registered modules.
func (r *Registry) Modules() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Module, len(r.modules))
	copy(result, r.modules)
	return result
}

// modulesOf returns the modules that also implement T, keeping their order.
func modulesOf[T any](modules []Module) []T {
	var result []T
	for _, m := range modules {
		if t, ok := m.(T); ok {
			result = append(result, t)
		}
	}
	return result
}

var globalRegistry = NewRegistry()

// Register adds a module to the global registry. Modules call it from init().
func Register(m Module) {
	globalRegistry.Register(m)
}

// Modules returns all modules from the global registry.
func Modules() []Module {
	return globalRegistry.Modules()
}

// ResetGlobalRegistry replaces the global registry with an empty one. Tests only.
func ResetGlobalRegistry() {
	globalRegistry = NewRegistry()
}
