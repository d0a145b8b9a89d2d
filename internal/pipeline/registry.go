package pipeline

import (
	"fmt"
	"sync"

	"github.com/gyaneshwarpardhi/timeslice/internal/config"
)

// Factory compiles a step definition into an executable Step. Parameter
// parsing (expressions, durations) happens here, never at run time.
type Factory func(config.Step) (Step, error)

// Registry maps transform names to their step factories.
// It is safe for concurrent reads; Register should only be called at startup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a Registry pre-populated with the built-in transforms.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	registerBuiltins(r)
	return r
}

// Register adds a factory. Panics on duplicate name to surface
// misconfiguration early.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		panic(fmt.Sprintf("pipeline registry: duplicate transform %q", name))
	}
	r.factories[name] = f
}

// Get returns the factory for the given transform name.
func (r *Registry) Get(name string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("no factory registered for transform %q", name)
	}
	return f, nil
}

// Names returns all registered transform names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for k := range r.factories {
		out = append(out, k)
	}
	return out
}
