package evalflow

import (
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/askiada/go-evalflow/pkg/evalflow/model"
)

// Registry resolves evaluator and target names to callables, so
// configuration surfaces can reference them by name.
type Registry struct {
	mu        sync.RWMutex
	callables map[string]model.Callable
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		callables: make(map[string]model.Callable),
	}
}

// Register adds a named callable. Empty names, nil callables and
// duplicate names are rejected.
func (r *Registry) Register(name string, callable model.Callable) error {
	if name == "" {
		return errors.New("callable name must be set")
	}

	if callable == nil {
		return errors.Errorf("callable %s must not be nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.callables[name]; ok {
		return errors.Errorf("callable %s already registered", name)
	}

	r.callables[name] = callable

	return nil
}

// MustRegister is Register panicking on error, for package init wiring.
func (r *Registry) MustRegister(name string, callable model.Callable) {
	err := r.Register(name, callable)
	if err != nil {
		panic(err)
	}
}

// Lookup returns the callable registered under name.
func (r *Registry) Lookup(name string) (model.Callable, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	callable, ok := r.callables[name]

	return callable, ok
}

// Names returns every registered name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.callables))
	for name := range r.callables {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
