package function

import (
	"fmt"
	"sort"
	"sync"
)

// Factory builds one T from a setup record.
type Factory[T any] func(s *Setup, env Env) (T, error)

// Result is the outcome of a successful Build.
type Result[T any] struct {
	Value T
	// Log is the entry log, including the factory's "done" message.
	Log map[string]any
}

// Registry maps setup type names to factories.
//
// The node uses two instances: one for Functions and one for shared
// hardware. Registration normally happens once at startup, but all
// methods are safe for concurrent use.
type Registry[T any] struct {
	mu        sync.RWMutex
	factories map[string]Factory[T]
}

// NewRegistry returns an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{factories: make(map[string]Factory[T])}
}

// Register adds a factory for typ.
// Returns ErrTypeExists if typ is already registered.
func (r *Registry[T]) Register(typ string, f Factory[T]) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[typ]; exists {
		return fmt.Errorf("registering %q: %w", typ, ErrTypeExists)
	}
	r.factories[typ] = f
	return nil
}

// MustRegister is Register for static wiring at startup; it panics on
// a duplicate type name.
func (r *Registry[T]) MustRegister(typ string, f Factory[T]) {
	if err := r.Register(typ, f); err != nil {
		panic(err)
	}
}

// Has reports whether typ is registered.
func (r *Registry[T]) Has(typ string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[typ]
	return ok
}

// Types returns the registered type names, sorted.
func (r *Registry[T]) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for typ := range r.factories {
		out = append(out, typ)
	}
	sort.Strings(out)
	return out
}

// Build looks up the record's type and runs its factory.
//
// Parameters:
//   - s: The setup record
//   - env: Collaborators handed to the factory
//
// Returns:
//   - Result[T]: The built value and its entry log
//   - error: ErrUnknownType if the type is not registered, ErrInvalidSetup
//     if the record is incomplete, or the factory's own error
//
// The entry log in s is populated on failure too.
func (r *Registry[T]) Build(s *Setup, env Env) (Result[T], error) {
	typ := s.Type()

	r.mu.RLock()
	f, ok := r.factories[typ]
	r.mu.RUnlock()

	if !ok {
		return Result[T]{Log: s.Log()}, fmt.Errorf("building %q: %w", typ, ErrUnknownType)
	}
	if env.Logger == nil {
		env.Logger = NoopLogger{}
	}

	v, err := f(s, env)
	if err != nil {
		return Result[T]{Log: s.Log()}, fmt.Errorf("building %q: %w", typ, err)
	}
	if !s.OK() {
		return Result[T]{Log: s.Log()}, fmt.Errorf("building %q: %w", typ, ErrInvalidSetup)
	}
	return Result[T]{Value: v, Log: s.Log()}, nil
}
