package catalog

import (
	"fmt"
	"sort"
	"sync"

	gxserrors "github.com/gxo-labs/gxs/pkg/gxs/v1/errors"
	"github.com/gxo-labs/gxs/pkg/gxs/v1/plugin"
)

// StaticRegistry implements plugin.Registry with a map filled at program
// start, usually from init functions.
type StaticRegistry[T any] struct {
	kind    string
	entries map[string]T
	mu      sync.RWMutex
}

// NewStaticRegistry creates an empty registry. kind names the entries in
// error messages.
func NewStaticRegistry[T any](kind string) *StaticRegistry[T] {
	return &StaticRegistry[T]{
		kind:    kind,
		entries: make(map[string]T),
	}
}

var _ plugin.Registry[int] = (*StaticRegistry[int])(nil)

func (r *StaticRegistry[T]) Kind() string { return r.kind }

// Register stores value under name. Empty and duplicate names are rejected.
func (r *StaticRegistry[T]) Register(name string, value T) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		return gxserrors.NewConfigError(fmt.Sprintf("%s registration error: name cannot be empty", r.kind), nil)
	}
	if _, exists := r.entries[name]; exists {
		return gxserrors.NewConfigError(fmt.Sprintf("%s registration error: duplicate name '%s'", r.kind, name), nil)
	}
	r.entries[name] = value
	return nil
}

// Get returns the value registered under name or a NotFoundError.
func (r *StaticRegistry[T]) Get(name string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, exists := r.entries[name]
	if !exists {
		var zero T
		return zero, gxserrors.NewNotFoundError(r.kind, name)
	}
	return value, nil
}

// List returns the registered names, sorted.
func (r *StaticRegistry[T]) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MustRegister is Register for init functions. It panics on error, since a
// failed registration at start-up is a programming mistake.
func (r *StaticRegistry[T]) MustRegister(name string, value T) {
	if err := r.Register(name, value); err != nil {
		panic(fmt.Errorf("failed to register %s '%s': %w", r.kind, name, err))
	}
}
