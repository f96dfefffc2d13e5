package tool

import (
	"fmt"
	"iter"
	"strings"
)

type entry struct {
	descriptor Descriptor
	executor   Executor
}

// Registry holds every registered tool and its schema. Registration happens
// once, before any transport starts accepting requests; the registry is
// read-only afterwards, so lookups take no lock.
type Registry struct {
	entries map[string]*entry
	order   []string
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Register adds a tool under its descriptor name. Returns ErrDuplicateTool
// if the name is taken, and rejects malformed descriptors (blank names,
// unknown types, defaults that do not match their declared type).
func (r *Registry) Register(descriptor Descriptor, executor Executor) error {
	descriptor.Name = strings.TrimSpace(descriptor.Name)
	if err := descriptor.validate(); err != nil {
		return err
	}
	if executor == nil {
		return fmt.Errorf("tool %q: executor is required", descriptor.Name)
	}
	if _, exists := r.entries[descriptor.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, descriptor.Name)
	}

	r.entries[descriptor.Name] = &entry{descriptor: descriptor, executor: executor}
	r.order = append(r.order, descriptor.Name)
	return nil
}

// Lookup resolves a tool name to its descriptor and executor.
func (r *Registry) Lookup(name string) (*Descriptor, Executor, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return &e.descriptor, e.executor, nil
}

// List yields every descriptor in registration order. The sequence is
// restartable: ranging over it twice walks the same descriptors again.
func (r *Registry) List() iter.Seq[Descriptor] {
	return func(yield func(Descriptor) bool) {
		for _, name := range r.order {
			if !yield(r.entries[name].descriptor) {
				return
			}
		}
	}
}

// Len reports the number of registered tools.
func (r *Registry) Len() int { return len(r.order) }
