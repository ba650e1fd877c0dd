// Package injector detects which known bindings a source file references and injects
// the import statements for them.
package injector

import (
	"fmt"
	"log/slog"

	"github.com/ludo-technologies/autoimport/domain"
)

// Registry is an immutable table of bindings, indexed by local name
type Registry struct {
	bindings []domain.Binding
	values   map[string]domain.Binding
	types    map[string]domain.Binding
}

// NewRegistry builds a registry. Disabled and ignored bindings are dropped, exact
// duplicates are collapsed, and bindings competing for one local name are resolved by
// priority, then by position (the later one wins) with a warning.
func NewRegistry(bindings []domain.Binding, ignore []string, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ignored := make(map[string]bool, len(ignore))
	for _, name := range ignore {
		ignored[name] = true
	}

	r := &Registry{
		values: make(map[string]domain.Binding),
		types:  make(map[string]domain.Binding),
	}
	for _, b := range bindings {
		if b.Disabled || ignored[b.LocalName()] {
			continue
		}
		if err := b.Validate(); err != nil {
			return nil, err
		}
		if b.IsSideEffect() {
			continue
		}

		table := r.values
		if b.Type {
			table = r.types
		}
		name := b.LocalName()
		existing, ok := table[name]
		switch {
		case !ok:
		case existing.Key() == b.Key():
			continue
		case existing.Priority > b.Priority:
			logger.Warn("duplicated import ignored",
				"name", name, "ignored", b.From, "used", existing.From)
			continue
		default:
			logger.Warn("duplicated import ignored",
				"name", name, "ignored", existing.From, "used", b.From)
		}
		table[name] = b
	}

	r.bindings = make([]domain.Binding, 0, len(r.values)+len(r.types))
	for _, b := range r.values {
		r.bindings = append(r.bindings, b)
	}
	for _, b := range r.types {
		r.bindings = append(r.bindings, b)
	}
	domain.SortBindings(r.bindings)
	return r, nil
}

// MustRegistry is NewRegistry for static tables known to be valid
func MustRegistry(bindings []domain.Binding) *Registry {
	r, err := NewRegistry(bindings, nil, nil)
	if err != nil {
		panic(fmt.Sprintf("injector: invalid bindings: %v", err))
	}
	return r
}

// Lookup returns the injectable binding for a local name
func (r *Registry) Lookup(name string) (domain.Binding, bool) {
	b, ok := r.values[name]
	return b, ok
}

// Bindings returns all bindings, value and type, sorted by local name
func (r *Registry) Bindings() []domain.Binding {
	out := make([]domain.Binding, len(r.bindings))
	copy(out, r.bindings)
	return out
}

// Len returns the number of bindings
func (r *Registry) Len() int {
	return len(r.bindings)
}
