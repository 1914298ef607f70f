// Package registry provides the two in-memory catalogs of the executor: the
// process definition registry and the tool registry.
package registry

import (
	"fmt"
	"sync"

	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/domain"
)

// Registry is the in-memory catalog of process definitions. Definitions are
// validated on registration and immutable afterwards.
type Registry struct {
	mu    sync.RWMutex
	defs  map[string]*domain.ProcessDefinition
	order []string
}

// NewRegistry creates an empty definition registry.
func NewRegistry() *Registry {
	return &Registry{
		defs: make(map[string]*domain.ProcessDefinition),
	}
}

// Register validates and stores a definition. Dangling step references are a
// registration-time error, not a runtime one.
func (r *Registry) Register(def *domain.ProcessDefinition) error {
	if def == nil {
		return fmt.Errorf("nil process definition")
	}
	if err := def.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[def.ID]; exists {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateProcess, def.ID)
	}
	r.defs[def.ID] = def
	r.order = append(r.order, def.ID)
	return nil
}

// Get returns the definition with the given id.
func (r *Registry) Get(id string) (*domain.ProcessDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[id]
	return def, ok
}

// All returns every registered definition in registration order.
func (r *Registry) All() []*domain.ProcessDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.ProcessDefinition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.defs[id])
	}
	return out
}
