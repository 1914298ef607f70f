// Package memory provides the default in-memory context store.
package memory

import (
	"context"
	"sync"

	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/domain"
)

// Store implements ports.ContextStore in memory. Safe for concurrent use.
type Store struct {
	data map[string]*domain.ProcessContext
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.ProcessContext),
	}
}

// clone copies a context so callers cannot mutate stored state by pointer.
func clone(pctx *domain.ProcessContext) *domain.ProcessContext {
	cp := *pctx
	cp.Slots = make(map[string]any, len(pctx.Slots))
	for k, v := range pctx.Slots {
		cp.Slots[k] = v
	}
	cp.ToolResults = make(map[string]any, len(pctx.ToolResults))
	for k, v := range pctx.ToolResults {
		cp.ToolResults[k] = v
	}
	cp.History = append([]domain.HistoryEntry(nil), pctx.History...)
	cp.PendingResponses = append([]string(nil), pctx.PendingResponses...)
	return &cp
}

// Save persists the context in memory.
func (s *Store) Save(ctx context.Context, sessionID string, pctx *domain.ProcessContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = clone(pctx)
	return nil
}

// Load retrieves the context for a session.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.ProcessContext, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pctx, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return clone(pctx), nil
}

// Delete removes the context.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns the sessions with a stored context.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	return sessions, nil
}
