// Package ports defines the boundaries between the executor core and its
// collaborators: context persistence, tool invocation, entity extraction,
// distributed locking and the language-model fallback.
package ports

import (
	"context"
	"time"

	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/domain"
)

// ContextStore persists per-session process contexts.
type ContextStore interface {
	// Save persists the context for a session ID.
	Save(ctx context.Context, sessionID string, pctx *domain.ProcessContext) error

	// Load retrieves the context for a session ID.
	// Returns domain.ErrSessionNotFound if the session has no context.
	Load(ctx context.Context, sessionID string) (*domain.ProcessContext, error)

	// Delete removes the context for a session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the session IDs with a stored context.
	List(ctx context.Context) ([]string, error)
}

// ToolInvoker executes a named side-effecting operation. Tool-level failures
// are reported through ToolResult.IsError; the returned error is reserved for
// transport problems. The executor treats both as process-ending.
type ToolInvoker interface {
	Invoke(ctx context.Context, call domain.ToolCall) (domain.ToolResult, error)
}

// EntityExtractor pulls structured values (dates, numbers, quoted names) out
// of free text. Implementations must be pure and side-effect free.
type EntityExtractor interface {
	Extract(message string) map[string]any
}

// ExtractorFunc adapts a plain function to EntityExtractor.
type ExtractorFunc func(message string) map[string]any

func (f ExtractorFunc) Extract(message string) map[string]any { return f(message) }

// IntentClassifier backs triggers of kind "intent". The default classifier
// never matches; hosts may plug in a lightweight external model.
type IntentClassifier interface {
	Classify(ctx context.Context, message string) (label string, confidence float64, err error)
}

// UnlockFunc releases a previously acquired lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes session access across process replicas.
type DistributedLocker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}

// Fallback is the conversational loop consulted when no process claims a
// message. The executor has no further involvement in that turn.
type Fallback interface {
	Handle(ctx context.Context, msg domain.IncomingMessage) (string, error)
}
