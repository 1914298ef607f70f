package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/internal/logging"
	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/domain"
)

// ToolFunc is the signature for a tool implementation. It receives a context
// and the resolved arguments, and returns a result or an error.
type ToolFunc func(ctx context.Context, args map[string]any) (any, error)

// ToolRegistry manages the available tools and implements ports.ToolInvoker.
type ToolRegistry struct {
	mu     sync.RWMutex
	tools  map[string]ToolFunc
	logger *slog.Logger
}

// ToolOption configures the ToolRegistry.
type ToolOption func(*ToolRegistry)

// WithToolLogger configures a logger for tool invocations.
func WithToolLogger(logger *slog.Logger) ToolOption {
	return func(r *ToolRegistry) {
		r.logger = logger
	}
}

// NewToolRegistry creates a new empty tool registry.
func NewToolRegistry(opts ...ToolOption) *ToolRegistry {
	r := &ToolRegistry{
		tools:  make(map[string]ToolFunc),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a tool to the registry. A tool with the same name is
// overwritten.
func (r *ToolRegistry) Register(name string, fn ToolFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[name] = fn
}

// Names returns the registered tool names.
func (r *ToolRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	return names
}

// Invoke looks up the named tool and executes it. Panics inside a tool are
// recovered and reported as tool errors so they never escape the step
// boundary.
func (r *ToolRegistry) Invoke(ctx context.Context, call domain.ToolCall) (result domain.ToolResult, err error) {
	r.mu.RLock()
	fn, ok := r.tools[call.Name]
	r.mu.RUnlock()

	result.ID = call.ID
	if !ok {
		result.IsError = true
		result.Error = fmt.Sprintf("tool not found: %s", call.Name)
		return result, nil
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("tool panicked", "tool", call.Name, "call_id", call.ID, "err", rec)
			result.IsError = true
			result.Error = fmt.Sprintf("tool %s panicked: %v", call.Name, rec)
			err = nil
		}
	}()

	r.logger.Debug("invoking tool", "tool", call.Name, "call_id", call.ID)
	out, callErr := fn(ctx, call.Args)
	if callErr != nil {
		r.logger.Error("tool failed", "tool", call.Name, "call_id", call.ID, "err", callErr)
		result.IsError = true
		result.Error = callErr.Error()
		return result, nil
	}

	result.Result = out
	return result, nil
}
