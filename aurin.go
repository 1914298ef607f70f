package aurin

import (
	"context"
	"errors"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/internal/intent"
	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/internal/logging"
	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/internal/observability"
	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/internal/runtime"
	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/adapters/memory"
	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/domain"
	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/ports"
	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/registry"
	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/session"
)

// Version is the library version.
const Version = "0.3.0"

// Engine is the public facade of the structured process executor. It owns
// the definition registry, the intent detector, the session manager and the
// executor core, and exposes the conversational entry points.
type Engine struct {
	registry *registry.Registry
	tools    *registry.ToolRegistry
	detector *intent.Detector
	sessions *session.Manager
	executor *runtime.Executor

	store      ports.ContextStore
	invoker    ports.ToolInvoker
	locker     ports.DistributedLocker
	extractor  ports.EntityExtractor
	classifier ports.IntentClassifier
	metricsReg prometheus.Registerer

	maxIterations int
	logger        *slog.Logger
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger injects a structured logger. Defaults to a no-op.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithStore replaces the default in-memory context store.
func WithStore(store ports.ContextStore) Option {
	return func(e *Engine) { e.store = store }
}

// WithLocker enables distributed session locking (multi-replica hosts).
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) { e.locker = locker }
}

// WithToolInvoker replaces the built-in tool registry with an external
// invoker. RegisterTool returns an error when this option is set.
func WithToolInvoker(invoker ports.ToolInvoker) Option {
	return func(e *Engine) { e.invoker = invoker }
}

// WithEntityExtractor overrides the built-in entity extractor.
func WithEntityExtractor(extractor ports.EntityExtractor) Option {
	return func(e *Engine) { e.extractor = extractor }
}

// WithIntentClassifier plugs in a classifier for triggers of kind "intent".
func WithIntentClassifier(classifier ports.IntentClassifier) Option {
	return func(e *Engine) { e.classifier = classifier }
}

// WithMaxIterations overrides the step-loop safety bound (default 10).
func WithMaxIterations(n int) Option {
	return func(e *Engine) { e.maxIterations = n }
}

// WithMetrics registers Prometheus collectors with the given registerer.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(e *Engine) { e.metricsReg = reg }
}

// ErrExternalInvoker is returned by RegisterTool when a custom tool invoker
// is in use.
var ErrExternalInvoker = errors.New("engine uses an external tool invoker")

// New assembles an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger:        logging.NewNop(),
		maxIterations: runtime.DefaultMaxIterations,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.store == nil {
		e.store = memory.NewStore()
	}
	if e.invoker == nil {
		e.tools = registry.NewToolRegistry(registry.WithToolLogger(e.logger))
		e.invoker = e.tools
	}

	detectorOpts := []intent.DetectorOption{intent.WithLogger(e.logger)}
	if e.extractor != nil {
		detectorOpts = append(detectorOpts, intent.WithExtractor(e.extractor))
	}
	if e.classifier != nil {
		detectorOpts = append(detectorOpts, intent.WithClassifier(e.classifier))
	}
	e.detector = intent.NewDetector(detectorOpts...)

	e.registry = registry.NewRegistry()

	sessionOpts := []session.Option{session.WithLogger(e.logger)}
	if e.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(e.locker))
	}
	e.sessions = session.NewManager(e.store, sessionOpts...)

	executorOpts := []runtime.ExecutorOption{
		runtime.WithLogger(e.logger),
		runtime.WithMaxIterations(e.maxIterations),
	}
	if e.metricsReg != nil {
		executorOpts = append(executorOpts, runtime.WithMetrics(observability.New(e.metricsReg)))
	}
	e.executor = runtime.NewExecutor(e.registry, e.detector, e.sessions, e.invoker, executorOpts...)

	return e
}

// RegisterProcess validates and stores a definition and indexes its triggers
// with the intent detector.
func (e *Engine) RegisterProcess(def *domain.ProcessDefinition) error {
	if err := e.registry.Register(def); err != nil {
		return err
	}
	if err := e.detector.RegisterTriggers(def.ID, def.Triggers); err != nil {
		return err
	}
	e.logger.Info("process registered", "process_id", def.ID, "triggers", len(def.Triggers))
	return nil
}

// RegisterTool adds a tool to the built-in registry.
func (e *Engine) RegisterTool(name string, fn registry.ToolFunc) error {
	if e.tools == nil {
		return ErrExternalInvoker
	}
	e.tools.Register(name, fn)
	return nil
}

// ProcessMessage offers one message to the executor. A nil result with a nil
// error means no process matched: route the message to the language-model
// fallback instead.
func (e *Engine) ProcessMessage(ctx context.Context, msg domain.IncomingMessage) (*domain.ProcessResult, error) {
	return e.executor.ProcessMessage(ctx, msg)
}

// ClearSessionContext drops whatever context the session holds.
func (e *Engine) ClearSessionContext(ctx context.Context, sessionID string) error {
	return e.sessions.Delete(ctx, sessionID)
}

// HasActiveProcess reports whether the session holds a non-terminal context.
func (e *Engine) HasActiveProcess(ctx context.Context, sessionID string) bool {
	pctx, err := e.sessions.Load(ctx, sessionID)
	if err != nil || pctx == nil {
		return false
	}
	return !pctx.Status.Terminal()
}

// ActiveProcessState returns a snapshot of the session's in-flight process,
// or nil when the session has none.
func (e *Engine) ActiveProcessState(ctx context.Context, sessionID string) (*domain.ActiveProcessState, error) {
	pctx, err := e.sessions.Load(ctx, sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.ActiveProcessState{
		ProcessID:            pctx.ProcessID,
		Status:               pctx.Status,
		AwaitingInput:        pctx.AwaitingInput,
		AwaitingConfirmation: pctx.AwaitingConfirmation,
	}, nil
}

// Definitions returns every registered process definition.
func (e *Engine) Definitions() []*domain.ProcessDefinition {
	return e.registry.All()
}
