// Package runtime implements the process executor: a deterministic,
// session-scoped state machine that runs registered process definitions
// step by step until they complete, cancel, error or pause for user input.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/internal/intent"
	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/internal/logging"
	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/internal/observability"
	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/domain"
	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/ports"
	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/registry"
	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/session"
)

// DefaultMaxIterations bounds the step loop against runaway branch cycles.
const DefaultMaxIterations = 10

// Executor advances process contexts through their definitions. All work for
// one message runs to completion (or to a pause point) under the session's
// lock before returning.
type Executor struct {
	registry *registry.Registry
	detector *intent.Detector
	sessions *session.Manager
	store    ports.ContextStore
	invoker  ports.ToolInvoker

	metrics       *observability.Metrics
	logger        *slog.Logger
	maxIterations int
}

// ExecutorOption configures the Executor.
type ExecutorOption func(*Executor)

// WithLogger configures structured logging.
func WithLogger(logger *slog.Logger) ExecutorOption {
	return func(e *Executor) { e.logger = logger }
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *observability.Metrics) ExecutorOption {
	return func(e *Executor) { e.metrics = m }
}

// WithMaxIterations overrides the step-loop bound.
func WithMaxIterations(n int) ExecutorOption {
	return func(e *Executor) {
		if n > 0 {
			e.maxIterations = n
		}
	}
}

// NewExecutor wires the registry, detector, session manager and tool invoker
// into an executor.
func NewExecutor(reg *registry.Registry, det *intent.Detector, sessions *session.Manager, invoker ports.ToolInvoker, opts ...ExecutorOption) *Executor {
	e := &Executor{
		registry:      reg,
		detector:      det,
		sessions:      sessions,
		store:         sessions.Store(),
		invoker:       invoker,
		logger:        logging.NewNop(),
		maxIterations: DefaultMaxIterations,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ProcessMessage offers one inbound message to the executor. A nil result
// with a nil error means no registered process claimed the message and the
// caller should defer to its language-model fallback.
func (e *Executor) ProcessMessage(ctx context.Context, msg domain.IncomingMessage) (*domain.ProcessResult, error) {
	start := time.Now()
	var result *domain.ProcessResult

	err := e.sessions.WithLock(ctx, msg.SessionID, func(ctx context.Context) error {
		var innerErr error
		result, innerErr = e.processLocked(ctx, msg)
		return innerErr
	})

	e.metrics.Turn(time.Since(start))
	return result, err
}

// processLocked runs one turn while holding the session lock. It uses the
// store directly; re-entering the session manager here would deadlock.
func (e *Executor) processLocked(ctx context.Context, msg domain.IncomingMessage) (*domain.ProcessResult, error) {
	pctx, err := e.store.Load(ctx, msg.SessionID)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, err
	}

	if pctx != nil {
		pctx = e.expireStale(ctx, pctx)
	}

	if pctx != nil && pctx.Status == domain.StatusError {
		// Dead context: eligible for pre-emption by a fresh match. It stays in
		// the store for inspection until replaced or cleared.
		if m := e.detector.Detect(ctx, msg.Message, msg.UserContext()); m != nil {
			return e.startProcess(ctx, m, msg)
		}
		return nil, nil
	}

	if pctx != nil && !pctx.Status.Terminal() {
		def, ok := e.registry.Get(pctx.ProcessID)
		if !ok {
			// Definition gone; drop the orphaned context.
			e.logger.Warn("active context references unregistered process", "process_id", pctx.ProcessID, "session_id", pctx.SessionID)
			if err := e.store.Delete(ctx, msg.SessionID); err != nil {
				return nil, err
			}
		} else {
			cont := e.detector.ShouldContinue(msg.Message, pctx)
			if cont.Continue {
				return e.continueProcess(ctx, def, pctx, msg, cont), nil
			}
			if m := e.detector.Detect(ctx, msg.Message, msg.UserContext()); m != nil && m.ProcessID != pctx.ProcessID {
				// Topic switch: the new process pre-empts the active one.
				e.cancelContext(ctx, pctx)
				return e.startProcess(ctx, m, msg)
			}
			// Nothing matched; re-issue the current pause unchanged.
			return e.awaitingResult(def, pctx), nil
		}
	}

	m := e.detector.Detect(ctx, msg.Message, msg.UserContext())
	if m == nil {
		return nil, nil
	}
	return e.startProcess(ctx, m, msg)
}

// expireStale auto-cancels a context whose awaiting state outlived the
// definition's timeout. Returns nil when the context was reclaimed.
func (e *Executor) expireStale(ctx context.Context, pctx *domain.ProcessContext) *domain.ProcessContext {
	if pctx.Status.Terminal() {
		return pctx
	}
	def, ok := e.registry.Get(pctx.ProcessID)
	if !ok || def.Config.Timeout <= 0 {
		return pctx
	}
	if time.Since(pctx.UpdatedAt) <= def.Config.Timeout {
		return pctx
	}
	e.logger.Info("cancelling stale process",
		"process_id", pctx.ProcessID,
		"session_id", pctx.SessionID,
		"idle", time.Since(pctx.UpdatedAt).String(),
	)
	e.cancelContext(ctx, pctx)
	return nil
}

// startProcess creates a fresh context seeded from extraction, trigger data
// and slot defaults, then runs the step loop.
func (e *Executor) startProcess(ctx context.Context, m *intent.Match, msg domain.IncomingMessage) (*domain.ProcessResult, error) {
	def, ok := e.registry.Get(m.ProcessID)
	if !ok {
		return &domain.ProcessResult{
			Success:   false,
			ProcessID: m.ProcessID,
			Status:    domain.StatusError,
			Error:     domain.ErrCodeProcessNotFound,
			Response:  "No encontré el proceso solicitado.",
		}, nil
	}

	pctx := domain.NewProcessContext(def.ID, msg.SessionID, msg.UserContext(), def.InitialStep)
	seedSlots(def, pctx, m.Extracted)

	if err := e.store.Save(ctx, msg.SessionID, pctx); err != nil {
		return nil, err
	}

	e.logger.Info("process started", "process_id", def.ID, "session_id", msg.SessionID)
	e.metrics.ProcessStarted(def.ID)

	return e.run(ctx, def, pctx), nil
}

// continueProcess applies a continuation action to the active context.
func (e *Executor) continueProcess(ctx context.Context, def *domain.ProcessDefinition, pctx *domain.ProcessContext, msg domain.IncomingMessage, cont intent.Continuation) *domain.ProcessResult {
	switch cont.Action {
	case intent.ActionCancel:
		if !def.Config.AllowCancel {
			return e.awaitingResult(def, pctx)
		}
		e.cancelContext(ctx, pctx)
		return &domain.ProcessResult{
			Success:   true,
			ProcessID: pctx.ProcessID,
			Status:    domain.StatusCancelled,
			Response:  "De acuerdo, he cancelado el proceso.",
		}

	case intent.ActionModify:
		for name, raw := range cont.Modifications {
			if slot, ok := def.Slot(name); ok {
				pctx.Slots[name] = ParseSlotValue(slot.Type, raw)
			} else {
				pctx.Slots[name] = raw
			}
		}
		pctx.Touch()
		if confirm, ok := e.currentStep(def, pctx).(*domain.ConfirmStep); ok {
			// Rebuild the confirmation with updated values; the loop is not
			// re-run.
			e.saveQuiet(ctx, pctx)
			return e.confirmResult(confirm, pctx)
		}
		e.saveQuiet(ctx, pctx)
		return e.run(ctx, def, pctx)

	case intent.ActionConfirm:
		pctx.AwaitingConfirmation = false
		if confirm, ok := e.currentStep(def, pctx).(*domain.ConfirmStep); ok {
			if confirm.Next == "" {
				return e.complete(ctx, pctx)
			}
			pctx.CurrentStep = confirm.Next
		}
		pctx.Status = domain.StatusExecuting
		pctx.Touch()
		e.saveQuiet(ctx, pctx)
		return e.run(ctx, def, pctx)

	case intent.ActionInput:
		pctx.AwaitingInput = false
		name := pctx.AwaitingSlot
		if name == "" {
			if collect, ok := e.currentStep(def, pctx).(*domain.CollectStep); ok {
				for _, candidate := range collect.Slots {
					if !pctx.SlotSet(candidate) {
						name = candidate
						break
					}
				}
			}
		}
		if name != "" {
			if slot, ok := def.Slot(name); ok {
				pctx.Slots[name] = ParseSlotValue(slot.Type, msg.Message)
			} else {
				pctx.Slots[name] = strings.TrimSpace(msg.Message)
			}
		}
		pctx.AwaitingSlot = ""
		pctx.Touch()
		e.saveQuiet(ctx, pctx)
		return e.run(ctx, def, pctx)
	}

	return e.awaitingResult(def, pctx)
}

// run is the core step loop, bounded by maxIterations.
func (e *Executor) run(ctx context.Context, def *domain.ProcessDefinition, pctx *domain.ProcessContext) *domain.ProcessResult {
	for i := 0; i < e.maxIterations; i++ {
		step, ok := def.Step(pctx.CurrentStep)
		if !ok {
			stepErr := &domain.UnknownStepError{ProcessID: pctx.ProcessID, StepID: pctx.CurrentStep}
			return e.fail(ctx, pctx, domain.ErrCodeStepNotFound, stepErr.Error())
		}

		if hook := step.Enter(); hook != nil {
			hook(pctx)
		}
		pctx.Record(domain.HistoryEntry{Kind: domain.HistoryEnter, Step: step.StepID()})
		e.logger.Debug("entering step", "process_id", pctx.ProcessID, "step", step.StepID(), "session_id", pctx.SessionID)

		switch s := step.(type) {
		case *domain.CollectStep:
			if res := e.collect(ctx, def, pctx, s); res != nil {
				return res
			}

		case *domain.ValidateStep:
			for _, rule := range s.Rules {
				if Evaluate(rule.Condition, pctx) {
					continue
				}
				switch rule.OnFail {
				case domain.FailRetry, domain.FailSkip:
					// No-ops for the loop; definitions model re-asking via
					// branch steps.
				default:
					return e.fail(ctx, pctx, domain.ErrCodeValidationFailed, rule.ErrorMessage)
				}
			}

		case *domain.ConfirmStep:
			pctx.AwaitingConfirmation = true
			pctx.Status = domain.StatusConfirming
			pctx.Touch()
			e.saveQuiet(ctx, pctx)
			return e.confirmResult(s, pctx)

		case *domain.ExecuteStep:
			pctx.Status = domain.StatusExecuting
			if res := e.execute(ctx, pctx, s); res != nil {
				return res
			}

		case *domain.RespondStep:
			text := s.Text
			if s.Build != nil {
				text = s.Build(pctx)
			} else {
				text = Render(text, pctx)
			}
			pctx.PendingResponses = append(pctx.PendingResponses, text)

		case *domain.BranchStep:
			target := ""
			for _, b := range s.Branches {
				if Evaluate(b.Condition, pctx) {
					target = b.Next
					break
				}
			}
			if hook := step.Exit(); hook != nil {
				hook(pctx)
			}
			if target == "" {
				// No branch held; nothing left to do.
				return e.complete(ctx, pctx)
			}
			pctx.CurrentStep = target
			pctx.Touch()
			continue
		}

		if hook := step.Exit(); hook != nil {
			hook(pctx)
		}

		next := step.NextStep()
		if next == "" {
			return e.complete(ctx, pctx)
		}
		pctx.CurrentStep = next
		pctx.Touch()

		if _, isExecute := step.(*domain.ExecuteStep); isExecute {
			// Commit the advancement past the side effect so a re-entry can
			// never invoke the tool twice.
			e.saveQuiet(ctx, pctx)
		}
	}

	return e.fail(ctx, pctx, domain.ErrCodeMaxIterations,
		fmt.Sprintf("process %s exceeded %d iterations", pctx.ProcessID, e.maxIterations))
}

// collect resolves the step's slots in priority order: already set, tool,
// context, default. It returns a pause result on the first required slot
// that must be asked for, or nil when everything resolved.
func (e *Executor) collect(ctx context.Context, def *domain.ProcessDefinition, pctx *domain.ProcessContext, s *domain.CollectStep) *domain.ProcessResult {
	for _, name := range s.Slots {
		if pctx.SlotSet(name) {
			continue
		}
		slot, _ := def.Slot(name) // existence validated at registration

		switch slot.ExtractFrom {
		case domain.SourceTool:
			res := e.invokeTool(ctx, pctx, slot.ToolName, snapshotSlots(pctx))
			if res.IsError {
				return e.fail(ctx, pctx, domain.ErrCodeToolFailed, res.Error)
			}
			pctx.Slots[name] = res.Result
			pctx.ToolResults[slot.ToolName] = res.Result
		case domain.SourceContext:
			if v, ok := resolveFromContext(slot, pctx); ok {
				pctx.Slots[name] = v
			}
		case domain.SourceDefault:
			if slot.DefaultValue != nil {
				pctx.Slots[name] = slot.DefaultValue
			}
		}

		if pctx.SlotSet(name) {
			continue
		}
		if !slot.Required {
			continue
		}

		prompt := slot.PromptIfMissing
		if prompt == "" {
			prompt = fmt.Sprintf("¿Cuál es el valor de %s?", name)
		}
		pctx.AwaitingInput = true
		pctx.AwaitingSlot = name
		pctx.Status = domain.StatusCollecting
		pctx.Touch()
		e.saveQuiet(ctx, pctx)

		return &domain.ProcessResult{
			Success:   true,
			ProcessID: pctx.ProcessID,
			Status:    domain.StatusCollecting,
			Response:  prompt,
			AwaitingInput: &domain.AwaitingInput{
				SlotName: name,
				Prompt:   prompt,
			},
		}
	}
	return nil
}

// execute runs the step's tool. A non-nil return is the process-ending
// failure result; nil means the call succeeded and its result was recorded.
func (e *Executor) execute(ctx context.Context, pctx *domain.ProcessContext, s *domain.ExecuteStep) *domain.ProcessResult {
	var args map[string]any
	if s.BuildArgs != nil {
		args = s.BuildArgs(pctx)
	} else {
		args = SubstituteArgs(s.Args, pctx)
	}

	res := e.invokeTool(ctx, pctx, s.Tool, args)
	if res.IsError {
		return e.fail(ctx, pctx, domain.ErrCodeToolFailed, res.Error)
	}

	pctx.ToolResults[s.Tool] = res.Result
	return nil
}

// invokeTool wraps the invoker with call identity, metrics and history.
// Transport errors are folded into an error result so nothing escapes the
// step boundary as a raw exception.
func (e *Executor) invokeTool(ctx context.Context, pctx *domain.ProcessContext, tool string, args map[string]any) domain.ToolResult {
	call := domain.ToolCall{
		ID:   uuid.NewString(),
		Name: tool,
		Args: args,
		Metadata: map[string]string{
			domain.MetaUserID:  pctx.User.UserID,
			domain.MetaRole:    pctx.User.Role,
			domain.MetaProcess: pctx.ProcessID,
			domain.MetaSession: pctx.SessionID,
		},
	}

	res, err := e.invoker.Invoke(ctx, call)
	if err != nil {
		res = domain.ToolResult{ID: call.ID, IsError: true, Error: err.Error()}
	}

	if res.IsError {
		e.metrics.ToolCall(tool, "error")
		pctx.Record(domain.HistoryEntry{Kind: domain.HistoryError, Step: pctx.CurrentStep, Tool: tool, Error: res.Error})
		return res
	}

	e.metrics.ToolCall(tool, "ok")
	pctx.ToolCalls++
	pctx.Record(domain.HistoryEntry{Kind: domain.HistoryTool, Step: pctx.CurrentStep, Tool: tool})
	return res
}

// complete finishes the process, evicts the context and assembles the final
// response from the queued fragments.
func (e *Executor) complete(ctx context.Context, pctx *domain.ProcessContext) *domain.ProcessResult {
	pctx.Status = domain.StatusCompleted
	pctx.Record(domain.HistoryEntry{Kind: domain.HistoryComplete})

	if err := e.store.Delete(ctx, pctx.SessionID); err != nil {
		e.logger.Error("failed to evict completed context", "session_id", pctx.SessionID, "err", err)
	}

	response := strings.Join(pctx.PendingResponses, "\n")
	if response == "" {
		response = "Proceso completado."
	}

	e.logger.Info("process completed",
		"process_id", pctx.ProcessID,
		"session_id", pctx.SessionID,
		"tool_calls", pctx.ToolCalls,
	)
	e.metrics.ProcessFinished(pctx.ProcessID, string(domain.StatusCompleted))

	return &domain.ProcessResult{
		Success:   true,
		ProcessID: pctx.ProcessID,
		Status:    domain.StatusCompleted,
		Response:  response,
		Data:      pctx.ToolResults,
		Metrics: &domain.Metrics{
			ToolCalls: pctx.ToolCalls,
			Elapsed:   time.Since(pctx.StartedAt),
		},
	}
}

// cancelContext marks the context cancelled and evicts it.
func (e *Executor) cancelContext(ctx context.Context, pctx *domain.ProcessContext) {
	pctx.Status = domain.StatusCancelled
	pctx.Record(domain.HistoryEntry{Kind: domain.HistoryCancel})

	if err := e.store.Delete(ctx, pctx.SessionID); err != nil {
		e.logger.Error("failed to evict cancelled context", "session_id", pctx.SessionID, "err", err)
	}

	e.logger.Info("process cancelled", "process_id", pctx.ProcessID, "session_id", pctx.SessionID)
	e.metrics.ProcessFinished(pctx.ProcessID, string(domain.StatusCancelled))
}

// fail ends the process in error. The context is kept in the store (not
// evicted) so the session's last state stays inspectable; a later message
// may pre-empt it with a fresh process.
func (e *Executor) fail(ctx context.Context, pctx *domain.ProcessContext, code, message string) *domain.ProcessResult {
	pctx.Status = domain.StatusError
	pctx.AwaitingInput = false
	pctx.AwaitingConfirmation = false
	pctx.Record(domain.HistoryEntry{Kind: domain.HistoryError, Step: pctx.CurrentStep, Error: message})
	e.saveQuiet(ctx, pctx)

	e.logger.Error("process failed",
		"process_id", pctx.ProcessID,
		"session_id", pctx.SessionID,
		"code", code,
		"err", message,
	)
	e.metrics.ProcessFinished(pctx.ProcessID, string(domain.StatusError))

	response := "Lo siento, ocurrió un error al procesar tu solicitud."
	if message != "" {
		response = response + " (" + message + ")"
	}

	return &domain.ProcessResult{
		Success:   false,
		ProcessID: pctx.ProcessID,
		Status:    domain.StatusError,
		Response:  response,
		Error:     code,
	}
}

// confirmResult renders the confirmation pause with its two quick replies.
// The payloads round-trip through the detector's continuation matching.
func (e *Executor) confirmResult(s *domain.ConfirmStep, pctx *domain.ProcessContext) *domain.ProcessResult {
	message := s.Message
	if s.BuildMessage != nil {
		message = s.BuildMessage(pctx)
	} else {
		message = Render(message, pctx)
	}

	return &domain.ProcessResult{
		Success:   true,
		ProcessID: pctx.ProcessID,
		Status:    domain.StatusConfirming,
		Response:  message,
		AwaitingConfirmation: &domain.AwaitingConfirmation{
			Message: message,
			Data:    snapshotSlots(pctx),
		},
		QuickReplies: []domain.QuickReply{
			{Label: "Confirmar", Payload: "confirmar"},
			{Label: "Cancelar", Payload: "cancelar"},
		},
	}
}

// awaitingResult re-issues the current pause without advancing the machine.
func (e *Executor) awaitingResult(def *domain.ProcessDefinition, pctx *domain.ProcessContext) *domain.ProcessResult {
	if pctx.AwaitingConfirmation {
		if confirm, ok := e.currentStep(def, pctx).(*domain.ConfirmStep); ok {
			return e.confirmResult(confirm, pctx)
		}
	}
	if pctx.AwaitingInput {
		prompt := fmt.Sprintf("¿Cuál es el valor de %s?", pctx.AwaitingSlot)
		if slot, ok := def.Slot(pctx.AwaitingSlot); ok && slot.PromptIfMissing != "" {
			prompt = slot.PromptIfMissing
		}
		return &domain.ProcessResult{
			Success:   true,
			ProcessID: pctx.ProcessID,
			Status:    domain.StatusCollecting,
			Response:  prompt,
			AwaitingInput: &domain.AwaitingInput{
				SlotName: pctx.AwaitingSlot,
				Prompt:   prompt,
			},
		}
	}
	return &domain.ProcessResult{
		Success:   true,
		ProcessID: pctx.ProcessID,
		Status:    pctx.Status,
	}
}

func (e *Executor) currentStep(def *domain.ProcessDefinition, pctx *domain.ProcessContext) domain.Step {
	step, _ := def.Step(pctx.CurrentStep)
	return step
}

// saveQuiet persists the context, logging instead of failing the turn; the
// in-memory context is already authoritative for this call.
func (e *Executor) saveQuiet(ctx context.Context, pctx *domain.ProcessContext) {
	if err := e.store.Save(ctx, pctx.SessionID, pctx); err != nil {
		e.logger.Error("failed to persist context", "session_id", pctx.SessionID, "err", err)
	}
}

func snapshotSlots(pctx *domain.ProcessContext) map[string]any {
	snap := make(map[string]any, len(pctx.Slots))
	for k, v := range pctx.Slots {
		snap[k] = v
	}
	return snap
}
