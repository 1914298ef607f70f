// Package runner hosts the interactive conversation loop: it reads user
// messages, routes them through the process executor and falls back to a
// pluggable handler when no structured process claims the turn.
package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	aurin "github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006"
	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/internal/logging"
	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/domain"
	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/ports"
)

// ContentRenderer transforms content before outputting it. This allows TUI
// rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// Runner drives the read-process-respond loop against an Engine.
type Runner struct {
	engine   *aurin.Engine
	fallback ports.Fallback
	renderer ContentRenderer
	logger   *slog.Logger

	reader *bufio.Reader
	writer io.Writer

	sessionID string
	userID    string
	userName  string
	isAdmin   bool
}

// Option configures the Runner.
type Option func(*Runner)

// WithIO overrides the input and output streams (default Stdin/Stdout).
func WithIO(r io.Reader, w io.Writer) Option {
	return func(run *Runner) {
		if r != nil {
			run.reader = bufio.NewReader(r)
		}
		if w != nil {
			run.writer = w
		}
	}
}

// WithFallback sets the handler consulted when no process matches a message.
func WithFallback(fb ports.Fallback) Option {
	return func(run *Runner) { run.fallback = fb }
}

// WithRenderer configures the content renderer (e.g. markdown to ANSI).
func WithRenderer(renderer ContentRenderer) Option {
	return func(run *Runner) { run.renderer = renderer }
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(run *Runner) { run.logger = logger }
}

// WithUser sets the identity attached to every turn.
func WithUser(userID, userName string, isAdmin bool) Option {
	return func(run *Runner) {
		run.userID = userID
		run.userName = userName
		run.isAdmin = isAdmin
	}
}

// WithSessionID fixes the session identifier (default "local").
func WithSessionID(id string) Option {
	return func(run *Runner) { run.sessionID = id }
}

// New creates a Runner bound to the engine.
func New(engine *aurin.Engine, opts ...Option) *Runner {
	run := &Runner{
		engine:    engine,
		logger:    logging.NewNop(),
		reader:    bufio.NewReader(os.Stdin),
		writer:    os.Stdout,
		sessionID: "local",
		userID:    "local-user",
	}
	for _, opt := range opts {
		opt(run)
	}
	return run
}

// Run executes the conversation loop until EOF or an "exit"/"salir" command.
func (r *Runner) Run(ctx context.Context) error {
	for {
		fmt.Fprint(r.writer, "> ")

		line, err := r.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				if text := strings.TrimSpace(line); text != "" {
					if done, terr := r.turn(ctx, text); terr != nil || done {
						return terr
					}
				}
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		text, err := SanitizeInput(strings.TrimSpace(line))
		if err != nil {
			fmt.Fprintf(r.writer, "Error: %v. Intenta de nuevo.\n", err)
			continue
		}
		if text == "" {
			continue
		}
		if text == "exit" || text == "quit" || text == "salir" {
			return nil
		}

		done, err := r.turn(ctx, text)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// turn routes a single message and prints the outcome.
func (r *Runner) turn(ctx context.Context, text string) (bool, error) {
	msg := domain.IncomingMessage{
		Message:   text,
		SessionID: r.sessionID,
		UserID:    r.userID,
		UserName:  r.userName,
		IsAdmin:   r.isAdmin,
	}

	result, err := r.engine.ProcessMessage(ctx, msg)
	if err != nil {
		return false, fmt.Errorf("process message: %w", err)
	}

	if result == nil {
		return false, r.handleFallback(ctx, msg)
	}

	r.print(result.Response)

	for _, qr := range result.QuickReplies {
		fmt.Fprintf(r.writer, "  [%s]", qr.Label)
	}
	if len(result.QuickReplies) > 0 {
		fmt.Fprintln(r.writer)
	}

	if result.Error != "" {
		r.logger.Debug("turn ended with error", "session_id", r.sessionID, "code", result.Error)
	}
	return false, nil
}

func (r *Runner) handleFallback(ctx context.Context, msg domain.IncomingMessage) error {
	if r.fallback == nil {
		r.print("No entendí eso. Prueba con \"crear tarea\" o \"carga del equipo\".")
		return nil
	}
	reply, err := r.fallback.Handle(ctx, msg)
	if err != nil {
		return fmt.Errorf("fallback: %w", err)
	}
	r.print(reply)
	return nil
}

func (r *Runner) print(content string) {
	if content == "" {
		return
	}
	output := content
	if r.renderer != nil {
		if rendered, err := r.renderer(content); err == nil {
			output = rendered
		}
	}
	fmt.Fprintln(r.writer, strings.TrimSpace(output))
}
