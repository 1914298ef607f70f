// Package mcp exposes the process executor as an MCP server so language-model
// hosts can route conversational turns through structured processes.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/domain"
)

// Engine defines the executor surface the MCP server needs.
type Engine interface {
	ProcessMessage(ctx context.Context, msg domain.IncomingMessage) (*domain.ProcessResult, error)
	ActiveProcessState(ctx context.Context, sessionID string) (*domain.ActiveProcessState, error)
	ClearSessionContext(ctx context.Context, sessionID string) error
	Definitions() []*domain.ProcessDefinition
}

// TurnResponse is the structured output of the process_message tool. Matched
// reports whether any process handled the turn; when false the host should
// answer with its own language model.
type TurnResponse struct {
	Matched bool                  `json:"matched" jsonschema_description:"Whether a structured process handled the message"`
	Result  *domain.ProcessResult `json:"result,omitempty" jsonschema_description:"Turn result when a process matched"`
}

// Server wraps the executor and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	version   string
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, version string) *Server {
	s := &Server{
		engine:    engine,
		version:   version,
		mcpServer: server.NewMCPServer("aurin-mcp", version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: process_message
	turnTool := mcp.NewTool("process_message",
		mcp.WithDescription("Run one conversational turn through the structured process executor. When matched is false, answer the user with the language model instead."),
		mcp.WithString("message", mcp.Required(), mcp.Description("The user message text")),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Conversation session identifier")),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("User identifier")),
		mcp.WithString("user_name", mcp.Description("Display name of the user (optional)")),
		mcp.WithBoolean("is_admin", mcp.Description("Whether the user has admin privileges (optional)")),
		mcp.WithOutputSchema[TurnResponse](),
	)
	s.mcpServer.AddTool(turnTool, mcp.NewStructuredToolHandler(s.handleProcessMessage))

	// TOOL: session_state
	stateTool := mcp.NewTool("session_state",
		mcp.WithDescription("Inspect the active process of a session, if any."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Conversation session identifier")),
	)
	s.mcpServer.AddTool(stateTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, _ := request.GetArguments()["session_id"].(string)
		state, err := s.engine.ActiveProcessState(ctx, sessionID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("session state failed: %v", err)), nil
		}
		if state == nil {
			return mcp.NewToolResultText(`{"active":false}`), nil
		}
		jsonBytes, _ := json.Marshal(state)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: clear_session
	clearTool := mcp.NewTool("clear_session",
		mcp.WithDescription("Discard the session context, cancelling any in-flight process."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Conversation session identifier")),
	)
	s.mcpServer.AddTool(clearTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sessionID, _ := request.GetArguments()["session_id"].(string)
		if err := s.engine.ClearSessionContext(ctx, sessionID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("clear session failed: %v", err)), nil
		}
		return mcp.NewToolResultText(`{"cleared":true}`), nil
	})
}

func (s *Server) handleProcessMessage(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TurnResponse, error) {
	msg := domain.IncomingMessage{}
	msg.Message, _ = args["message"].(string)
	msg.SessionID, _ = args["session_id"].(string)
	msg.UserID, _ = args["user_id"].(string)
	msg.UserName, _ = args["user_name"].(string)
	msg.IsAdmin, _ = args["is_admin"].(bool)

	if msg.Message == "" || msg.SessionID == "" {
		return TurnResponse{}, fmt.Errorf("message and session_id are required")
	}

	result, err := s.engine.ProcessMessage(ctx, msg)
	if err != nil {
		return TurnResponse{}, fmt.Errorf("process message failed: %w", err)
	}
	return TurnResponse{
		Matched: result != nil,
		Result:  result,
	}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: aurin://processes
	s.mcpServer.AddResource(mcp.NewResource("aurin://processes", "Registered Process Definitions",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		type summary struct {
			ID          string `json:"id"`
			Name        string `json:"name"`
			Description string `json:"description,omitempty"`
			Version     string `json:"version,omitempty"`
			Steps       int    `json:"steps"`
		}
		defs := s.engine.Definitions()
		out := make([]summary, 0, len(defs))
		for _, def := range defs {
			out = append(out, summary{
				ID:          def.ID,
				Name:        def.Name,
				Description: def.Description,
				Version:     def.Version,
				Steps:       len(def.Steps),
			})
		}
		jsonBytes, _ := json.Marshal(out)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "aurin://processes",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
