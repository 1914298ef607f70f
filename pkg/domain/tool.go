package domain

// Metadata keys attached to outgoing tool calls.
const (
	MetaUserID  = "user_id"
	MetaRole    = "role"
	MetaProcess = "process_id"
	MetaSession = "session_id"
)

// ToolCall is a request from the executor to the tool layer to perform a
// side effect. ID is a synthetic identifier unique to this call.
type ToolCall struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Args     map[string]any    `json:"args,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ToolResult is the outcome of a tool call. The executor treats any
// non-success result as a process-ending error and never retries.
type ToolResult struct {
	ID      string `json:"id"`
	Result  any    `json:"result,omitempty"`
	IsError bool   `json:"is_error,omitempty"`
	Error   string `json:"error,omitempty"`
}
