package domain

import "time"

// Error codes surfaced via ProcessResult.Error. Tool failures carry the
// tool's own message alongside ErrCodeToolFailed.
const (
	ErrCodeProcessNotFound  = "PROCESS_NOT_FOUND"
	ErrCodeStepNotFound     = "STEP_NOT_FOUND"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeMaxIterations    = "MAX_ITERATIONS"
	ErrCodeToolFailed       = "TOOL_FAILED"
)

// AwaitingInput describes the pause produced by an unfilled required slot.
type AwaitingInput struct {
	SlotName string `json:"slot_name"`
	Prompt   string `json:"prompt"`
}

// AwaitingConfirmation describes the pause produced by a confirm step.
type AwaitingConfirmation struct {
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// QuickReply is a suggested short answer the host UI may render as a button.
// Payloads must round-trip through the intent detector's continuation logic.
type QuickReply struct {
	Label   string `json:"label"`
	Payload string `json:"payload"`
}

// Metrics summarizes one completed turn. Tokens is always zero: the executor
// never invokes a language model.
type Metrics struct {
	ToolCalls int           `json:"tool_calls"`
	Elapsed   time.Duration `json:"elapsed"`
	Tokens    int           `json:"tokens"`
}

// ProcessResult is the externally visible outcome of one processed message.
// A nil result from the engine means no process claimed the message and the
// caller should defer to its language-model fallback.
type ProcessResult struct {
	Success   bool          `json:"success"`
	ProcessID string        `json:"process_id"`
	Status    ProcessStatus `json:"status"`
	Response  string        `json:"response,omitempty"`

	Data map[string]any `json:"data,omitempty"`

	AwaitingInput        *AwaitingInput        `json:"awaiting_input,omitempty"`
	AwaitingConfirmation *AwaitingConfirmation `json:"awaiting_confirmation,omitempty"`
	QuickReplies         []QuickReply          `json:"quick_replies,omitempty"`

	Error   string   `json:"error,omitempty"`
	Metrics *Metrics `json:"metrics,omitempty"`
}

// IncomingMessage is one inbound conversational turn.
type IncomingMessage struct {
	Message   string `json:"message"`
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	UserName  string `json:"user_name,omitempty"`
	IsAdmin   bool   `json:"is_admin,omitempty"`
}

// UserContext derives the pass-through identity for tools and builders.
func (m IncomingMessage) UserContext() UserContext {
	role := "member"
	if m.IsAdmin {
		role = "admin"
	}
	return UserContext{
		UserID:  m.UserID,
		Name:    m.UserName,
		Role:    role,
		IsAdmin: m.IsAdmin,
	}
}
