package domain

import "time"

// ProcessStatus is the lifecycle state of an in-flight process context.
type ProcessStatus string

const (
	StatusIdle       ProcessStatus = "idle"
	StatusCollecting ProcessStatus = "collecting"
	StatusConfirming ProcessStatus = "confirming"
	StatusExecuting  ProcessStatus = "executing"
	StatusCompleted  ProcessStatus = "completed"
	StatusCancelled  ProcessStatus = "cancelled"
	StatusError      ProcessStatus = "error"
)

// Terminal reports whether the status admits no further transitions.
func (s ProcessStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusError
}

// History entry kinds.
const (
	HistoryEnter    = "enter"
	HistoryTool     = "tool"
	HistoryError    = "error"
	HistoryComplete = "complete"
	HistoryCancel   = "cancel"
)

// HistoryEntry is one append-only record of executor activity.
type HistoryEntry struct {
	Kind  string    `json:"kind"`
	Step  string    `json:"step,omitempty"`
	Tool  string    `json:"tool,omitempty"`
	Error string    `json:"error,omitempty"`
	At    time.Time `json:"at"`
}

// UserContext is the already-resolved identity passed through to tools and
// message builders. The executor performs no authorization of its own.
type UserContext struct {
	UserID   string `json:"user_id,omitempty"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role,omitempty"`
	Timezone string `json:"timezone,omitempty"`
	IsAdmin  bool   `json:"is_admin,omitempty"`
}

// ProcessContext is the mutable, per-session record of an in-flight process.
// At most one non-terminal context exists per session at any time.
type ProcessContext struct {
	ProcessID string `json:"process_id"`
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id,omitempty"`

	Status      ProcessStatus `json:"status"`
	CurrentStep string        `json:"current_step"`

	// Slots only grows, or is overwritten by an explicit modify; it is never
	// silently cleared mid-process.
	Slots map[string]any `json:"slots"`

	History          []HistoryEntry `json:"history,omitempty"`
	ToolResults      map[string]any `json:"tool_results,omitempty"`
	PendingResponses []string       `json:"pending_responses,omitempty"`

	AwaitingInput        bool   `json:"awaiting_input,omitempty"`
	AwaitingSlot         string `json:"awaiting_slot,omitempty"`
	AwaitingConfirmation bool   `json:"awaiting_confirmation,omitempty"`

	User UserContext `json:"user,omitempty"`

	ToolCalls int `json:"tool_calls,omitempty"`

	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewProcessContext creates a fresh context positioned at the given step.
func NewProcessContext(processID, sessionID string, user UserContext, initialStep string) *ProcessContext {
	now := time.Now()
	return &ProcessContext{
		ProcessID:   processID,
		SessionID:   sessionID,
		UserID:      user.UserID,
		Status:      StatusCollecting,
		CurrentStep: initialStep,
		Slots:       make(map[string]any),
		ToolResults: make(map[string]any),
		User:        user,
		StartedAt:   now,
		UpdatedAt:   now,
	}
}

// SlotSet reports whether a slot holds a usable value.
func (c *ProcessContext) SlotSet(name string) bool {
	v, ok := c.Slots[name]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr && s == "" {
		return false
	}
	return true
}

// Record appends a history entry stamped with the current time.
func (c *ProcessContext) Record(entry HistoryEntry) {
	entry.At = time.Now()
	c.History = append(c.History, entry)
	c.UpdatedAt = entry.At
}

// Touch bumps the update timestamp.
func (c *ProcessContext) Touch() {
	c.UpdatedAt = time.Now()
}

// ActiveProcessState is the externally visible snapshot of a session's
// in-flight process.
type ActiveProcessState struct {
	ProcessID            string        `json:"process_id"`
	Status               ProcessStatus `json:"status"`
	AwaitingInput        bool          `json:"awaiting_input"`
	AwaitingConfirmation bool          `json:"awaiting_confirmation"`
}
