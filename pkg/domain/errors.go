package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrProcessNotFound is returned when a process ID is not registered.
var ErrProcessNotFound = errors.New("process not found")

// ErrDuplicateProcess is returned when a definition id is registered twice.
var ErrDuplicateProcess = errors.New("process already registered")

// UnknownStepError reports a dangling step reference hit at run time. With
// registration-time validation in place it indicates a corrupted context.
type UnknownStepError struct {
	ProcessID string
	StepID    string
}

func (e *UnknownStepError) Error() string {
	return fmt.Sprintf("process %s: step %q not found", e.ProcessID, e.StepID)
}
