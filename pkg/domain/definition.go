package domain

import (
	"fmt"
	"time"
)

// ProcessConfig holds behavioral flags for a process definition.
type ProcessConfig struct {
	// RequiresConfirmation forces a confirmation pause before side effects.
	RequiresConfirmation bool `json:"requires_confirmation,omitempty" yaml:"requires_confirmation,omitempty" mapstructure:"requires_confirmation"`

	// MaxRetries is advisory for definitions that model retry via branching.
	MaxRetries int `json:"max_retries,omitempty" yaml:"max_retries,omitempty" mapstructure:"max_retries"`

	// Timeout bounds how long an in-flight context may sit awaiting input or
	// confirmation. Zero means no expiry. Stale contexts are auto-cancelled on
	// the next inbound message for the session.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty" mapstructure:"timeout"`

	// AllowCancel enables the explicit cancel continuation ("cancelar").
	AllowCancel bool `json:"allow_cancel,omitempty" yaml:"allow_cancel,omitempty" mapstructure:"allow_cancel"`
}

// ProcessDefinition is the immutable description of a multi-turn process:
// the data it needs (slots), its behavior (steps) and how it is recognized
// from free text (triggers).
type ProcessDefinition struct {
	ID          string `json:"id" yaml:"id" mapstructure:"id"`
	Name        string `json:"name" yaml:"name" mapstructure:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Version     string `json:"version,omitempty" yaml:"version,omitempty" mapstructure:"version"`

	Slots       []ProcessSlot `json:"slots,omitempty" yaml:"slots,omitempty"`
	Steps       []Step        `json:"steps" yaml:"steps"`
	InitialStep string        `json:"initial_step" yaml:"initial_step" mapstructure:"initial_step"`
	Triggers    []Trigger     `json:"triggers,omitempty" yaml:"triggers,omitempty"`

	Config ProcessConfig `json:"config,omitempty" yaml:"config,omitempty"`
}

// Step returns the step with the given id.
func (d *ProcessDefinition) Step(id string) (Step, bool) {
	for _, s := range d.Steps {
		if s.StepID() == id {
			return s, true
		}
	}
	return nil, false
}

// Slot returns the slot declaration with the given name.
func (d *ProcessDefinition) Slot(name string) (*ProcessSlot, bool) {
	for i := range d.Slots {
		if d.Slots[i].Name == name {
			return &d.Slots[i], true
		}
	}
	return nil, false
}

// Validate checks internal consistency: the initial step exists, every
// next-step and branch target resolves, collect steps name declared slots and
// execute steps name a tool. Definitions failing validation must be rejected
// at registration time, never discovered mid-conversation.
func (d *ProcessDefinition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("process definition missing id")
	}
	if len(d.Steps) == 0 {
		return fmt.Errorf("process %s: no steps defined", d.ID)
	}
	if _, ok := d.Step(d.InitialStep); !ok {
		return fmt.Errorf("process %s: initial step %q not found", d.ID, d.InitialStep)
	}

	seen := make(map[string]bool, len(d.Steps))
	for _, s := range d.Steps {
		id := s.StepID()
		if id == "" {
			return fmt.Errorf("process %s: step with empty id", d.ID)
		}
		if seen[id] {
			return fmt.Errorf("process %s: duplicate step id %q", d.ID, id)
		}
		seen[id] = true
	}

	for _, s := range d.Steps {
		if next := s.NextStep(); next != "" {
			if _, ok := d.Step(next); !ok {
				return fmt.Errorf("process %s: step %q references unknown next step %q", d.ID, s.StepID(), next)
			}
		}
		switch step := s.(type) {
		case *CollectStep:
			for _, name := range step.Slots {
				if _, ok := d.Slot(name); !ok {
					return fmt.Errorf("process %s: collect step %q names undeclared slot %q", d.ID, step.ID, name)
				}
			}
		case *ExecuteStep:
			if step.Tool == "" {
				return fmt.Errorf("process %s: execute step %q missing tool name", d.ID, step.ID)
			}
		case *BranchStep:
			if len(step.Branches) == 0 {
				return fmt.Errorf("process %s: branch step %q has no branches", d.ID, step.ID)
			}
			for _, b := range step.Branches {
				if _, ok := d.Step(b.Next); !ok {
					return fmt.Errorf("process %s: branch step %q targets unknown step %q", d.ID, step.ID, b.Next)
				}
			}
		}
	}

	for i := range d.Slots {
		if d.Slots[i].ExtractFrom == SourceTool && d.Slots[i].ToolName == "" {
			return fmt.Errorf("process %s: slot %q extracts from tool but names none", d.ID, d.Slots[i].Name)
		}
	}
	return nil
}
