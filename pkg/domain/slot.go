package domain

// SlotType declares how raw user text is parsed into a slot value.
type SlotType string

const (
	SlotString  SlotType = "string"
	SlotNumber  SlotType = "number"
	SlotBoolean SlotType = "boolean"
	SlotArray   SlotType = "array"
	SlotDate    SlotType = "date"
	// SlotID is a domain identifier (client id, task id). Parsed as string.
	SlotID SlotType = "id"
)

// SlotSource declares where a slot value comes from.
type SlotSource string

const (
	// SourceMessage fills the slot from entity extraction or direct user input.
	SourceMessage SlotSource = "message"
	// SourceTool fills the slot from a tool call named by ToolName.
	SourceTool SlotSource = "tool"
	// SourceContext fills the slot from the caller-supplied user context.
	SourceContext SlotSource = "context"
	// SourceDefault fills the slot from DefaultValue.
	SourceDefault SlotSource = "default"
)

// ProcessSlot is a named, typed datum the process must obtain before acting.
type ProcessSlot struct {
	Name        string     `json:"name" yaml:"name" mapstructure:"name"`
	Type        SlotType   `json:"type" yaml:"type" mapstructure:"type"`
	Required    bool       `json:"required,omitempty" yaml:"required,omitempty" mapstructure:"required"`
	ExtractFrom SlotSource `json:"extract_from,omitempty" yaml:"extract_from,omitempty" mapstructure:"extract_from"`

	// ToolName is consulted when ExtractFrom is SourceTool.
	ToolName string `json:"tool,omitempty" yaml:"tool,omitempty" mapstructure:"tool"`

	DefaultValue any `json:"default,omitempty" yaml:"default,omitempty" mapstructure:"default"`

	// PromptIfMissing is shown when the executor pauses to ask for the value.
	PromptIfMissing string `json:"prompt,omitempty" yaml:"prompt,omitempty" mapstructure:"prompt"`

	// Rules are optional validations applied by validate steps that reference
	// this slot; kept on the declaration so definitions stay self-describing.
	Rules []ValidationRule `json:"rules,omitempty" yaml:"rules,omitempty"`
}
