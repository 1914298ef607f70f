package domain

// TriggerKind selects the matching strategy of a trigger.
type TriggerKind string

const (
	// TriggerPattern matches when any of the regular expressions matches.
	TriggerPattern TriggerKind = "pattern"
	// TriggerKeyword matches on a case-insensitive substring.
	TriggerKeyword TriggerKind = "keyword"
	// TriggerIntent delegates to a pluggable lightweight classifier.
	TriggerIntent TriggerKind = "intent"
	// TriggerCommand matches a leading slash-command token.
	TriggerCommand TriggerKind = "command"
)

// Trigger is the rule by which a process is recognized from free text.
// Priority breaks ties across processes (higher wins); remaining ties fall
// back to registration order.
type Trigger struct {
	Kind TriggerKind `json:"kind" yaml:"kind" mapstructure:"kind"`

	Patterns []string `json:"patterns,omitempty" yaml:"patterns,omitempty" mapstructure:"patterns"`
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty" mapstructure:"keywords"`
	Intents  []string `json:"intents,omitempty" yaml:"intents,omitempty" mapstructure:"intents"`
	Commands []string `json:"commands,omitempty" yaml:"commands,omitempty" mapstructure:"commands"`

	Priority int `json:"priority,omitempty" yaml:"priority,omitempty" mapstructure:"priority"`

	// Condition optionally gates the trigger on the caller's identity,
	// e.g. admin-only processes.
	Condition func(user UserContext) bool `json:"-" yaml:"-"`
}
