package domain

// Step is the closed set of process behaviors. Exactly six kinds exist:
// collect, validate, confirm, execute, respond and branch. Every kind except
// branch carries an explicit next step; an empty next step means the process
// is complete.
type Step interface {
	StepID() string
	// NextStep is the id of the following step, or "" for process completion.
	// Branch steps always return "" here; their targets live in Branches.
	NextStep() string
	// Enter and Exit expose the optional lifecycle hooks.
	Enter() Hook
	Exit() Hook

	isStep()
}

// Hook is an optional callback run when the executor enters or leaves a step.
type Hook func(pctx *ProcessContext)

// StepBase carries the fields shared by linear (non-branch) steps.
type StepBase struct {
	ID      string `json:"id" yaml:"id" mapstructure:"id"`
	Next    string `json:"next,omitempty" yaml:"next,omitempty" mapstructure:"next"`
	OnEnter Hook   `json:"-" yaml:"-"`
	OnExit  Hook   `json:"-" yaml:"-"`
}

func (b StepBase) StepID() string   { return b.ID }
func (b StepBase) NextStep() string { return b.Next }
func (b StepBase) Enter() Hook      { return b.OnEnter }
func (b StepBase) Exit() Hook       { return b.OnExit }
func (b StepBase) isStep()          {}

// CollectStep resolves the named slots, pausing for user input on the first
// required slot that cannot be filled from a tool, a default or the context.
type CollectStep struct {
	StepBase `yaml:",inline" mapstructure:",squash"`
	Slots    []string `json:"slots" yaml:"slots" mapstructure:"slots"`
}

// ValidationRule is one condition/error/fail-action triple of a validate step.
type ValidationRule struct {
	Condition    Condition  `json:"condition" yaml:"condition"`
	ErrorMessage string     `json:"error,omitempty" yaml:"error,omitempty" mapstructure:"error"`
	OnFail       FailAction `json:"on_fail,omitempty" yaml:"on_fail,omitempty" mapstructure:"on_fail"`
}

// FailAction decides what a failing validation rule does.
type FailAction string

const (
	// FailAbort ends the process in error with the rule's message.
	FailAbort FailAction = "abort"
	// FailRetry is a no-op for the loop; definitions model re-asking via branch.
	FailRetry FailAction = "retry"
	// FailSkip ignores the failure.
	FailSkip FailAction = "skip"
)

// ValidateStep evaluates its rules in order.
type ValidateStep struct {
	StepBase `yaml:",inline" mapstructure:",squash"`
	Rules    []ValidationRule `json:"rules" yaml:"rules"`
}

// ConfirmStep pauses the process until the user explicitly confirms or
// cancels. Message supports {name} interpolation; BuildMessage, when set,
// wins over Message.
type ConfirmStep struct {
	StepBase     `yaml:",inline" mapstructure:",squash"`
	Message      string                            `json:"message,omitempty" yaml:"message,omitempty" mapstructure:"message"`
	BuildMessage func(pctx *ProcessContext) string `json:"-" yaml:"-"`
}

// ExecuteStep invokes a tool. Args values of the form "$slotName" are
// substituted from the context's slots; BuildArgs, when set, wins over Args.
type ExecuteStep struct {
	StepBase  `yaml:",inline" mapstructure:",squash"`
	Tool      string                                    `json:"tool" yaml:"tool" mapstructure:"tool"`
	Args      map[string]any                            `json:"args,omitempty" yaml:"args,omitempty" mapstructure:"args"`
	BuildArgs func(pctx *ProcessContext) map[string]any `json:"-" yaml:"-"`
}

// RespondStep queues user-visible text. Text supports {name} interpolation
// against slots and tool results; Build, when set, wins over Text.
type RespondStep struct {
	StepBase `yaml:",inline" mapstructure:",squash"`
	Text     string                            `json:"text,omitempty" yaml:"text,omitempty" mapstructure:"text"`
	Build    func(pctx *ProcessContext) string `json:"-" yaml:"-"`
}

// Branch is one condition/target pair of a branch step.
type Branch struct {
	Condition Condition `json:"condition" yaml:"condition"`
	Next      string    `json:"next" yaml:"next" mapstructure:"next"`
}

// BranchStep jumps to the first branch whose condition holds. It has no
// linear next step; when no branch matches the process completes.
type BranchStep struct {
	ID       string   `json:"id" yaml:"id" mapstructure:"id"`
	Branches []Branch `json:"branches" yaml:"branches"`
	OnEnter  Hook     `json:"-" yaml:"-"`
	OnExit   Hook     `json:"-" yaml:"-"`
}

func (s *BranchStep) StepID() string   { return s.ID }
func (s *BranchStep) NextStep() string { return "" }
func (s *BranchStep) Enter() Hook      { return s.OnEnter }
func (s *BranchStep) Exit() Hook       { return s.OnExit }
func (s *BranchStep) isStep()          {}
