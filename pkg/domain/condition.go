package domain

import "fmt"

// Condition gates validations and branches. Two forms are supported:
//
//   - Expr: a deliberately tiny textual language with exactly two shapes,
//     "<slot> exists" and "<lhs> == <rhs>" (lhs may be "slot.<name>", rhs may
//     be quoted). Anything else evaluates to true. This keeps parity with
//     definitions authored as data (YAML documents).
//   - Fn: a typed predicate over the live context. When set it wins over Expr.
type Condition struct {
	Expr string                        `json:"expr,omitempty" yaml:"expr,omitempty" mapstructure:"expr"`
	Fn   func(pctx *ProcessContext) bool `json:"-" yaml:"-"`
}

// Cond wraps a typed predicate.
func Cond(fn func(pctx *ProcessContext) bool) Condition {
	return Condition{Fn: fn}
}

// SlotExists is the textual "<name> exists" form as a helper.
func SlotExists(name string) Condition {
	return Condition{Expr: name + " exists"}
}

// SlotEquals is the textual `slot.<name> == "<value>"` form as a helper.
func SlotEquals(name, value string) Condition {
	return Condition{Expr: fmt.Sprintf("slot.%s == %q", name, value)}
}

// Always matches unconditionally, useful as the last branch.
func Always() Condition {
	return Condition{}
}
