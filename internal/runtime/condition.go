package runtime

import (
	"fmt"
	"strings"

	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/domain"
)

// Evaluate resolves a condition against the live context. Typed predicates
// win over the textual form. The textual language has exactly two shapes:
//
//	"<slot> exists"
//	"<lhs> == <rhs>"
//
// where lhs may be "slot.<name>" (resolved against the context) or a literal,
// and rhs may be quoted. Any other string evaluates to true; this is not an
// expression engine.
func Evaluate(c domain.Condition, pctx *domain.ProcessContext) bool {
	if c.Fn != nil {
		return c.Fn(pctx)
	}

	expr := strings.TrimSpace(c.Expr)
	if expr == "" {
		return true
	}

	if name, ok := strings.CutSuffix(expr, " exists"); ok {
		return pctx.SlotSet(strings.TrimSpace(name))
	}

	if lhs, rhs, ok := strings.Cut(expr, "=="); ok {
		return resolveOperand(lhs, pctx) == resolveOperand(rhs, pctx)
	}

	return true
}

// resolveOperand maps "slot.<name>" to the stringified slot value and strips
// quotes from literals.
func resolveOperand(raw string, pctx *domain.ProcessContext) string {
	op := strings.TrimSpace(raw)
	if name, ok := strings.CutPrefix(op, "slot."); ok {
		v, exists := pctx.Slots[name]
		if !exists || v == nil {
			return ""
		}
		return fmt.Sprintf("%v", v)
	}
	return strings.Trim(op, `"'`)
}
