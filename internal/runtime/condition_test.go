package runtime_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/internal/runtime"
	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/domain"
)

func testContext(slots map[string]any) *domain.ProcessContext {
	pctx := domain.NewProcessContext("p", "s", domain.UserContext{}, "start")
	for k, v := range slots {
		pctx.Slots[k] = v
	}
	return pctx
}

func TestEvaluate_Exists(t *testing.T) {
	pctx := testContext(map[string]any{"title": "demo", "empty": "", "nilval": nil})

	assert.True(t, runtime.Evaluate(domain.Condition{Expr: "title exists"}, pctx))
	assert.False(t, runtime.Evaluate(domain.Condition{Expr: "missing exists"}, pctx))
	assert.False(t, runtime.Evaluate(domain.Condition{Expr: "empty exists"}, pctx), "empty strings do not count as set")
	assert.False(t, runtime.Evaluate(domain.Condition{Expr: "nilval exists"}, pctx))
}

func TestEvaluate_Equality(t *testing.T) {
	pctx := testContext(map[string]any{"kind": "urgent", "count": 3})

	assert.True(t, runtime.Evaluate(domain.Condition{Expr: `slot.kind == "urgent"`}, pctx))
	assert.True(t, runtime.Evaluate(domain.Condition{Expr: `slot.kind == urgent`}, pctx))
	assert.False(t, runtime.Evaluate(domain.Condition{Expr: `slot.kind == "normal"`}, pctx))
	// Non-string slot values compare through their string form.
	assert.True(t, runtime.Evaluate(domain.Condition{Expr: `slot.count == 3`}, pctx))
	// Missing slots stringify to the empty string.
	assert.True(t, runtime.Evaluate(domain.Condition{Expr: `slot.missing == ""`}, pctx))
	// Literal to literal also works.
	assert.True(t, runtime.Evaluate(domain.Condition{Expr: `a == 'a'`}, pctx))
}

func TestEvaluate_UnrecognizedIsTrue(t *testing.T) {
	pctx := testContext(nil)

	assert.True(t, runtime.Evaluate(domain.Condition{}, pctx))
	assert.True(t, runtime.Evaluate(domain.Condition{Expr: "count > 3"}, pctx), "only 'exists' and '==' are parsed")
	assert.True(t, runtime.Evaluate(domain.Condition{Expr: "whatever"}, pctx))
}

func TestEvaluate_FnWinsOverExpr(t *testing.T) {
	pctx := testContext(map[string]any{"title": "demo"})

	c := domain.Condition{
		Expr: "title exists", // would be true
		Fn:   func(*domain.ProcessContext) bool { return false },
	}
	assert.False(t, runtime.Evaluate(c, pctx))
}

func TestEvaluate_Helpers(t *testing.T) {
	pctx := testContext(map[string]any{"kind": "a"})

	assert.True(t, runtime.Evaluate(domain.SlotExists("kind"), pctx))
	assert.True(t, runtime.Evaluate(domain.SlotEquals("kind", "a"), pctx))
	assert.False(t, runtime.Evaluate(domain.SlotEquals("kind", "b"), pctx))
	assert.True(t, runtime.Evaluate(domain.Always(), pctx))
	assert.True(t, runtime.Evaluate(domain.Cond(func(p *domain.ProcessContext) bool {
		return p.SlotSet("kind")
	}), pctx))
}
