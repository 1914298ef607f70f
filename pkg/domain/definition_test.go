package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/domain"
)

func validDefinition() *domain.ProcessDefinition {
	return &domain.ProcessDefinition{
		ID:          "demo",
		Name:        "Demo",
		InitialStep: "collect",
		Slots: []domain.ProcessSlot{
			{Name: "title", Type: domain.SlotString, Required: true, ExtractFrom: domain.SourceMessage},
		},
		Steps: []domain.Step{
			&domain.CollectStep{
				StepBase: domain.StepBase{ID: "collect", Next: "save"},
				Slots:    []string{"title"},
			},
			&domain.ExecuteStep{
				StepBase: domain.StepBase{ID: "save", Next: "done"},
				Tool:     "save",
			},
			&domain.RespondStep{
				StepBase: domain.StepBase{ID: "done"},
				Text:     "hecho",
			},
		},
	}
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, validDefinition().Validate())
}

func TestValidate_MissingID(t *testing.T) {
	def := validDefinition()
	def.ID = ""
	assert.Error(t, def.Validate())
}

func TestValidate_NoSteps(t *testing.T) {
	def := validDefinition()
	def.Steps = nil
	assert.Error(t, def.Validate())
}

func TestValidate_UnknownInitialStep(t *testing.T) {
	def := validDefinition()
	def.InitialStep = "nope"
	err := def.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "initial step")
}

func TestValidate_DuplicateStepIDs(t *testing.T) {
	def := validDefinition()
	def.Steps = append(def.Steps, &domain.RespondStep{
		StepBase: domain.StepBase{ID: "done"},
		Text:     "otra vez",
	})
	err := def.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate step id")
}

func TestValidate_DanglingNext(t *testing.T) {
	def := validDefinition()
	def.Steps[1] = &domain.ExecuteStep{
		StepBase: domain.StepBase{ID: "save", Next: "missing"},
		Tool:     "save",
	}
	err := def.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown next step")
}

func TestValidate_CollectNamesUndeclaredSlot(t *testing.T) {
	def := validDefinition()
	def.Steps[0] = &domain.CollectStep{
		StepBase: domain.StepBase{ID: "collect", Next: "save"},
		Slots:    []string{"title", "ghost"},
	}
	err := def.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undeclared slot")
}

func TestValidate_ExecuteWithoutTool(t *testing.T) {
	def := validDefinition()
	def.Steps[1] = &domain.ExecuteStep{
		StepBase: domain.StepBase{ID: "save", Next: "done"},
	}
	assert.Error(t, def.Validate())
}

func TestValidate_BranchTargets(t *testing.T) {
	def := validDefinition()
	def.Steps = append(def.Steps, &domain.BranchStep{
		ID: "route",
		Branches: []domain.Branch{
			{Condition: domain.Always(), Next: "nowhere"},
		},
	})
	err := def.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "targets unknown step")
}

func TestValidate_BranchWithoutBranches(t *testing.T) {
	def := validDefinition()
	def.Steps = append(def.Steps, &domain.BranchStep{ID: "route"})
	assert.Error(t, def.Validate())
}

func TestValidate_ToolSlotNamesNoTool(t *testing.T) {
	def := validDefinition()
	def.Slots = append(def.Slots, domain.ProcessSlot{
		Name:        "resolved",
		Type:        domain.SlotString,
		ExtractFrom: domain.SourceTool,
	})
	err := def.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "names none")
}

func TestStepLookup(t *testing.T) {
	def := validDefinition()

	step, ok := def.Step("save")
	require.True(t, ok)
	assert.Equal(t, "save", step.StepID())
	assert.Equal(t, "done", step.NextStep())

	_, ok = def.Step("nope")
	assert.False(t, ok)

	slot, ok := def.Slot("title")
	require.True(t, ok)
	assert.True(t, slot.Required)
}
