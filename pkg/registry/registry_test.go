package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/domain"
	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/registry"
)

func minimalDefinition(id string) *domain.ProcessDefinition {
	return &domain.ProcessDefinition{
		ID:          id,
		Name:        id,
		InitialStep: "done",
		Steps: []domain.Step{
			&domain.RespondStep{StepBase: domain.StepBase{ID: "done"}, Text: "ok"},
		},
	}
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := registry.NewRegistry()

	require.NoError(t, r.Register(minimalDefinition("a")))

	def, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", def.ID)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}

func TestRegistry_RejectsNil(t *testing.T) {
	r := registry.NewRegistry()
	assert.Error(t, r.Register(nil))
}

func TestRegistry_RejectsInvalidDefinition(t *testing.T) {
	r := registry.NewRegistry()
	def := minimalDefinition("a")
	def.InitialStep = "missing"
	assert.Error(t, r.Register(def))
}

func TestRegistry_RejectsDuplicateID(t *testing.T) {
	r := registry.NewRegistry()

	require.NoError(t, r.Register(minimalDefinition("a")))
	err := r.Register(minimalDefinition("a"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicateProcess)
}

func TestRegistry_AllKeepsRegistrationOrder(t *testing.T) {
	r := registry.NewRegistry()

	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, r.Register(minimalDefinition(id)))
	}

	all := r.All()
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID)
	assert.Equal(t, "a", all[1].ID)
	assert.Equal(t, "b", all[2].ID)
}
