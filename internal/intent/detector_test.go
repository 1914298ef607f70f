package intent_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/internal/intent"
	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/domain"
	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/ports"
)

func TestDetector_KeywordMatch(t *testing.T) {
	d := intent.NewDetector()
	require.NoError(t, d.RegisterTriggers("create_task", []domain.Trigger{
		{Kind: domain.TriggerKeyword, Keywords: []string{"crear tarea"}},
	}))

	m := d.Detect(context.Background(), "quiero CREAR TAREA para mañana", domain.UserContext{})
	require.NotNil(t, m)
	assert.Equal(t, "create_task", m.ProcessID)
	assert.Equal(t, 0.7, m.Confidence)

	assert.Nil(t, d.Detect(context.Background(), "hola", domain.UserContext{}))
}

func TestDetector_PatternMatch(t *testing.T) {
	d := intent.NewDetector()
	require.NoError(t, d.RegisterTriggers("archive", []domain.Trigger{
		{Kind: domain.TriggerPattern, Patterns: []string{`\barchivar?\b.*\btarea\b`}},
	}))

	m := d.Detect(context.Background(), "puedes Archivar esa tarea", domain.UserContext{})
	require.NotNil(t, m)
	assert.Equal(t, 0.9, m.Confidence)
}

func TestDetector_InvalidPatternFailsRegistration(t *testing.T) {
	d := intent.NewDetector()
	err := d.RegisterTriggers("bad", []domain.Trigger{
		{Kind: domain.TriggerPattern, Patterns: []string{`(`}},
	})
	assert.Error(t, err)
}

func TestDetector_CommandMatchesFirstTokenOnly(t *testing.T) {
	d := intent.NewDetector()
	require.NoError(t, d.RegisterTriggers("task", []domain.Trigger{
		{Kind: domain.TriggerCommand, Commands: []string{"/tarea"}},
	}))

	m := d.Detect(context.Background(), "/tarea nueva", domain.UserContext{})
	require.NotNil(t, m)
	assert.Equal(t, 1.0, m.Confidence)

	assert.Nil(t, d.Detect(context.Background(), "usa /tarea", domain.UserContext{}),
		"commands only match at the start of the message")
}

func TestDetector_PriorityOrder(t *testing.T) {
	d := intent.NewDetector()
	require.NoError(t, d.RegisterTriggers("low", []domain.Trigger{
		{Kind: domain.TriggerKeyword, Keywords: []string{"tarea"}, Priority: 1},
	}))
	require.NoError(t, d.RegisterTriggers("high", []domain.Trigger{
		{Kind: domain.TriggerKeyword, Keywords: []string{"tarea"}, Priority: 10},
	}))

	m := d.Detect(context.Background(), "una tarea", domain.UserContext{})
	require.NotNil(t, m)
	assert.Equal(t, "high", m.ProcessID)
}

func TestDetector_RegistrationOrderBreaksTies(t *testing.T) {
	d := intent.NewDetector()
	require.NoError(t, d.RegisterTriggers("first", []domain.Trigger{
		{Kind: domain.TriggerKeyword, Keywords: []string{"tarea"}, Priority: 5},
	}))
	require.NoError(t, d.RegisterTriggers("second", []domain.Trigger{
		{Kind: domain.TriggerKeyword, Keywords: []string{"tarea"}, Priority: 5},
	}))

	m := d.Detect(context.Background(), "una tarea", domain.UserContext{})
	require.NotNil(t, m)
	assert.Equal(t, "first", m.ProcessID)
}

func TestDetector_ConditionGatesTrigger(t *testing.T) {
	d := intent.NewDetector()
	require.NoError(t, d.RegisterTriggers("admin_only", []domain.Trigger{
		{
			Kind:     domain.TriggerKeyword,
			Keywords: []string{"purgar"},
			Condition: func(user domain.UserContext) bool {
				return user.IsAdmin
			},
		},
	}))

	assert.Nil(t, d.Detect(context.Background(), "purgar todo", domain.UserContext{}))

	m := d.Detect(context.Background(), "purgar todo", domain.UserContext{IsAdmin: true})
	require.NotNil(t, m)
	assert.Equal(t, "admin_only", m.ProcessID)
}

func TestDetector_IntentUsesClassifier(t *testing.T) {
	classifier := classifierFunc(func(ctx context.Context, message string) (string, float64, error) {
		return "greeting", 0.85, nil
	})
	d := intent.NewDetector(intent.WithClassifier(classifier))
	require.NoError(t, d.RegisterTriggers("greet", []domain.Trigger{
		{Kind: domain.TriggerIntent, Intents: []string{"greeting"}},
	}))

	m := d.Detect(context.Background(), "buenos días", domain.UserContext{})
	require.NotNil(t, m)
	assert.Equal(t, "greet", m.ProcessID)
	assert.Equal(t, 0.85, m.Confidence)
}

func TestDetector_IntentWithoutClassifierNeverMatches(t *testing.T) {
	d := intent.NewDetector()
	require.NoError(t, d.RegisterTriggers("greet", []domain.Trigger{
		{Kind: domain.TriggerIntent, Intents: []string{"greeting"}},
	}))

	assert.Nil(t, d.Detect(context.Background(), "buenos días", domain.UserContext{}))
}

func TestDetector_MatchCarriesExtractedEntities(t *testing.T) {
	d := intent.NewDetector()
	require.NoError(t, d.RegisterTriggers("create_task", []domain.Trigger{
		{Kind: domain.TriggerKeyword, Keywords: []string{"crear tarea"}},
	}))

	m := d.Detect(context.Background(), `crear tarea "Preparar demo" para el 25/12/2026`, domain.UserContext{})
	require.NotNil(t, m)
	assert.Equal(t, "Preparar demo", m.Extracted[intent.EntityName])
	assert.Contains(t, m.Extracted, intent.EntityDate)
}

type classifierFunc func(ctx context.Context, message string) (string, float64, error)

func (f classifierFunc) Classify(ctx context.Context, message string) (string, float64, error) {
	return f(ctx, message)
}

var _ ports.IntentClassifier = classifierFunc(nil)
