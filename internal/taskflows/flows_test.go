package taskflows_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aurin "github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006"
	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/internal/taskflows"
	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/domain"
)

func newEngine(t *testing.T) (*aurin.Engine, *taskflows.Board) {
	t.Helper()

	engine := aurin.New()
	board, err := taskflows.Setup(engine)
	require.NoError(t, err)
	return engine, board
}

func send(t *testing.T, engine *aurin.Engine, session, text string) *domain.ProcessResult {
	t.Helper()

	result, err := engine.ProcessMessage(context.Background(), domain.IncomingMessage{
		Message:   text,
		UserID:    "u1",
		SessionID: session,
	})
	require.NoError(t, err)
	return result
}

func sendAdmin(t *testing.T, engine *aurin.Engine, session, text string) *domain.ProcessResult {
	t.Helper()

	result, err := engine.ProcessMessage(context.Background(), domain.IncomingMessage{
		Message:   text,
		UserID:    "admin1",
		SessionID: session,
		IsAdmin:   true,
	})
	require.NoError(t, err)
	return result
}

func TestCreateTaskFlow(t *testing.T) {
	engine, board := newEngine(t)

	// 1. Trigger; title is the first missing required slot.
	result := send(t, engine, "s1", "crear tarea")
	require.NotNil(t, result)
	require.NotNil(t, result.AwaitingInput)
	assert.Equal(t, "title", result.AwaitingInput.SlotName)
	assert.Equal(t, "¿Cómo se llama la tarea?", result.AwaitingInput.Prompt)

	// 2. Answer the title; the client comes next.
	result = send(t, engine, "s1", "Preparar la demo")
	require.NotNil(t, result)
	require.NotNil(t, result.AwaitingInput)
	assert.Equal(t, "clientId", result.AwaitingInput.SlotName)

	// 3. Answer the client; the lookup tool resolves it before confirming.
	result = send(t, engine, "s1", "acme")
	require.NotNil(t, result)
	require.NotNil(t, result.AwaitingConfirmation)
	assert.Contains(t, result.AwaitingConfirmation.Message, "Preparar la demo")
	assert.Contains(t, result.AwaitingConfirmation.Message, "Acme Corp")
	require.Len(t, result.QuickReplies, 2)
	assert.Equal(t, "Confirmar", result.QuickReplies[0].Label)

	// 4. Confirm; the task lands on the board.
	result = send(t, engine, "s1", "confirmar")
	require.NotNil(t, result)
	assert.True(t, result.Success)
	assert.Equal(t, domain.StatusCompleted, result.Status)
	assert.Equal(t, "Tarea creada correctamente.", result.Response)
	require.NotNil(t, result.Metrics)
	assert.Equal(t, 2, result.Metrics.ToolCalls)

	task, ok := board.Task("task-1")
	require.True(t, ok)
	assert.Equal(t, "Preparar la demo", task.Title)
	assert.Equal(t, "acme", task.ClientID)
}

func TestCreateTaskFlow_CancelAtConfirmation(t *testing.T) {
	engine, board := newEngine(t)

	send(t, engine, "s1", "crear tarea")
	send(t, engine, "s1", "Algo temporal")
	result := send(t, engine, "s1", "norte")
	require.NotNil(t, result.AwaitingConfirmation)

	result = send(t, engine, "s1", "cancelar")
	require.NotNil(t, result)
	assert.Equal(t, domain.StatusCancelled, result.Status)

	_, ok := board.Task("task-1")
	assert.False(t, ok)
}

func TestCreateTaskFlow_SlashCommand(t *testing.T) {
	engine, _ := newEngine(t)

	result := send(t, engine, "s1", "/tarea")
	require.NotNil(t, result)
	require.NotNil(t, result.AwaitingInput)
	assert.Equal(t, "create_task", result.ProcessID)
}

func TestCreateTaskFlow_UnknownClientFails(t *testing.T) {
	engine, _ := newEngine(t)

	send(t, engine, "s1", "crear tarea")
	send(t, engine, "s1", "Algo")
	result := send(t, engine, "s1", "cliente fantasma")
	require.NotNil(t, result)
	assert.Equal(t, domain.StatusError, result.Status)
	assert.Equal(t, domain.ErrCodeToolFailed, result.Error)
}

func TestTeamWorkloadFlow(t *testing.T) {
	engine, board := newEngine(t)

	_, err := board.CreateTask("A", "acme", "ana", time.Time{})
	require.NoError(t, err)
	_, err = board.CreateTask("B", "norte", "", time.Time{})
	require.NoError(t, err)

	result := send(t, engine, "s1", "carga de trabajo")
	require.NotNil(t, result)
	assert.Equal(t, domain.StatusCompleted, result.Status)
	assert.Contains(t, result.Response, "ana: 1 tareas")
	assert.Contains(t, result.Response, "sin asignar: 1 tareas")
}

func TestTeamWorkloadFlow_EmptyBoard(t *testing.T) {
	engine, _ := newEngine(t)

	result := send(t, engine, "s1", "workload")
	require.NotNil(t, result)
	assert.Equal(t, "No hay tareas registradas.", result.Response)
}

func TestArchiveTaskFlow_AdminOnly(t *testing.T) {
	engine, board := newEngine(t)

	_, err := board.CreateTask("Vieja", "acme", "", time.Time{})
	require.NoError(t, err)

	// Non-admins never match the trigger.
	result := send(t, engine, "s1", "quiero archivar una tarea")
	assert.Nil(t, result)

	result = sendAdmin(t, engine, "s2", "quiero archivar una tarea")
	require.NotNil(t, result)
	require.NotNil(t, result.AwaitingInput)
	assert.Equal(t, "taskId", result.AwaitingInput.SlotName)

	result = sendAdmin(t, engine, "s2", "task-1")
	require.NotNil(t, result)
	require.NotNil(t, result.AwaitingConfirmation)
	assert.Contains(t, result.AwaitingConfirmation.Message, "task-1")

	result = sendAdmin(t, engine, "s2", "confirmar")
	require.NotNil(t, result)
	assert.Equal(t, domain.StatusCompleted, result.Status)
	assert.Contains(t, result.Response, "task-1")

	task, ok := board.Task("task-1")
	require.True(t, ok)
	assert.True(t, task.Archived)
}
