package registry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/domain"
	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/registry"
)

func TestToolRegistry_Invoke(t *testing.T) {
	r := registry.NewToolRegistry()
	r.Register("echo", func(ctx context.Context, args map[string]any) (any, error) {
		return args["msg"], nil
	})

	result, err := r.Invoke(context.Background(), domain.ToolCall{
		ID:   "call-1",
		Name: "echo",
		Args: map[string]any{"msg": "hola"},
	})
	require.NoError(t, err)
	assert.Equal(t, "call-1", result.ID)
	assert.False(t, result.IsError)
	assert.Equal(t, "hola", result.Result)
}

func TestToolRegistry_NotFound(t *testing.T) {
	r := registry.NewToolRegistry()

	result, err := r.Invoke(context.Background(), domain.ToolCall{ID: "x", Name: "ghost"})
	require.NoError(t, err, "missing tools are a tool error, not a transport error")
	assert.True(t, result.IsError)
	assert.Contains(t, result.Error, "ghost")
}

func TestToolRegistry_ErrorBecomesResult(t *testing.T) {
	r := registry.NewToolRegistry()
	r.Register("broken", func(ctx context.Context, args map[string]any) (any, error) {
		return nil, errors.New("db down")
	})

	result, err := r.Invoke(context.Background(), domain.ToolCall{ID: "x", Name: "broken"})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, "db down", result.Error)
}

func TestToolRegistry_PanicRecovered(t *testing.T) {
	r := registry.NewToolRegistry()
	r.Register("panicky", func(ctx context.Context, args map[string]any) (any, error) {
		panic("boom")
	})

	result, err := r.Invoke(context.Background(), domain.ToolCall{ID: "x", Name: "panicky"})
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, result.Error, "boom")
}

func TestToolRegistry_Names(t *testing.T) {
	r := registry.NewToolRegistry()
	r.Register("a", func(ctx context.Context, args map[string]any) (any, error) { return nil, nil })
	r.Register("b", func(ctx context.Context, args map[string]any) (any, error) { return nil, nil })

	assert.ElementsMatch(t, []string{"a", "b"}, r.Names())
}

func TestToolRegistry_Overwrite(t *testing.T) {
	r := registry.NewToolRegistry()
	r.Register("tool", func(ctx context.Context, args map[string]any) (any, error) { return "v1", nil })
	r.Register("tool", func(ctx context.Context, args map[string]any) (any, error) { return "v2", nil })

	result, err := r.Invoke(context.Background(), domain.ToolCall{Name: "tool"})
	require.NoError(t, err)
	assert.Equal(t, "v2", result.Result)
}
