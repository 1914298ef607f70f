package runner_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KarenRebecaOrtiz/Aurin-Task-Manager-sub006/pkg/runner"
)

func TestSanitizeInput_PassesCleanText(t *testing.T) {
	out, err := runner.SanitizeInput("crear tarea para mañana")
	require.NoError(t, err)
	assert.Equal(t, "crear tarea para mañana", out)
}

func TestSanitizeInput_KeepsSafeControls(t *testing.T) {
	out, err := runner.SanitizeInput("línea uno\nlínea dos\tcolumna\r")
	require.NoError(t, err)
	assert.Equal(t, "línea uno\nlínea dos\tcolumna\r", out)
}

func TestSanitizeInput_StripsControlCharacters(t *testing.T) {
	out, err := runner.SanitizeInput("hola\x00mundo\x1b[31m")
	require.NoError(t, err)
	assert.Equal(t, "holamundo[31m", out)
}

func TestSanitizeInput_RejectsOversized(t *testing.T) {
	_, err := runner.SanitizeInput(strings.Repeat("a", runner.DefaultMaxInputSize+1))
	assert.ErrorIs(t, err, runner.ErrInputTooLarge)
}

func TestSanitizeInput_SizeOverrideFromEnv(t *testing.T) {
	t.Setenv(runner.EnvMaxInputSize, "10")

	_, err := runner.SanitizeInput("onze chars!")
	assert.ErrorIs(t, err, runner.ErrInputTooLarge)

	out, err := runner.SanitizeInput("diez chars")
	require.NoError(t, err)
	assert.Equal(t, "diez chars", out)
}

func TestSanitizeInput_RejectsInvalidUTF8(t *testing.T) {
	_, err := runner.SanitizeInput("hola\xff\xfe")
	assert.ErrorIs(t, err, runner.ErrInvalidUTF8)
}
