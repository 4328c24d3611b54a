package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreLevel(t *testing.T) {
	t.Helper()
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })
}

func TestLevelForVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		expected  zerolog.Level
	}{
		{0, zerolog.WarnLevel},
		{1, zerolog.InfoLevel},
		{2, zerolog.DebugLevel},
		{5, zerolog.TraceLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, levelForVerbosity(tt.verbosity))
	}
}

func TestSetupLogger_WritesComponent(t *testing.T) {
	restoreLevel(t)
	var buf bytes.Buffer
	SetupLogger(1, &buf)

	logger := GetLogger("refs")
	logger.Info().Msg("branch written")

	out := buf.String()
	assert.Contains(t, out, "branch written")
	assert.Contains(t, out, "refs")
}

func TestSetupLogger_FiltersBelowLevel(t *testing.T) {
	restoreLevel(t)
	var buf bytes.Buffer
	SetupLogger(0, &buf)

	GetLogger("core").Info().Msg("hidden")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestSetLevel(t *testing.T) {
	restoreLevel(t)

	require.NoError(t, SetLevel("debug"))
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	require.NoError(t, SetLevel(""))
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	assert.Error(t, SetLevel("loud"))
}
