package logger

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingBeforeInitIsNoop(t *testing.T) {
	require.NoError(t, Close())
	assert.NotPanics(t, func() {
		Debug("dropped")
		Info("dropped")
		Warn("dropped")
		Error("dropped")
	})
}

func TestInitWritesToRotatingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(Config{DataDir: dir}))
	t.Cleanup(func() { _ = Close() })
	require.NotNil(t, Logger)

	Debug("below threshold")
	Info("goal committed", "date", "2024-01-08")

	data, err := os.ReadFile(LogPath(dir))
	require.NoError(t, err)
	assert.Contains(t, string(data), "goal committed")
	assert.NotContains(t, string(data), "below threshold", "debug line written at info level")
}

func TestInitDebugMode(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(Config{DataDir: dir, Debug: true}))
	t.Cleanup(func() { _ = Close() })

	Debug("visible in debug")

	data, err := os.ReadFile(LogPath(dir))
	require.NoError(t, err)
	assert.Contains(t, string(data), "visible in debug")
}
