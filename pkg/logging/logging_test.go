package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/unowned-ai/recipebox/pkg/config"
)

func TestNewWritesJSONToRotatedFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "recipebox.log")

	logger, err := New(config.LoggingConfig{
		Level: "info",
		File:  logFile,
		JSON:  true,
	})
	require.NoError(t, err)

	logger.Info("recipe created", zap.Int64("recipe_id", 5))
	logger.Debug("filtered out")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "recipe created", entry["msg"])
	require.Equal(t, "info", entry["level"])
	require.EqualValues(t, 5, entry["recipe_id"])
}

func TestNewConsoleEncoderHonoursLevel(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "recipebox.log")

	logger, err := New(config.LoggingConfig{Level: "debug", File: logFile})
	require.NoError(t, err)

	logger.Debug("schema up to date")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	require.Contains(t, string(data), "DEBUG")
	require.Contains(t, string(data), "schema up to date")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(config.LoggingConfig{Level: "chatty"})
	require.Error(t, err)
}

func TestNewRotatingWriterDefaults(t *testing.T) {
	w, err := NewRotatingWriter(RotationConfig{File: filepath.Join(t.TempDir(), "a", "b.log")})
	require.NoError(t, err)
	require.Equal(t, 10, w.MaxSize)
	require.Equal(t, 5, w.MaxBackups)

	_, err = NewRotatingWriter(RotationConfig{})
	require.Error(t, err)
}

func TestNop(t *testing.T) {
	require.NotPanics(t, func() { Nop().Info("ignored") })
}
