package log

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewCoreWritesJsonAndConsole(t *testing.T) {
	var file, console bytes.Buffer
	logger := zap.New(newCore(zapcore.AddSync(&file), zapcore.AddSync(&console), zap.InfoLevel))

	logger.With(zap.String("contract", "MainSquidGame")).Info("Game added")
	logger.Debug("hidden")
	require.NoError(t, logger.Sync())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(file.Bytes()), &entry))
	assert.Equal(t, "Game added", entry["message"])
	assert.Equal(t, "MainSquidGame", entry["contract"])
	assert.Contains(t, entry, "time")

	assert.Contains(t, console.String(), "Game added")
	assert.NotContains(t, console.String(), "hidden")
}

func TestNewLoggerReplacesGlobals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "squidctl.log")
	NewLogger(path, true, "")

	zap.L().Debug("debug enabled")
	_ = zap.L().Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "debug enabled"))
}
