package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/moffa90/go-id809/internal/config"
)

func TestSensorLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := SensorLogger(zap.New(core))

	l.Debug("exchange", "command", "search")
	l.Info("template stored", "id", "5")
	l.Warn("accepting response with bad checksum")
	l.Error("enrollment failed", "stage", "merge")

	require.Equal(t, 4, logs.Len())
	entries := logs.All()
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "search", entries[0].ContextMap()["command"])
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, "merge", entries[3].ContextMap()["stage"])
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "id809.log")
	logger, err := New(config.LoggingConfig{
		Level:  "debug",
		Format: "json",
		File:   config.LumberjackConfig{Filename: path, MaxSizeMB: 1},
	})
	require.NoError(t, err)

	logger.Debug("hello", zap.Int("id", 5))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"id":5`)
}

func TestNewLevel(t *testing.T) {
	logger, err := New(config.LoggingConfig{Level: "WARN"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	_, err = New(config.LoggingConfig{Level: "bogus"})
	assert.Error(t, err)
}
