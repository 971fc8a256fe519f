package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		wantLevel zerolog.Level
	}{
		{"default warn level", 0, zerolog.WarnLevel},
		{"info level", 1, zerolog.InfoLevel},
		{"debug level", 2, zerolog.DebugLevel},
		{"trace level", 3, zerolog.TraceLevel},
		{"high verbosity defaults to trace", 5, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			t.Setenv("XDG_STATE_HOME", tempDir)

			SetupLoggerWithWriter(tt.verbosity, &bytes.Buffer{})

			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())

			logPath := filepath.Join(tempDir, "dotstow", LogFileName)
			_, err := os.Stat(logPath)
			assert.NoError(t, err, "log file should exist at %s", logPath)
		})
	}
}

func TestLogFilePath(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/custom/state")
	assert.Equal(t, "/custom/state/dotstow/dotstow.log", LogFilePath())
}

func TestLogsReachFile(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", tempDir)

	var console bytes.Buffer
	SetupLoggerWithWriter(1, &console)

	logger := GetLogger("linker")
	logger.Info().Str("target", "~/.gitconfig").Msg("linked")

	data, err := os.ReadFile(filepath.Join(tempDir, "dotstow", LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"linker"`)
	assert.Contains(t, string(data), "linked")
	assert.Contains(t, console.String(), "linked")

	log.Logger = zerolog.Nop()
}

func TestLogOperationStart(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	done := LogOperationStart(logger, "backup")
	done()

	out := buf.String()
	assert.Contains(t, out, "Operation started")
	assert.Contains(t, out, "Operation completed")
	assert.Contains(t, out, `"operation":"backup"`)
}
