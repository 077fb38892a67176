package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInit(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		logFile string
	}{
		{name: "debug level, console", level: "debug"},
		{name: "warn level, console", level: "warn"},
		{name: "unknown level falls back to info", level: "verbose"},
		{name: "info level with log file", level: "info", logFile: filepath.Join(t.TempDir(), "sync.log")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Log = nil

			require.NoError(t, Init(tt.level, tt.logFile))
			require.NotNil(t, Log)

			_ = Log.Sync()
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("info"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
}

func TestL_BeforeInit(t *testing.T) {
	Log = nil

	l := L()
	require.NotNil(t, l)
	l.Info("dropped")

	assert.NoError(t, Sync())
}

func TestInit_WritesLogFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "app.log")

	require.NoError(t, Init("info", logFile))
	Log.Info("sync run finished")
	_ = Sync()

	_, err := os.Stat(logFile)
	assert.NoError(t, err)
}
