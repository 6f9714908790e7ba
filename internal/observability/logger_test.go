package observability

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

	"github.com/stridecanvas/stridecanvas-cli/internal/config"
)

// syncBuffer adapts bytes.Buffer to zapcore.WriteSyncer so tests can capture
// the console stream without touching os.Stdout.
type syncBuffer struct {
	bytes.Buffer
}

func (*syncBuffer) Sync() error { return nil }

func TestInitialize(t *testing.T) {

	t.Run("console logger colorizes levels", func(t *testing.T) {
		ResetForTest()
		buf := &syncBuffer{}

		cfg := config.LoggerConfig{
			Level:       "debug",
			Format:      "console",
			ServiceName: "TestService",
			Colors: config.ColorConfig{
				Info: "green",
			},
		}
		Initialize(cfg, buf)
		logger := GetLogger()
		logger.Info("This is a test message.")

		output := buf.String()
		assert.Contains(t, output, "INFO", "output should contain the log level")
		assert.Contains(t, output, "This is a test message.")
		assert.Contains(t, output, colorGreen, "info level should be colorized green")
		assert.Contains(t, output, colorReset, "output should contain the reset code")
		assert.Contains(t, output, "TestService.", "console names end with a dot")
	})

	t.Run("json logger emits valid JSON", func(t *testing.T) {
		ResetForTest()
		buf := &syncBuffer{}

		cfg := config.LoggerConfig{
			Level:       "info",
			Format:      "json",
			ServiceName: "JSONTest",
		}
		Initialize(cfg, buf)
		GetLogger().Warn("This is a JSON message.", zap.String("key", "value"))

		var logEntry map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry), "log output should be valid JSON")

		assert.Equal(t, "warn", logEntry["level"])
		assert.Equal(t, "JSONTest", logEntry["logger"])
		assert.Equal(t, "This is a JSON message.", logEntry["msg"])
		assert.Equal(t, "value", logEntry["key"])
	})

	t.Run("writes to a log file when configured", func(t *testing.T) {
		ResetForTest()
		logFile := filepath.Join(t.TempDir(), "stridecanvas-test.log")

		cfg := config.LoggerConfig{
			Level:   "debug",
			Format:  "console",
			LogFile: logFile,
			MaxSize: 1, // MB
		}
		Initialize(cfg, &syncBuffer{})
		GetLogger().Error("This should go to the file.")

		content, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Contains(t, string(content), "This should go to the file.")
	})

	t.Run("below-level entries are dropped", func(t *testing.T) {
		ResetForTest()
		buf := &syncBuffer{}

		Initialize(config.LoggerConfig{Level: "warn", Format: "console"}, buf)
		GetLogger().Info("quiet")
		GetLogger().Warn("loud")

		assert.NotContains(t, buf.String(), "quiet")
		assert.Contains(t, buf.String(), "loud")
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		ResetForTest()
		buf := &syncBuffer{}

		Initialize(config.LoggerConfig{Level: "verbose", Format: "console"}, buf)
		GetLogger().Debug("debug msg")
		GetLogger().Info("info msg")

		assert.NotContains(t, buf.String(), "debug msg")
		assert.Contains(t, buf.String(), "info msg")
	})

	t.Run("initializes only once", func(t *testing.T) {
		ResetForTest()
		buf := &syncBuffer{}

		Initialize(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "First"}, buf)
		logger1 := GetLogger()

		// The second call must be ignored by the sync.Once.
		Initialize(config.LoggerConfig{Level: "debug", Format: "console", ServiceName: "Second"}, buf)
		logger2 := GetLogger()

		assert.Same(t, logger1, logger2)
		logger2.Info("test")
		assert.True(t, strings.Contains(buf.String(), "First"))
		assert.False(t, strings.Contains(buf.String(), "Second"))
	})
}

func TestGetLogger(t *testing.T) {
	t.Run("returns a fallback logger before initialization", func(t *testing.T) {
		ResetForTest()
		logger := GetLogger()
		require.NotNil(t, logger)
	})

	t.Run("returns the global logger after initialization", func(t *testing.T) {
		ResetForTest()
		Initialize(config.LoggerConfig{Level: "info", ServiceName: "GlobalTest"}, &syncBuffer{})

		logger := GetLogger()
		assert.Equal(t, globalLogger.Load(), logger)
	})
}

func TestColorizedLevelEncoder(t *testing.T) {
	enc := newColorizedLevelEncoder(config.ColorConfig{Warn: "yellow"})

	buf := &syncBuffer{}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeLevel = enc
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), buf, zap.DebugLevel)
	logger := zap.New(core)

	logger.Warn("caution")
	assert.Contains(t, buf.String(), colorYellow+"WARN"+colorReset)

	buf.Reset()
	// Unconfigured levels are emitted without color codes.
	logger.Debug("plain")
	assert.Contains(t, buf.String(), "DEBUG")
	assert.NotContains(t, buf.String(), colorYellow)
}
