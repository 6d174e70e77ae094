package logging

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewWithWriter_LineFormat(t *testing.T) {
	// GIVEN
	var buf bytes.Buffer
	logger := NewWithWriter("LoginPage", &buf)

	// WHEN
	logger.Info("Attempting to click: Login Button")

	// THEN
	line := strings.TrimSpace(buf.String())
	pattern := regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2}T[^\]]+Z\] \[INFO\] \[LoginPage\] Attempting to click: Login Button$`)
	assert.Regexp(t, pattern, line)
}

func TestNewWithWriter_Levels(t *testing.T) {
	tests := []struct {
		name  string
		log   func(Logger)
		level string
	}{
		{name: "info", log: func(l Logger) { l.Info("m") }, level: "[INFO]"},
		{name: "warn", log: func(l Logger) { l.Warn("m") }, level: "[WARN]"},
		{name: "error", log: func(l Logger) { l.Error("m") }, level: "[ERROR]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewWithWriter("ctx", &buf))

			assert.Contains(t, buf.String(), tt.level)
			assert.Contains(t, buf.String(), "[ctx]")
		})
	}
}

func TestNewWithWriter_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter("UserEndpoints", &buf)

	logger.Info("GET responded", "endpoint", "/api/users/2", "status", 200)

	out := buf.String()
	assert.Contains(t, out, `"endpoint": "/api/users/2"`)
	assert.Contains(t, out, `"status": 200`)
}

func TestNewWithCore_CapturesEntries(t *testing.T) {
	// GIVEN
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewWithCore("InventoryPage", core)

	// WHEN
	logger.Warn("slow page", "after", "3s")
	logger.Error("broken")

	// THEN
	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "InventoryPage", entries[0].LoggerName)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "slow page", entries[0].Message)
	assert.Equal(t, "3s", entries[0].ContextMap()["after"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}

func TestNop_DoesNotPanic(t *testing.T) {
	logger := Nop()

	assert.NotPanics(t, func() {
		logger.Info("a")
		logger.Warn("b", "k", "v")
		logger.Error("c")
	})
}
