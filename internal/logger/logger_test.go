package logger

import (
	"testing"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name   string
		level  string
		format string
	}{
		{"debug level", "debug", "console"},
		{"info level", "info", "console"},
		{"warn level", "warn", "console"},
		{"error level", "error", "console"},
		{"json format", "info", "json"},
		{"uppercase level", "DEBUG", "console"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup should not panic
			Setup(tt.level, tt.format)
			if Log == nil {
				t.Error("expected Log to be initialized")
			}
		})
	}
}

func TestLoggerMethodsExist(t *testing.T) {
	if Log == nil {
		Setup("info", "console")
	}

	// These should not panic
	Log.Info("test info message", "key", "value")
	Log.Debug("test debug message", "key", "value")
	Log.Warn("test warn message", "key", "value")
	Log.Error("test error message", "key", "value")
}

func TestComponent(t *testing.T) {
	if Log == nil {
		Setup("info", "console")
	}
	sub := Log.Component("kernel")
	if sub == nil {
		t.Fatal("expected component logger")
	}
	sub.Info("component message", "heads", 8, "head_dim", 64)
}

func TestLoggerOddFieldCount(t *testing.T) {
	if Log == nil {
		Setup("info", "console")
	}
	// Trailing key without a value is dropped, not a panic.
	Log.Info("odd fields", "key1", "value1", "dangling")
}
