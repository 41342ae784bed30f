package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level string
		debug bool
	}{
		{"debug", true},
		{"info", false},
		{"", false},
		{"nonsense", false},
	}
	for _, tt := range tests {
		lg := New(tt.level, false)
		if got := lg.Desugar().Core().Enabled(zapcore.DebugLevel); got != tt.debug {
			t.Errorf("New(%q) debug enabled = %v, want %v", tt.level, got, tt.debug)
		}
	}
}

func TestNewDev(t *testing.T) {
	lg := New("warn", true)
	if lg.Desugar().Core().Enabled(zapcore.InfoLevel) {
		t.Error("warn logger should not log info")
	}
}
