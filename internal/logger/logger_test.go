package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	quiet, err := New(false, false)
	if err != nil {
		t.Fatalf("creating logger: %v", err)
	}
	if quiet.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("debug must be disabled by default")
	}
	if !quiet.Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("info must be enabled by default")
	}

	verbose, err := New(true, true)
	if err != nil {
		t.Fatalf("creating logger: %v", err)
	}
	if !verbose.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("debug flag must enable debug level")
	}
}
