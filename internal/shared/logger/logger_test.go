package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	l, err := New("superodds-api", "local", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Error("local logger should log debug")
	}

	l, err = New("superodds-api", "prod", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Core().Enabled(zapcore.DebugLevel) {
		t.Error("prod logger should start at info")
	}

	l, err = New("superodds-api", "prod", "warn")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("explicit level should override the default")
	}

	if _, err := New("superodds-api", "prod", "loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}
