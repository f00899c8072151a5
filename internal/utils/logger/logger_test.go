package logger

import (
	"testing"

	"go.uber.org/zap"
)

func TestLoggerBeforeInitReturnsNop(t *testing.T) {
	prev := global
	global = nil
	t.Cleanup(func() {
		global = prev
	})

	if Logger() == nil {
		t.Fatal("expected non-nil logger before Init")
	}
}

func TestInitSetsSharedLogger(t *testing.T) {
	prev := global
	t.Cleanup(func() {
		global = prev
	})

	z := zap.NewExample().Sugar()
	Init(z)
	if Logger() != z {
		t.Fatal("expected Logger to return the instance passed to Init")
	}
}

func TestBuildRejectsUnknownLevel(t *testing.T) {
	if _, err := Build("chatty"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestBuildAcceptsStandardLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		if _, err := Build(level); err != nil {
			t.Fatalf("level %s: %v", level, err)
		}
	}
}
