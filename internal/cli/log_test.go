package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	logger.Debug("debug-only detail")
	logger.Info("visible status")

	out := buf.String()
	if strings.Contains(out, "debug-only detail") {
		t.Error("debug message emitted at info level")
	}
	if !strings.Contains(out, "visible status") {
		t.Errorf("info message missing from output:\n%s", out)
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	p := newProgress(logger)
	p.done("Rendered desktop snapshot")

	out := buf.String()
	if !strings.Contains(out, "Rendered desktop snapshot (") {
		t.Errorf("completion message missing:\n%s", out)
	}
	if !strings.Contains(out, "s)") {
		t.Errorf("elapsed duration missing:\n%s", out)
	}
}

func TestLoggerContextRoundtrip(t *testing.T) {
	logger := newLogger(&bytes.Buffer{}, log.DebugLevel)
	ctx := withLogger(context.Background(), logger)

	if got := loggerFromContext(ctx); got != logger {
		t.Error("context did not return the attached logger")
	}
}

func TestLoggerContextFallback(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Error("bare context must fall back to a usable logger")
	}
}
