package seenlog_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/seenlang/seenc/internal/seenlog"
)

func TestLevelString(t *testing.T) {
	cases := []struct {
		level seenlog.Level
		want  string
	}{
		{seenlog.LevelDebug, "DEBUG"},
		{seenlog.LevelInfo, "INFO"},
		{seenlog.LevelWarn, "WARN"},
		{seenlog.LevelError, "ERROR"},
	}
	for _, c := range cases {
		if got := c.level.String(); got != c.want {
			t.Errorf("%d.String() = %q, want %q", c.level, got, c.want)
		}
	}
}

func TestLoggerFiltersBelowMinLevel(t *testing.T) {
	var buf bytes.Buffer
	log := seenlog.New(&buf, seenlog.LevelWarn)
	log.Debug("should not appear")
	log.Info("should not appear either")
	if buf.Len() != 0 {
		t.Errorf("expected no output below min level, got %q", buf.String())
	}
	log.Warn("visible warning")
	if !strings.Contains(buf.String(), "visible warning") {
		t.Errorf("expected warning to be written, got %q", buf.String())
	}
}

func TestLoggerIncludesLevelPrefixAndFormattedMessage(t *testing.T) {
	var buf bytes.Buffer
	log := seenlog.New(&buf, seenlog.LevelDebug)
	log.Error("failed on %s: %d", "input.seen", 7)
	out := buf.String()
	if !strings.Contains(out, "[ERROR]") {
		t.Errorf("expected an [ERROR] prefix, got %q", out)
	}
	if !strings.Contains(out, "failed on input.seen: 7") {
		t.Errorf("expected the formatted message, got %q", out)
	}
}

func TestLoggerNonFileWriterIsNotColorized(t *testing.T) {
	var buf bytes.Buffer
	log := seenlog.New(&buf, seenlog.LevelDebug)
	log.Info("plain")
	out := buf.String()
	if strings.Contains(out, "\x1b[") {
		t.Errorf("expected no ANSI escapes when writing to a plain buffer, got %q", out)
	}
}
