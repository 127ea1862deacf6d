package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerLevels(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLoggerTo(&out, &errOut, "info")

	l.Info("hello %s", "world")
	l.Debug("hidden")
	l.Error("boom %d", 42)

	if !strings.Contains(out.String(), "INFO  hello world") {
		t.Errorf("info line missing: %q", out.String())
	}
	if strings.Contains(out.String(), "hidden") {
		t.Errorf("debug line should be suppressed at info level")
	}
	if !strings.Contains(errOut.String(), "ERROR boom 42") {
		t.Errorf("error line missing: %q", errOut.String())
	}
	if strings.Contains(out.String(), "\033[") {
		t.Errorf("non-terminal output should carry no colour codes")
	}
}

func TestLoggerDebugEnabled(t *testing.T) {
	var out bytes.Buffer
	l := NewLoggerTo(&out, &out, "debug")

	l.Debug("visible %d", 1)
	if !strings.Contains(out.String(), "DEBUG visible 1") {
		t.Errorf("debug line missing: %q", out.String())
	}
}
