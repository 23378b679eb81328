package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{" error ", LevelError},
		{"verbose", LevelInfo},
		{"", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLeveledFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, "warn")

	l.Debugf("hidden %d", 1)
	l.Infof("hidden %d", 2)
	l.Warnf("shown %d", 3)
	l.Errorf("shown %d", 4)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("below-threshold messages written: %q", out)
	}
	if !strings.Contains(out, "[WARN] shown 3") || !strings.Contains(out, "[ERROR] shown 4") {
		t.Errorf("missing messages: %q", out)
	}
}

func TestNoOpSatisfiesLogger(t *testing.T) {
	var l Logger = NewNoOp()
	l.Infof("nothing %s", "here")
}
