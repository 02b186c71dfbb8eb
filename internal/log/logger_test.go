package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   Debug,
		"DEBUG":   Debug,
		"info":    Info,
		"":        Info,
		"warn":    Warn,
		"warning": Warn,
		"error":   Error,
		"err":     Error,
		"unknown": Info,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q)=%v want %v", in, got, want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	prev := CurrentLevel()
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetLevel(prev)
	})

	SetLevel(Warn)
	Infof("hidden %d", 1)
	Warnf("shown %d", 2)
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "[WARN] shown 2") {
		t.Fatalf("warn line missing: %q", out)
	}
}
