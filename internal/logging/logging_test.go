package logging

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   LogLevel
		wantOK bool
	}{
		{"debug", "debug", LevelDebug, true},
		{"info", "info", LevelInfo, true},
		{"warn", "warn", LevelWarn, true},
		{"warning alias", "warning", LevelWarn, true},
		{"error", "error", LevelError, true},
		{"case insensitive", "DEBUG", LevelDebug, true},
		{"surrounding spaces", "  error ", LevelError, true},
		{"empty", "", LevelInfo, false},
		{"unknown", "verbose", LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLevel(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseLevel(%q) = (%v, %v), want (%v, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv("DEBUG", "")
	t.Setenv("LOG_LEVEL", "warn")
	if got := levelFromEnv(); got != LevelWarn {
		t.Errorf("levelFromEnv() = %v, want warn", got)
	}

	t.Setenv("DEBUG", "true")
	if got := levelFromEnv(); got != LevelDebug {
		t.Errorf("levelFromEnv() with DEBUG=true = %v, want debug", got)
	}
}

func TestSetLevelFiltersOutput(t *testing.T) {
	var buf bytes.Buffer
	original := GetLevel()
	log.SetOutput(&buf)
	defer func() {
		log.SetOutput(os.Stderr)
		SetLevel(original)
	}()

	SetLevel(LevelWarn)
	Debug("hidden debug")
	Info("hidden info")
	Warn("visible %s", "warning")
	Error("visible error")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("messages below warn were logged: %q", out)
	}
	if !strings.Contains(out, "[WARN] visible warning") {
		t.Errorf("warn message missing: %q", out)
	}
	if !strings.Contains(out, "[ERROR] visible error") {
		t.Errorf("error message missing: %q", out)
	}
	if IsDebugEnabled() {
		t.Error("IsDebugEnabled() = true at warn level")
	}
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  string
	}{
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{LogLevel(42), "unknown(42)"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("LogLevel(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}
