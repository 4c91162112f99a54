// Fieldctl - Field Service Administration Console
// Copyright 2026 Fieldctl Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fieldctl-io/fieldctl

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"disabled", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLevel(tt.input); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestInitJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	Info().Str("key", "value").Msg("hello")

	out := buf.String()
	if !strings.Contains(out, `"key":"value"`) {
		t.Errorf("expected structured field in output, got %q", out)
	}
	if !strings.Contains(out, `"message":"hello"`) {
		t.Errorf("expected message in output, got %q", out)
	}
}

func TestLevelShortcuts(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "trace", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	Trace().Msg("at trace")
	Debug().Msg("at debug")
	Info().Msg("at info")
	Warn().Msg("at warn")
	Error().Msg("at error")

	out := buf.String()
	for _, level := range []string{"trace", "debug", "info", "warn", "error"} {
		if !strings.Contains(out, `"level":"`+level+`"`) {
			t.Errorf("missing %s-level event in output: %q", level, out)
		}
	}
}

func TestInitLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "error", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	Debug().Msg("suppressed")
	if buf.Len() != 0 {
		t.Errorf("debug log emitted at error level: %q", buf.String())
	}

	Error().Msg("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("error log not emitted: %q", buf.String())
	}
}

func TestWithAddsFields(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "json", Output: &buf})
	defer Init(DefaultConfig())

	child := With().Str("component", "api").Logger()
	child.Info().Msg("scoped")

	if !strings.Contains(buf.String(), `"component":"api"`) {
		t.Errorf("expected component field, got %q", buf.String())
	}
}
