package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWritesToGivenWriter(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info")

	log.Info().Msg("model loaded")

	out := buf.String()
	if !strings.Contains(out, "model loaded") {
		t.Errorf("output %q should contain the message", out)
	}
}

func TestNewLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "error")

	log.Info().Msg("not shown")
	log.Error().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "not shown") {
		t.Errorf("info message should be filtered at error level, got %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("error message should pass at error level, got %q", out)
	}
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "chatty")

	if log.GetLevel() != zerolog.InfoLevel {
		t.Errorf("level = %v, want info fallback", log.GetLevel())
	}
}

func TestNop(t *testing.T) {
	log := Nop()
	// Must not panic and must discard output.
	log.Error().Msg("discarded")
}
