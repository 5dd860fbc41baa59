// Package engine provides speech-to-text backends.
//
// Supported backends:
//   - whisper: whisper.cpp via Go bindings, local model weights (default)
//   - openai: OpenAI Whisper API
package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mpetek/goscribe/internal/config"
)

// Engine converts one audio file to a transcription result.
type Engine interface {
	// Transcribe converts the audio file at path to text. The call blocks
	// until the backend finishes; deadline enforcement is the caller's
	// concern (see the runner package).
	Transcribe(path string) (*Result, error)
	// Name returns the backend name, for logging.
	Name() string
	// Close releases backend resources.
	Close() error
}

// Result is the structured output of one transcription call.
type Result struct {
	Text     string        // full transcript
	Segments []Segment     // time-aligned portions, if the backend provides them
	Language string        // detected or configured language
	Duration time.Duration // audio duration, if known
}

// Segment is a time-aligned portion of the transcript.
type Segment struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// FormattedText renders the transcript with one [HH:MM:SS]-prefixed line
// per segment. Falls back to the plain text when no segments are present.
func (r *Result) FormattedText() string {
	if len(r.Segments) == 0 {
		return r.Text
	}

	var b strings.Builder
	for _, seg := range r.Segments {
		fmt.Fprintf(&b, "[%s] %s\n", formatTimestamp(seg.Start), strings.TrimSpace(seg.Text))
	}
	return b.String()
}

func formatTimestamp(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// New creates an Engine based on the config backend setting. For the
// whisper backend, modelPath must point at already-resolved ggml weights
// (see the models package).
func New(cfg *config.EngineConfig, modelPath string, log zerolog.Logger) (Engine, error) {
	switch cfg.Backend {
	case "openai":
		return NewOpenAIEngine(cfg.OpenAI, cfg.Language, log)
	case "whisper", "":
		return NewWhisperEngine(modelPath, cfg.Language, cfg.Threads, log)
	default:
		return nil, fmt.Errorf("engine: unknown backend %q (supported: whisper, openai)", cfg.Backend)
	}
}
