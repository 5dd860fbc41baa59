package engine

import (
	"fmt"
	"io"
	"strings"

	whisper "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"github.com/rs/zerolog"

	"github.com/mpetek/goscribe/internal/audio"
)

// WhisperEngine wraps a whisper.cpp model for local speech-to-text.
type WhisperEngine struct {
	model    whisper.Model
	language string
	threads  uint
	log      zerolog.Logger
}

// NewWhisperEngine loads whisper model weights from the given path.
// The caller must call Close() when done.
func NewWhisperEngine(modelPath, language string, threads uint, log zerolog.Logger) (*WhisperEngine, error) {
	model, err := whisper.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("engine: load whisper model %q: %w", modelPath, err)
	}

	log.Debug().
		Str("path", modelPath).
		Bool("multilingual", model.IsMultilingual()).
		Msg("whisper model loaded")

	return &WhisperEngine{
		model:    model,
		language: language,
		threads:  threads,
		log:      log,
	}, nil
}

// Name returns the backend name.
func (e *WhisperEngine) Name() string { return "whisper" }

// Close releases the whisper model resources.
func (e *WhisperEngine) Close() error {
	if e.model != nil {
		return e.model.Close()
	}
	return nil
}

// Transcribe decodes the audio file and runs whisper over it, collecting
// all segments into a Result.
func (e *WhisperEngine) Transcribe(path string) (*Result, error) {
	samples, err := audio.ReadWAV(path)
	if err != nil {
		return nil, err
	}

	e.log.Debug().
		Int("samples", len(samples)).
		Float64("duration_sec", float64(len(samples))/float64(audio.TargetSampleRate)).
		Msg("audio decoded")

	ctx, err := e.model.NewContext()
	if err != nil {
		return nil, fmt.Errorf("engine: create whisper context: %w", err)
	}

	if e.language != "" {
		if err := ctx.SetLanguage(e.language); err != nil {
			e.log.Warn().Str("language", e.language).Err(err).Msg("failed to set language")
		}
	}
	if e.threads > 0 {
		ctx.SetThreads(e.threads)
	}

	if err := ctx.Process(samples, nil, nil, nil); err != nil {
		return nil, fmt.Errorf("engine: whisper process: %w", err)
	}

	res := &Result{Language: ctx.DetectedLanguage()}
	var text strings.Builder
	for {
		seg, err := ctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("engine: next segment: %w", err)
		}
		res.Segments = append(res.Segments, Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
		})
		text.WriteString(seg.Text)
	}

	res.Text = strings.TrimSpace(text.String())
	if n := len(res.Segments); n > 0 {
		res.Duration = res.Segments[n-1].End
	}

	return res, nil
}
