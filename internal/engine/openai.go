package engine

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/mpetek/goscribe/internal/config"
)

// OpenAIEngine transcribes audio through the OpenAI Whisper API.
type OpenAIEngine struct {
	client   *openai.Client
	model    string
	language string
	log      zerolog.Logger
}

// NewOpenAIEngine creates a remote transcription engine. The API key is
// taken from the config, falling back to the OPENAI_API_KEY environment
// variable.
func NewOpenAIEngine(cfg config.OpenAIConfig, language string, log zerolog.Logger) (*OpenAIEngine, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("engine: openai API key not configured (set engine.openai.api_key or OPENAI_API_KEY)")
	}

	model := cfg.Model
	if model == "" {
		model = openai.Whisper1
	}

	return &OpenAIEngine{
		client:   openai.NewClient(apiKey),
		model:    model,
		language: language,
		log:      log,
	}, nil
}

// Name returns the backend name.
func (e *OpenAIEngine) Name() string { return "openai" }

// Close releases resources. The HTTP client holds none.
func (e *OpenAIEngine) Close() error { return nil }

// Transcribe uploads the audio file and returns the API's transcription.
func (e *OpenAIEngine) Transcribe(path string) (*Result, error) {
	e.log.Debug().Str("file", path).Str("model", e.model).Msg("sending audio to openai")

	req := openai.AudioRequest{
		Model:    e.model,
		FilePath: path,
		Format:   openai.AudioResponseFormatVerboseJSON,
	}
	if e.language != "" && e.language != "auto" {
		req.Language = e.language
	}

	resp, err := e.client.CreateTranscription(context.Background(), req)
	if err != nil {
		return nil, fmt.Errorf("engine: openai transcription: %w", err)
	}

	res := &Result{
		Text:     resp.Text,
		Language: resp.Language,
		Duration: time.Duration(resp.Duration * float64(time.Second)),
	}
	for _, seg := range resp.Segments {
		res.Segments = append(res.Segments, Segment{
			Start: time.Duration(seg.Start * float64(time.Second)),
			End:   time.Duration(seg.End * float64(time.Second)),
			Text:  seg.Text,
		})
	}

	return res, nil
}
