// Package writer persists transcription results to disk.
package writer

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/mpetek/goscribe/internal/engine"
)

// Save writes the transcript text to path, replacing any existing file.
// With timestamps set, each segment is written on its own
// [HH:MM:SS]-prefixed line instead of the flat text.
func Save(res *engine.Result, path string, timestamps bool, log zerolog.Logger) error {
	text := res.Text
	if timestamps {
		text = res.FormattedText()
	}

	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		log.Error().Str("path", path).Err(err).Msg("failed to save transcription")
		return fmt.Errorf("writer: save transcription to %q: %w", path, err)
	}

	log.Info().Str("path", path).Int("bytes", len(text)).Msg("transcription saved")
	return nil
}
