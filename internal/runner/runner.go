// Package runner enforces a wall-clock deadline on a blocking
// transcription call.
package runner

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mpetek/goscribe/internal/engine"
)

// ErrTimeout is returned when a transcription does not complete within
// the configured deadline.
var ErrTimeout = errors.New("runner: transcription timed out")

// DefaultTimeout is the deadline used when the caller passes zero.
const DefaultTimeout = 300 * time.Second

// Run invokes e.Transcribe(audioPath) on its own goroutine and waits at
// most timeout for it to finish.
//
// On timeout, ErrTimeout is returned and the goroutine's eventual result
// is discarded. The underlying transcription keeps running until the
// backend finishes on its own; the bindings expose no cooperative
// cancellation point, so the deadline bounds only the caller's wait.
func Run(e engine.Engine, audioPath string, timeout time.Duration, log zerolog.Logger) (*engine.Result, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	log.Info().
		Str("file", audioPath).
		Str("backend", e.Name()).
		Dur("timeout", timeout).
		Msg("transcription started")

	type outcome struct {
		res *engine.Result
		err error
	}

	// Buffered so the worker can always deliver and exit, even after the
	// deadline has fired and nobody is receiving.
	done := make(chan outcome, 1)
	start := time.Now()

	go func() {
		res, err := e.Transcribe(audioPath)
		done <- outcome{res: res, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case out := <-done:
		if out.err != nil {
			log.Error().Str("file", audioPath).Err(out.err).Msg("transcription failed")
			return nil, fmt.Errorf("runner: transcribe %q: %w", audioPath, out.err)
		}
		log.Info().
			Str("file", audioPath).
			Dur("elapsed", time.Since(start).Round(time.Millisecond)).
			Msg("transcription completed")
		return out.res, nil

	case <-timer.C:
		log.Error().
			Str("file", audioPath).
			Dur("timeout", timeout).
			Msg("transcription timed out")
		return nil, fmt.Errorf("%w after %s", ErrTimeout, timeout)
	}
}
