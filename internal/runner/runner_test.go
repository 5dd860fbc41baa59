package runner

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mpetek/goscribe/internal/engine"
)

// fakeEngine returns a canned result (or error) after an optional delay.
type fakeEngine struct {
	res   *engine.Result
	err   error
	delay time.Duration
}

func (f *fakeEngine) Transcribe(path string) (*engine.Result, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.res, f.err
}

func (f *fakeEngine) Name() string { return "fake" }
func (f *fakeEngine) Close() error { return nil }

func TestRunSuccess(t *testing.T) {
	want := &engine.Result{Text: "hello world", Language: "en"}
	e := &fakeEngine{res: want}

	got, err := Run(e, "audio.wav", time.Second, zerolog.Nop())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got != want {
		t.Error("Run() should return the engine's result unchanged")
	}
}

func TestRunEngineError(t *testing.T) {
	engineErr := errors.New("corrupt audio")
	e := &fakeEngine{err: engineErr}

	_, err := Run(e, "audio.wav", time.Second, zerolog.Nop())
	if err == nil {
		t.Fatal("Run() should propagate engine errors")
	}
	if !errors.Is(err, engineErr) {
		t.Errorf("Run() error = %v, want wrapped %v", err, engineErr)
	}
	if errors.Is(err, ErrTimeout) {
		t.Error("engine error should not be a timeout")
	}
}

func TestRunTimeout(t *testing.T) {
	e := &fakeEngine{
		res:   &engine.Result{Text: "too late"},
		delay: 300 * time.Millisecond,
	}

	start := time.Now()
	_, err := Run(e, "audio.wav", 50*time.Millisecond, zerolog.Nop())
	elapsed := time.Since(start)

	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Run() error = %v, want ErrTimeout", err)
	}
	// No upper bound on elapsed: scheduling delays on a busy machine are
	// unbounded. ErrTimeout already shows the timer branch won the select.
	if elapsed < 50*time.Millisecond {
		t.Errorf("Run() returned after %v, before the deadline", elapsed)
	}
}

func TestRunZeroTimeoutUsesDefault(t *testing.T) {
	want := &engine.Result{Text: "fast"}
	e := &fakeEngine{res: want}

	got, err := Run(e, "audio.wav", 0, zerolog.Nop())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got.Text != "fast" {
		t.Errorf("Run() Text = %q, want %q", got.Text, "fast")
	}
}

func TestRunResultDiscardedAfterTimeout(t *testing.T) {
	// The worker must be able to finish and exit after the deadline fires,
	// even though nobody is receiving its result.
	e := &fakeEngine{
		res:   &engine.Result{Text: "late"},
		delay: 80 * time.Millisecond,
	}

	_, err := Run(e, "audio.wav", 10*time.Millisecond, zerolog.Nop())
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Run() error = %v, want ErrTimeout", err)
	}

	// Give the worker time to complete; a send on an unbuffered channel
	// would deadlock it forever instead.
	time.Sleep(150 * time.Millisecond)
}
