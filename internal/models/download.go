package models

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Ensure returns the local weights path for the model, downloading it first
// if it is not already present in dir.
func Ensure(ctx context.Context, m Model, dir string, log zerolog.Logger) (string, error) {
	if m.IsDownloaded(dir) {
		log.Debug().Str("model", m.Name).Str("path", m.Path(dir)).Msg("model weights already present")
		return m.Path(dir), nil
	}
	if err := Download(ctx, m, dir, log); err != nil {
		return "", err
	}
	return m.Path(dir), nil
}

// Download fetches the model weights into dir. The file is written to a
// temporary name and renamed into place, so a partial download never
// shadows real weights.
func Download(ctx context.Context, m Model, dir string, log zerolog.Logger) error {
	return downloadFrom(ctx, m, m.URL(), dir, log)
}

func downloadFrom(ctx context.Context, m Model, url, dir string, log zerolog.Logger) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("models: creating models dir: %w", err)
	}

	destPath := m.Path(dir)
	tmpPath := destPath + ".download"

	log.Info().
		Str("model", m.Name).
		Str("url", url).
		Str("dest", destPath).
		Msg("downloading model weights")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("models: creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("models: downloading %q: %w", m.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("models: downloading %q: HTTP %d", m.Name, resp.StatusCode)
	}

	total := resp.ContentLength
	if total <= 0 {
		total = m.SizeBytes
	}

	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("models: creating temp file: %w", err)
	}

	pw := &progressWriter{writer: f, total: total, label: m.File, log: log}
	written, err := io.Copy(pw, resp.Body)
	f.Close()
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("models: writing weights file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("models: moving weights file: %w", err)
	}

	log.Info().
		Str("model", m.Name).
		Int64("bytes", written).
		Msg("model weights downloaded")

	return nil
}

// progressWriter wraps an io.Writer and logs download progress at most
// every two seconds.
type progressWriter struct {
	writer  io.Writer
	total   int64
	written int64
	label   string
	log     zerolog.Logger
	lastLog time.Time
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.writer.Write(p)
	pw.written += int64(n)

	if time.Since(pw.lastLog) > 2*time.Second {
		ev := pw.log.Info().
			Str("file", pw.label).
			Int64("downloaded_mb", pw.written/(1024*1024))
		if pw.total > 0 {
			pct := float64(pw.written) / float64(pw.total) * 100
			ev = ev.Int64("total_mb", pw.total/(1024*1024)).Int("percent", int(pct))
		}
		ev.Msg("downloading")
		pw.lastLog = time.Now()
	}

	return n, err
}
