package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/mpetek/goscribe/internal/config"
	"github.com/mpetek/goscribe/internal/engine"
	"github.com/mpetek/goscribe/internal/logging"
	"github.com/mpetek/goscribe/internal/models"
	"github.com/mpetek/goscribe/internal/runner"
	"github.com/mpetek/goscribe/internal/writer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "path to config file (default: ~/.config/goscribe/config.yaml)")
	audioPath := flag.String("audio", "", "path to the audio file (default: prompt on stdin)")
	modelName := flag.String("model", "", "whisper model identifier, e.g. medium (overrides config)")
	outputPath := flag.String("output", "", "transcript output path (overrides config)")
	timeout := flag.Duration("timeout", 0, "transcription deadline, e.g. 5m (overrides config)")
	timestamps := flag.Bool("timestamps", false, "write [HH:MM:SS]-prefixed segment lines")
	flag.Parse()

	// Optional .env for OPENAI_API_KEY and friends.
	_ = godotenv.Load()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	if err := applyOverrides(cfg, *modelName, *outputPath, *timeout, *timestamps); err != nil {
		fmt.Fprintf(os.Stderr, "flags: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config validation: %v\n", err)
		os.Exit(1)
	}

	log := logging.Default(cfg.LogLevel)

	if err := run(cfg, *audioPath, log); err != nil {
		log.Error().Err(err).Msg("goscribe failed")
		os.Exit(1)
	}
}

// applyOverrides folds CLI flag values into the loaded config. The config
// stores the deadline in whole seconds, so sub-second timeouts are rejected
// here instead of silently truncating to zero.
func applyOverrides(cfg *config.Config, model, output string, timeout time.Duration, timestamps bool) error {
	if model != "" {
		cfg.Engine.Model = model
	}
	if output != "" {
		cfg.Output.Path = output
	}
	if timeout != 0 {
		if timeout < time.Second {
			return fmt.Errorf("timeout %s is below the 1s minimum", timeout)
		}
		cfg.TimeoutSeconds = int(timeout.Seconds())
	}
	if timestamps {
		cfg.Output.Timestamps = true
	}
	return nil
}

// run sequences the pipeline: resolve the audio path, load the engine,
// transcribe under the deadline, persist the transcript.
func run(cfg *config.Config, audioPath string, log zerolog.Logger) error {
	if audioPath == "" {
		var err error
		audioPath, err = promptAudioPath()
		if err != nil {
			return err
		}
	}

	// Validate the audio path before paying the model load cost.
	info, err := os.Stat(audioPath)
	if err != nil {
		log.Error().Str("file", audioPath).Msg("audio file does not exist")
		return fmt.Errorf("audio file %q does not exist", audioPath)
	}
	if !info.Mode().IsRegular() {
		log.Error().Str("file", audioPath).Msg("audio path is not a regular file")
		return fmt.Errorf("audio path %q is not a regular file", audioPath)
	}

	eng, err := loadEngine(cfg, log)
	if err != nil {
		return err
	}
	defer eng.Close()

	res, err := runner.Run(eng, audioPath, cfg.Timeout(), log)
	if err != nil {
		return err
	}

	return writer.Save(res, cfg.Output.Path, cfg.Output.Timestamps, log)
}

// loadEngine resolves model weights if needed and constructs the
// configured transcription backend, logging the load duration.
func loadEngine(cfg *config.Config, log zerolog.Logger) (engine.Engine, error) {
	start := time.Now()

	var modelPath string
	if cfg.Engine.Backend == "whisper" || cfg.Engine.Backend == "" {
		m, err := models.Lookup(cfg.Engine.Model)
		if err != nil {
			log.Error().Str("model", cfg.Engine.Model).Err(err).Msg("failed to resolve model")
			return nil, err
		}
		modelPath, err = models.Ensure(context.Background(), m, cfg.Engine.ModelsDir, log)
		if err != nil {
			log.Error().Str("model", cfg.Engine.Model).Err(err).Msg("failed to fetch model weights")
			return nil, err
		}
	}

	eng, err := engine.New(&cfg.Engine, modelPath, log)
	if err != nil {
		log.Error().Str("model", cfg.Engine.Model).Err(err).Msg("failed to load model")
		return nil, err
	}

	log.Info().
		Str("backend", eng.Name()).
		Str("model", cfg.Engine.Model).
		Dur("elapsed", time.Since(start).Round(time.Millisecond)).
		Msg("model loaded")

	return eng, nil
}

// promptAudioPath reads the audio file path from stdin.
func promptAudioPath() (string, error) {
	fmt.Print("Enter the path to your audio file: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading audio path: %w", err)
	}
	path := strings.TrimSpace(line)
	if path == "" {
		return "", fmt.Errorf("no audio path provided")
	}
	return path, nil
}

// loadConfig loads the config from the specified path, or falls back to
// the default config path, or uses built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	defaultPath := config.DefaultConfigPath()
	if _, err := os.Stat(defaultPath); err == nil {
		cfg, err := config.Load(defaultPath)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", defaultPath, err)
		}
		return cfg, nil
	}

	return config.Default(), nil
}
