package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Engine         EngineConfig `yaml:"engine"`
	TimeoutSeconds int          `yaml:"timeout_seconds"`
	Output         OutputConfig `yaml:"output"`
	LogLevel       string       `yaml:"log_level"`
}

// EngineConfig selects and configures the transcription backend.
type EngineConfig struct {
	Backend   string       `yaml:"backend"` // "whisper" or "openai"
	Model     string       `yaml:"model"`   // whisper size identifier, e.g. "medium"
	ModelsDir string       `yaml:"models_dir"`
	Language  string       `yaml:"language"` // e.g. "en", "auto", "" (engine default)
	Threads   uint         `yaml:"threads"`  // 0 = engine default
	OpenAI    OpenAIConfig `yaml:"openai"`
}

// OpenAIConfig holds settings for the remote OpenAI backend.
type OpenAIConfig struct {
	APIKey string `yaml:"api_key"` // falls back to OPENAI_API_KEY
	Model  string `yaml:"model"`   // e.g. "whisper-1"
}

// OutputConfig holds transcript output settings.
type OutputConfig struct {
	Path       string `yaml:"path"`
	Timestamps bool   `yaml:"timestamps"` // prefix each segment with [HH:MM:SS]
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "goscribe")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// DefaultModelsDir returns the default directory for downloaded model weights.
func DefaultModelsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "models"
	}
	return filepath.Join(home, ".local", "share", "goscribe", "models")
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			Backend:   "whisper",
			Model:     "medium",
			ModelsDir: DefaultModelsDir(),
			OpenAI: OpenAIConfig{
				Model: "whisper-1",
			},
		},
		TimeoutSeconds: 300,
		Output: OutputConfig{
			Path: "outputfile.txt",
		},
		LogLevel: "info",
	}
}

// Load reads and parses a YAML config file. Missing fields are filled
// with defaults. Tilde (~) in paths is expanded to the user's home directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.Engine.ModelsDir = expandTilde(cfg.Engine.ModelsDir)
	cfg.Output.Path = expandTilde(cfg.Output.Path)

	return cfg, nil
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	switch c.Engine.Backend {
	case "whisper", "openai":
	default:
		return fmt.Errorf("engine.backend must be \"whisper\" or \"openai\", got %q", c.Engine.Backend)
	}

	if c.Engine.Backend == "whisper" {
		if c.Engine.Model == "" {
			return fmt.Errorf("engine.model must not be empty")
		}
		if c.Engine.ModelsDir == "" {
			return fmt.Errorf("engine.models_dir must not be empty")
		}
	}

	if c.Engine.Backend == "openai" && c.Engine.OpenAI.Model == "" {
		return fmt.Errorf("engine.openai.model must not be empty")
	}

	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be > 0")
	}

	if c.Output.Path == "" {
		return fmt.Errorf("output.path must not be empty")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}

	return nil
}

// Timeout returns the transcription deadline as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// WriteDefault writes a commented default config file to the default path.
// If the file already exists it is left untouched and ("", nil) is returned.
func WriteDefault() (string, error) {
	dir := DefaultConfigDir()
	if dir == "" {
		return "", fmt.Errorf("cannot determine config directory")
	}

	path := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return "", nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return "", fmt.Errorf("marshaling default config: %w", err)
	}

	content := append([]byte("# goscribe configuration\n"), data...)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}

	return path, nil
}

// expandTilde replaces a leading ~ with the user's home directory.
func expandTilde(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
