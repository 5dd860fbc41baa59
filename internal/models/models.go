// Package models maintains the catalog of whisper.cpp model weights and
// fetches missing weights from HuggingFace on demand.
package models

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const baseURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/"

// Model describes one downloadable whisper.cpp model.
type Model struct {
	Name      string // size identifier: "medium", "tiny.en", ...
	File      string // weights filename: "ggml-medium.bin"
	Label     string // display name: "Medium Multilingual"
	SizeBytes int64  // approximate, for progress reporting
}

// URL returns the HuggingFace download URL for the model weights.
func (m Model) URL() string {
	return baseURL + m.File
}

// Catalog lists the models recognized by the whisper backend.
// Sizes from https://huggingface.co/ggerganov/whisper.cpp.
var Catalog = []Model{
	{Name: "tiny.en", File: "ggml-tiny.en.bin", Label: "Tiny English", SizeBytes: 39_000_000},
	{Name: "tiny", File: "ggml-tiny.bin", Label: "Tiny Multilingual", SizeBytes: 39_000_000},
	{Name: "base.en", File: "ggml-base.en.bin", Label: "Base English", SizeBytes: 142_000_000},
	{Name: "base", File: "ggml-base.bin", Label: "Base Multilingual", SizeBytes: 142_000_000},
	{Name: "small.en", File: "ggml-small.en.bin", Label: "Small English", SizeBytes: 466_000_000},
	{Name: "small", File: "ggml-small.bin", Label: "Small Multilingual", SizeBytes: 466_000_000},
	{Name: "medium.en", File: "ggml-medium.en.bin", Label: "Medium English", SizeBytes: 1_500_000_000},
	{Name: "medium", File: "ggml-medium.bin", Label: "Medium Multilingual", SizeBytes: 1_500_000_000},
	{Name: "large-v3", File: "ggml-large-v3.bin", Label: "Large V3 Multilingual", SizeBytes: 3_000_000_000},
}

// Lookup resolves a model identifier to a catalog entry. Both size names
// ("medium") and weight filenames ("ggml-medium.bin") are accepted.
func Lookup(name string) (Model, error) {
	name = strings.TrimSpace(name)
	for _, m := range Catalog {
		if m.Name == name || m.File == name {
			return m, nil
		}
	}
	return Model{}, fmt.Errorf("models: unknown model %q (available: %s)", name, strings.Join(Names(), ", "))
}

// Names returns the size identifiers of all catalog entries.
func Names() []string {
	names := make([]string, len(Catalog))
	for i, m := range Catalog {
		names[i] = m.Name
	}
	return names
}

// Path returns the local weights path for a model in the given directory.
func (m Model) Path(dir string) string {
	return filepath.Join(dir, m.File)
}

// IsDownloaded reports whether non-empty model weights exist in dir.
func (m Model) IsDownloaded(dir string) bool {
	info, err := os.Stat(m.Path(dir))
	return err == nil && !info.IsDir() && info.Size() > 0
}
