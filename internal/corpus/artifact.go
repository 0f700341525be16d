package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/podatlas/podatlas/internal/domain"
)

const (
	// IndexFilename is the primary artifact consumed by the browser UI.
	IndexFilename = "episodes.json"

	// ThemesFilename is the sidecar artifact listing distinct themes.
	ThemesFilename = "themes.json"
)

// WriteArtifacts writes the corpus index and the themes sidecar into dir.
// Each file is written atomically so a rebuild replaces the previous
// artifact wholesale and a failed build never publishes a partial one.
func WriteArtifacts(dir string, index *domain.CorpusIndex) error {
	if err := writeJSON(filepath.Join(dir, IndexFilename), index); err != nil {
		return err
	}

	themes := CollectThemes(index)
	return writeJSON(filepath.Join(dir, ThemesFilename), themes)
}

// writeJSON marshals v with indentation and writes it using the
// write-to-temp + rename pattern to prevent corruption.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write artifact temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename artifact file: %w", err)
	}

	return nil
}

// LoadIndex reads a previously built corpus index artifact from dir.
func LoadIndex(dir string) (*domain.CorpusIndex, error) {
	data, err := os.ReadFile(filepath.Join(dir, IndexFilename))
	if err != nil {
		return nil, fmt.Errorf("failed to read index artifact: %w", err)
	}

	var index domain.CorpusIndex
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("failed to parse index artifact: %w", err)
	}
	return &index, nil
}

// LoadThemes reads the themes sidecar artifact from dir.
func LoadThemes(dir string) (*domain.ThemeList, error) {
	data, err := os.ReadFile(filepath.Join(dir, ThemesFilename))
	if err != nil {
		return nil, fmt.Errorf("failed to read themes artifact: %w", err)
	}

	var themes domain.ThemeList
	if err := json.Unmarshal(data, &themes); err != nil {
		return nil, fmt.Errorf("failed to parse themes artifact: %w", err)
	}
	return &themes, nil
}
