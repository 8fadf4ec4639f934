// Package output writes rendered results to disk.
// Filenames are derived from the query (e.g. capital_of_france.md).
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const maxSlugLen = 80

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// Write stores data as <OutputDir>/<slug(query)><ext> and returns the path.
// A repeated query overwrites the earlier file.
func (w *Writer) Write(query string, data []byte, ext string) (string, error) {
	path := filepath.Join(w.OutputDir, Slug(query)+ext)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// Slug converts a query into a flat lowercase filename.
// Example: "Capital of France?" → capital_of_france
func Slug(query string) string {
	s := sanitize(strings.ToLower(strings.TrimSpace(query)))
	// Collapse runs of underscores and trim them from the ends.
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	s = strings.Trim(s, "_")
	if len(s) > maxSlugLen {
		s = strings.TrimRight(s[:maxSlugLen], "_")
	}
	if s == "" {
		return "result"
	}
	return s
}

// sanitize replaces non-alphanumeric characters with underscores.
func sanitize(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			b.WriteRune(ch)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
