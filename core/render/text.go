// Plain-text renderer for terminal output.

package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gaurav-prasanna/langsearch/core"
)

// TextRenderer produces the plain terminal output of the search command.
type TextRenderer struct{}

// NewTextRenderer creates a TextRenderer.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

// Render writes the summary followed by the labelled sources and images.
func (r *TextRenderer) Render(result *core.SummaryResult) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("Summary\n\n")
	buf.WriteString(strings.TrimSpace(result.Summary))
	buf.WriteString("\n\nSources\n")
	for _, src := range SourceLinks(result) {
		fmt.Fprintf(&buf, "  - %s  %s\n", src.Domain, src.URL)
	}

	if len(result.Images) > 0 {
		buf.WriteString("\nRelated Images\n")
		for _, img := range result.Images {
			fmt.Fprintf(&buf, "  - %s  %s\n", img.Title, img.ImageURL)
		}
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for text output.
func (r *TextRenderer) Extension() string {
	return ".txt"
}
