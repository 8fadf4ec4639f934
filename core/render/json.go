// JSON renderer: query, raw and plain-text summary, sources with their
// domains, and images (always an array).

package render

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/langsearch/core"
)

// jsonDocument is the JSON output shape. Images is always present so
// consumers can tell "no images found" from a missing field.
type jsonDocument struct {
	Query       string             `json:"query"`
	Summary     string             `json:"summary"`
	SummaryText string             `json:"summary_text"`
	Sources     []SourceLink       `json:"sources"`
	Images      []core.ImageResult `json:"images"`
}

// JSONRenderer produces indented JSON.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render marshals the result with labelled sources and a plain-text copy
// of the summary.
func (r *JSONRenderer) Render(result *core.SummaryResult) ([]byte, error) {
	images := result.Images
	if images == nil {
		images = []core.ImageResult{}
	}
	doc := jsonDocument{
		Query:       result.Query,
		Summary:     result.Summary,
		SummaryText: stripMarkdown(result.Summary),
		Sources:     SourceLinks(result),
		Images:      images,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

var (
	headingRegex  = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)
	linkRegex     = regexp.MustCompile(`\[([^\]]*)\]\(([^)]+)\)`)
	emphasisRegex = regexp.MustCompile(`\*{1,3}([^*]+)\*{1,3}`)
	codeRegex     = regexp.MustCompile("`([^`]+)`")
	blankRunRegex = regexp.MustCompile(`\n{3,}`)
)

// stripMarkdown removes the Markdown formatting models commonly emit.
func stripMarkdown(md string) string {
	text := headingRegex.ReplaceAllString(md, "$2")
	text = emphasisRegex.ReplaceAllString(text, "$1")
	text = linkRegex.ReplaceAllString(text, "$1")
	text = strings.ReplaceAll(text, "```", "")
	text = codeRegex.ReplaceAllString(text, "$1")
	text = blankRunRegex.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
