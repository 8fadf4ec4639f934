// Markdown renderer. Converts the HTML fragment with html-to-markdown so
// both formats carry the same structure.

package render

import (
	"fmt"

	"github.com/gaurav-prasanna/langsearch/core"
	"github.com/gaurav-prasanna/langsearch/core/normalize"
)

// MarkdownRenderer converts the HTML rendering to Markdown, so both formats
// always carry the same content.
type MarkdownRenderer struct {
	html       *HTMLRenderer
	normalizer *normalize.MarkdownNormalizer
}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{
		html:       NewHTMLRenderer(),
		normalizer: normalize.New(),
	}
}

// Render returns the result as Markdown headed by the query.
func (r *MarkdownRenderer) Render(result *core.SummaryResult) ([]byte, error) {
	fragment, err := r.html.Fragment(result)
	if err != nil {
		return nil, err
	}
	body, err := r.normalizer.Normalize(string(fragment))
	if err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}
	return []byte("# " + result.Query + "\n\n" + body + "\n"), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}
