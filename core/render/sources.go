// Package render converts a SummaryResult into its output formats.
// HTML is canonical: Markdown is derived from it, and every format labels
// sources with the same domain text.
package render

import (
	"github.com/gaurav-prasanna/langsearch/core"
	"github.com/gaurav-prasanna/langsearch/core/links"
)

// SourceLink is a source URL paired with its display label.
type SourceLink struct {
	URL    string `json:"url"`
	Domain string `json:"domain"`
}

// SourceLinks labels each source in rank order.
func SourceLinks(result *core.SummaryResult) []SourceLink {
	out := make([]SourceLink, 0, len(result.Sources))
	for _, u := range result.Sources {
		out = append(out, SourceLink{URL: u, Domain: links.DomainLabel(u)})
	}
	return out
}
