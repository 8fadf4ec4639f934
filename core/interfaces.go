// Package core defines the pipeline types and stage interfaces for LangSearch.
// Each stage of the search → fetch → extract → summarize pipeline is a small,
// testable interface; the concrete implementations live in sub-packages.
package core

import "context"

// SearchResult is one ranked text hit returned by a search provider.
type SearchResult struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ImageResult is one ranked image hit returned by a search provider.
type ImageResult struct {
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
}

// FetchResult holds the raw HTML for a URL, or the reason it is empty.
// A failed fetch is not an error for the caller: HTML is "" and Err records
// the cause (always wrapping ErrSourceFetch).
type FetchResult struct {
	URL        string
	StatusCode int
	HTML       string
	Err        error
}

// OK reports whether the fetch produced content.
func (r FetchResult) OK() bool {
	return r.Err == nil
}

// ExtractedContent is the bounded text pulled from one source.
// Text is never nil-like: it is "" when the source could not be used.
type ExtractedContent struct {
	SourceURL string
	Text      string
	Err       error
}

// SummaryResult is the pipeline's sole output value.
type SummaryResult struct {
	Query   string        `json:"query"`
	Summary string        `json:"summary"`
	Sources []string      `json:"sources"`
	Images  []ImageResult `json:"images,omitempty"`
}

// Fetcher retrieves raw HTML from a URL. It never fails the caller.
type Fetcher interface {
	Fetch(ctx context.Context, url string) FetchResult
}

// Extractor pulls bounded paragraph text out of raw HTML.
type Extractor interface {
	Extract(html string, maxChars int) string
}

// TextSearcher returns up to n ranked text results for a query.
type TextSearcher interface {
	SearchText(ctx context.Context, query string, n int) ([]SearchResult, error)
}

// ImageSearcher returns up to n ranked image results for a query.
type ImageSearcher interface {
	SearchImages(ctx context.Context, query string, n int) ([]ImageResult, error)
}

// SearchProvider is a search backend offering both text and image search.
type SearchProvider interface {
	TextSearcher
	ImageSearcher
	// Name returns the backend identifier (e.g. "duckduckgo").
	Name() string
}

// Summarizer turns the aggregate text into a model-generated summary.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Runner executes one query end to end. *pipeline.Pipeline satisfies it.
type Runner interface {
	Run(ctx context.Context, query string) (*SummaryResult, error)
}

// Renderer converts a SummaryResult into a final output format.
type Renderer interface {
	Render(result *SummaryResult) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".md", ".pdf").
	Extension() string
}
