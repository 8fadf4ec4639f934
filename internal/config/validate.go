package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// ValidationError accumulates config validation errors.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return "config validation failed:\n  - " + strings.Join(v.Errors, "\n  - ")
}

// HasErrors reports whether any validation errors have been recorded.
func (v *ValidationError) HasErrors() bool {
	return len(v.Errors) > 0
}

// Add records a formatted validation error.
func (v *ValidationError) Add(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// Validate checks cfg and returns a *ValidationError listing every problem.
func Validate(cfg *Config) error {
	ve := &ValidationError{}

	switch strings.ToLower(cfg.Search.Provider) {
	case "duckduckgo", "":
	case "searxng":
		if strings.TrimSpace(cfg.Search.SearXNGURL) == "" {
			ve.Add("search.searxng_url is required when search.provider is searxng")
		}
	default:
		ve.Add("search.provider %q is not supported (duckduckgo, searxng)", cfg.Search.Provider)
	}
	if cfg.Search.Timeout <= 0 {
		ve.Add("search.timeout must be > 0")
	}

	if cfg.Fetch.Timeout <= 0 {
		ve.Add("fetch.timeout must be > 0")
	}
	if cfg.Fetch.MaxBodyBytes <= 0 {
		ve.Add("fetch.max_body_bytes must be > 0")
	}

	if cfg.Pipeline.TopN < 1 {
		ve.Add("pipeline.top_n must be >= 1")
	}
	if cfg.Pipeline.MaxChars < 0 {
		ve.Add("pipeline.max_chars must be >= 0")
	}
	if cfg.Pipeline.Concurrency < 1 {
		ve.Add("pipeline.concurrency must be >= 1")
	}

	if strings.TrimSpace(cfg.Summarizer.Model) == "" {
		ve.Add("summarizer.model is required")
	}
	if cfg.Summarizer.Timeout <= 0 {
		ve.Add("summarizer.timeout must be > 0")
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(cfg.Log.Level)); err != nil {
		ve.Add("log.level %q is not a valid level", cfg.Log.Level)
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "console", "json":
	default:
		ve.Add("log.format %q is not supported (console, json)", cfg.Log.Format)
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}
