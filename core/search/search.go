// Package search implements the core.SearchProvider adapters.
// Provider responses are decoded into typed structs and validated here, so the
// pipeline only ever sees core.SearchResult and core.ImageResult values in the
// provider's own rank order.
package search

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/langsearch/core"
)

// Provider names accepted by New.
const (
	ProviderDuckDuckGo = "duckduckgo"
	ProviderSearXNG    = "searxng"
)

const defaultTimeout = 15 * time.Second

// Config selects and configures a search backend.
type Config struct {
	Provider   string
	SearXNGURL string
	Timeout    time.Duration
}

// New returns the provider named in cfg.
func New(cfg Config, logger zerolog.Logger) (core.SearchProvider, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderDuckDuckGo, "":
		return NewDuckDuckGo(timeout, logger), nil
	case ProviderSearXNG:
		if strings.TrimSpace(cfg.SearXNGURL) == "" {
			return nil, fmt.Errorf("searxng provider requires a base URL")
		}
		return NewSearXNG(cfg.SearXNGURL, timeout, logger), nil
	default:
		return nil, fmt.Errorf("unknown search provider %q", cfg.Provider)
	}
}

// providerError wraps a backend failure in the search error class.
func providerError(provider, op string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", core.ErrSearchProvider, provider, op, err)
}
