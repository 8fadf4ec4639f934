package cmd

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/langsearch/core/extract"
	"github.com/gaurav-prasanna/langsearch/core/fetch"
	"github.com/gaurav-prasanna/langsearch/core/pipeline"
	"github.com/gaurav-prasanna/langsearch/core/search"
	"github.com/gaurav-prasanna/langsearch/core/summarize"
	"github.com/gaurav-prasanna/langsearch/internal/config"
	"github.com/gaurav-prasanna/langsearch/internal/metrics"
)

// buildPipeline wires the concrete stages from cfg. m may be nil.
func buildPipeline(cfg *config.Config, log zerolog.Logger, m *metrics.Collector) (*pipeline.Pipeline, error) {
	provider, err := search.New(search.Config{
		Provider:   cfg.Search.Provider,
		SearXNGURL: cfg.Search.SearXNGURL,
		Timeout:    cfg.Search.Timeout,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("initializing search provider: %w", err)
	}

	fetcher := fetch.New(cfg.Fetch.Timeout, cfg.Fetch.UserAgent, cfg.Fetch.MaxBodyBytes)
	summarizer := summarize.New(summarize.Config{
		BaseURL: cfg.Summarizer.BaseURL,
		APIKey:  cfg.Summarizer.APIKey,
		Model:   cfg.Summarizer.Model,
		Timeout: cfg.Summarizer.Timeout,
	}, log)

	if cfg.Summarizer.APIKey == "" {
		log.Warn().Msg("GROQ_API_KEY is not set; summarization requests will be rejected")
	}

	return pipeline.New(provider, fetcher, extract.New(), summarizer,
		pipeline.WithTopN(cfg.Pipeline.TopN),
		pipeline.WithMaxChars(cfg.Pipeline.MaxChars),
		pipeline.WithImages(cfg.Pipeline.Images),
		pipeline.WithConcurrency(cfg.Pipeline.Concurrency),
		pipeline.WithLogger(log),
		pipeline.WithMetrics(m),
	), nil
}
