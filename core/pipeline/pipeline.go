// Package pipeline orchestrates one query end to end: search, fetch and
// extract each source, summarize the aggregate text, collect images.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/gaurav-prasanna/langsearch/core"
	"github.com/gaurav-prasanna/langsearch/core/extract"
	"github.com/gaurav-prasanna/langsearch/internal/metrics"
)

const DefaultTopN = 3

// Pipeline holds immutable configuration and its collaborators. Each Run is
// independent; nothing is cached between queries.
type Pipeline struct {
	searcher   core.SearchProvider
	fetcher    core.Fetcher
	extractor  core.Extractor
	summarizer core.Summarizer

	topN        int
	maxChars    int
	images      bool
	concurrency int
	logger      zerolog.Logger
	metrics     *metrics.Collector
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTopN sets how many search results become sources.
func WithTopN(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.topN = n
		}
	}
}

// WithMaxChars sets the per-source character budget.
func WithMaxChars(n int) Option {
	return func(p *Pipeline) {
		if n < 0 {
			n = 0
		}
		p.maxChars = n
	}
}

// WithImages enables the image search alongside the text search.
func WithImages(enabled bool) Option {
	return func(p *Pipeline) { p.images = enabled }
}

// WithConcurrency sets how many sources are fetched at once. 1 is sequential.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

func WithMetrics(c *metrics.Collector) Option {
	return func(p *Pipeline) { p.metrics = c }
}

// New creates a Pipeline from its collaborators.
func New(searcher core.SearchProvider, fetcher core.Fetcher, extractor core.Extractor, summarizer core.Summarizer, opts ...Option) *Pipeline {
	p := &Pipeline{
		searcher:    searcher,
		fetcher:     fetcher,
		extractor:   extractor,
		summarizer:  summarizer,
		topN:        DefaultTopN,
		maxChars:    extract.DefaultMaxChars,
		concurrency: 1,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ImagesEnabled reports whether Run also performs an image search.
func (p *Pipeline) ImagesEnabled() bool {
	return p.images
}

// Run executes the full pipeline for query. Search and summarization
// failures are returned; per-source fetch failures are absorbed.
func (p *Pipeline) Run(ctx context.Context, query string) (*core.SummaryResult, error) {
	start := time.Now()
	if strings.TrimSpace(query) == "" {
		p.metrics.ObserveRun(metrics.StatusInvalidQuery)
		return nil, core.ErrEmptyQuery
	}
	log := p.logger.With().Str("query", query).Logger()

	stageStart := time.Now()
	results, err := p.searcher.SearchText(ctx, query, p.topN)
	p.metrics.ObserveStage(metrics.StageTextSearch, stageStart)
	if err != nil {
		p.metrics.ObserveRun(metrics.StatusSearchError)
		return nil, ensure(fmt.Errorf("searching %q: %w", query, err), core.ErrSearchProvider)
	}
	if len(results) > p.topN {
		results = results[:p.topN]
	}
	log.Debug().Str("provider", p.searcher.Name()).Int("results", len(results)).Msg("text search done")

	var images []core.ImageResult
	if p.images {
		stageStart = time.Now()
		images, err = p.searcher.SearchImages(ctx, query, p.topN)
		p.metrics.ObserveStage(metrics.StageImageSearch, stageStart)
		if err != nil {
			p.metrics.ObserveRun(metrics.StatusSearchError)
			return nil, ensure(fmt.Errorf("searching images for %q: %w", query, err), core.ErrSearchProvider)
		}
		if len(images) > p.topN {
			images = images[:p.topN]
		}
		if images == nil {
			images = []core.ImageResult{}
		}
	}

	contents := p.Gather(ctx, results)

	texts := make([]string, len(contents))
	sources := make([]string, len(contents))
	for i, c := range contents {
		texts[i] = c.Text
		sources[i] = c.SourceURL
	}

	stageStart = time.Now()
	summary, err := p.summarizer.Summarize(ctx, strings.Join(texts, " "))
	p.metrics.ObserveStage(metrics.StageSummarize, stageStart)
	if err != nil {
		p.metrics.ObserveRun(metrics.StatusSummaryError)
		return nil, ensure(fmt.Errorf("summarizing %q: %w", query, err), core.ErrSummarization)
	}

	p.metrics.ObserveRun(metrics.StatusOK)
	log.Info().
		Int("sources", len(sources)).
		Int("images", len(images)).
		Dur("duration", time.Since(start)).
		Msg("query summarized")

	return &core.SummaryResult{
		Query:   query,
		Summary: summary,
		Sources: sources,
		Images:  images,
	}, nil
}

// Gather fetches and extracts every result, returning exactly one
// ExtractedContent per result in rank order. Failed sources carry empty
// text and the absorbed error.
func (p *Pipeline) Gather(ctx context.Context, results []core.SearchResult) []core.ExtractedContent {
	contents := make([]core.ExtractedContent, len(results))

	if p.concurrency <= 1 || len(results) <= 1 {
		for i, r := range results {
			contents[i] = p.source(ctx, r.URL)
		}
		return contents
	}

	// Each goroutine owns one slot; source never returns an error, so the
	// group only bounds parallelism.
	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for i, r := range results {
		g.Go(func() error {
			contents[i] = p.source(ctx, r.URL)
			return nil
		})
	}
	_ = g.Wait()
	return contents
}

func (p *Pipeline) source(ctx context.Context, url string) core.ExtractedContent {
	start := time.Now()
	fetched := p.fetcher.Fetch(ctx, url)
	p.metrics.ObserveStage(metrics.StageFetch, start)

	if !fetched.OK() {
		p.metrics.SourceFetchFailed()
		p.logger.Debug().Err(fetched.Err).Str("url", url).Msg("source skipped")
		return core.ExtractedContent{SourceURL: url, Err: fetched.Err}
	}
	return core.ExtractedContent{
		SourceURL: url,
		Text:      p.extractor.Extract(fetched.HTML, p.maxChars),
	}
}

// ensure guarantees err matches sentinel under errors.Is.
func ensure(err, sentinel error) error {
	if errors.Is(err, sentinel) {
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}
