package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/langsearch/core"
)

const searxngSearchPath = "/search"

// searxngResponse models the relevant portion of the SearXNG JSON response.
// Image results carry img_src; text results only url.
type searxngResponse struct {
	Results []struct {
		Title  string `json:"title"`
		URL    string `json:"url"`
		ImgSrc string `json:"img_src"`
		Engine string `json:"engine"`
	} `json:"results"`
}

// SearXNG searches the web via a SearXNG instance.
type SearXNG struct {
	client      *resty.Client
	instanceURL string
	logger      zerolog.Logger
}

// NewSearXNG creates a search backend backed by the SearXNG instance at instanceURL.
func NewSearXNG(instanceURL string, timeout time.Duration, logger zerolog.Logger) *SearXNG {
	instanceURL = strings.TrimRight(instanceURL, "/")
	client := resty.New().
		SetBaseURL(instanceURL).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout).
		SetRetryCount(0)

	return &SearXNG{
		client:      client,
		instanceURL: instanceURL,
		logger:      logger,
	}
}

func (s *SearXNG) Name() string { return ProviderSearXNG }

// SearchText returns up to n general-category results.
func (s *SearXNG) SearchText(ctx context.Context, query string, n int) ([]core.SearchResult, error) {
	if n <= 0 {
		return nil, nil
	}

	body, err := s.search(ctx, query, "")
	if err != nil {
		return nil, providerError(ProviderSearXNG, "text search", err)
	}

	results := make([]core.SearchResult, 0, n)
	for _, r := range body.Results {
		if len(results) >= n {
			break
		}
		if strings.TrimSpace(r.URL) == "" {
			continue
		}
		results = append(results, core.SearchResult{Title: strings.TrimSpace(r.Title), URL: r.URL})
	}

	s.logger.Debug().Str("provider", ProviderSearXNG).Str("query", query).Int("results", len(results)).Msg("text search completed")
	return results, nil
}

// SearchImages returns up to n image-category results.
func (s *SearXNG) SearchImages(ctx context.Context, query string, n int) ([]core.ImageResult, error) {
	if n <= 0 {
		return nil, nil
	}

	body, err := s.search(ctx, query, "images")
	if err != nil {
		return nil, providerError(ProviderSearXNG, "image search", err)
	}

	images := make([]core.ImageResult, 0, n)
	for _, r := range body.Results {
		if len(images) >= n {
			break
		}
		if strings.TrimSpace(r.ImgSrc) == "" {
			continue
		}
		images = append(images, core.ImageResult{Title: strings.TrimSpace(r.Title), ImageURL: r.ImgSrc})
	}

	s.logger.Debug().Str("provider", ProviderSearXNG).Str("query", query).Int("results", len(images)).Msg("image search completed")
	return images, nil
}

func (s *SearXNG) search(ctx context.Context, query, category string) (*searxngResponse, error) {
	req := s.client.R().
		SetContext(ctx).
		SetQueryParam("q", query).
		SetQueryParam("format", "json").
		SetQueryParam("pageno", "1")
	if category != "" {
		req.SetQueryParam("categories", category)
	}

	var body searxngResponse
	resp, err := req.SetResult(&body).Get(searxngSearchPath)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode())
	}
	return &body, nil
}
