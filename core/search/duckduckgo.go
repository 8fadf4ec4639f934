package search

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/langsearch/core"
	"github.com/gaurav-prasanna/langsearch/core/links"
)

const (
	duckDuckGoHTMLEndpoint = "https://html.duckduckgo.com/html/"
	duckDuckGoSiteEndpoint = "https://duckduckgo.com"
	duckDuckGoUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// vqdPattern finds the per-query token DuckDuckGo requires for image search.
var vqdPattern = regexp.MustCompile(`vqd=["']?([0-9-]+)`)

// DuckDuckGo searches the web via DuckDuckGo's HTML and image endpoints.
type DuckDuckGo struct {
	client  *resty.Client
	htmlURL string
	siteURL string
	logger  zerolog.Logger
}

// NewDuckDuckGo creates a DuckDuckGo provider. Retries are disabled.
func NewDuckDuckGo(timeout time.Duration, logger zerolog.Logger) *DuckDuckGo {
	client := resty.New().
		SetHeader("User-Agent", duckDuckGoUserAgent).
		SetHeader("Accept-Language", "en-US,en;q=0.9").
		SetTimeout(timeout).
		SetRetryCount(0)

	return &DuckDuckGo{
		client:  client,
		htmlURL: duckDuckGoHTMLEndpoint,
		siteURL: duckDuckGoSiteEndpoint,
		logger:  logger,
	}
}

func (d *DuckDuckGo) Name() string { return ProviderDuckDuckGo }

// SearchText scrapes the HTML results page and returns up to n organic hits.
func (d *DuckDuckGo) SearchText(ctx context.Context, query string, n int) ([]core.SearchResult, error) {
	if n <= 0 {
		return nil, nil
	}

	resp, err := d.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{"q": query, "b": ""}).
		Post(d.htmlURL)
	if err != nil {
		return nil, providerError(ProviderDuckDuckGo, "text search", err)
	}
	if resp.IsError() {
		return nil, providerError(ProviderDuckDuckGo, "text search", fmt.Errorf("unexpected status %d", resp.StatusCode()))
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, providerError(ProviderDuckDuckGo, "text search", fmt.Errorf("parsing results page: %w", err))
	}

	base, _ := url.Parse(d.htmlURL)
	results := make([]core.SearchResult, 0, n)
	doc.Find(".result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		// Sponsored entries carry the result--ad class and point at ad redirects.
		if s.HasClass("result--ad") {
			return true
		}
		anchor := s.Find("a.result__a").First()
		href, ok := anchor.Attr("href")
		if !ok {
			return true
		}
		target := links.Unwrap(href, base)
		if target == "" || isDuckDuckGoHost(target) {
			return true
		}
		results = append(results, core.SearchResult{
			Title: strings.TrimSpace(anchor.Text()),
			URL:   target,
		})
		return len(results) < n
	})

	d.logger.Debug().Str("provider", ProviderDuckDuckGo).Str("query", query).Int("results", len(results)).Msg("text search completed")
	return results, nil
}

// ddgImagesResponse models the relevant portion of the i.js JSON response.
type ddgImagesResponse struct {
	Results []struct {
		Title     string `json:"title"`
		Image     string `json:"image"`
		Thumbnail string `json:"thumbnail"`
		URL       string `json:"url"`
	} `json:"results"`
}

// SearchImages obtains a vqd token for the query and then calls the image
// endpoint, returning up to n hits.
func (d *DuckDuckGo) SearchImages(ctx context.Context, query string, n int) ([]core.ImageResult, error) {
	if n <= 0 {
		return nil, nil
	}

	vqd, err := d.token(ctx, query)
	if err != nil {
		return nil, providerError(ProviderDuckDuckGo, "image search", err)
	}

	var body ddgImagesResponse
	resp, err := d.client.R().
		SetContext(ctx).
		SetHeader("Referer", d.siteURL+"/").
		SetHeader("Accept", "application/json").
		SetQueryParams(map[string]string{
			"l":   "us-en",
			"o":   "json",
			"q":   query,
			"vqd": vqd,
			"f":   ",,,,,",
			"p":   "1",
		}).
		SetResult(&body).
		ForceContentType("application/json").
		Get(d.siteURL + "/i.js")
	if err != nil {
		return nil, providerError(ProviderDuckDuckGo, "image search", err)
	}
	if resp.IsError() {
		return nil, providerError(ProviderDuckDuckGo, "image search", fmt.Errorf("unexpected status %d", resp.StatusCode()))
	}

	images := make([]core.ImageResult, 0, n)
	for _, r := range body.Results {
		if len(images) >= n {
			break
		}
		if r.Image == "" {
			continue
		}
		images = append(images, core.ImageResult{Title: strings.TrimSpace(r.Title), ImageURL: r.Image})
	}

	d.logger.Debug().Str("provider", ProviderDuckDuckGo).Str("query", query).Int("results", len(images)).Msg("image search completed")
	return images, nil
}

// token fetches the landing page for query and pulls out its vqd value.
func (d *DuckDuckGo) token(ctx context.Context, query string) (string, error) {
	resp, err := d.client.R().
		SetContext(ctx).
		SetQueryParam("q", query).
		Get(d.siteURL + "/")
	if err != nil {
		return "", fmt.Errorf("requesting token: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("requesting token: unexpected status %d", resp.StatusCode())
	}

	m := vqdPattern.FindSubmatch(resp.Body())
	if m == nil {
		return "", fmt.Errorf("no vqd token in response")
	}
	return string(m[1]), nil
}

func isDuckDuckGoHost(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	return host == "duckduckgo.com" || strings.HasSuffix(host, ".duckduckgo.com")
}
