// Package fetch implements the Fetcher interface.
// It performs a single HTTP GET per source and never fails its caller:
// every problem is reported inside the returned core.FetchResult.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html/charset"

	"github.com/gaurav-prasanna/langsearch/core"
	"github.com/gaurav-prasanna/langsearch/core/links"
)

const (
	DefaultTimeout      = 30 * time.Second
	DefaultUserAgent    = "LangSearch/1.0 (https://github.com/gaurav-prasanna/langsearch)"
	DefaultMaxBodyBytes = 5 << 20
)

// HTTPFetcher fetches web pages via HTTP.
type HTTPFetcher struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
}

// New creates an HTTPFetcher. Zero values fall back to the defaults above.
// Redirects follow the net/http default policy.
func New(timeout time.Duration, userAgent string, maxBodyBytes int64) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &HTTPFetcher{
		client:       &http.Client{Timeout: timeout},
		userAgent:    userAgent,
		maxBodyBytes: maxBodyBytes,
	}
}

// Fetch retrieves the HTML content of the given URL. On any failure the
// result has empty HTML and Err wrapping core.ErrSourceFetch.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) core.FetchResult {
	result := core.FetchResult{URL: rawURL}

	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		result.Err = fmt.Errorf("%w: invalid URL %q", core.ErrSourceFetch, rawURL)
		return result
	}
	if links.IsStaticAsset(rawURL) {
		result.Err = fmt.Errorf("%w: %s is not an HTML page", core.ErrSourceFetch, rawURL)
		return result
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		result.Err = fmt.Errorf("%w: creating request: %w", core.ErrSourceFetch, err)
		return result
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		result.Err = fmt.Errorf("%w: fetching %s: %w", core.ErrSourceFetch, rawURL, err)
		return result
	}
	defer resp.Body.Close()
	result.StatusCode = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		result.Err = fmt.Errorf("%w: unexpected status %d for %s", core.ErrSourceFetch, resp.StatusCode, rawURL)
		return result
	}

	ct := resp.Header.Get("Content-Type")
	if !isTextual(ct) {
		result.Err = fmt.Errorf("%w: unsupported content type %q for %s", core.ErrSourceFetch, ct, rawURL)
		return result
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes))
	if err != nil {
		result.Err = fmt.Errorf("%w: reading response body: %w", core.ErrSourceFetch, err)
		return result
	}

	html, err := decodeBody(body, ct)
	if err != nil {
		result.Err = fmt.Errorf("%w: decoding %s: %w", core.ErrSourceFetch, rawURL, err)
		return result
	}
	result.HTML = html
	return result
}

// decodeBody converts body to UTF-8. A charset from the Content-Type header
// or a byte order mark is authoritative. Otherwise bytes that are already
// valid UTF-8 are kept, and anything else is decoded using the <meta>
// declaration or windows-1252.
func decodeBody(body []byte, contentType string) (string, error) {
	enc, name, certain := charset.DetermineEncoding(body, contentType)
	if name == "utf-8" || (!certain && utf8.Valid(body)) {
		return string(body), nil
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", name, err)
	}
	return string(decoded), nil
}

// isTextual accepts an empty content type (servers often omit it) and any
// text or (x)html/xml type.
func isTextual(contentType string) bool {
	ct := strings.ToLower(contentType)
	return ct == "" ||
		strings.HasPrefix(ct, "text/") ||
		strings.Contains(ct, "html") ||
		strings.Contains(ct, "xml")
}
