// Package links holds URL helpers shared by the search adapters, the fetcher,
// and the renderers.
package links

import (
	"net/url"
	"path"
	"strings"
)

// staticExtensions are file extensions that never hold an HTML page.
var staticExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".svg": true, ".webp": true, ".ico": true, ".bmp": true,
	".css": true, ".js": true, ".mjs": true,
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true,
	".mp4": true, ".webm": true, ".mp3": true, ".wav": true,
	".zip": true, ".tar": true, ".gz": true,
	".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
}

// IsStaticAsset checks if a URL points to a static asset (image, CSS, PDF, etc.).
func IsStaticAsset(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	ext := strings.ToLower(path.Ext(parsed.Path))
	return staticExtensions[ext]
}

// DomainLabel returns the short label shown for a source link: the host
// without the scheme and without a leading "www.".
// Example: https://www.example.com/docs → example.com
func DomainLabel(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		// Fallback: strip the scheme by hand and keep everything up to the path.
		s := rawURL
		if i := strings.Index(s, "://"); i >= 0 {
			s = s[i+3:]
		}
		if i := strings.IndexAny(s, "/?#"); i >= 0 {
			s = s[:i]
		}
		return strings.TrimPrefix(s, "www.")
	}
	return strings.TrimPrefix(parsed.Host, "www.")
}

// Unwrap resolves href against base and, when the result is a search
// engine redirect (…/l/?uddg=<target>), returns the decoded target.
// It returns "" for links that can never be a source (mailto:, javascript:, …).
func Unwrap(href string, base *url.URL) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "tel:") || strings.HasPrefix(href, "#") {
		return ""
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := parsed
	if base != nil {
		resolved = base.ResolveReference(parsed)
	}

	if target := resolved.Query().Get("uddg"); target != "" && strings.TrimSuffix(resolved.Path, "/") == "/l" {
		return target
	}

	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}
