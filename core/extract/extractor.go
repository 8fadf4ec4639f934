// Package extract implements the Extractor interface.
// It collects the visible paragraph text of a page, in document order,
// under a character budget:
//  1. Every <p> element is visited in order.
//  2. A paragraph is appended (followed by one space) only while the running
//     total stays within the budget.
//  3. The walk stops at the first paragraph that would overflow; paragraphs
//     are never cut in half.
package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// DefaultMaxChars is the per-source budget used by the pipeline.
const DefaultMaxChars = 2000

var paragraphMatcher = cascadia.MustCompile("p")

// ParagraphExtractor extracts budgeted paragraph text from HTML. It is
// stateless; a single value may be shared by concurrent callers.
type ParagraphExtractor struct{}

// New creates a ParagraphExtractor.
func New() *ParagraphExtractor {
	return &ParagraphExtractor{}
}

// Extract returns at most maxChars characters (Unicode code points) of
// space-joined paragraph text. Empty or unparseable HTML yields "".
func (e *ParagraphExtractor) Extract(rawHTML string, maxChars int) string {
	if strings.TrimSpace(rawHTML) == "" {
		return ""
	}
	if maxChars < 0 {
		maxChars = 0
	}

	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}
	doc := goquery.NewDocumentFromNode(root)

	var b strings.Builder
	length := 0 // runes written to b, including separators
	doc.FindMatcher(paragraphMatcher).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		n := utf8.RuneCountInString(text)
		if length+n > maxChars {
			return false
		}
		b.WriteString(text)
		b.WriteByte(' ')
		length += n + 1
		return true
	})

	return strings.TrimSpace(b.String())
}
