package extract

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func page(paragraphs ...string) string {
	var b strings.Builder
	b.WriteString("<html><head><title>t</title><script>var x = 1;</script></head><body><nav>menu</nav>")
	for _, p := range paragraphs {
		fmt.Fprintf(&b, "<p>%s</p>", p)
	}
	b.WriteString("<footer>footer text</footer></body></html>")
	return b.String()
}

func TestExtractJoinsParagraphsInOrder(t *testing.T) {
	got := New().Extract(page("First.", "Second <b>bold</b> part.", "Third."), DefaultMaxChars)
	assert.Equal(t, "First. Second bold part. Third.", got)
}

func TestExtractIgnoresNonParagraphText(t *testing.T) {
	got := New().Extract(page("Only this."), DefaultMaxChars)
	assert.Equal(t, "Only this.", got)
	assert.NotContains(t, got, "menu")
	assert.NotContains(t, got, "footer")
}

func TestExtractEmptyOrUnparseable(t *testing.T) {
	e := New()
	for _, in := range []string{"", "   \n\t", "<<<>>>", "no markup at all", "<div>no paragraphs</div>"} {
		assert.Equal(t, "", e.Extract(in, DefaultMaxChars), "input %q", in)
	}
}

func TestExtractStopsAtFirstOverflow(t *testing.T) {
	// "aaaa " is 5 runes; "bbbbbb" would push the total to 11 > 10.
	// The short paragraph after it is not considered.
	got := New().Extract(page("aaaa", "bbbbbb", "c"), 10)
	assert.Equal(t, "aaaa", got)
}

func TestExtractExactFit(t *testing.T) {
	// 4 + 1 (separator) + 5 = 10 fits exactly.
	got := New().Extract(page("aaaa", "bbbbb"), 10)
	assert.Equal(t, "aaaa bbbbb", got)
	assert.LessOrEqual(t, utf8.RuneCountInString(got), 10)
}

func TestExtractSkipsOversizedSingleParagraph(t *testing.T) {
	long := strings.Repeat("x", 3000)
	assert.Equal(t, "", New().Extract(page(long), 2000))
}

func TestExtractZeroBudget(t *testing.T) {
	assert.Equal(t, "", New().Extract(page("a", "b"), 0))
	assert.Equal(t, "", New().Extract(page("a", "b"), -5))
}

func TestExtractCountsRunesNotBytes(t *testing.T) {
	// Each "é" is two bytes but one character.
	p := strings.Repeat("é", 8)
	got := New().Extract(page(p), 8)
	assert.Equal(t, p, got)
}

func TestExtractNeverExceedsBudget(t *testing.T) {
	paragraphs := []string{"alpha beta", "gamma", strings.Repeat("delta ", 20), "epsilon", "  padded  "}
	html := page(paragraphs...)
	e := New()
	for budget := 0; budget <= 200; budget++ {
		got := e.Extract(html, budget)
		assert.LessOrEqual(t, utf8.RuneCountInString(got), budget, "budget %d", budget)
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	html := page("one", "two", "three")
	e := New()
	assert.Equal(t, e.Extract(html, 12), e.Extract(html, 12))
	assert.Equal(t, New().Extract(html, 12), e.Extract(html, 12))
}
