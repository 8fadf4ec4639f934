// HTML renderer: the canonical format. Renders the summary paragraphs,
// the ranked source links and the optional image grid with html/template.

package render

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/langsearch/core"
)

const resultTemplate = `{{define "result"}}<section class="result">
<h2>Summary</h2>
<div class="summary">
{{- range .Paragraphs}}
<p>{{.}}</p>
{{- end}}
</div>
<h2>Sources</h2>
<ul class="sources">
{{- range .Sources}}
<li><a href="{{.URL}}" target="_blank" rel="noopener">{{.Domain}}</a></li>
{{- end}}
</ul>
{{- if .Images}}
<h2>Related Images</h2>
<div class="images">
{{- range .Images}}
<figure><img src="{{.ImageURL}}" alt="{{.Title}}" loading="lazy"><figcaption>{{.Title}}</figcaption></figure>
{{- end}}
</div>
{{- end}}
</section>{{end}}`

const documentTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Query}} - LangSearch</title>
<style>
body{font-family:sans-serif;max-width:52rem;margin:2rem auto;padding:0 1rem;line-height:1.5}
.images{display:grid;grid-template-columns:repeat(3,1fr);gap:.75rem}
.images img{width:100%;height:auto}
figure{margin:0}
</style>
</head>
<body>
<h1>{{.Query}}</h1>
{{template "result" .}}
</body>
</html>
`

var blankLine = regexp.MustCompile(`\n\s*\n`)

type htmlView struct {
	Query      string
	Paragraphs []string
	Sources    []SourceLink
	Images     []core.ImageResult
}

// HTMLRenderer renders the summary, the labelled source links and the
// optional image grid with html/template.
type HTMLRenderer struct {
	tmpl *template.Template
}

// NewHTMLRenderer creates an HTMLRenderer.
func NewHTMLRenderer() *HTMLRenderer {
	tmpl := template.Must(template.New("render").Parse(resultTemplate))
	template.Must(tmpl.New("document").Parse(documentTemplate))
	return &HTMLRenderer{tmpl: tmpl}
}

// Render produces a standalone HTML document.
func (r *HTMLRenderer) Render(result *core.SummaryResult) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "document", view(result)); err != nil {
		return nil, fmt.Errorf("rendering HTML: %w", err)
	}
	return buf.Bytes(), nil
}

// Fragment renders only the result section, for embedding in a page.
func (r *HTMLRenderer) Fragment(result *core.SummaryResult) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "result", view(result)); err != nil {
		return "", fmt.Errorf("rendering HTML fragment: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// Extension returns the file extension for HTML output.
func (r *HTMLRenderer) Extension() string {
	return ".html"
}

func view(result *core.SummaryResult) htmlView {
	return htmlView{
		Query:      result.Query,
		Paragraphs: paragraphs(result.Summary),
		Sources:    SourceLinks(result),
		Images:     result.Images,
	}
}

// paragraphs splits model output on blank lines.
func paragraphs(text string) []string {
	var out []string
	for _, block := range blankLine.Split(strings.TrimSpace(text), -1) {
		if block = strings.TrimSpace(block); block != "" {
			out = append(out, block)
		}
	}
	return out
}
