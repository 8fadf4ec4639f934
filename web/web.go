// Package web embeds the HTML templates served by the serve command.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses every embedded page template. Each template is named
// after its file (e.g. "index.html").
func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}
