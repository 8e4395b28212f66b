// Package web embeds the HTML views served by the dashboard.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templates embed.FS

// Templates parses the embedded views for the gin HTML renderer.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templates, "templates/*.html"))
}
