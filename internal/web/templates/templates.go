// Package templates holds the HTML pages served by the web UI.
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"
)

//go:embed *.html
var files embed.FS

// Funcs are available to every page.
var Funcs = template.FuncMap{
	"join": strings.Join,
	"date": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("2006-01-02")
	},
	"datep": func(t *time.Time) string {
		if t == nil || t.IsZero() {
			return "never"
		}
		return t.Format("2006-01-02")
	},
	"pct": func(f float64) string { return fmt.Sprintf("%.1f%%", f) },
	"score": func(f float64) string { return fmt.Sprintf("%.0f", f) },
	"fraction": func(f float64) string { return fmt.Sprintf("%.0f%%", f*100) },
	"hours": func(f float64) string { return fmt.Sprintf("%.1f", f) },
}

// Parse parses the embedded pages. Each page is named after its file.
func Parse() (*template.Template, error) {
	t, err := template.New("pages").Funcs(Funcs).ParseFS(files, "*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}
