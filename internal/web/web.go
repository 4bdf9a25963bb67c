// Package web holds the embedded page templates and static assets.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	PageIndex = "index.html"
	PageQuiz  = "quiz.html"
	PageScore = "score.html"
)

// ScoreData feeds score.html.
type ScoreData struct {
	Score int
	Total int
}

type Pages struct {
	sets map[string]*template.Template
}

// LoadPages parses each page together with the shared layout.
func LoadPages() (*Pages, error) {
	p := &Pages{sets: map[string]*template.Template{}}
	for _, name := range []string{PageIndex, PageQuiz, PageScore} {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		p.sets[name] = t
	}
	return p, nil
}

// Render executes page into a buffer first so a template error never
// leaves a half-written 200 response.
func (p *Pages) Render(w http.ResponseWriter, page string, data any) error {
	t, ok := p.sets[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}

// Static serves the embedded static/ directory; mount it under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
