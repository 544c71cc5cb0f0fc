package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/yuin/goldmark"
)

//go:embed templates/page.html
var templateFS embed.FS

// DefaultTitle is the page heading when none is configured.
const DefaultTitle = "បញ្ជីឈ្មោះប្រធានក្រុម"

// Page renders the roster document.
type Page struct {
	tmpl  *template.Template
	title string
	intro template.HTML
}

// NewPage parses the page template. intro is Markdown; raw HTML inside it is
// dropped by goldmark's default renderer.
func NewPage(title, intro string) (*Page, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	if title == "" {
		title = DefaultTitle
	}
	p := &Page{tmpl: tmpl, title: title}

	if intro != "" {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(intro), &buf); err != nil {
			return nil, fmt.Errorf("render intro: %w", err)
		}
		p.intro = template.HTML(buf.String())
	}
	return p, nil
}

// Write renders v as a full HTML document.
func (p *Page) Write(w io.Writer, v View) error {
	data := struct {
		Title string
		Intro template.HTML
		View  View
	}{p.title, p.intro, v}

	if err := p.tmpl.ExecuteTemplate(w, "page.html", data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}
