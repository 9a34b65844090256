// Package viewer renders the HTML page that hosts an interactive diagram:
// the goldmark-rendered description, the inline SVG, and the pointer-event
// script that forwards clicks and hovers to the websocket endpoint.
package viewer

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	ghtml "github.com/yuin/goldmark/renderer/html"

	"github.com/genomeviz/exonview/internal/diagram"
)

// Renderer renders viewer pages.
type Renderer struct {
	md   goldmark.Markdown
	tmpl *template.Template
}

// New creates a page renderer.
func New() (*Renderer, error) {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			ghtml.WithUnsafe(),
		),
	)

	tmpl, err := template.New("page").Parse(pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}
	return &Renderer{md: md, tmpl: tmpl}, nil
}

// pageData feeds pageTemplate.
type pageData struct {
	Name        string
	Description template.HTML
	SVG         template.HTML
	DiagramID   string
}

// Page renders the viewer page for a diagram. svg is the finalized
// document snapshot; it is embedded inline so the page script can address
// its elements directly.
func (r *Renderer) Page(d *diagram.Diagram, svg string) ([]byte, error) {
	var desc bytes.Buffer
	if d.Description != "" {
		if err := r.md.Convert([]byte(d.Description), &desc); err != nil {
			return nil, fmt.Errorf("rendering description: %w", err)
		}
	}

	var out bytes.Buffer
	err := r.tmpl.Execute(&out, pageData{
		Name:        d.Name,
		Description: template.HTML(desc.String()),
		SVG:         template.HTML(svg),
		DiagramID:   d.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering page: %w", err)
	}
	return out.Bytes(), nil
}
