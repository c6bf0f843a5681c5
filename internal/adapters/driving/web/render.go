// Package web renders CMS documents as public HTML pages and serves them.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
)

//go:embed templates/*.tmpl
var builtin embed.FS

// DefaultTemplates returns the built-in template text keyed by name.
func DefaultTemplates() map[string]string {
	out := make(map[string]string, 2)
	for _, name := range []string{driven.TemplatePage, driven.TemplateStyle} {
		data, err := builtin.ReadFile("templates/" + name + ".tmpl")
		if err != nil {
			panic(fmt.Sprintf("missing built-in template %q", name))
		}
		out[name] = string(data)
	}
	return out
}

// builtinTemplates serves DefaultTemplates when no store is configured.
type builtinTemplates map[string]string

func (b builtinTemplates) Load(name string) (string, error) {
	text, ok := b[name]
	if !ok {
		return "", fmt.Errorf("%w: template %q", domain.ErrNotFound, name)
	}
	return text, nil
}

func (builtinTemplates) Reload()     {}
func (builtinTemplates) Dir() string { return "" }

// Renderer turns documents into HTML. Stored rich text is sanitised
// with a user-generated-content policy before it reaches the page.
type Renderer struct {
	templates driven.TemplateStore
	policy    *bluemonday.Policy

	mu     sync.Mutex
	parsed *template.Template
	source string
}

// NewRenderer creates a renderer. A nil store uses the built-in templates.
func NewRenderer(templates driven.TemplateStore) *Renderer {
	if templates == nil {
		templates = builtinTemplates(DefaultTemplates())
	}
	return &Renderer{
		templates: templates,
		policy:    bluemonday.UGCPolicy(),
	}
}

// Reload makes the next render pick up edited templates.
func (r *Renderer) Reload() {
	r.templates.Reload()
}

// pageView is the data handed to the page template.
type pageView struct {
	Title    string
	Style    template.CSS
	Sections []sectionView
}

type sectionView struct {
	Key    string
	Blocks []blockView
}

type blockView struct {
	Type          string
	ID            string
	Title         template.HTML
	Label         string
	HTML          template.HTML
	ImageURL      string
	ImagePosition string
	ImageURLs     []string
}

// Render writes doc as a complete HTML page.
func (r *Renderer) Render(w io.Writer, title string, doc domain.Document) error {
	tmpl, err := r.page()
	if err != nil {
		return err
	}
	style, err := r.templates.Load(driven.TemplateStyle)
	if err != nil {
		return fmt.Errorf("loading style: %w", err)
	}

	view := pageView{
		Title:    title,
		Style:    template.CSS(style),
		Sections: r.sections(doc),
	}
	if err := tmpl.Execute(w, view); err != nil {
		return fmt.Errorf("rendering %s: %w", title, err)
	}
	return nil
}

// page returns the parsed page template, reparsing only when its text changed.
func (r *Renderer) page() (*template.Template, error) {
	text, err := r.templates.Load(driven.TemplatePage)
	if err != nil {
		return nil, fmt.Errorf("loading page template: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.parsed != nil && r.source == text {
		return r.parsed, nil
	}
	tmpl, err := template.New(driven.TemplatePage).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}
	r.parsed, r.source = tmpl, text
	return tmpl, nil
}

func (r *Renderer) sections(doc domain.Document) []sectionView {
	order := doc.Order()
	out := make([]sectionView, 0, len(order))
	for _, key := range order {
		entry := doc.Sections[key]
		sv := sectionView{Key: key, Blocks: make([]blockView, 0, len(entry.Content))}
		for _, b := range entry.Content {
			if b == nil {
				continue
			}
			sv.Blocks = append(sv.Blocks, r.block(b))
		}
		out = append(out, sv)
	}
	return out
}

func (r *Renderer) block(b domain.Block) blockView {
	// Titles are edited as rich text, so they go through the same policy as values.
	v := blockView{Type: string(b.Type()), ID: b.BlockID(), Title: r.sanitize(b.BlockTitle())}

	switch blk := domain.CloneBlock(b).(type) {
	case domain.RichText:
		v.Label = blk.Label
		v.HTML = r.sanitize(blk.Value)
	case domain.ImageText:
		v.Label = blk.Label
		v.HTML = r.sanitize(blk.Value)
		v.ImageURL = blk.ImageURL
		v.ImagePosition = string(blk.ImagePosition)
		if !blk.ImagePosition.IsValid() {
			v.ImagePosition = string(domain.ImageLeft)
		}
	case domain.Gallery:
		v.ImageURLs = blk.ImageURLs
	case domain.Carousel:
		v.ImageURLs = blk.ImageURLs
	}
	return v
}

func (r *Renderer) sanitize(html string) template.HTML {
	// #nosec G203 -- output of the UGC policy.
	return template.HTML(r.policy.Sanitize(html))
}
