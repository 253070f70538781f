// ABOUTME: HTML templates and markdown rendering for public pages
// ABOUTME: Templates are embedded and parsed once; markdown bodies go through goldmark with GFM

package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/2389/folio/internal/routes"
	"github.com/2389/folio/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageNames are the templates that each pair with templates/base.html.
var pageNames = []string{
	"home", "work", "project", "services", "service",
	"testimonials", "faqs", "process", "page", "notfound",
}

// pageData is what every public template receives.
type pageData struct {
	SiteTitle   string
	Title       string
	Description string
	Path        string
	Nav         []routes.Entry
	Adjacent    routes.Adjacent
	Body        template.HTML

	Projects     []*store.Project
	Project      *store.Project
	Services     []*store.Service
	Service      *store.Service
	Testimonials []*store.Testimonial
	FAQs         []*store.FAQ
	Steps        []*store.ProcessStep
}

// views holds the parsed templates and the markdown converter.
type views struct {
	pages map[string]*template.Template
	md    goldmark.Markdown
}

func newViews() (*views, error) {
	v := &views{
		pages: make(map[string]*template.Template, len(pageNames)),
		md:    goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}

	funcs := template.FuncMap{
		"markdown": v.markdown,
		"join":     strings.Join,
	}
	for _, name := range pageNames {
		tmpl, err := template.New("base.html").Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		v.pages[name] = tmpl
	}
	return v, nil
}

// markdown converts a markdown body to HTML. Raw HTML in the source is not passed through.
func (v *views) markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := v.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// render executes the named page template.
func (v *views) render(name string, data *pageData) ([]byte, error) {
	tmpl, ok := v.pages[name]
	if !ok {
		return nil, fmt.Errorf("unknown template %q", name)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
