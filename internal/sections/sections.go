// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package sections provides the default HTML renderers for every section
// kind, the footer and the page layout. Templates are embedded and parsed
// once; each section kind is a named template executed with the uniform
// engine props.
package sections

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"themeforge/internal/engine"
	"themeforge/internal/markdown"
	"themeforge/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// funcMap holds the helpers available to section templates. Content values
// are untyped JSON, so templates read them through text and items.
var funcMap = template.FuncMap{
	"text":     text,
	"items":    items,
	"markdown": func(v any) template.HTML { return markdown.ToTemplateHTML(text(v)) },
	"themeClass": func(light bool) string {
		if light {
			return "theme-light"
		}
		return "theme-dark"
	},
	"fallback": func(v any, def string) string {
		if s := text(v); s != "" {
			return s
		}
		return def
	},
}

// text returns v as a string. Missing values render as the empty string.
func text(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	case float64:
		// JSON numbers decode as float64; print integers without a fraction.
		if s == float64(int64(s)) {
			return fmt.Sprintf("%d", int64(s))
		}
		return fmt.Sprintf("%g", s)
	}
	return fmt.Sprint(v)
}

// items returns a list value as a slice of objects. Entries that are not
// objects are dropped; a plain string entry becomes {"title": s}.
func items(v any) []map[string]any {
	var out []map[string]any
	switch list := v.(type) {
	case []map[string]any:
		return list
	case []any:
		for _, e := range list {
			switch item := e.(type) {
			case map[string]any:
				out = append(out, item)
			case models.Content:
				out = append(out, item)
			case string:
				out = append(out, map[string]any{"title": item})
			}
		}
	}
	return out
}

// parse compiles the embedded templates into one set.
func parse() (*template.Template, error) {
	tmpl, err := template.New("sections").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse section templates: %w", err)
	}
	for _, k := range models.SectionKinds {
		if tmpl.Lookup(string(k)) == nil {
			return nil, fmt.Errorf("missing section template %q", k)
		}
	}
	for _, name := range []string{"footer", "layout"} {
		if tmpl.Lookup(name) == nil {
			return nil, fmt.Errorf("missing template %q", name)
		}
	}
	return tmpl, nil
}

// renderer executes the named template of a parsed set.
type renderer struct {
	tmpl *template.Template
	name string
}

func (r renderer) RenderSection(w io.Writer, props engine.SectionProps) error {
	return r.tmpl.ExecuteTemplate(w, r.name, props)
}

func (r renderer) RenderFooter(w io.Writer, props engine.FooterProps) error {
	return r.tmpl.ExecuteTemplate(w, r.name, props)
}

// NewRegistry returns a registry with a renderer for every section kind
// and the footer.
func NewRegistry() (*engine.Registry, error) {
	tmpl, err := parse()
	if err != nil {
		return nil, err
	}

	reg := engine.NewRegistry(renderer{tmpl: tmpl, name: "footer"})
	for _, k := range models.SectionKinds {
		reg.Register(k, renderer{tmpl: tmpl, name: string(k)})
	}
	return reg, nil
}

// Layout renders the document shell around composed sections.
type Layout struct {
	tmpl *template.Template
}

// NewLayout parses the embedded templates and returns the page layout.
func NewLayout() (*Layout, error) {
	tmpl, err := parse()
	if err != nil {
		return nil, err
	}
	return &Layout{tmpl: tmpl}, nil
}

// layoutData is the view passed to the layout template.
type layoutData struct {
	Title       string
	Description string
	Plan        *engine.Plan
	Body        template.HTML
}

// RenderLayout implements engine.Layout. body is trusted output of the
// section renderers.
func (l *Layout) RenderLayout(w io.Writer, plan *engine.Plan, page engine.Page, body []byte) error {
	data := layoutData{Plan: plan, Body: template.HTML(body)}
	if page.Event != nil {
		data.Title = page.Event.Title
		data.Description = page.Event.Description
	}
	if data.Title == "" && page.Branding != nil {
		data.Title = page.Branding.SiteInfo.Title
	}
	if data.Description == "" && page.Branding != nil {
		data.Description = page.Branding.SiteInfo.Description
	}
	data.Title = strings.TrimSpace(data.Title)
	return l.tmpl.ExecuteTemplate(w, "layout", data)
}
