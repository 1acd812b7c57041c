// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"themeforge/internal/models"
)

// SectionProps is the uniform prop bundle every section renderer receives.
type SectionProps struct {
	Content  models.Content
	Colors   models.ColorTokens
	Fonts    models.Fonts
	Category string
	Event    *models.Event
	IsLight  bool
}

// FooterProps is passed to the footer renderer, which always runs last.
type FooterProps struct {
	Tenant  *models.Tenant
	Site    models.SiteInfo
	Assets  models.Assets
	Colors  models.ColorTokens
	Fonts   models.Fonts
	IsLight bool
}

// SectionRenderer paints one section kind.
type SectionRenderer interface {
	RenderSection(w io.Writer, props SectionProps) error
}

// SectionRendererFunc adapts a function to SectionRenderer.
type SectionRendererFunc func(w io.Writer, props SectionProps) error

// RenderSection calls f(w, props).
func (f SectionRendererFunc) RenderSection(w io.Writer, props SectionProps) error {
	return f(w, props)
}

// FooterRenderer paints the mandatory footer.
type FooterRenderer interface {
	RenderFooter(w io.Writer, props FooterProps) error
}

// FooterRendererFunc adapts a function to FooterRenderer.
type FooterRendererFunc func(w io.Writer, props FooterProps) error

// RenderFooter calls f(w, props).
func (f FooterRendererFunc) RenderFooter(w io.Writer, props FooterProps) error {
	return f(w, props)
}

// Registry maps section kinds to renderers. It is filled once at startup
// and only read afterwards, so lookups take no lock.
type Registry struct {
	sections map[models.SectionKind]SectionRenderer
	footer   FooterRenderer
}

// NewRegistry creates a registry with the given footer renderer.
// It panics if footer is nil, since every page ends with a footer.
func NewRegistry(footer FooterRenderer) *Registry {
	if footer == nil {
		panic("engine: nil footer renderer")
	}
	return &Registry{
		sections: make(map[models.SectionKind]SectionRenderer),
		footer:   footer,
	}
}

// Register binds a renderer to an orderable section kind, replacing any
// previous binding. It panics on the footer or unregistered kinds.
func (r *Registry) Register(kind models.SectionKind, renderer SectionRenderer) {
	if !kind.Orderable() {
		panic(fmt.Sprintf("engine: cannot register renderer for section kind %q", kind))
	}
	if renderer == nil {
		panic(fmt.Sprintf("engine: nil renderer for section kind %q", kind))
	}
	r.sections[kind] = renderer
}

// Lookup returns the renderer for kind.
func (r *Registry) Lookup(kind models.SectionKind) (SectionRenderer, bool) {
	renderer, ok := r.sections[kind]
	return renderer, ok
}

// Page carries the request-independent records a page is composed for.
// Any field may be nil.
type Page struct {
	Event    *models.Event
	Tenant   *models.Tenant
	Branding *models.Branding
}

// Invocation is one pending renderer call. Exactly one of Section and Footer
// is set.
type Invocation struct {
	Kind    models.SectionKind
	Name    string
	Section *SectionProps
	Footer  *FooterProps

	section SectionRenderer
	footer  FooterRenderer
}

// Render executes the invocation.
func (inv Invocation) Render(w io.Writer) error {
	switch {
	case inv.Footer != nil:
		return inv.footer.RenderFooter(w, *inv.Footer)
	case inv.Section != nil:
		return inv.section.RenderSection(w, *inv.Section)
	}
	return errors.New("empty invocation")
}

// Composer turns a Plan into renderer invocations. It performs no merging;
// all policy lives in Resolve.
type Composer struct {
	registry *Registry
}

// NewComposer creates a Composer over a filled registry.
func NewComposer(registry *Registry) *Composer {
	return &Composer{registry: registry}
}

// Compose returns one invocation per enabled, registered section in plan
// order, followed by the footer. Sections with names outside the vocabulary
// or without a registered renderer are skipped.
func (c *Composer) Compose(plan *Plan, page Page) []Invocation {
	invocations := make([]Invocation, 0, len(plan.Sections)+1)

	for _, s := range plan.Sections {
		if !s.Kind.Orderable() {
			slog.Debug("section not renderable, skipped", "section", s.Name, "theme_id", plan.ThemeID)
			continue
		}
		renderer, ok := c.registry.Lookup(s.Kind)
		if !ok {
			slog.Debug("no renderer registered, skipped", "section", s.Name, "theme_id", plan.ThemeID)
			continue
		}
		invocations = append(invocations, Invocation{
			Kind: s.Kind,
			Name: s.Name,
			Section: &SectionProps{
				Content:  s.Content,
				Colors:   plan.Colors,
				Fonts:    plan.Fonts,
				Category: plan.Category,
				Event:    page.Event,
				IsLight:  plan.IsLight,
			},
			section: renderer,
		})
	}

	footer := &FooterProps{
		Tenant:  page.Tenant,
		Colors:  plan.Colors,
		Fonts:   plan.Fonts,
		IsLight: plan.IsLight,
	}
	if page.Branding != nil {
		footer.Site = page.Branding.SiteInfo
		footer.Assets = page.Branding.Assets
	}
	invocations = append(invocations, Invocation{
		Kind:   models.SectionFooter,
		Name:   string(models.SectionFooter),
		Footer: footer,
		footer: c.registry.footer,
	})

	return invocations
}

// Render composes the plan and executes every invocation into w, stopping
// at the first renderer error.
func (c *Composer) Render(w io.Writer, plan *Plan, page Page) error {
	for _, inv := range c.Compose(plan, page) {
		if err := inv.Render(w); err != nil {
			return fmt.Errorf("render section %s: %w", inv.Name, err)
		}
	}
	return nil
}
