// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engine resolves themes into render plans and composes those plans
// into event pages. Resolve and Composer are pure; Engine adds an in-memory
// plan cache (L1) and the document layout on top of them.
package engine

import (
	"bytes"
	"fmt"
	"io"

	"github.com/google/uuid"

	"themeforge/internal/models"
)

// Inputs are the already-fetched records a page is built from. Theme is
// required; the rest may be nil.
type Inputs struct {
	Theme    *models.Theme
	Branding *models.Branding
	Event    *models.Event
	Tenant   *models.Tenant
}

// overrides returns the event override layer, or nil without an event.
func (in Inputs) overrides() *models.EventOverrides {
	if in.Event == nil {
		return nil
	}
	return &in.Event.Overrides
}

// page returns the composition context for the inputs.
func (in Inputs) page() Page {
	return Page{Event: in.Event, Tenant: in.Tenant, Branding: in.Branding}
}

// Layout wraps composed section markup into a complete document.
type Layout interface {
	RenderLayout(w io.Writer, plan *Plan, page Page, body []byte) error
}

// Engine renders event pages. It caches resolved plans keyed by theme ID
// and input fingerprint, so repeated renders of an unchanged page skip
// resolution.
type Engine struct {
	composer *Composer
	layout   Layout
	plans    *planCache
}

// New creates an engine over a filled registry. layout may be nil, in which
// case rendered pages contain only the composed sections and footer.
// maxPlans <= 0 selects DefaultMaxPlans.
func New(registry *Registry, layout Layout, maxPlans int) *Engine {
	return &Engine{
		composer: NewComposer(registry),
		layout:   layout,
		plans:    newPlanCache(maxPlans),
	}
}

// Plan returns the resolved plan for the inputs and its fingerprint,
// serving from the L1 cache when possible.
func (e *Engine) Plan(in Inputs) (*Plan, string, error) {
	if in.Theme == nil {
		return nil, "", ErrNilTheme
	}

	fp, err := Fingerprint(in, nil)
	if err != nil {
		return nil, "", err
	}

	if plan := e.plans.get(in.Theme.ID, fp); plan != nil {
		return plan, fp, nil
	}

	plan, err := Resolve(in.Theme, in.Branding, in.overrides(), nil)
	if err != nil {
		return nil, "", err
	}
	e.plans.put(in.Theme.ID, fp, plan)
	return plan, fp, nil
}

// RenderPage resolves and renders the complete page for the inputs.
func (e *Engine) RenderPage(in Inputs) ([]byte, error) {
	plan, _, err := e.Plan(in)
	if err != nil {
		return nil, err
	}
	return e.render(plan, in.page())
}

// Preview resolves with an extra highest-priority content layer and renders
// the result. Preview plans are never cached since ad-hoc content is
// ephemeral.
func (e *Engine) Preview(in Inputs, adHoc map[string]models.Content) (*Plan, []byte, error) {
	plan, err := Resolve(in.Theme, in.Branding, in.overrides(), adHoc)
	if err != nil {
		return nil, nil, err
	}
	out, err := e.render(plan, in.page())
	if err != nil {
		return nil, nil, err
	}
	return plan, out, nil
}

// InvalidateTheme drops cached plans for a theme. Called after a catalog
// entry is edited or its status changes.
func (e *Engine) InvalidateTheme(id uuid.UUID) {
	e.plans.invalidate(id)
}

// InvalidateAll clears the plan cache.
func (e *Engine) InvalidateAll() {
	e.plans.invalidateAll()
}

// render composes the plan and wraps it in the layout.
func (e *Engine) render(plan *Plan, page Page) ([]byte, error) {
	var body bytes.Buffer
	if err := e.composer.Render(&body, plan, page); err != nil {
		return nil, err
	}
	if e.layout == nil {
		return body.Bytes(), nil
	}

	var doc bytes.Buffer
	if err := e.layout.RenderLayout(&doc, plan, page, body.Bytes()); err != nil {
		return nil, fmt.Errorf("render layout: %w", err)
	}
	return doc.Bytes(), nil
}
