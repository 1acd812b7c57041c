// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"themeforge/internal/cache"
	"themeforge/internal/engine"
)

// Public serves rendered event pages. It resolves the page inputs, checks
// the L2 Valkey page cache under the inputs' fingerprint, and renders
// through the engine on a miss.
type Public struct {
	engine    *engine.Engine
	events    EventRepository
	source    pageSource
	pageCache PageCache
}

// NewPublic creates a new Public handler group. pageCache may be nil to
// disable the L2 cache.
func NewPublic(eng *engine.Engine, themes ThemeRepository, tenants TenantRepository, branding BrandingRepository, events EventRepository, pageCache PageCache) *Public {
	return &Public{
		engine:    eng,
		events:    events,
		source:    pageSource{themes: themes, tenants: tenants, branding: branding},
		pageCache: pageCache,
	}
}

// EventPage renders GET /e/{slug}.
func (p *Public) EventPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slugParam := chi.URLParam(r, "slug")

	event, err := p.events.FindBySlug(ctx, slugParam)
	if err != nil {
		slog.Error("find event by slug failed", "error", err, "slug", slugParam)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if event == nil {
		http.NotFound(w, r)
		return
	}

	in, err := p.source.inputs(ctx, event)
	if err != nil {
		p.unavailable(w, r, slugParam, err)
		return
	}

	_, fingerprint, err := p.engine.Plan(in)
	if err != nil {
		p.unavailable(w, r, slugParam, err)
		return
	}

	key := cache.EventKey(slugParam, fingerprint)
	if p.pageCache != nil {
		if cached, ok := p.pageCache.Get(ctx, key); ok {
			writeHTML(w, "HIT", cached)
			return
		}
	}

	rendered, err := p.engine.RenderPage(in)
	if err != nil {
		p.unavailable(w, r, slugParam, err)
		return
	}

	if p.pageCache != nil {
		p.pageCache.Set(ctx, key, rendered)
	}
	writeHTML(w, "MISS", rendered)
}

// unavailable answers a page that exists but cannot be shown. A missing or
// retired theme is the tenant's problem to fix, so visitors get a 404
// rather than an error page.
func (p *Public) unavailable(w http.ResponseWriter, r *http.Request, slug string, err error) {
	if errors.Is(err, errNoTheme) || engine.IsUnknownTheme(err) || errors.Is(err, engine.ErrThemeNotActive) {
		slog.Warn("event page unavailable", "slug", slug, "error", err)
		http.NotFound(w, r)
		return
	}
	slog.Error("render event page failed", "slug", slug, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func writeHTML(w http.ResponseWriter, cacheStatus string, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Cache", cacheStatus)
	w.Write(body)
}
