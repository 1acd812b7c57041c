// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"themeforge/internal/engine"
	"themeforge/internal/entitlement"
	"themeforge/internal/models"
	"themeforge/internal/store"
)

// API groups the JSON handlers behind /api.
type API struct {
	engine       *engine.Engine
	themes       ThemeRepository
	tenants      TenantRepository
	branding     BrandingRepository
	events       EventRepository
	entitlements EntitlementLedger
	guard        *entitlement.Guard
	ledger       *entitlement.Ledger
	source       pageSource
	pageCache    PageCache
	cacheLog     InvalidationLog
}

// NewAPI creates the API handler group. pageCache and cacheLog may be nil.
func NewAPI(eng *engine.Engine, themes ThemeRepository, tenants TenantRepository, branding BrandingRepository, events EventRepository, entitlements EntitlementLedger, pageCache PageCache, cacheLog InvalidationLog) *API {
	return &API{
		engine:       eng,
		themes:       themes,
		tenants:      tenants,
		branding:     branding,
		events:       events,
		entitlements: entitlements,
		guard:        entitlement.NewGuard(entitlements),
		ledger:       entitlement.NewLedger(entitlements),
		source:       pageSource{themes: themes, tenants: tenants, branding: branding},
		pageCache:    pageCache,
		cacheLog:     cacheLog,
	}
}

// themeView is a catalog entry as listed to a tenant.
type themeView struct {
	models.Theme
	Owned *bool `json:"owned,omitempty"`
}

// ListThemes handles GET /api/themes. With ?tenant_id= it lists the
// published catalog with an owned flag per entry; without it, every entry
// including drafts.
func (a *API) ListThemes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rawTenant := r.URL.Query().Get("tenant_id")
	if rawTenant == "" {
		themes, err := a.themes.List(ctx)
		if err != nil {
			writeError(w, r, err)
			return
		}
		views := make([]themeView, len(themes))
		for i := range themes {
			views[i] = themeView{Theme: themes[i]}
		}
		writeJSON(w, http.StatusOK, views)
		return
	}

	tenantID, err := uuid.Parse(rawTenant)
	if err != nil {
		writeError(w, r, invalid("invalid tenant_id"))
		return
	}

	themes, err := a.themes.ListPublished(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	// One ledger read for the whole listing.
	ents, err := a.entitlements.ListByTenant(ctx, tenantID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	views := make([]themeView, len(themes))
	for i := range themes {
		owned := entitlement.IsOwned(&themes[i], tenantID, ents)
		views[i] = themeView{Theme: themes[i], Owned: &owned}
	}
	writeJSON(w, http.StatusOK, views)
}

// GetTheme handles GET /api/themes/{themeID}.
func (a *API) GetTheme(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "themeID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	theme, err := a.themes.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, theme)
}

// CreateTheme handles POST /api/themes. New entries start as drafts.
func (a *API) CreateTheme(w http.ResponseWriter, r *http.Request) {
	var theme models.Theme
	if err := decodeJSON(w, r, &theme); err != nil {
		writeError(w, r, err)
		return
	}
	if msg := validateTheme(&theme); msg != "" {
		writeError(w, r, invalid(msg))
		return
	}

	created, err := a.themes.Create(r.Context(), &theme)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a.logInvalidation(r.Context(), store.EntityTheme, created.ID, "create")
	writeJSON(w, http.StatusCreated, created)
}

// UpdateTheme handles PUT /api/themes/{themeID}. Editing a published entry
// must keep it publishable.
func (a *API) UpdateTheme(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := uuidParam(r, "themeID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var theme models.Theme
	if err := decodeJSON(w, r, &theme); err != nil {
		writeError(w, r, err)
		return
	}
	theme.ID = id
	if msg := validateTheme(&theme); msg != "" {
		writeError(w, r, invalid(msg))
		return
	}

	current, err := a.themes.FindByID(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if current.IsActive() {
		theme.Status = current.Status
		if err := engine.ValidateTheme(&theme); err != nil {
			writeError(w, r, publishError(err))
			return
		}
	}

	updated, err := a.themes.Update(ctx, &theme)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a.invalidateTheme(ctx, id, "update")
	writeJSON(w, http.StatusOK, updated)
}

// PublishTheme handles POST /api/themes/{themeID}/publish.
func (a *API) PublishTheme(w http.ResponseWriter, r *http.Request) {
	a.setThemeStatus(w, r, models.ThemeStatusActive, "publish")
}

// RetireTheme handles POST /api/themes/{themeID}/retire. Pages still using
// the theme stop rendering until their tenant selects another one.
func (a *API) RetireTheme(w http.ResponseWriter, r *http.Request) {
	a.setThemeStatus(w, r, models.ThemeStatusInactive, "retire")
}

func (a *API) setThemeStatus(w http.ResponseWriter, r *http.Request, status models.ThemeStatus, action string) {
	ctx := r.Context()
	id, err := uuidParam(r, "themeID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	theme, err := a.themes.FindByID(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if status == models.ThemeStatusActive {
		candidate := *theme
		candidate.Status = status
		if err := engine.ValidateTheme(&candidate); err != nil {
			writeError(w, r, publishError(err))
			return
		}
	}

	if err := a.themes.SetStatus(ctx, id, status); err != nil {
		writeError(w, r, err)
		return
	}
	a.invalidateTheme(ctx, id, action)

	theme.Status = status
	writeJSON(w, http.StatusOK, theme)
}

// publishError keeps an IncompleteStyleError visible to classify and turns
// every other validation failure into a 400.
func publishError(err error) error {
	if engine.IsIncompleteStyle(err) {
		return err
	}
	return &validationError{msg: err.Error(), err: err}
}

// invalidateTheme drops cached plans and pages after a catalog change. Any
// event page may use the theme, so the whole page cache goes.
func (a *API) invalidateTheme(ctx context.Context, id uuid.UUID, action string) {
	a.engine.InvalidateTheme(id)
	if a.pageCache != nil {
		a.pageCache.InvalidateAll(ctx)
	}
	a.logInvalidation(ctx, store.EntityTheme, id, action)
}

// invalidateEvent drops the cached renditions of one event page.
func (a *API) invalidateEvent(ctx context.Context, event *models.Event, action string) {
	if a.pageCache != nil {
		a.pageCache.InvalidateEvent(ctx, event.Slug)
	}
	a.logInvalidation(ctx, store.EntityEvent, event.ID, action)
}

func (a *API) logInvalidation(ctx context.Context, entityType string, id uuid.UUID, action string) {
	if a.cacheLog != nil {
		a.cacheLog.Log(ctx, entityType, id, action)
	}
}

const (
	defaultLogLimit = 50
	maxLogLimit     = 500
)

// CacheLog handles GET /api/cache/log?limit=N, listing the most recent
// page cache invalidations newest first.
func (a *API) CacheLog(w http.ResponseWriter, r *http.Request) {
	limit := defaultLogLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxLogLimit {
			writeError(w, r, invalid(fmt.Sprintf("limit must be between 1 and %d", maxLogLimit)))
			return
		}
		limit = n
	}

	entries := []store.CacheLogEntry{}
	if a.cacheLog != nil {
		recent, err := a.cacheLog.RecentEntries(r.Context(), limit)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if recent != nil {
			entries = recent
		}
	}
	writeJSON(w, http.StatusOK, entries)
}
