// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"themeforge/internal/engine"
	"themeforge/internal/models"
	"themeforge/internal/slug"
	"themeforge/internal/store"
)

// eventRequest is the body of POST /api/tenants/{tenantID}/events.
type eventRequest struct {
	Slug        string                `json:"slug"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Venue       string                `json:"venue"`
	StartsAt    *time.Time            `json:"starts_at"`
	ThemeID     *uuid.UUID            `json:"theme_id"`
	Overrides   models.EventOverrides `json:"overrides"`
}

// CreateEvent handles POST /api/tenants/{tenantID}/events. An empty slug is
// generated from the title. A theme reference must pass the entitlement
// guard before the event is stored.
func (a *API) CreateEvent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID, err := uuidParam(r, "tenantID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req eventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	event := &models.Event{
		TenantID:    tenantID,
		Slug:        strings.TrimSpace(req.Slug),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Venue:       req.Venue,
		StartsAt:    req.StartsAt,
		ThemeID:     req.ThemeID,
		Overrides:   req.Overrides,
	}
	if event.Slug == "" {
		event.Slug = slug.Generate(event.Title)
	}
	if msg := validateEvent(event); msg != "" {
		writeError(w, r, invalid(msg))
		return
	}
	if err := a.requireTenant(ctx, tenantID); err != nil {
		writeError(w, r, err)
		return
	}

	if event.ThemeID != nil {
		if err := a.checkSelection(ctx, *event.ThemeID, tenantID); err != nil {
			writeError(w, r, err)
			return
		}
	}

	created, err := a.events.Create(ctx, event)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetEvent handles GET /api/events/{eventID}.
func (a *API) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := a.loadEvent(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// UpdateEventOverrides handles PUT /api/events/{eventID}/overrides.
func (a *API) UpdateEventOverrides(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	event, err := a.loadEvent(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var overrides models.EventOverrides
	if err := decodeJSON(w, r, &overrides); err != nil {
		writeError(w, r, err)
		return
	}
	if msg := validateOverrides(overrides); msg != "" {
		writeError(w, r, invalid(msg))
		return
	}

	if err := a.events.UpdateOverrides(ctx, event.ID, overrides); err != nil {
		writeError(w, r, err)
		return
	}
	a.invalidateEvent(ctx, event, "update_overrides")

	event.Overrides = overrides
	writeJSON(w, http.StatusOK, event)
}

// SetEventTheme handles PUT /api/events/{eventID}/theme. A null theme_id
// clears the pin so the page follows the tenant's branding theme.
func (a *API) SetEventTheme(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	event, err := a.loadEvent(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req themeSelection
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if req.ThemeID != nil {
		if err := a.checkSelection(ctx, *req.ThemeID, event.TenantID); err != nil {
			writeError(w, r, err)
			return
		}
	}

	if err := a.events.SetTheme(ctx, event.ID, req.ThemeID); err != nil {
		writeError(w, r, err)
		return
	}
	a.invalidateEvent(ctx, event, "select_theme")

	event.ThemeID = req.ThemeID
	writeJSON(w, http.StatusOK, event)
}

// planView is the JSON rendition of a resolved plan.
type planView struct {
	Fingerprint string       `json:"fingerprint"`
	Plan        *engine.Plan `json:"plan"`
}

// EventPlan handles GET /api/events/{eventID}/plan.
func (a *API) EventPlan(w http.ResponseWriter, r *http.Request) {
	in, err := a.eventInputs(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	plan, fingerprint, err := a.engine.Plan(in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, planView{Fingerprint: fingerprint, Plan: plan})
}

// previewRequest carries unsaved section content from the editor.
type previewRequest struct {
	Content map[string]models.Content `json:"content"`
}

// previewView is returned for ?format=json.
type previewView struct {
	Plan *engine.Plan `json:"plan"`
	HTML string       `json:"html"`
}

// EventPreview handles POST /api/events/{eventID}/preview. The ad-hoc
// content wins over every stored layer and is never cached or persisted.
// The rendered page is returned as HTML, or with the plan as JSON when
// ?format=json is given.
func (a *API) EventPreview(w http.ResponseWriter, r *http.Request) {
	in, err := a.eventInputs(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req previewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if msg := validateContent(req.Content); msg != "" {
		writeError(w, r, invalid(msg))
		return
	}

	plan, html, err := a.engine.Preview(in, req.Content)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "json" {
		writeJSON(w, http.StatusOK, previewView{Plan: plan, HTML: string(html)})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(html)
}

// loadEvent resolves the {eventID} path parameter to a stored event.
func (a *API) loadEvent(r *http.Request) (*models.Event, error) {
	id, err := uuidParam(r, "eventID")
	if err != nil {
		return nil, err
	}
	return a.findEvent(r.Context(), id)
}

func (a *API) findEvent(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	event, err := a.events.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("event %s: %w", id, store.ErrEventNotFound)
	}
	return event, nil
}

// eventInputs loads the event named by the path and everything its page
// is built from.
func (a *API) eventInputs(r *http.Request) (engine.Inputs, error) {
	event, err := a.loadEvent(r)
	if err != nil {
		return engine.Inputs{}, err
	}
	return a.source.inputs(r.Context(), event)
}
