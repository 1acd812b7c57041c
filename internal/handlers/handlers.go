// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers serves rendered event pages and the JSON API used by the
// tenant dashboard to manage themes, purchases, branding and events.
// Authentication is handled upstream; handlers trust the ids in the path.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"themeforge/internal/engine"
	"themeforge/internal/entitlement"
	"themeforge/internal/models"
	"themeforge/internal/store"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// ThemeRepository is the catalog persistence the handlers need.
type ThemeRepository interface {
	List(ctx context.Context) ([]models.Theme, error)
	ListPublished(ctx context.Context) ([]models.Theme, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Theme, error)
	Create(ctx context.Context, t *models.Theme) (*models.Theme, error)
	Update(ctx context.Context, t *models.Theme) (*models.Theme, error)
	SetStatus(ctx context.Context, id uuid.UUID, status models.ThemeStatus) error
}

// TenantRepository loads tenant identity.
type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	Create(ctx context.Context, t *models.Tenant) (*models.Tenant, error)
}

// BrandingRepository persists tenant branding.
type BrandingRepository interface {
	FindByTenant(ctx context.Context, tenantID uuid.UUID) (*models.Branding, error)
	Upsert(ctx context.Context, b *models.Branding) error
	SetTheme(ctx context.Context, tenantID, themeID uuid.UUID) error
}

// EventRepository persists events.
type EventRepository interface {
	FindBySlug(ctx context.Context, slug string) (*models.Event, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	Create(ctx context.Context, e *models.Event) (*models.Event, error)
	UpdateOverrides(ctx context.Context, id uuid.UUID, overrides models.EventOverrides) error
	SetTheme(ctx context.Context, id uuid.UUID, themeID *uuid.UUID) error
}

// PageCache is the L2 cache of rendered event pages.
type PageCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, html []byte)
	InvalidateEvent(ctx context.Context, slug string)
	InvalidateAll(ctx context.Context)
}

// EntitlementLedger is the entitlement store plus revocation.
type EntitlementLedger interface {
	entitlement.Store
	Revoke(ctx context.Context, tenantID, themeID uuid.UUID) (bool, error)
}

// InvalidationLog records cache invalidations for auditing.
type InvalidationLog interface {
	Log(ctx context.Context, entityType string, entityID uuid.UUID, action string)
	RecentEntries(ctx context.Context, limit int) ([]store.CacheLogEntry, error)
}

// Sentinel errors mapped to HTTP responses.
var (
	errNoTheme        = errors.New("no theme selected for event")
	errTenantNotFound = errors.New("tenant not found")
)

// validationError carries a user-facing validation message. It may wrap a
// domain error such as *engine.IncompleteStyleError.
type validationError struct {
	msg string
	err error
}

func (e *validationError) Error() string { return e.msg }
func (e *validationError) Unwrap() error { return e.err }

func invalid(msg string) error {
	return &validationError{msg: msg}
}

// errorBody is the JSON shape of every API error.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("encode json response failed", "error", err)
	}
}

// writeError maps a domain error to a status code and JSON error body.
// Unexpected errors are logged and reported as 500 without details.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "internal server error"
	}
	writeJSON(w, status, errorBody{Error: msg, Code: code})
}

// classify returns the HTTP status and machine-readable code for err.
func classify(err error) (int, string) {
	var validation *validationError
	switch {
	case entitlement.IsDenied(err):
		return http.StatusForbidden, "entitlement_denied"
	case engine.IsUnknownTheme(err):
		return http.StatusNotFound, "unknown_theme"
	case engine.IsIncompleteStyle(err):
		return http.StatusUnprocessableEntity, "incomplete_style"
	case errors.Is(err, engine.ErrThemeNotActive):
		return http.StatusConflict, "theme_not_active"
	case errors.Is(err, entitlement.ErrFreeTheme):
		return http.StatusConflict, "free_theme"
	case errors.Is(err, errNoTheme):
		return http.StatusConflict, "no_theme_selected"
	case errors.Is(err, store.ErrSlugTaken), errors.Is(err, store.ErrTenantSlugTaken):
		return http.StatusConflict, "slug_taken"
	case errors.Is(err, store.ErrEventNotFound):
		return http.StatusNotFound, "event_not_found"
	case errors.Is(err, errTenantNotFound):
		return http.StatusNotFound, "tenant_not_found"
	case errors.As(err, &validation):
		return http.StatusBadRequest, "validation"
	}
	return http.StatusInternalServerError, "internal"
}

// decodeJSON reads a bounded JSON body into dst, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return invalid("request body is required")
		}
		return &validationError{msg: fmt.Sprintf("invalid request body: %v", err), err: err}
	}
	return nil
}

// uuidParam parses a UUID path parameter.
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, invalid(fmt.Sprintf("invalid %s", name))
	}
	return id, nil
}
