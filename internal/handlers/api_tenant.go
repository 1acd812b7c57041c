// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"themeforge/internal/entitlement"
	"themeforge/internal/models"
	"themeforge/internal/slug"
	"themeforge/internal/store"
)

// tenantRequest is the body of POST /api/tenants.
type tenantRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CreateTenant handles POST /api/tenants. An empty slug is generated from
// the name.
func (a *API) CreateTenant(w http.ResponseWriter, r *http.Request) {
	var req tenantRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	tenant := &models.Tenant{
		Name: strings.TrimSpace(req.Name),
		Slug: strings.TrimSpace(req.Slug),
	}
	if tenant.Slug == "" {
		tenant.Slug = slug.Generate(tenant.Name)
	}
	if msg := validateTenant(tenant); msg != "" {
		writeError(w, r, invalid(msg))
		return
	}

	created, err := a.tenants.Create(r.Context(), tenant)
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("tenant created", "tenant_id", created.ID, "slug", created.Slug)
	writeJSON(w, http.StatusCreated, created)
}

// ownershipView answers the entitlement gate for one tenant/theme pair.
type ownershipView struct {
	TenantID uuid.UUID `json:"tenant_id"`
	ThemeID  uuid.UUID `json:"theme_id"`
	Owned    bool      `json:"owned"`
	Free     bool      `json:"free"`
}

// Ownership handles GET /api/tenants/{tenantID}/themes/{themeID}/ownership.
// The ledger is read on every call so a purchase is visible immediately.
func (a *API) Ownership(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID, err := uuidParam(r, "tenantID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	themeID, err := uuidParam(r, "themeID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	theme, err := a.themes.FindByID(ctx, themeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	owned, err := a.guard.Owned(ctx, theme, tenantID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ownershipView{
		TenantID: tenantID,
		ThemeID:  themeID,
		Owned:    owned,
		Free:     theme.IsFree(),
	})
}

// purchaseRequest is sent by the payment flow after the provider confirmed
// the charge.
type purchaseRequest struct {
	ThemeID uuid.UUID `json:"theme_id"`
	entitlement.Payment
}

// Purchase handles POST /api/tenants/{tenantID}/purchases. It answers 201
// with a new entitlement, or 200 with the existing one when the tenant
// already owns the theme.
func (a *API) Purchase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID, err := uuidParam(r, "tenantID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req purchaseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if msg := validatePurchase(req.Method, req.Amount, req.Currency); msg != "" {
		writeError(w, r, invalid(msg))
		return
	}
	if err := a.requireTenant(ctx, tenantID); err != nil {
		writeError(w, r, err)
		return
	}

	theme, err := a.themes.FindByID(ctx, req.ThemeID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	record, created, err := a.ledger.Purchase(ctx, theme, tenantID, req.Payment)
	if err != nil {
		writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		slog.Info("theme purchased", "tenant_id", tenantID, "theme_id", theme.ID, "amount", record.Amount, "currency", record.Currency)
	}
	writeJSON(w, status, record)
}

// brandingRequest is the editable part of a tenant's branding. The theme is
// changed through its own endpoint so it always passes the gate.
type brandingRequest struct {
	StyleOverrides models.StyleOverrides `json:"style_overrides"`
	Assets         models.Assets         `json:"assets"`
	SiteInfo       models.SiteInfo       `json:"site_info"`
}

// UpdateBranding handles PUT /api/tenants/{tenantID}/branding.
func (a *API) UpdateBranding(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID, err := uuidParam(r, "tenantID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req brandingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	branding := &models.Branding{
		TenantID:       tenantID,
		StyleOverrides: req.StyleOverrides,
		Assets:         req.Assets,
		SiteInfo:       req.SiteInfo,
	}
	if msg := validateBranding(branding); msg != "" {
		writeError(w, r, invalid(msg))
		return
	}
	if err := a.requireTenant(ctx, tenantID); err != nil {
		writeError(w, r, err)
		return
	}

	if err := a.branding.Upsert(ctx, branding); err != nil {
		writeError(w, r, err)
		return
	}
	// Rendered pages are keyed by input fingerprint, so the old renditions
	// are unreachable already; only the audit trail needs the change.
	a.logInvalidation(ctx, store.EntityBranding, tenantID, "update")

	saved, err := a.branding.FindByTenant(ctx, tenantID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// themeSelection is the body of the theme selection endpoints.
type themeSelection struct {
	ThemeID *uuid.UUID `json:"theme_id"`
}

// SetBrandingTheme handles PUT /api/tenants/{tenantID}/branding/theme. A
// premium theme the tenant does not own is rejected with 403 and never
// stored.
func (a *API) SetBrandingTheme(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID, err := uuidParam(r, "tenantID")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req themeSelection
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.ThemeID == nil {
		writeError(w, r, invalid("theme_id is required"))
		return
	}
	if err := a.requireTenant(ctx, tenantID); err != nil {
		writeError(w, r, err)
		return
	}

	if err := a.checkSelection(ctx, *req.ThemeID, tenantID); err != nil {
		writeError(w, r, err)
		return
	}
	if err := a.branding.SetTheme(ctx, tenantID, *req.ThemeID); err != nil {
		writeError(w, r, err)
		return
	}
	a.logInvalidation(ctx, store.EntityBranding, tenantID, "select_theme")

	writeJSON(w, http.StatusOK, map[string]uuid.UUID{
		"tenant_id": tenantID,
		"theme_id":  *req.ThemeID,
	})
}

// checkSelection loads the theme and runs the entitlement guard.
func (a *API) checkSelection(ctx context.Context, themeID, tenantID uuid.UUID) error {
	theme, err := a.themes.FindByID(ctx, themeID)
	if err != nil {
		return err
	}
	return a.guard.CheckSelection(ctx, theme, tenantID)
}

// requireTenant returns errTenantNotFound when the tenant does not exist.
func (a *API) requireTenant(ctx context.Context, tenantID uuid.UUID) error {
	tenant, err := a.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("load tenant %s: %w", tenantID, err)
	}
	if tenant == nil {
		return fmt.Errorf("tenant %s: %w", tenantID, errTenantNotFound)
	}
	return nil
}

// revocationView reports the outcome of a revocation.
type revocationView struct {
	TenantID uuid.UUID `json:"tenant_id"`
	ThemeID  uuid.UUID `json:"theme_id"`
	Revoked  bool      `json:"revoked"`
}

// RevokeEntitlement handles DELETE /api/tenants/{tenantID}/entitlements/{themeID},
// used after a refund or chargeback. Existing selections keep rendering;
// only future selections of the theme are denied.
func (a *API) RevokeEntitlement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID, err := uuidParam(r, "tenantID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	themeID, err := uuidParam(r, "themeID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := a.requireTenant(ctx, tenantID); err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := a.themes.FindByID(ctx, themeID); err != nil {
		writeError(w, r, err)
		return
	}

	revoked, err := a.entitlements.Revoke(ctx, tenantID, themeID)
	if err != nil {
		writeError(w, r, fmt.Errorf("revoke entitlement: %w", err))
		return
	}
	if revoked {
		slog.Info("entitlement revoked", "tenant_id", tenantID, "theme_id", themeID)
	}

	writeJSON(w, http.StatusOK, revocationView{TenantID: tenantID, ThemeID: themeID, Revoked: revoked})
}
