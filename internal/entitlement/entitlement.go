// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package entitlement decides whether a tenant may use a theme and records
// premium theme purchases.
//
// The gate is evaluated against freshly loaded records on every call and is
// never cached: a purchase must be visible to the very next check.
package entitlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"themeforge/internal/engine"
	"themeforge/internal/models"
)

// ErrFreeTheme is returned when purchasing a theme that needs no
// entitlement. Free themes are usable by every tenant without a record.
var ErrFreeTheme = errors.New("theme is free and cannot be purchased")

// DeniedError reports that a tenant tried to select a premium theme it does
// not own.
type DeniedError struct {
	TenantID uuid.UUID
	ThemeID  uuid.UUID
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("tenant %s has no active entitlement for premium theme %s", e.TenantID, e.ThemeID)
}

// IsDenied reports whether err is or wraps a *DeniedError.
func IsDenied(err error) bool {
	var target *DeniedError
	return errors.As(err, &target)
}

// IsOwned reports whether the tenant may use the theme. Free themes are
// always owned; premium themes need an active entitlement for exactly this
// tenant and theme.
func IsOwned(theme *models.Theme, tenantID uuid.UUID, entitlements []models.Entitlement) bool {
	if theme.IsFree() {
		return true
	}
	for _, e := range entitlements {
		if e.TenantID == tenantID && e.ThemeID == theme.ID && e.IsActive() {
			return true
		}
	}
	return false
}

// Store persists entitlement records. Grant must enforce at most one active
// record per (tenant, theme): when one exists it returns that record and
// created=false.
type Store interface {
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Entitlement, error)
	Grant(ctx context.Context, e *models.Entitlement) (*models.Entitlement, bool, error)
}

// Guard checks theme selections against the ledger.
type Guard struct {
	store Store
}

// NewGuard creates a Guard over store.
func NewGuard(store Store) *Guard {
	return &Guard{store: store}
}

// Owned loads the tenant's records and runs the gate. Free themes never
// touch the store.
func (g *Guard) Owned(ctx context.Context, theme *models.Theme, tenantID uuid.UUID) (bool, error) {
	if theme == nil {
		return false, engine.ErrNilTheme
	}
	if theme.IsFree() {
		return true, nil
	}
	ents, err := g.store.ListByTenant(ctx, tenantID)
	if err != nil {
		return false, fmt.Errorf("load entitlements for tenant %s: %w", tenantID, err)
	}
	return IsOwned(theme, tenantID, ents), nil
}

// CheckSelection returns nil when the tenant may select the theme for its
// branding or an event. Only active catalog themes can be selected; premium
// themes additionally require ownership, otherwise a *DeniedError is
// returned.
func (g *Guard) CheckSelection(ctx context.Context, theme *models.Theme, tenantID uuid.UUID) error {
	if theme == nil {
		return engine.ErrNilTheme
	}
	if !theme.IsActive() {
		return fmt.Errorf("select theme %s: %w", theme.ID, engine.ErrThemeNotActive)
	}

	owned, err := g.Owned(ctx, theme, tenantID)
	if err != nil {
		return err
	}
	if !owned {
		slog.Info("premium theme selection denied", "tenant_id", tenantID, "theme_id", theme.ID)
		return &DeniedError{TenantID: tenantID, ThemeID: theme.ID}
	}
	return nil
}

// Payment describes a completed external payment. Amount is in minor
// currency units; zero amount and empty currency default to the theme's
// catalog price.
type Payment struct {
	Method   string `json:"payment_method"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Ledger records purchases of premium themes.
type Ledger struct {
	store Store
	now   func() time.Time
}

// NewLedger creates a Ledger over store.
func NewLedger(store Store) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// Purchase grants the tenant an active entitlement for a premium theme
// after a successful payment. Purchasing an owned theme is a no-op that
// returns the existing record with created=false.
func (l *Ledger) Purchase(ctx context.Context, theme *models.Theme, tenantID uuid.UUID, payment Payment) (*models.Entitlement, bool, error) {
	if theme == nil {
		return nil, false, engine.ErrNilTheme
	}
	if theme.IsFree() {
		return nil, false, fmt.Errorf("purchase theme %s: %w", theme.ID, ErrFreeTheme)
	}
	if !theme.IsActive() {
		return nil, false, fmt.Errorf("purchase theme %s: %w", theme.ID, engine.ErrThemeNotActive)
	}
	if payment.Method == "" {
		return nil, false, errors.New("payment method is required")
	}

	record := &models.Entitlement{
		ID:            uuid.New(),
		TenantID:      tenantID,
		ThemeID:       theme.ID,
		Status:        models.EntitlementActive,
		PaymentMethod: payment.Method,
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		PurchasedAt:   l.now().UTC(),
	}
	if record.Amount == 0 {
		record.Amount = theme.Price
	}
	if record.Currency == "" {
		record.Currency = theme.Currency
	}

	got, created, err := l.store.Grant(ctx, record)
	if err != nil {
		return nil, false, fmt.Errorf("grant theme %s to tenant %s: %w", theme.ID, tenantID, err)
	}
	if created {
		slog.Info("theme purchased", "tenant_id", tenantID, "theme_id", theme.ID, "amount", got.Amount, "currency", got.Currency)
	} else {
		slog.Info("theme already owned, purchase ignored", "tenant_id", tenantID, "theme_id", theme.ID)
	}
	return got, created, nil
}
