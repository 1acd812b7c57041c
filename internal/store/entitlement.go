// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"themeforge/internal/models"
)

// EntitlementStore handles the theme entitlement ledger. The partial unique
// index on (tenant_id, theme_id) WHERE status = 'active' guarantees at most
// one active record per pair, even under concurrent purchases.
type EntitlementStore struct {
	db *sql.DB
}

// NewEntitlementStore creates a new EntitlementStore.
func NewEntitlementStore(db *sql.DB) *EntitlementStore {
	return &EntitlementStore{db: db}
}

const entitlementColumns = `id, tenant_id, theme_id, status, payment_method, amount, currency, purchased_at, revoked_at`

func scanEntitlement(scanner interface{ Scan(...any) error }) (*models.Entitlement, error) {
	var e models.Entitlement
	var revokedAt sql.NullTime
	err := scanner.Scan(
		&e.ID, &e.TenantID, &e.ThemeID, &e.Status, &e.PaymentMethod,
		&e.Amount, &e.Currency, &e.PurchasedAt, &revokedAt,
	)
	if err != nil {
		return nil, err
	}
	if revokedAt.Valid {
		e.RevokedAt = &revokedAt.Time
	}
	return &e, nil
}

// ListByTenant returns every record of a tenant, oldest first. It always
// reads from the database.
func (s *EntitlementStore) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Entitlement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+entitlementColumns+`
		FROM theme_entitlements
		WHERE tenant_id = $1
		ORDER BY purchased_at, id
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list entitlements: %w", err)
	}
	defer rows.Close()

	var items []models.Entitlement
	for rows.Next() {
		e, err := scanEntitlement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entitlement: %w", err)
		}
		items = append(items, *e)
	}
	return items, rows.Err()
}

// Grant inserts an active record. When the tenant already holds an active
// record for the theme, nothing is written and the existing record is
// returned with created=false.
func (s *EntitlementStore) Grant(ctx context.Context, e *models.Entitlement) (*models.Entitlement, bool, error) {
	id := e.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	created, err := scanEntitlement(s.db.QueryRowContext(ctx, `
		INSERT INTO theme_entitlements (id, tenant_id, theme_id, status, payment_method, amount, currency, purchased_at)
		VALUES ($1, $2, $3, 'active', $4, $5, $6, $7)
		ON CONFLICT (tenant_id, theme_id) WHERE status = 'active' DO NOTHING
		RETURNING `+entitlementColumns,
		id, e.TenantID, e.ThemeID, e.PaymentMethod, e.Amount, e.Currency, e.PurchasedAt,
	))
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("grant entitlement: %w", err)
	}

	existing, err := scanEntitlement(s.db.QueryRowContext(ctx, `
		SELECT `+entitlementColumns+`
		FROM theme_entitlements
		WHERE tenant_id = $1 AND theme_id = $2 AND status = 'active'
	`, e.TenantID, e.ThemeID))
	if err != nil {
		return nil, false, fmt.Errorf("load existing entitlement: %w", err)
	}
	return existing, false, nil
}

// Revoke marks the tenant's active record for a theme as revoked. It
// reports whether a record was changed.
func (s *EntitlementStore) Revoke(ctx context.Context, tenantID, themeID uuid.UUID) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE theme_entitlements SET status = 'revoked', revoked_at = NOW()
		WHERE tenant_id = $1 AND theme_id = $2 AND status = 'active'
	`, tenantID, themeID)
	if err != nil {
		return false, fmt.Errorf("revoke entitlement: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}
