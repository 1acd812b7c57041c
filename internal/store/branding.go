// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"themeforge/internal/models"
)

// BrandingStore handles tenant branding records. Each tenant has at most
// one branding row.
type BrandingStore struct {
	db *sql.DB
}

// NewBrandingStore creates a new BrandingStore.
func NewBrandingStore(db *sql.DB) *BrandingStore {
	return &BrandingStore{db: db}
}

// FindByTenant returns the tenant's branding. Returns nil if the tenant has
// not configured any branding yet.
func (s *BrandingStore) FindByTenant(ctx context.Context, tenantID uuid.UUID) (*models.Branding, error) {
	b := &models.Branding{}
	var themeID uuid.NullUUID
	var style, assets, site []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT tenant_id, theme_id, style_overrides, assets, site_info, updated_at
		FROM tenant_branding WHERE tenant_id = $1
	`, tenantID).Scan(&b.TenantID, &themeID, &style, &assets, &site, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find branding: %w", err)
	}

	if themeID.Valid {
		b.ThemeID = &themeID.UUID
	}
	if err := json.Unmarshal(style, &b.StyleOverrides); err != nil {
		return nil, fmt.Errorf("decode style_overrides: %w", err)
	}
	if err := json.Unmarshal(assets, &b.Assets); err != nil {
		return nil, fmt.Errorf("decode assets: %w", err)
	}
	if err := json.Unmarshal(site, &b.SiteInfo); err != nil {
		return nil, fmt.Errorf("decode site_info: %w", err)
	}
	return b, nil
}

// Upsert writes the branding overrides, assets and site info. The selected
// theme is left unchanged; use SetTheme after the entitlement check.
func (s *BrandingStore) Upsert(ctx context.Context, b *models.Branding) error {
	style, err := json.Marshal(b.StyleOverrides)
	if err != nil {
		return fmt.Errorf("encode style_overrides: %w", err)
	}
	assets, err := json.Marshal(b.Assets)
	if err != nil {
		return fmt.Errorf("encode assets: %w", err)
	}
	site, err := json.Marshal(b.SiteInfo)
	if err != nil {
		return fmt.Errorf("encode site_info: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tenant_branding (tenant_id, style_overrides, assets, site_info)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tenant_id) DO UPDATE SET
			style_overrides = EXCLUDED.style_overrides,
			assets = EXCLUDED.assets,
			site_info = EXCLUDED.site_info,
			updated_at = NOW()
	`, b.TenantID, style, assets, site)
	if err != nil {
		return fmt.Errorf("upsert branding: %w", err)
	}
	return nil
}

// SetTheme records the tenant's selected theme, creating the branding row
// if needed. Callers must have passed the entitlement guard.
func (s *BrandingStore) SetTheme(ctx context.Context, tenantID, themeID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tenant_branding (tenant_id, theme_id) VALUES ($1, $2)
		ON CONFLICT (tenant_id) DO UPDATE SET theme_id = EXCLUDED.theme_id, updated_at = NOW()
	`, tenantID, themeID)
	if err != nil {
		return fmt.Errorf("set branding theme: %w", err)
	}
	return nil
}
