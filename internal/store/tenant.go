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
	"github.com/jackc/pgx/v5/pgconn"

	"themeforge/internal/models"
)

// ErrTenantSlugTaken is returned by Create when another tenant owns the slug.
var ErrTenantSlugTaken = errors.New("tenant slug already in use")

// TenantStore handles tenant account records.
type TenantStore struct {
	db *sql.DB
}

// NewTenantStore creates a new TenantStore.
func NewTenantStore(db *sql.DB) *TenantStore {
	return &TenantStore{db: db}
}

// FindByID retrieves a tenant by its UUID. Returns nil if not found.
func (s *TenantStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	t := &models.Tenant{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, slug, created_at FROM tenants WHERE id = $1
	`, id).Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tenant by id: %w", err)
	}
	return t, nil
}

// Create inserts a new tenant.
func (s *TenantStore) Create(ctx context.Context, t *models.Tenant) (*models.Tenant, error) {
	result := &models.Tenant{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO tenants (name, slug) VALUES ($1, $2)
		RETURNING id, name, slug, created_at
	`, t.Name, t.Slug).Scan(&result.ID, &result.Name, &result.Slug, &result.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return nil, fmt.Errorf("create tenant %q: %w", t.Slug, ErrTenantSlugTaken)
	}
	if err != nil {
		return nil, fmt.Errorf("create tenant: %w", err)
	}
	return result, nil
}
