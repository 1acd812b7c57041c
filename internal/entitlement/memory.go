// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package entitlement

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"themeforge/internal/models"
)

// MemoryStore is an in-memory Store used by the CLI and tests. Grants are
// serialized behind a mutex, which gives the same at-most-one-active
// guarantee as the database's partial unique index.
type MemoryStore struct {
	mu      sync.RWMutex
	records []models.Entitlement
}

// NewMemoryStore creates a store holding copies of the given records.
func NewMemoryStore(records ...models.Entitlement) *MemoryStore {
	s := &MemoryStore{}
	for _, r := range records {
		s.records = append(s.records, copyEntitlement(r))
	}
	return s
}

// ListByTenant returns copies of all records of a tenant, in insertion order.
func (s *MemoryStore) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]models.Entitlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Entitlement
	for _, r := range s.records {
		if r.TenantID == tenantID {
			out = append(out, copyEntitlement(r))
		}
	}
	return out, nil
}

// Grant stores e unless an active record for the same tenant and theme
// exists, in which case that record is returned with created=false.
func (s *MemoryStore) Grant(ctx context.Context, e *models.Entitlement) (*models.Entitlement, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.records {
		if r.TenantID == e.TenantID && r.ThemeID == e.ThemeID && r.IsActive() {
			existing := copyEntitlement(r)
			return &existing, false, nil
		}
	}

	stored := copyEntitlement(*e)
	s.records = append(s.records, stored)
	out := copyEntitlement(stored)
	return &out, true, nil
}

// Revoke marks the tenant's active record for the theme as revoked. It
// reports whether a record was changed.
func (s *MemoryStore) Revoke(ctx context.Context, tenantID, themeID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		r := &s.records[i]
		if r.TenantID == tenantID && r.ThemeID == themeID && r.IsActive() {
			now := time.Now().UTC()
			r.Status = models.EntitlementRevoked
			r.RevokedAt = &now
			return true, nil
		}
	}
	return false, nil
}

func copyEntitlement(e models.Entitlement) models.Entitlement {
	if e.RevokedAt != nil {
		t := *e.RevokedAt
		e.RevokedAt = &t
	}
	return e
}
