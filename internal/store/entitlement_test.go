// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"themeforge/internal/entitlement"
	"themeforge/internal/models"
)

func TestEntitlementStore_GrantOnce(t *testing.T) {
	db := testDB(t)
	s := NewEntitlementStore(db)
	ctx := context.Background()
	tenant := createTestTenant(t, db)
	theme := createTestTheme(t, db, true, 500)

	record := &models.Entitlement{
		TenantID:      tenant.ID,
		ThemeID:       theme.ID,
		PaymentMethod: "card",
		Amount:        500,
		Currency:      "EUR",
		PurchasedAt:   time.Now().UTC(),
	}
	first, created, err := s.Grant(ctx, record)
	if err != nil {
		t.Fatalf("Grant: %v", err)
	}
	if !created || first.Status != models.EntitlementActive {
		t.Fatalf("first grant: created=%v status=%q", created, first.Status)
	}

	second, created, err := s.Grant(ctx, record)
	if err != nil {
		t.Fatalf("second Grant: %v", err)
	}
	if created || second.ID != first.ID {
		t.Errorf("duplicate grant should return existing record, got created=%v id=%s", created, second.ID)
	}
}

func TestEntitlementStore_ConcurrentGrants(t *testing.T) {
	db := testDB(t)
	s := NewEntitlementStore(db)
	ctx := context.Background()
	tenant := createTestTenant(t, db)
	theme := createTestTheme(t, db, true, 500)

	var wg sync.WaitGroup
	var mu sync.Mutex
	createdCount := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, created, err := s.Grant(ctx, &models.Entitlement{
				TenantID: tenant.ID, ThemeID: theme.ID, PaymentMethod: "card", PurchasedAt: time.Now(),
			})
			if err != nil {
				t.Errorf("Grant: %v", err)
				return
			}
			if created {
				mu.Lock()
				createdCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if createdCount != 1 {
		t.Errorf("created %d records, want exactly 1", createdCount)
	}
}

func TestEntitlementStore_RevokeAndRegrant(t *testing.T) {
	db := testDB(t)
	s := NewEntitlementStore(db)
	ctx := context.Background()
	tenant := createTestTenant(t, db)
	theme := createTestTheme(t, db, true, 500)

	if _, _, err := s.Grant(ctx, &models.Entitlement{TenantID: tenant.ID, ThemeID: theme.ID, PurchasedAt: time.Now()}); err != nil {
		t.Fatalf("Grant: %v", err)
	}

	changed, err := s.Revoke(ctx, tenant.ID, theme.ID)
	if err != nil || !changed {
		t.Fatalf("Revoke: changed=%v err=%v", changed, err)
	}
	changed, err = s.Revoke(ctx, tenant.ID, theme.ID)
	if err != nil || changed {
		t.Errorf("second Revoke: changed=%v err=%v, want false/nil", changed, err)
	}

	if _, created, err := s.Grant(ctx, &models.Entitlement{TenantID: tenant.ID, ThemeID: theme.ID, PurchasedAt: time.Now()}); err != nil || !created {
		t.Fatalf("regrant: created=%v err=%v", created, err)
	}

	ents, err := s.ListByTenant(ctx, tenant.ID)
	if err != nil {
		t.Fatalf("ListByTenant: %v", err)
	}
	if len(ents) != 2 {
		t.Fatalf("expected 2 records, got %d", len(ents))
	}
	if ents[0].RevokedAt == nil || ents[0].IsActive() {
		t.Errorf("first record should be revoked: %+v", ents[0])
	}
}

// The guard reads through the store, so a grant is visible immediately.
func TestEntitlementStore_GuardSeesGrant(t *testing.T) {
	db := testDB(t)
	s := NewEntitlementStore(db)
	ctx := context.Background()
	tenant := createTestTenant(t, db)
	theme := createTestTheme(t, db, true, 500)

	guard := entitlement.NewGuard(s)
	if err := guard.CheckSelection(ctx, theme, tenant.ID); !entitlement.IsDenied(err) {
		t.Fatalf("expected denial before purchase, got %v", err)
	}

	if _, _, err := entitlement.NewLedger(s).Purchase(ctx, theme, tenant.ID, entitlement.Payment{Method: "card"}); err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if err := guard.CheckSelection(ctx, theme, tenant.ID); err != nil {
		t.Errorf("expected selection to pass after purchase, got %v", err)
	}
	if err := guard.CheckSelection(ctx, theme, uuid.New()); !entitlement.IsDenied(err) {
		t.Errorf("other tenants must stay denied, got %v", err)
	}
}
