// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"themeforge/internal/models"
)

func TestTenantStore_FindMissing(t *testing.T) {
	db := testDB(t)
	got, err := NewTenantStore(db).FindByID(context.Background(), uuid.New())
	if err != nil || got != nil {
		t.Errorf("FindByID = %v, %v; want nil, nil", got, err)
	}
}

func TestTenantStore_DuplicateSlug(t *testing.T) {
	db := testDB(t)
	tenant := createTestTenant(t, db)

	_, err := NewTenantStore(db).Create(context.Background(), &models.Tenant{Name: "Copycat", Slug: tenant.Slug})
	if !errors.Is(err, ErrTenantSlugTaken) {
		t.Errorf("Create with a taken slug = %v, want ErrTenantSlugTaken", err)
	}
}

func TestBrandingStore_UpsertAndSetTheme(t *testing.T) {
	db := testDB(t)
	s := NewBrandingStore(db)
	ctx := context.Background()
	tenant := createTestTenant(t, db)
	theme := createTestTheme(t, db, false, 0)

	if b, err := s.FindByTenant(ctx, tenant.ID); err != nil || b != nil {
		t.Fatalf("FindByTenant before upsert = %v, %v", b, err)
	}

	err := s.Upsert(ctx, &models.Branding{
		TenantID:       tenant.ID,
		StyleOverrides: models.StyleOverrides{Colors: models.ColorMap{models.ColorPrimary: "#0ea5e9"}},
		SiteInfo:       models.SiteInfo{Title: "Acme", SocialLinks: map[string]string{"x": "https://x.example/acme"}},
	})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := s.SetTheme(ctx, tenant.ID, theme.ID); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	// A later upsert keeps the selected theme.
	err = s.Upsert(ctx, &models.Branding{
		TenantID:       tenant.ID,
		StyleOverrides: models.StyleOverrides{Colors: models.ColorMap{models.ColorPrimary: "#f97316"}},
		SiteInfo:       models.SiteInfo{Title: "Acme"},
	})
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	b, err := s.FindByTenant(ctx, tenant.ID)
	if err != nil {
		t.Fatalf("FindByTenant: %v", err)
	}
	if b.ThemeID == nil || *b.ThemeID != theme.ID {
		t.Errorf("theme id = %v, want %s", b.ThemeID, theme.ID)
	}
	if b.StyleOverrides.Colors[models.ColorPrimary] != "#f97316" || b.SiteInfo.Title != "Acme" {
		t.Errorf("branding not updated: %+v", b)
	}
}

func TestEventStore_Lifecycle(t *testing.T) {
	db := testDB(t)
	s := NewEventStore(db)
	ctx := context.Background()
	tenant := createTestTenant(t, db)
	theme := createTestTheme(t, db, false, 0)

	startsAt := time.Date(2026, time.December, 1, 18, 0, 0, 0, time.UTC)
	slug := "test-event-" + uuid.NewString()[:8]
	created, err := s.Create(ctx, &models.Event{
		TenantID: tenant.ID,
		Slug:     slug,
		Title:    "Test Event",
		StartsAt: &startsAt,
		ThemeID:  &theme.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	overrides := models.EventOverrides{
		ThemeCustomization: models.ThemeCustomization{PrimaryColor: "#ef4444"},
		ThemeContent:       map[string]models.Content{"hero": {"title": "Override"}},
	}
	if err := s.UpdateOverrides(ctx, created.ID, overrides); err != nil {
		t.Fatalf("UpdateOverrides: %v", err)
	}

	got, err := s.FindBySlug(ctx, slug)
	if err != nil || got == nil {
		t.Fatalf("FindBySlug = %v, %v", got, err)
	}
	if got.Overrides.ThemeCustomization.PrimaryColor != "#ef4444" || got.Overrides.ThemeContent["hero"]["title"] != "Override" {
		t.Errorf("overrides not persisted: %+v", got.Overrides)
	}
	if got.ThemeID == nil || *got.ThemeID != theme.ID {
		t.Errorf("theme id = %v", got.ThemeID)
	}
	if got.StartsAt == nil || !got.StartsAt.Equal(startsAt) {
		t.Errorf("starts_at = %v", got.StartsAt)
	}

	if err := s.SetTheme(ctx, created.ID, nil); err != nil {
		t.Fatalf("SetTheme(nil): %v", err)
	}
	got, _ = s.FindByID(ctx, created.ID)
	if got.ThemeID != nil {
		t.Errorf("theme id should be cleared, got %v", got.ThemeID)
	}

	if err := s.UpdateOverrides(ctx, uuid.New(), overrides); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("expected ErrEventNotFound, got %v", err)
	}
	if e, err := s.FindBySlug(ctx, "no-such-event-"+uuid.NewString()); err != nil || e != nil {
		t.Errorf("FindBySlug missing = %v, %v", e, err)
	}

	_, err = s.Create(ctx, &models.Event{TenantID: tenant.ID, Slug: slug, Title: "Duplicate"})
	if !errors.Is(err, ErrSlugTaken) {
		t.Errorf("duplicate slug: expected ErrSlugTaken, got %v", err)
	}
}
