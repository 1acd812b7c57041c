package store

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"

	"themeforge/internal/config"
	"themeforge/internal/database"
	"themeforge/internal/models"
)

// testDB connects to the PostgreSQL named by the POSTGRES_* variables,
// migrates it, and skips the test when no server answers.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	cfg := config.Config{
		DBHost:     envOr("POSTGRES_HOST", "localhost"),
		DBPort:     envOr("POSTGRES_PORT", "5432"),
		DBUser:     envOr("POSTGRES_USER", "themeforge"),
		DBPassword: envOr("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOr("POSTGRES_DB", "themeforge"),
	}

	ctx, cancel := context.WithTimeout(t.Context(), 3*time.Second)
	defer cancel()
	db, err := database.Connect(ctx, cfg.DSN(), database.PoolConfig{MaxOpenConns: 4})
	if err != nil {
		t.Skipf("skipping integration test: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)
	return db
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// createTestTenant inserts a tenant with a unique slug and removes it (and
// its branding, events and entitlements by cascade) when the test ends.
func createTestTenant(t *testing.T, db *sql.DB) *models.Tenant {
	t.Helper()
	tenant, err := NewTenantStore(db).Create(context.Background(), &models.Tenant{
		Name: "Test Tenant",
		Slug: "test-tenant-" + uuid.NewString()[:8],
	})
	if err != nil {
		t.Fatalf("create tenant: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM tenants WHERE id = $1", tenant.ID)
	})
	return tenant
}

// createTestTheme inserts a complete theme and publishes it unless status
// says otherwise. It is removed when the test ends.
func createTestTheme(t *testing.T, db *sql.DB, premium bool, price int64) *models.Theme {
	t.Helper()
	ctx := context.Background()
	s := NewThemeStore(db)

	theme, err := s.Create(ctx, sampleTheme(premium, price))
	if err != nil {
		t.Fatalf("create theme: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM theme_entitlements WHERE theme_id = $1", theme.ID)
		db.Exec("DELETE FROM themes WHERE id = $1", theme.ID)
	})

	if err := s.SetStatus(ctx, theme.ID, models.ThemeStatusActive); err != nil {
		t.Fatalf("publish theme: %v", err)
	}
	theme, err = s.FindByID(ctx, theme.ID)
	if err != nil {
		t.Fatalf("reload theme: %v", err)
	}
	return theme
}

func sampleTheme(premium bool, price int64) *models.Theme {
	currency := ""
	if premium {
		currency = "EUR"
	}
	return &models.Theme{
		Name:      "Test Theme " + uuid.NewString()[:8],
		Category:  "conference",
		IsPremium: premium,
		Price:     price,
		Currency:  currency,
		DefaultProperties: models.ThemeProperties{
			Colors: models.ColorMap{
				models.ColorPrimary:    "#10b981",
				models.ColorSecondary:  "#6366f1",
				models.ColorBackground: "#ffffff",
				models.ColorText:       "#111827",
			},
			Fonts:  models.Fonts{Heading: "Poppins", Body: "Inter"},
			Layout: "wide",
		},
		// zeta sorts after alpha but comes first in the document.
		TemplateStructure: models.TemplateStructure{Sections: []models.SectionSlot{
			{Name: "zeta", Enabled: true, Order: 1},
			{Name: "hero", Enabled: true, Order: 0},
			{Name: "faq", Enabled: true, Order: 1},
			{Name: "about", Enabled: false, Order: 2},
		}},
		DefaultContent: map[string]models.Content{
			"hero": {"title": "Welcome"},
		},
	}
}
