package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"themeforge/internal/models"
)

// Fixed IDs for development seed data, so local URLs stay stable across
// database resets.
var (
	SeedFreeThemeID    = uuid.MustParse("0b7c1a52-3f4e-4d1a-9c55-6a1e2f3b4c01")
	SeedPremiumThemeID = uuid.MustParse("0b7c1a52-3f4e-4d1a-9c55-6a1e2f3b4c02")
	SeedTenantID       = uuid.MustParse("5d2e8f10-7a6b-4c3d-8e9f-1a2b3c4d5e01")
)

// SeedEventSlug is the public slug of the demo event page.
const SeedEventSlug = "demo-conf"

// Seed populates the database with initial development data: a free and a
// premium theme, a demo tenant with branding, and one event. It does
// nothing if any theme exists already.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM themes").Scan(&count); err != nil {
		return fmt.Errorf("seed check themes: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, th := range seedThemes() {
		if err := insertTheme(tx, th); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`
		INSERT INTO tenants (id, name, slug) VALUES ($1, $2, $3)
	`, SeedTenantID, "Demo Events", "demo-events"); err != nil {
		return fmt.Errorf("seed insert tenant: %w", err)
	}

	style, _ := json.Marshal(models.StyleOverrides{Colors: models.ColorMap{models.ColorPrimary: "#0ea5e9"}})
	site, _ := json.Marshal(models.SiteInfo{
		Title:        "Demo Events",
		Description:  "Events organized by the Demo Events team.",
		ContactEmail: "hello@demo-events.local",
	})
	if _, err := tx.Exec(`
		INSERT INTO tenant_branding (tenant_id, theme_id, style_overrides, assets, site_info)
		VALUES ($1, $2, $3, '{}', $4)
	`, SeedTenantID, SeedFreeThemeID, style, site); err != nil {
		return fmt.Errorf("seed insert branding: %w", err)
	}

	overrides, _ := json.Marshal(models.EventOverrides{
		ThemeContent: map[string]models.Content{
			"hero": {"title": "Demo Conf 2026", "subtitle": "Two days of talks and workshops"},
		},
	})
	startsAt := time.Date(2026, time.November, 12, 9, 0, 0, 0, time.UTC)
	if _, err := tx.Exec(`
		INSERT INTO events (tenant_id, slug, title, description, venue, starts_at, overrides)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, SeedTenantID, SeedEventSlug, "Demo Conf 2026", "A sample event page.", "Main Hall", startsAt, overrides); err != nil {
		return fmt.Errorf("seed insert event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with demo data",
		"tenant_id", SeedTenantID,
		"event_slug", SeedEventSlug,
	)
	return nil
}

// insertTheme writes one catalog entry with its JSON documents.
func insertTheme(tx *sql.Tx, th models.Theme) error {
	props, err := json.Marshal(th.DefaultProperties)
	if err != nil {
		return fmt.Errorf("seed marshal properties: %w", err)
	}
	structure, err := json.Marshal(th.TemplateStructure)
	if err != nil {
		return fmt.Errorf("seed marshal structure: %w", err)
	}
	content, err := json.Marshal(th.DefaultContent)
	if err != nil {
		return fmt.Errorf("seed marshal content: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO themes (id, name, category, is_premium, price, currency, status, version,
			default_properties, template_structure, default_content)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8, $9, $10)
	`, th.ID, th.Name, th.Category, th.IsPremium, th.Price, th.Currency, th.Status,
		props, string(structure), content)
	if err != nil {
		return fmt.Errorf("seed insert theme %q: %w", th.Name, err)
	}
	return nil
}

// seedThemes returns the demo catalog.
func seedThemes() []models.Theme {
	return []models.Theme{
		{
			ID:       SeedFreeThemeID,
			Name:     "Aurora",
			Category: "conference",
			Status:   models.ThemeStatusActive,
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
			TemplateStructure: models.TemplateStructure{Sections: []models.SectionSlot{
				{Name: "hero", Enabled: true, Order: 0},
				{Name: "about", Enabled: true, Order: 1},
				{Name: "schedule", Enabled: true, Order: 2},
				{Name: "speakers", Enabled: true, Order: 3},
				{Name: "venue", Enabled: true, Order: 4},
				{Name: "faq", Enabled: true, Order: 5},
				{Name: "gallery", Enabled: false, Order: 6},
			}},
			DefaultContent: map[string]models.Content{
				"hero":  {"title": "Your event", "cta_text": "Get tickets", "cta_url": "#tickets"},
				"about": {"body": "Tell attendees what makes this event worth their time."},
				"faq": {"items": []any{
					map[string]any{"question": "Is there parking?", "answer": "Yes, on site."},
				}},
			},
		},
		{
			ID:        SeedPremiumThemeID,
			Name:      "Gala Night",
			Category:  "festival",
			IsPremium: true,
			Price:     4900,
			Currency:  "EUR",
			Status:    models.ThemeStatusActive,
			DefaultProperties: models.ThemeProperties{
				Colors: models.ColorMap{
					models.ColorPrimary:    "#f59e0b",
					models.ColorSecondary:  "#ec4899",
					models.ColorBackground: "#0f172a",
					models.ColorText:       "#f8fafc",
				},
				Fonts:  models.Fonts{Heading: "Playfair Display", Body: "Lato"},
				Layout: "full-bleed",
			},
			TemplateStructure: models.TemplateStructure{Sections: []models.SectionSlot{
				{Name: "hero", Enabled: true, Order: 0},
				{Name: "features", Enabled: true, Order: 1},
				{Name: "tickets", Enabled: true, Order: 2},
				{Name: "gallery", Enabled: true, Order: 2},
				{Name: "venue", Enabled: true, Order: 3},
			}},
			DefaultContent: map[string]models.Content{
				"hero":    {"title": "A night to remember"},
				"tickets": {"tiers": []any{map[string]any{"name": "General", "price": "49 EUR"}}},
			},
		},
	}
}
