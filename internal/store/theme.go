// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access for themes, tenants, branding,
// events, entitlements and the cache log. Each store wraps a *sql.DB and
// exposes typed query methods.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"themeforge/internal/engine"
	"themeforge/internal/models"
)

// ThemeStore handles all theme catalog database operations.
type ThemeStore struct {
	db *sql.DB
}

// NewThemeStore creates a new ThemeStore with the given database connection.
func NewThemeStore(db *sql.DB) *ThemeStore {
	return &ThemeStore{db: db}
}

// themeColumns lists the columns selected in theme queries.
const themeColumns = `id, name, category, is_premium, price, currency, status, version,
	default_properties, template_structure, default_content, created_at, updated_at`

// scanTheme scans a theme row and decodes its JSON documents.
func scanTheme(scanner interface{ Scan(...any) error }) (*models.Theme, error) {
	var t models.Theme
	var props, structure, content []byte
	err := scanner.Scan(
		&t.ID, &t.Name, &t.Category, &t.IsPremium, &t.Price, &t.Currency, &t.Status, &t.Version,
		&props, &structure, &content, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(props, &t.DefaultProperties); err != nil {
		return nil, fmt.Errorf("decode default_properties of theme %s: %w", t.ID, err)
	}
	if err := json.Unmarshal(structure, &t.TemplateStructure); err != nil {
		return nil, fmt.Errorf("decode template_structure of theme %s: %w", t.ID, err)
	}
	if err := json.Unmarshal(content, &t.DefaultContent); err != nil {
		return nil, fmt.Errorf("decode default_content of theme %s: %w", t.ID, err)
	}
	return &t, nil
}

// themeDocuments encodes the JSON documents of a theme for writing. The
// structure is passed as text so the json column keeps its key order.
func themeDocuments(t *models.Theme) (props []byte, structure string, content []byte, err error) {
	if props, err = json.Marshal(t.DefaultProperties); err != nil {
		return nil, "", nil, fmt.Errorf("encode default_properties: %w", err)
	}
	s, err := json.Marshal(t.TemplateStructure)
	if err != nil {
		return nil, "", nil, fmt.Errorf("encode template_structure: %w", err)
	}
	defaults := t.DefaultContent
	if defaults == nil {
		defaults = map[string]models.Content{}
	}
	if content, err = json.Marshal(defaults); err != nil {
		return nil, "", nil, fmt.Errorf("encode default_content: %w", err)
	}
	return props, string(s), content, nil
}

// List returns every catalog entry ordered by name.
func (s *ThemeStore) List(ctx context.Context) ([]models.Theme, error) {
	return s.query(ctx, `SELECT `+themeColumns+` FROM themes ORDER BY name, id`)
}

// ListPublished returns the active catalog entries ordered by name.
func (s *ThemeStore) ListPublished(ctx context.Context) ([]models.Theme, error) {
	return s.query(ctx, `SELECT `+themeColumns+` FROM themes WHERE status = 'active' ORDER BY name, id`)
}

func (s *ThemeStore) query(ctx context.Context, q string, args ...any) ([]models.Theme, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list themes: %w", err)
	}
	defer rows.Close()

	var themes []models.Theme
	for rows.Next() {
		t, err := scanTheme(rows)
		if err != nil {
			return nil, fmt.Errorf("scan theme: %w", err)
		}
		themes = append(themes, *t)
	}
	return themes, rows.Err()
}

// FindByID retrieves a theme by its UUID. A missing theme yields an
// *engine.UnknownThemeError.
func (s *ThemeStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Theme, error) {
	t, err := scanTheme(s.db.QueryRowContext(ctx, `SELECT `+themeColumns+` FROM themes WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &engine.UnknownThemeError{ThemeID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("find theme by id: %w", err)
	}
	return t, nil
}

// Create inserts a new catalog entry as a draft at version 1. It does NOT
// publish it.
func (s *ThemeStore) Create(ctx context.Context, t *models.Theme) (*models.Theme, error) {
	props, structure, content, err := themeDocuments(t)
	if err != nil {
		return nil, fmt.Errorf("create theme: %w", err)
	}

	created, err := scanTheme(s.db.QueryRowContext(ctx, `
		INSERT INTO themes (name, category, is_premium, price, currency, status, version,
			default_properties, template_structure, default_content)
		VALUES ($1, $2, $3, $4, $5, 'draft', 1, $6, $7, $8)
		RETURNING `+themeColumns,
		t.Name, t.Category, t.IsPremium, t.Price, t.Currency, props, structure, content,
	))
	if err != nil {
		return nil, fmt.Errorf("create theme: %w", err)
	}
	return created, nil
}

// Update replaces a theme's catalog fields and increments its version. The
// status is left unchanged; use SetStatus for lifecycle changes.
func (s *ThemeStore) Update(ctx context.Context, t *models.Theme) (*models.Theme, error) {
	props, structure, content, err := themeDocuments(t)
	if err != nil {
		return nil, fmt.Errorf("update theme: %w", err)
	}

	updated, err := scanTheme(s.db.QueryRowContext(ctx, `
		UPDATE themes SET
			name = $1, category = $2, is_premium = $3, price = $4, currency = $5,
			default_properties = $6, template_structure = $7, default_content = $8,
			version = version + 1, updated_at = NOW()
		WHERE id = $9
		RETURNING `+themeColumns,
		t.Name, t.Category, t.IsPremium, t.Price, t.Currency, props, structure, content, t.ID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &engine.UnknownThemeError{ThemeID: t.ID}
	}
	if err != nil {
		return nil, fmt.Errorf("update theme: %w", err)
	}
	return updated, nil
}

// SetStatus moves a theme through its lifecycle. Publishing (active)
// requires the stored entry to pass engine.ValidateTheme.
func (s *ThemeStore) SetStatus(ctx context.Context, id uuid.UUID, status models.ThemeStatus) error {
	if !status.Valid() {
		return fmt.Errorf("set theme status: unknown status %q", status)
	}

	if status == models.ThemeStatusActive {
		t, err := s.FindByID(ctx, id)
		if err != nil {
			return err
		}
		t.Status = status
		if err := engine.ValidateTheme(t); err != nil {
			return err
		}
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE themes SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, id)
	if err != nil {
		return fmt.Errorf("set theme status: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return &engine.UnknownThemeError{ThemeID: id}
	}
	return nil
}

// Count returns the total number of catalog entries.
func (s *ThemeStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM themes`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count themes: %w", err)
	}
	return count, nil
}
