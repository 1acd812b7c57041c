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
	"github.com/jackc/pgx/v5/pgconn"

	"themeforge/internal/models"
)

// ErrEventNotFound is returned by writes that target a missing event.
var ErrEventNotFound = errors.New("event not found")

// ErrSlugTaken is returned by Create when another event already uses the slug.
var ErrSlugTaken = errors.New("event slug already in use")

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// EventStore handles event page records.
type EventStore struct {
	db *sql.DB
}

// NewEventStore creates a new EventStore.
func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

const eventColumns = `id, tenant_id, slug, title, description, venue, starts_at, theme_id, overrides, created_at, updated_at`

func scanEvent(scanner interface{ Scan(...any) error }) (*models.Event, error) {
	var e models.Event
	var startsAt sql.NullTime
	var themeID uuid.NullUUID
	var overrides []byte
	err := scanner.Scan(
		&e.ID, &e.TenantID, &e.Slug, &e.Title, &e.Description, &e.Venue,
		&startsAt, &themeID, &overrides, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if startsAt.Valid {
		e.StartsAt = &startsAt.Time
	}
	if themeID.Valid {
		e.ThemeID = &themeID.UUID
	}
	if err := json.Unmarshal(overrides, &e.Overrides); err != nil {
		return nil, fmt.Errorf("decode overrides of event %s: %w", e.ID, err)
	}
	return &e, nil
}

// FindBySlug retrieves an event by its public slug. Returns nil if not found.
func (s *EventStore) FindBySlug(ctx context.Context, slug string) (*models.Event, error) {
	return s.findOne(ctx, `SELECT `+eventColumns+` FROM events WHERE slug = $1`, slug)
}

// FindByID retrieves an event by its UUID. Returns nil if not found.
func (s *EventStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	return s.findOne(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
}

func (s *EventStore) findOne(ctx context.Context, q string, arg any) (*models.Event, error) {
	e, err := scanEvent(s.db.QueryRowContext(ctx, q, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find event: %w", err)
	}
	return e, nil
}

// Create inserts a new event. A non-nil ThemeID must already have passed
// the entitlement guard.
func (s *EventStore) Create(ctx context.Context, e *models.Event) (*models.Event, error) {
	overrides, err := json.Marshal(e.Overrides)
	if err != nil {
		return nil, fmt.Errorf("encode overrides: %w", err)
	}

	created, err := scanEvent(s.db.QueryRowContext(ctx, `
		INSERT INTO events (tenant_id, slug, title, description, venue, starts_at, theme_id, overrides)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+eventColumns,
		e.TenantID, e.Slug, e.Title, e.Description, e.Venue, e.StartsAt, e.ThemeID, overrides,
	))
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return nil, fmt.Errorf("create event %q: %w", e.Slug, ErrSlugTaken)
	}
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return created, nil
}

// UpdateOverrides replaces the event's override layer.
func (s *EventStore) UpdateOverrides(ctx context.Context, id uuid.UUID, overrides models.EventOverrides) error {
	b, err := json.Marshal(overrides)
	if err != nil {
		return fmt.Errorf("encode overrides: %w", err)
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE events SET overrides = $1, updated_at = NOW() WHERE id = $2
	`, b, id)
	if err != nil {
		return fmt.Errorf("update event overrides: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("update event overrides %s: %w", id, ErrEventNotFound)
	}
	return nil
}

// SetTheme pins the event to a theme, or clears the pin when themeID is nil
// so the page follows the tenant's branding theme.
func (s *EventStore) SetTheme(ctx context.Context, id uuid.UUID, themeID *uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE events SET theme_id = $1, updated_at = NOW() WHERE id = $2
	`, themeID, id)
	if err != nil {
		return fmt.Errorf("set event theme: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return fmt.Errorf("set event theme %s: %w", id, ErrEventNotFound)
	}
	return nil
}
