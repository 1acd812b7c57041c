// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Kinds of entity whose change purges rendered pages.
const (
	EntityTheme    = "theme"
	EntityBranding = "branding"
	EntityEvent    = "event"
)

// CacheLogEntry is one row of the invalidation audit trail.
type CacheLogEntry struct {
	ID            int64     `json:"id"`
	EntityType    string    `json:"entity_type"`
	EntityID      uuid.UUID `json:"entity_id"`
	Action        string    `json:"action"`
	InvalidatedAt time.Time `json:"invalidated_at"`
}

// CacheLogStore appends to and reads the cache_invalidation_log table.
type CacheLogStore struct {
	db *sql.DB
}

func NewCacheLogStore(db *sql.DB) *CacheLogStore {
	return &CacheLogStore{db: db}
}

// Log appends an entry. Failures are logged and swallowed: the purge it
// describes has already happened.
func (s *CacheLogStore) Log(ctx context.Context, entityType string, entityID uuid.UUID, action string) {
	attrs := slog.Group("invalidation",
		slog.String("entity_type", entityType),
		slog.String("entity_id", entityID.String()),
		slog.String("action", action),
	)

	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO cache_invalidation_log (entity_type, entity_id, action)
		 VALUES ($1, $2, $3) RETURNING id`,
		entityType, entityID, action,
	).Scan(&id)
	if err != nil {
		slog.WarnContext(ctx, "cache log write failed", attrs, "error", err)
		return
	}
	slog.DebugContext(ctx, "cache log written", attrs, "id", id)
}

// RecentEntries returns up to limit entries, newest first. Entries written
// in the same instant are ordered by id.
func (s *CacheLogStore) RecentEntries(ctx context.Context, limit int) ([]CacheLogEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, entity_type, entity_id, action, invalidated_at
		 FROM cache_invalidation_log
		 ORDER BY invalidated_at DESC, id DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("cache log: query: %w", err)
	}
	defer rows.Close()

	entries := make([]CacheLogEntry, 0, limit)
	for rows.Next() {
		var e CacheLogEntry
		if err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.Action, &e.InvalidatedAt); err != nil {
			return nil, fmt.Errorf("cache log: scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cache log: rows: %w", err)
	}
	return entries, nil
}
