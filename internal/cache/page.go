// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// page.go provides a Valkey-backed full-page HTML cache (L2).
// Rendered event pages are stored under the event slug plus the
// fingerprint of every input that shaped them, so an edit to the theme,
// branding or event produces a new key instead of a stale hit.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	pageKeyPrefix = "page:"

	// DefaultPageTTL is how long a rendered page stays cached.
	DefaultPageTTL = 5 * time.Minute

	// scanBatch is the SCAN COUNT hint used while invalidating.
	scanBatch = 100
)

// PageCache stores rendered event pages in Valkey. Cache failures are
// logged and treated as misses; a page is always renderable without it.
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache creates a page cache over client. A ttl <= 0 selects
// DefaultPageTTL.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	if ttl <= 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{client: client, ttl: ttl}
}

// Get returns the cached HTML for key. It reports false on a miss or error.
func (pc *PageCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := pc.client.Get(ctx, pageKeyPrefix+key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, false
	case err != nil:
		slog.Warn("page cache get error", "key", key, "error", err)
		return nil, false
	}
	return val, true
}

// Set stores rendered HTML under key for the configured TTL.
func (pc *PageCache) Set(ctx context.Context, key string, html []byte) {
	if err := pc.client.Set(ctx, pageKeyPrefix+key, html, pc.ttl).Err(); err != nil {
		slog.Warn("page cache set error", "key", key, "error", err)
	}
}

// InvalidateEvent removes every cached rendition of an event page. Old
// fingerprints are unreachable anyway; this frees them before their TTL.
func (pc *PageCache) InvalidateEvent(ctx context.Context, slug string) {
	deleted := pc.deleteMatching(ctx, pageKeyPrefix+eventPrefix(slug)+"*")
	slog.Debug("event page cache invalidated", "slug", slug, "deleted", deleted)
}

// InvalidateAll removes all cached pages by scanning for the prefix.
// Used when a catalog theme changes, since any page could use it.
func (pc *PageCache) InvalidateAll(ctx context.Context) {
	if deleted := pc.deleteMatching(ctx, pageKeyPrefix+"*"); deleted > 0 {
		slog.Info("page cache fully cleared", "deleted", deleted)
	}
}

// deleteMatching walks the keyspace with SCAN and unlinks every key
// matching pattern. It returns the number of keys removed.
func (pc *PageCache) deleteMatching(ctx context.Context, pattern string) int {
	var deleted int
	iter := pc.client.Scan(ctx, 0, pattern, scanBatch).Iterator()
	batch := make([]string, 0, scanBatch)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		n, err := pc.client.Unlink(ctx, batch...).Result()
		if err != nil {
			slog.Warn("page cache unlink error", "pattern", pattern, "error", err)
		}
		deleted += int(n)
		batch = batch[:0]
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			flush()
		}
	}
	flush()
	if err := iter.Err(); err != nil {
		slog.Warn("page cache scan error", "pattern", pattern, "error", err)
	}
	return deleted
}

func eventPrefix(slug string) string {
	return "event:" + slug + ":"
}

// EventKey returns the cache key for an event page rendered from inputs
// with the given fingerprint.
func EventKey(slug, fingerprint string) string {
	return eventPrefix(slug) + fingerprint
}
