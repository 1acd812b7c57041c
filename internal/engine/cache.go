// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// cache.go provides the in-memory cache of resolved plans (L1). Plans are
// keyed by theme ID and input fingerprint, so any change to the theme,
// branding or event yields a new key and a cache miss.
package engine

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// DefaultMaxPlans bounds the plan cache when no size is configured.
const DefaultMaxPlans = 1024

// cacheKey uniquely identifies a resolved plan.
type cacheKey struct {
	themeID     uuid.UUID
	fingerprint string
}

// planCache is a concurrency-safe in-memory cache of resolved plans.
type planCache struct {
	mu      sync.RWMutex
	entries map[cacheKey]*Plan
	limit   int
}

// newPlanCache creates an empty plan cache holding at most limit entries.
func newPlanCache(limit int) *planCache {
	if limit <= 0 {
		limit = DefaultMaxPlans
	}
	return &planCache{
		entries: make(map[cacheKey]*Plan),
		limit:   limit,
	}
}

// get retrieves a plan from cache. Returns nil on miss.
func (c *planCache) get(themeID uuid.UUID, fingerprint string) *Plan {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[cacheKey{themeID: themeID, fingerprint: fingerprint}]
}

// put stores a plan. A full cache is cleared first; stale fingerprints are
// never read again, so a wholesale reset is enough.
func (c *planCache) put(themeID uuid.UUID, fingerprint string, plan *Plan) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.limit {
		c.entries = make(map[cacheKey]*Plan)
		slog.Debug("plan cache full, cleared", "limit", c.limit)
	}
	c.entries[cacheKey{themeID: themeID, fingerprint: fingerprint}] = plan
	slog.Debug("plan cached", "theme_id", themeID, "size", len(c.entries))
}

// invalidate removes all cached plans for a theme. Called when a catalog
// entry is updated or its status changes.
func (c *planCache) invalidate(themeID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.themeID == themeID {
			delete(c.entries, k)
		}
	}
	slog.Debug("plan cache invalidated", "theme_id", themeID)
}

// invalidateAll clears the entire cache.
func (c *planCache) invalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]*Plan)
	slog.Debug("plan cache fully cleared")
}

// len returns the number of cached plans.
func (c *planCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
