// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// fakes_test.go provides in-memory repositories so handler tests run
// without PostgreSQL or Valkey.
package handlers

import (
	"context"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"themeforge/internal/cache"
	"themeforge/internal/engine"
	"themeforge/internal/entitlement"
	"themeforge/internal/models"
	"themeforge/internal/sections"
	"themeforge/internal/store"
)

type memThemes struct {
	mu     sync.Mutex
	themes map[uuid.UUID]models.Theme
	order  []uuid.UUID
}

func newMemThemes(themes ...models.Theme) *memThemes {
	m := &memThemes{themes: make(map[uuid.UUID]models.Theme)}
	for _, t := range themes {
		m.put(t)
	}
	return m
}

func (m *memThemes) put(t models.Theme) {
	if _, ok := m.themes[t.ID]; !ok {
		m.order = append(m.order, t.ID)
	}
	m.themes[t.ID] = t
}

func (m *memThemes) List(ctx context.Context) ([]models.Theme, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Theme, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.themes[id])
	}
	return out, nil
}

func (m *memThemes) ListPublished(ctx context.Context) ([]models.Theme, error) {
	all, _ := m.List(ctx)
	var out []models.Theme
	for _, t := range all {
		if t.IsActive() {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memThemes) FindByID(ctx context.Context, id uuid.UUID) (*models.Theme, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.themes[id]
	if !ok {
		return nil, &engine.UnknownThemeError{ThemeID: id}
	}
	return &t, nil
}

func (m *memThemes) Create(ctx context.Context, t *models.Theme) (*models.Theme, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	created := *t
	created.ID = uuid.New()
	created.Status = models.ThemeStatusDraft
	created.Version = 1
	m.put(created)
	return &created, nil
}

func (m *memThemes) Update(ctx context.Context, t *models.Theme) (*models.Theme, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.themes[t.ID]
	if !ok {
		return nil, &engine.UnknownThemeError{ThemeID: t.ID}
	}
	updated := *t
	updated.Status = current.Status
	updated.Version = current.Version + 1
	m.put(updated)
	return &updated, nil
}

func (m *memThemes) SetStatus(ctx context.Context, id uuid.UUID, status models.ThemeStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.themes[id]
	if !ok {
		return &engine.UnknownThemeError{ThemeID: id}
	}
	t.Status = status
	m.themes[id] = t
	return nil
}

type memTenants map[uuid.UUID]*models.Tenant

func (m memTenants) FindByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	return m[id], nil
}

func (m memTenants) Create(ctx context.Context, t *models.Tenant) (*models.Tenant, error) {
	for _, existing := range m {
		if existing.Slug == t.Slug {
			return nil, fmt.Errorf("create tenant %q: %w", t.Slug, store.ErrTenantSlugTaken)
		}
	}
	created := &models.Tenant{ID: uuid.New(), Name: t.Name, Slug: t.Slug, CreatedAt: time.Now().UTC()}
	m[created.ID] = created
	return created, nil
}

type memBranding struct {
	mu   sync.Mutex
	rows map[uuid.UUID]models.Branding
}

func newMemBranding(rows ...models.Branding) *memBranding {
	m := &memBranding{rows: make(map[uuid.UUID]models.Branding)}
	for _, b := range rows {
		m.rows[b.TenantID] = b
	}
	return m
}

func (m *memBranding) FindByTenant(ctx context.Context, tenantID uuid.UUID) (*models.Branding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[tenantID]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (m *memBranding) Upsert(ctx context.Context, b *models.Branding) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current := m.rows[b.TenantID]
	current.TenantID = b.TenantID
	current.StyleOverrides = b.StyleOverrides
	current.Assets = b.Assets
	current.SiteInfo = b.SiteInfo
	m.rows[b.TenantID] = current
	return nil
}

func (m *memBranding) SetTheme(ctx context.Context, tenantID, themeID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current := m.rows[tenantID]
	current.TenantID = tenantID
	current.ThemeID = &themeID
	m.rows[tenantID] = current
	return nil
}

type memEvents struct {
	mu     sync.Mutex
	events map[uuid.UUID]models.Event
	err    error
}

func newMemEvents(events ...models.Event) *memEvents {
	m := &memEvents{events: make(map[uuid.UUID]models.Event)}
	for _, e := range events {
		m.events[e.ID] = e
	}
	return m
}

func (m *memEvents) FindBySlug(ctx context.Context, slug string) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, e := range m.events {
		if e.Slug == slug {
			return &e, nil
		}
	}
	return nil, nil
}

func (m *memEvents) FindByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *memEvents) Create(ctx context.Context, e *models.Event) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.events {
		if existing.Slug == e.Slug {
			return nil, fmt.Errorf("create event %q: %w", e.Slug, store.ErrSlugTaken)
		}
	}
	created := *e
	created.ID = uuid.New()
	m.events[created.ID] = created
	return &created, nil
}

func (m *memEvents) UpdateOverrides(ctx context.Context, id uuid.UUID, overrides models.EventOverrides) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return store.ErrEventNotFound
	}
	e.Overrides = overrides
	m.events[id] = e
	return nil
}

func (m *memEvents) SetTheme(ctx context.Context, id uuid.UUID, themeID *uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return store.ErrEventNotFound
	}
	e.ThemeID = themeID
	m.events[id] = e
	return nil
}

type memPageCache struct {
	mu          sync.Mutex
	pages       map[string][]byte
	invalidated []string
}

func newMemPageCache() *memPageCache {
	return &memPageCache{pages: make(map[string][]byte)}
}

func (c *memPageCache) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.pages[key]
	return b, ok
}

func (c *memPageCache) Set(ctx context.Context, key string, html []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[key] = html
}

func (c *memPageCache) InvalidateEvent(ctx context.Context, slug string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, "event:"+slug)
	for k := range c.pages {
		if strings.HasPrefix(k, "event:"+slug+":") {
			delete(c.pages, k)
		}
	}
}

func (c *memPageCache) InvalidateAll(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, "all")
	c.pages = make(map[string][]byte)
}

type memLog struct {
	mu      sync.Mutex
	entries []string
	records []store.CacheLogEntry
}

func (l *memLog) Log(ctx context.Context, entityType string, entityID uuid.UUID, action string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entityType+":"+action)
	l.records = append(l.records, store.CacheLogEntry{
		ID:         int64(len(l.records) + 1),
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
	})
}

func (l *memLog) RecentEntries(ctx context.Context, limit int) ([]store.CacheLogEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []store.CacheLogEntry
	for i := len(l.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, l.records[i])
	}
	return out, nil
}

// Fixture ids shared by the handler tests.
var (
	tenantID     = uuid.MustParse("00000000-0000-0000-0000-0000000000a1")
	otherTenant  = uuid.MustParse("00000000-0000-0000-0000-0000000000a2")
	freeThemeID  = uuid.MustParse("00000000-0000-0000-0000-0000000000f1")
	paidThemeID  = uuid.MustParse("00000000-0000-0000-0000-0000000000f2")
	draftThemeID = uuid.MustParse("00000000-0000-0000-0000-0000000000f3")
	eventID      = uuid.MustParse("00000000-0000-0000-0000-0000000000e1")
)

func fixtureTheme(id uuid.UUID, name string, premium bool, price int64, status models.ThemeStatus) models.Theme {
	return models.Theme{
		ID:        id,
		Name:      name,
		Category:  "conference",
		IsPremium: premium,
		Price:     price,
		Currency:  "EUR",
		Status:    status,
		Version:   1,
		DefaultProperties: models.ThemeProperties{
			Colors: models.ColorMap{
				models.ColorPrimary:    "#2563eb",
				models.ColorSecondary:  "#64748b",
				models.ColorBackground: "#ffffff",
				models.ColorText:       "#0f172a",
			},
			Fonts:  models.Fonts{Heading: "Inter", Body: "Inter"},
			Layout: "stacked",
		},
		TemplateStructure: models.TemplateStructure{Sections: []models.SectionSlot{
			{Name: "hero", Enabled: true, Order: 0},
			{Name: "about", Enabled: true, Order: 1},
			{Name: "faq", Enabled: false, Order: 2},
		}},
		DefaultContent: map[string]models.Content{
			"hero":  {"title": "Default title"},
			"about": {"body": "Default **about**"},
		},
	}
}

// testEnv bundles the fakes behind a chi router mirroring the production
// routes that the tests exercise.
type testEnv struct {
	themes       *memThemes
	tenants      memTenants
	branding     *memBranding
	events       *memEvents
	entitlements *entitlement.MemoryStore
	pageCache    *memPageCache
	log          *memLog
	engine       *engine.Engine
	public       *Public
	api          *API
	router       chi.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	registry, err := sections.NewRegistry()
	if err != nil {
		t.Fatalf("sections registry: %v", err)
	}
	layout, err := sections.NewLayout()
	if err != nil {
		t.Fatalf("sections layout: %v", err)
	}

	env := &testEnv{
		themes: newMemThemes(
			fixtureTheme(freeThemeID, "Aurora", false, 0, models.ThemeStatusActive),
			fixtureTheme(paidThemeID, "Gala", true, 4900, models.ThemeStatusActive),
			fixtureTheme(draftThemeID, "Sketch", false, 0, models.ThemeStatusDraft),
		),
		branding: newMemBranding(models.Branding{
			TenantID:       tenantID,
			ThemeID:        &freeThemeID,
			StyleOverrides: models.StyleOverrides{Colors: models.ColorMap{models.ColorPrimary: "#0ea5e9"}},
			SiteInfo:       models.SiteInfo{Title: "Demo Events"},
		}),
		events: newMemEvents(models.Event{
			ID:       eventID,
			TenantID: tenantID,
			Slug:     "demo-conf",
			Title:    "Demo Conf",
			Overrides: models.EventOverrides{
				ThemeContent: map[string]models.Content{"hero": {"title": "Demo Conf 2026"}},
			},
		}),
		entitlements: entitlement.NewMemoryStore(),
		pageCache:    newMemPageCache(),
		log:          &memLog{},
		engine:       engine.New(registry, layout, 16),
	}
	env.tenants = memTenants{
		tenantID:    {ID: tenantID, Name: "Demo Events", Slug: "demo-events"},
		otherTenant: {ID: otherTenant, Name: "Other", Slug: "other"},
	}

	env.public = NewPublic(env.engine, env.themes, env.tenants, env.branding, env.events, env.pageCache)
	env.api = NewAPI(env.engine, env.themes, env.tenants, env.branding, env.events, env.entitlements, env.pageCache, env.log)

	r := chi.NewRouter()
	r.Get("/e/{slug}", env.public.EventPage)
	r.Route("/api", func(r chi.Router) {
		r.Get("/themes", env.api.ListThemes)
		r.Post("/themes", env.api.CreateTheme)
		r.Get("/themes/{themeID}", env.api.GetTheme)
		r.Put("/themes/{themeID}", env.api.UpdateTheme)
		r.Post("/themes/{themeID}/publish", env.api.PublishTheme)
		r.Post("/themes/{themeID}/retire", env.api.RetireTheme)
		r.Post("/tenants", env.api.CreateTenant)
		r.Get("/tenants/{tenantID}/themes/{themeID}/ownership", env.api.Ownership)
		r.Post("/tenants/{tenantID}/purchases", env.api.Purchase)
		r.Delete("/tenants/{tenantID}/entitlements/{themeID}", env.api.RevokeEntitlement)
		r.Put("/tenants/{tenantID}/branding", env.api.UpdateBranding)
		r.Put("/tenants/{tenantID}/branding/theme", env.api.SetBrandingTheme)
		r.Post("/tenants/{tenantID}/events", env.api.CreateEvent)
		r.Get("/events/{eventID}", env.api.GetEvent)
		r.Put("/events/{eventID}/overrides", env.api.UpdateEventOverrides)
		r.Put("/events/{eventID}/theme", env.api.SetEventTheme)
		r.Get("/events/{eventID}/plan", env.api.EventPlan)
		r.Post("/events/{eventID}/preview", env.api.EventPreview)
		r.Get("/cache/log", env.api.CacheLog)
	})
	env.router = r
	return env
}

// do sends a request through the router and returns the recorder.
func (env *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

// Compile-time checks that the fakes and the real stores satisfy the
// handler interfaces.
var (
	_ ThemeRepository    = (*memThemes)(nil)
	_ ThemeRepository    = (*store.ThemeStore)(nil)
	_ TenantRepository   = (*store.TenantStore)(nil)
	_ TenantRepository   = memTenants(nil)
	_ BrandingRepository = (*store.BrandingStore)(nil)
	_ EventRepository    = (*store.EventStore)(nil)
	_ EntitlementLedger  = (*store.EntitlementStore)(nil)
	_ EntitlementLedger  = (*entitlement.MemoryStore)(nil)
	_ InvalidationLog    = (*store.CacheLogStore)(nil)
	_ InvalidationLog    = (*memLog)(nil)
	_ PageCache          = (*memPageCache)(nil)
	_ PageCache          = (*cache.PageCache)(nil)
)
