package handlers

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"

	"themeforge/internal/models"
)

func TestEventPage_Renders(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/e/demo-conf", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type: got %q", ct)
	}
	if got := rec.Header().Get("X-Cache"); got != "MISS" {
		t.Errorf("X-Cache: got %q, want MISS", got)
	}

	body := rec.Body.String()
	for _, want := range []string{
		"<title>Demo Conf</title>",
		"Demo Conf 2026",                     // event content beats theme default
		"--color-primary: #0ea5e9",           // branding beats theme color
		"--color-background: #ffffff",        // theme default
		"Default <strong>about</strong>",     // markdown body
		"theme-light",                        // #ffffff is on the light list
		"Demo Events",                        // footer site title
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body should contain %q", want)
		}
	}
	if strings.Contains(body, `id="faq"`) {
		t.Error("disabled faq section should not render")
	}
	if strings.Index(body, "hero") > strings.Index(body, `id="about"`) {
		t.Error("hero (order 0) should render before about (order 1)")
	}
	if !strings.Contains(body, "<footer") {
		t.Error("footer should always render")
	}
}

func TestEventPage_CacheHit(t *testing.T) {
	env := newTestEnv(t)

	first := env.do(http.MethodGet, "/e/demo-conf", "")
	second := env.do(http.MethodGet, "/e/demo-conf", "")

	if second.Header().Get("X-Cache") != "HIT" {
		t.Errorf("second request X-Cache: got %q, want HIT", second.Header().Get("X-Cache"))
	}
	if first.Body.String() != second.Body.String() {
		t.Error("cached page should equal the rendered page")
	}
}

func TestEventPage_InputChangeMissesCache(t *testing.T) {
	env := newTestEnv(t)

	env.do(http.MethodGet, "/e/demo-conf", "")

	// Changing branding changes the fingerprint even though the cache was
	// never invalidated.
	env.branding.Upsert(t.Context(), &models.Branding{
		TenantID:       tenantID,
		StyleOverrides: models.StyleOverrides{Colors: models.ColorMap{models.ColorPrimary: "#dc2626"}},
	})

	rec := env.do(http.MethodGet, "/e/demo-conf", "")
	if rec.Header().Get("X-Cache") != "MISS" {
		t.Errorf("X-Cache: got %q, want MISS after branding change", rec.Header().Get("X-Cache"))
	}
	if !strings.Contains(rec.Body.String(), "--color-primary: #dc2626") {
		t.Error("page should use the new branding color")
	}
}

func TestEventPage_EventThemeWins(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	dark := fixtureTheme(uuid.New(), "Midnight", false, 0, models.ThemeStatusActive)
	dark.DefaultProperties.Colors[models.ColorBackground] = "#020617"
	env.themes.put(dark)
	if err := env.events.SetTheme(ctx, eventID, &dark.ID); err != nil {
		t.Fatal(err)
	}

	rec := env.do(http.MethodGet, "/e/demo-conf", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "--color-background: #020617") {
		t.Error("event theme should override the branding theme")
	}
	if !strings.Contains(body, "theme-dark") {
		t.Error("a dark background should select the dark variant")
	}
}

func TestEventPage_Unavailable(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, env *testEnv)
		path  string
		want  int
	}{
		{
			name: "unknown slug",
			path: "/e/no-such-event",
			want: http.StatusNotFound,
		},
		{
			name: "no theme selected",
			setup: func(t *testing.T, env *testEnv) {
				env.branding.rows = map[uuid.UUID]models.Branding{}
			},
			path: "/e/demo-conf",
			want: http.StatusNotFound,
		},
		{
			name: "retired theme",
			setup: func(t *testing.T, env *testEnv) {
				env.themes.SetStatus(t.Context(), freeThemeID, models.ThemeStatusInactive)
			},
			path: "/e/demo-conf",
			want: http.StatusNotFound,
		},
		{
			name: "deleted theme",
			setup: func(t *testing.T, env *testEnv) {
				missing := uuid.New()
				env.events.SetTheme(t.Context(), eventID, &missing)
			},
			path: "/e/demo-conf",
			want: http.StatusNotFound,
		},
		{
			name: "store failure",
			setup: func(t *testing.T, env *testEnv) {
				env.events.err = errors.New("connection refused")
			},
			path: "/e/demo-conf",
			want: http.StatusInternalServerError,
		},
		{
			name: "incomplete catalog entry",
			setup: func(t *testing.T, env *testEnv) {
				broken := fixtureTheme(freeThemeID, "Aurora", false, 0, models.ThemeStatusActive)
				delete(broken.DefaultProperties.Colors, models.ColorText)
				env.themes.put(broken)
			},
			path: "/e/demo-conf",
			want: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.setup != nil {
				tt.setup(t, env)
			}
			rec := env.do(http.MethodGet, tt.path, "")
			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}
