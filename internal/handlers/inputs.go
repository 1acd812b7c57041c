// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"themeforge/internal/engine"
	"themeforge/internal/models"
)

// pageSource loads the records an event page is built from.
type pageSource struct {
	themes   ThemeRepository
	tenants  TenantRepository
	branding BrandingRepository
}

// inputs fetches the tenant, branding and effective theme for event. The
// event's own theme wins over the tenant's branding theme; with neither,
// errNoTheme is returned.
func (s pageSource) inputs(ctx context.Context, event *models.Event) (engine.Inputs, error) {
	tenant, err := s.tenants.FindByID(ctx, event.TenantID)
	if err != nil {
		return engine.Inputs{}, fmt.Errorf("load tenant %s: %w", event.TenantID, err)
	}

	branding, err := s.branding.FindByTenant(ctx, event.TenantID)
	if err != nil {
		return engine.Inputs{}, fmt.Errorf("load branding for tenant %s: %w", event.TenantID, err)
	}

	themeID := effectiveTheme(event, branding)
	if themeID == nil {
		return engine.Inputs{}, fmt.Errorf("event %s: %w", event.Slug, errNoTheme)
	}

	theme, err := s.themes.FindByID(ctx, *themeID)
	if err != nil {
		return engine.Inputs{}, err
	}

	return engine.Inputs{
		Theme:    theme,
		Branding: branding,
		Event:    event,
		Tenant:   tenant,
	}, nil
}

// effectiveTheme returns the theme an event page renders with.
func effectiveTheme(event *models.Event, branding *models.Branding) *uuid.UUID {
	if event.ThemeID != nil {
		return event.ThemeID
	}
	if branding != nil {
		return branding.ThemeID
	}
	return nil
}
