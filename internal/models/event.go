// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Event is a tenant's event page. ThemeID is the theme picked when the
// event was created; nil means the page follows the tenant's branding theme.
type Event struct {
	ID          uuid.UUID      `json:"id" yaml:"id"`
	TenantID    uuid.UUID      `json:"tenant_id" yaml:"tenant_id"`
	Slug        string         `json:"slug" yaml:"slug"`
	Title       string         `json:"title" yaml:"title"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Venue       string         `json:"venue,omitempty" yaml:"venue,omitempty"`
	StartsAt    *time.Time     `json:"starts_at,omitempty" yaml:"starts_at,omitempty"`
	ThemeID     *uuid.UUID     `json:"theme_id,omitempty" yaml:"theme_id,omitempty"`
	Overrides   EventOverrides `json:"overrides" yaml:"overrides"`
	CreatedAt   time.Time      `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" yaml:"updated_at"`
}

// EventOverrides is the per-event override layer. It carries no theme id
// and always applies to whichever theme the page resolves against.
type EventOverrides struct {
	ThemeCustomization ThemeCustomization `json:"theme_customization" yaml:"theme_customization"`
	ThemeContent       map[string]Content `json:"theme_content,omitempty" yaml:"theme_content,omitempty"`
}

// ThemeCustomization holds the event-level color overrides. Empty values
// are unset.
type ThemeCustomization struct {
	PrimaryColor   string `json:"primary_color,omitempty" yaml:"primary_color,omitempty"`
	SecondaryColor string `json:"secondary_color,omitempty" yaml:"secondary_color,omitempty"`
}

// Colors returns the customization as a partial color layer.
func (c ThemeCustomization) Colors() ColorMap {
	return ColorMap{
		ColorPrimary:   c.PrimaryColor,
		ColorSecondary: c.SecondaryColor,
	}.Defined()
}
