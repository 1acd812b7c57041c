// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is an organization account that runs event pages.
type Tenant struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Slug      string    `json:"slug" yaml:"slug"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Branding is a tenant's override layer over its selected theme. ThemeID
// is nil until the tenant selects a theme.
type Branding struct {
	TenantID       uuid.UUID      `json:"tenant_id" yaml:"tenant_id"`
	ThemeID        *uuid.UUID     `json:"theme_id,omitempty" yaml:"theme_id,omitempty"`
	StyleOverrides StyleOverrides `json:"style_overrides" yaml:"style_overrides"`
	Assets         Assets         `json:"assets" yaml:"assets"`
	SiteInfo       SiteInfo       `json:"site_info" yaml:"site_info"`
	UpdatedAt      time.Time      `json:"updated_at" yaml:"updated_at"`
}

// StyleOverrides holds the tenant's partial style token overrides.
type StyleOverrides struct {
	Colors ColorMap `json:"colors,omitempty" yaml:"colors,omitempty"`
}

// Assets holds tenant-supplied asset URLs.
type Assets struct {
	LogoURL   string `json:"logo_url,omitempty" yaml:"logo_url,omitempty"`
	BannerURL string `json:"banner_url,omitempty" yaml:"banner_url,omitempty"`
}

// SiteInfo holds tenant site metadata shown in the footer.
type SiteInfo struct {
	Title        string            `json:"title,omitempty" yaml:"title,omitempty"`
	Description  string            `json:"description,omitempty" yaml:"description,omitempty"`
	ContactEmail string            `json:"contact_email,omitempty" yaml:"contact_email,omitempty"`
	SocialLinks  map[string]string `json:"social_links,omitempty" yaml:"social_links,omitempty"`
}
