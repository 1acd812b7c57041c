// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"themeforge/internal/models"
)

// Plan is the fully resolved, ordered rendering plan for one event page.
// It is derived on demand and never persisted. Plans may be shared between
// goroutines and must be treated as read-only.
type Plan struct {
	ThemeID      uuid.UUID          `json:"theme_id"`
	ThemeVersion int                `json:"theme_version"`
	Category     string             `json:"category"`
	Colors       models.ColorTokens `json:"colors"`
	Fonts        models.Fonts       `json:"fonts"`
	Layout       string             `json:"layout"`
	IsLight      bool               `json:"is_light"`
	Sections     []ResolvedSection  `json:"sections"`
}

// ResolvedSection is an enabled section with its merged content.
type ResolvedSection struct {
	Name    string             `json:"name"`
	Kind    models.SectionKind `json:"kind"`
	Order   int                `json:"order"`
	Content models.Content     `json:"content"`
}

// Resolve merges the theme defaults, the tenant branding, the event
// overrides and the optional ad-hoc preview content into a Plan.
//
// Precedence is theme < branding < event < adHoc. Colors merge key by key;
// section content merges key by key per section, one level deep. branding,
// overrides and adHoc may all be nil. Only enabled sections are kept, sorted
// by Order; equal orders keep their structure document order.
//
// Resolve performs no I/O and holds no state.
func Resolve(theme *models.Theme, branding *models.Branding, overrides *models.EventOverrides, adHoc map[string]models.Content) (*Plan, error) {
	if theme == nil {
		return nil, ErrNilTheme
	}
	if !theme.IsActive() {
		return nil, fmt.Errorf("resolve theme %s (status %q): %w", theme.ID, theme.Status, ErrThemeNotActive)
	}

	colors, err := resolveColors(theme, branding, overrides)
	if err != nil {
		return nil, err
	}

	return &Plan{
		ThemeID:      theme.ID,
		ThemeVersion: theme.Version,
		Category:     theme.Category,
		Colors:       colors,
		Fonts:        theme.DefaultProperties.Fonts,
		Layout:       theme.DefaultProperties.Layout,
		IsLight:      IsLightBackground(colors.Background),
		Sections:     resolveSections(theme, overrides, adHoc),
	}, nil
}

// resolveColors walks the color precedence chain. The theme layer must
// define all four tokens on its own.
func resolveColors(theme *models.Theme, branding *models.Branding, overrides *models.EventOverrides) (models.ColorTokens, error) {
	defaults := theme.DefaultProperties.Colors
	if missing := defaults.Missing(); len(missing) > 0 {
		return models.ColorTokens{}, &IncompleteStyleError{ThemeID: theme.ID, Missing: missing}
	}

	layers := []models.ColorMap{defaults.Defined()}
	if branding != nil {
		layers = append(layers, branding.StyleOverrides.Colors.Defined())
	}
	if overrides != nil {
		layers = append(layers, overrides.ThemeCustomization.Colors())
	}

	merged := Merge(layers...)
	return models.ColorTokens{
		Primary:    merged[models.ColorPrimary],
		Secondary:  merged[models.ColorSecondary],
		Background: merged[models.ColorBackground],
		Text:       merged[models.ColorText],
	}, nil
}

// resolveSections filters the structure to enabled sections, merges their
// content and orders them.
func resolveSections(theme *models.Theme, overrides *models.EventOverrides, adHoc map[string]models.Content) []ResolvedSection {
	var eventContent map[string]models.Content
	if overrides != nil {
		eventContent = overrides.ThemeContent
	}

	sections := make([]ResolvedSection, 0, len(theme.TemplateStructure.Sections))
	for _, slot := range theme.TemplateStructure.Sections {
		if !slot.Enabled {
			continue
		}
		sections = append(sections, ResolvedSection{
			Name:  slot.Name,
			Kind:  models.ParseSectionKind(slot.Name),
			Order: slot.Order,
			Content: Merge(
				theme.DefaultContent[slot.Name],
				eventContent[slot.Name],
				adHoc[slot.Name],
			),
		})
	}

	// Stable sort keeps structure document order for equal Order values.
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Order < sections[j].Order
	})
	return sections
}
