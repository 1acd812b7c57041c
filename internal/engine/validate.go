// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"errors"
	"fmt"
	"strings"

	"themeforge/internal/models"
)

// ValidateTheme checks that a catalog entry is fit to publish. All problems
// are reported together; a missing default color surfaces as an
// IncompleteStyleError inside the joined error. Unknown section names are
// not problems: they are kept for forward compatibility and never rendered.
func ValidateTheme(theme *models.Theme) error {
	if theme == nil {
		return ErrNilTheme
	}

	var errs []error
	if strings.TrimSpace(theme.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if !theme.Status.Valid() {
		errs = append(errs, fmt.Errorf("invalid status %q", theme.Status))
	}
	if theme.Price < 0 {
		errs = append(errs, fmt.Errorf("price must not be negative, got %d", theme.Price))
	}
	if theme.IsPremium && theme.Price > 0 && strings.TrimSpace(theme.Currency) == "" {
		errs = append(errs, errors.New("currency is required for a priced premium theme"))
	}
	if missing := theme.DefaultProperties.Colors.Missing(); len(missing) > 0 {
		errs = append(errs, &IncompleteStyleError{ThemeID: theme.ID, Missing: missing})
	}

	seen := make(map[string]bool, len(theme.TemplateStructure.Sections))
	for _, slot := range theme.TemplateStructure.Sections {
		if strings.TrimSpace(slot.Name) == "" {
			errs = append(errs, errors.New("section name must not be empty"))
			continue
		}
		if seen[slot.Name] {
			errs = append(errs, fmt.Errorf("section %q listed twice", slot.Name))
		}
		seen[slot.Name] = true
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("invalid theme %q: %w", theme.Name, errors.Join(errs...))
}

// UnrenderableSections returns the enabled structure entries whose names
// are outside the section vocabulary, in structure order. Catalog tooling
// uses it to warn curators.
func UnrenderableSections(theme *models.Theme) []string {
	var names []string
	for _, slot := range theme.TemplateStructure.Sections {
		if slot.Enabled && !models.ParseSectionKind(slot.Name).Orderable() {
			names = append(names, slot.Name)
		}
	}
	return names
}
