// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"themeforge/internal/models"
)

// ErrThemeNotActive is returned when resolution is attempted against a theme
// that is not published.
var ErrThemeNotActive = errors.New("theme is not active")

// ErrNilTheme is returned when Resolve is called without a theme.
var ErrNilTheme = errors.New("theme is required")

// IncompleteStyleError reports a catalog entry whose defaults are missing
// required color tokens. It blocks publishing and fails resolution.
type IncompleteStyleError struct {
	ThemeID uuid.UUID
	Missing []models.ColorKey
}

// Error implements the error interface.
func (e *IncompleteStyleError) Error() string {
	keys := make([]string, len(e.Missing))
	for i, k := range e.Missing {
		keys[i] = string(k)
	}
	return fmt.Sprintf("theme %s: incomplete default colors: missing %s", e.ThemeID, strings.Join(keys, ", "))
}

// UnknownThemeError reports a theme id that does not exist in the catalog.
// Resolve never returns it; stores and handlers do.
type UnknownThemeError struct {
	ThemeID uuid.UUID
}

// Error implements the error interface.
func (e *UnknownThemeError) Error() string {
	return fmt.Sprintf("unknown theme %s", e.ThemeID)
}

// IsIncompleteStyle reports whether err is or wraps an IncompleteStyleError.
func IsIncompleteStyle(err error) bool {
	var target *IncompleteStyleError
	return errors.As(err, &target)
}

// IsUnknownTheme reports whether err is or wraps an UnknownThemeError.
func IsUnknownTheme(err error) bool {
	var target *UnknownThemeError
	return errors.As(err, &target)
}
