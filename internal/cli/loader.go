// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"themeforge/internal/models"
)

// LoadError reports a fixture that could not be read or decoded.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// decodeFile reads path into v. Files ending in .json are decoded with
// encoding/json; everything else is treated as YAML.
func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &LoadError{Path: path, Err: err}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, v)
	default:
		err = yaml.Unmarshal(data, v)
	}
	if err != nil {
		return &LoadError{Path: path, Err: err}
	}
	return nil
}

// LoadTheme reads a catalog entry fixture.
func LoadTheme(path string) (*models.Theme, error) {
	var theme models.Theme
	if err := decodeFile(path, &theme); err != nil {
		return nil, err
	}
	return &theme, nil
}

// LoadBranding reads a tenant branding fixture. An empty path yields nil.
func LoadBranding(path string) (*models.Branding, error) {
	if path == "" {
		return nil, nil
	}
	var branding models.Branding
	if err := decodeFile(path, &branding); err != nil {
		return nil, err
	}
	return &branding, nil
}

// LoadEvent reads an event fixture. An empty path yields nil.
func LoadEvent(path string) (*models.Event, error) {
	if path == "" {
		return nil, nil
	}
	var event models.Event
	if err := decodeFile(path, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// LoadContent reads ad-hoc preview content keyed by section name. An empty
// path yields nil.
func LoadContent(path string) (map[string]models.Content, error) {
	if path == "" {
		return nil, nil
	}
	var content map[string]models.Content
	if err := decodeFile(path, &content); err != nil {
		return nil, err
	}
	return content, nil
}

// LoadEntitlements reads a list of entitlement records. An empty path
// yields no records.
func LoadEntitlements(path string) ([]models.Entitlement, error) {
	if path == "" {
		return nil, nil
	}
	var ents []models.Entitlement
	if err := decodeFile(path, &ents); err != nil {
		return nil, err
	}
	return ents, nil
}
