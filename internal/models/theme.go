// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the catalog, tenant and event records that map to
// database tables, and the style and section types shared by the engine.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ThemeStatus represents the catalog lifecycle state of a theme.
type ThemeStatus string

const (
	ThemeStatusActive   ThemeStatus = "active"
	ThemeStatusInactive ThemeStatus = "inactive"
	ThemeStatusDraft    ThemeStatus = "draft"
)

// Valid reports whether s is one of the known theme statuses.
func (s ThemeStatus) Valid() bool {
	switch s {
	case ThemeStatusActive, ThemeStatusInactive, ThemeStatusDraft:
		return true
	}
	return false
}

// Theme is a catalog entry describing a purchasable event page template.
// A given Version is immutable; edits bump Version.
type Theme struct {
	ID                uuid.UUID          `json:"id" yaml:"id"`
	Name              string             `json:"name" yaml:"name"`
	Category          string             `json:"category" yaml:"category"`
	IsPremium         bool               `json:"is_premium" yaml:"is_premium"`
	Price             int64              `json:"price" yaml:"price"` // minor currency units
	Currency          string             `json:"currency" yaml:"currency"`
	Status            ThemeStatus        `json:"status" yaml:"status"`
	Version           int                `json:"version" yaml:"version"`
	DefaultProperties ThemeProperties    `json:"default_properties" yaml:"default_properties"`
	TemplateStructure TemplateStructure  `json:"template_structure" yaml:"template_structure"`
	DefaultContent    map[string]Content `json:"default_content" yaml:"default_content"`
	CreatedAt         time.Time          `json:"created_at" yaml:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at" yaml:"updated_at"`
}

// IsFree returns true when the theme needs no entitlement: it is not
// premium, or it is premium with a zero price.
func (t *Theme) IsFree() bool {
	return !t.IsPremium || t.Price == 0
}

// IsActive returns true if the theme is published in the catalog.
func (t *Theme) IsActive() bool {
	return t.Status == ThemeStatusActive
}

// ThemeProperties holds a theme's default style tokens.
type ThemeProperties struct {
	Colors ColorMap `json:"colors" yaml:"colors"`
	Fonts  Fonts    `json:"fonts" yaml:"fonts"`
	Layout string   `json:"layout" yaml:"layout"`
}

// SectionSlot is one entry of a theme's section structure.
type SectionSlot struct {
	Name    string `json:"-" yaml:"-"`
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Order   int    `json:"order" yaml:"order"`
}

// TemplateStructure lists a theme's sections in document order. On the wire
// it is an object keyed by section name; decoding keeps the key order of the
// source document because that order breaks ties between equal Order values.
type TemplateStructure struct {
	Sections []SectionSlot
}

// Slot returns the slot with the given name.
func (s TemplateStructure) Slot(name string) (SectionSlot, bool) {
	for _, slot := range s.Sections {
		if slot.Name == name {
			return slot, true
		}
	}
	return SectionSlot{}, false
}

// add appends slot, or replaces the value of an earlier slot with the same
// name while keeping its original position.
func (s *TemplateStructure) add(slot SectionSlot) {
	for i := range s.Sections {
		if s.Sections[i].Name == slot.Name {
			s.Sections[i] = slot
			return
		}
	}
	s.Sections = append(s.Sections, slot)
}

// MarshalJSON encodes the structure as {"sections": {name: {...}}} with keys
// in slice order.
func (s TemplateStructure) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"sections":{`)
	for i, slot := range s.Sections {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(slot.Name)
		if err != nil {
			return nil, err
		}
		body, err := json.Marshal(slot)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(body)
	}
	buf.WriteString(`}}`)
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes the sections object token by token so that the
// resulting slice follows the document's key order.
func (s *TemplateStructure) UnmarshalJSON(data []byte) error {
	var raw struct {
		Sections json.RawMessage `json:"sections"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("template structure: %w", err)
	}

	s.Sections = nil
	if len(raw.Sections) == 0 || string(raw.Sections) == "null" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw.Sections))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("template structure: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("template structure: sections must be an object")
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("template structure: %w", err)
		}
		name, _ := tok.(string)

		var slot SectionSlot
		if err := dec.Decode(&slot); err != nil {
			return fmt.Errorf("template structure: section %q: %w", name, err)
		}
		slot.Name = name
		s.add(slot)
	}
	return nil
}

// UnmarshalYAML decodes the same shape from YAML fixtures, keeping mapping
// order.
func (s *TemplateStructure) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Sections yaml.Node `yaml:"sections"`
	}
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("template structure: %w", err)
	}

	s.Sections = nil
	node := &raw.Sections
	if node.Kind == 0 || node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("template structure: sections must be a mapping (line %d)", node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		var slot SectionSlot
		if err := node.Content[i+1].Decode(&slot); err != nil {
			return fmt.Errorf("template structure: section %q: %w", node.Content[i].Value, err)
		}
		slot.Name = node.Content[i].Value
		s.add(slot)
	}
	return nil
}
