// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// ColorKey names one of the four style tokens every resolved plan carries.
type ColorKey string

const (
	ColorPrimary    ColorKey = "primary"
	ColorSecondary  ColorKey = "secondary"
	ColorBackground ColorKey = "background"
	ColorText       ColorKey = "text"
)

// ColorKeys lists the required color tokens in canonical order.
var ColorKeys = []ColorKey{ColorPrimary, ColorSecondary, ColorBackground, ColorText}

// ColorMap is a partial color mapping. A key is defined when it is present
// with a non-empty value.
type ColorMap map[ColorKey]string

// Defined returns a copy holding only keys with non-empty values, so that
// a blank form field never masks a lower layer.
func (m ColorMap) Defined() ColorMap {
	out := make(ColorMap, len(m))
	for k, v := range m {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// Missing returns the required keys that are not defined, in canonical order.
func (m ColorMap) Missing() []ColorKey {
	var missing []ColorKey
	for _, k := range ColorKeys {
		if m[k] == "" {
			missing = append(missing, k)
		}
	}
	return missing
}

// ColorTokens is the fully resolved four-token color set.
type ColorTokens struct {
	Primary    string `json:"primary" yaml:"primary"`
	Secondary  string `json:"secondary" yaml:"secondary"`
	Background string `json:"background" yaml:"background"`
	Text       string `json:"text" yaml:"text"`
}

// Fonts holds the heading and body font families of a theme.
type Fonts struct {
	Heading string `json:"heading" yaml:"heading"`
	Body    string `json:"body" yaml:"body"`
}
