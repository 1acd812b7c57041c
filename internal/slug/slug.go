// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug generates and checks the public slugs event pages are served
// under (/e/{slug}).
package slug

import (
	"regexp"
	"strings"
)

// MaxLen is the longest slug Generate produces and Valid accepts.
const MaxLen = 80

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, whitespace or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// whitespace runs become a single hyphen.
	whitespace = regexp.MustCompile(`\s+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
	// valid is the canonical slug shape: lowercase words joined by single hyphens.
	valid = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// Generate creates a URL-friendly slug from an event title.
// Example: "GopherCon EU 2026!" → "gophercon-eu-2026"
// Slugs longer than MaxLen are cut at the last hyphen that fits.
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")
	return truncate(result)
}

// Valid reports whether s is already a canonical slug.
func Valid(s string) bool {
	return len(s) <= MaxLen && valid.MatchString(s)
}

func truncate(s string) string {
	if len(s) <= MaxLen {
		return s
	}
	s = s[:MaxLen]
	if i := strings.LastIndexByte(s, '-'); i > 0 {
		s = s[:i]
	}
	return strings.Trim(s, "-")
}
