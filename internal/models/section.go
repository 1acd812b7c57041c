// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// SectionKind is the closed set of section types a theme structure can
// reference. Names outside the vocabulary map to SectionUnregistered.
type SectionKind string

const (
	SectionHero     SectionKind = "hero"
	SectionAbout    SectionKind = "about"
	SectionFeatures SectionKind = "features"
	SectionSchedule SectionKind = "schedule"
	SectionTickets  SectionKind = "tickets"
	SectionSpeakers SectionKind = "speakers"
	SectionVenue    SectionKind = "venue"
	SectionGallery  SectionKind = "gallery"
	SectionFAQ      SectionKind = "faq"

	// SectionFooter is structurally mandatory and never part of a theme's
	// section structure.
	SectionFooter SectionKind = "footer"

	// SectionUnregistered marks a structure entry whose name is not in the
	// vocabulary. It is preserved in the catalog but never dispatched.
	SectionUnregistered SectionKind = ""
)

// SectionKinds lists the orderable section kinds in vocabulary order.
var SectionKinds = []SectionKind{
	SectionHero,
	SectionAbout,
	SectionFeatures,
	SectionSchedule,
	SectionTickets,
	SectionSpeakers,
	SectionVenue,
	SectionGallery,
	SectionFAQ,
}

// ParseSectionKind maps a structure section name to its kind. Matching is
// exact; "Hero" is not "hero".
func ParseSectionKind(name string) SectionKind {
	for _, k := range SectionKinds {
		if string(k) == name {
			return k
		}
	}
	return SectionUnregistered
}

// Orderable reports whether the kind may appear in a theme structure.
func (k SectionKind) Orderable() bool {
	return k != SectionUnregistered && k != SectionFooter
}

// Content is a section content document. Its shape is section-specific and
// is not validated by the resolution engine.
type Content map[string]any
