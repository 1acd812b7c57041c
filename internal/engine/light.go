// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

// lightBackgrounds is the exact-match allow-list of background tokens
// treated as light. This is not a luminance test: "#fefefe" or "#FFFFFF"
// are classified as dark.
var lightBackgrounds = map[string]struct{}{
	"#ffffff": {},
	"#f8fafc": {},
}

// IsLightBackground reports whether a resolved background token is on the
// light allow-list.
func IsLightBackground(color string) bool {
	_, ok := lightBackgrounds[color]
	return ok
}
