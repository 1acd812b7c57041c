// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"themeforge/internal/models"
)

// Fingerprint returns a stable hex digest of everything that influences a
// rendered page. encoding/json sorts map keys and the template structure
// keeps its slice order, so equal inputs always hash equally.
func Fingerprint(in Inputs, adHoc map[string]models.Content) (string, error) {
	payload := struct {
		Theme    *models.Theme             `json:"theme"`
		Branding *models.Branding          `json:"branding"`
		Event    *models.Event             `json:"event"`
		Tenant   *models.Tenant            `json:"tenant"`
		AdHoc    map[string]models.Content `json:"ad_hoc,omitempty"`
	}{in.Theme, in.Branding, in.Event, in.Tenant, adHoc}

	b, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("fingerprint inputs: %w", err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
