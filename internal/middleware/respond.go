// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"encoding/json"
	"net/http"
	"strings"
)

// apiPrefix marks routes that speak JSON. Everything else is a rendered page.
const apiPrefix = "/api/"

// isAPI reports whether the request targets the JSON API.
func isAPI(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, apiPrefix)
}

// respondError writes a short error in the format the route expects:
// {"error": ..., "code": ...} for the API, plain text for pages.
func respondError(w http.ResponseWriter, r *http.Request, status int, code string) {
	if !isAPI(r) {
		http.Error(w, http.StatusText(status), status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": strings.ToLower(http.StatusText(status)),
		"code":  code,
	})
}
