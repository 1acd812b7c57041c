// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"strings"
)

// pageCSP permits the inline <style> block holding a page's resolved color
// and font variables plus remote logo, banner and gallery images. Pages
// never run scripts.
var pageCSP = strings.Join([]string{
	"default-src 'self'",
	"style-src 'self' 'unsafe-inline'",
	"img-src 'self' https: data:",
	"font-src 'self' https:",
	"script-src 'none'",
	"object-src 'none'",
	"base-uri 'self'",
	"frame-ancestors 'self'",
}, "; ")

const apiCSP = "default-src 'none'; frame-ancestors 'none'"

// baseHeaders go on every response.
var baseHeaders = [][2]string{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "SAMEORIGIN"},
	{"X-XSS-Protection", "0"},
	{"Referrer-Policy", "strict-origin-when-cross-origin"},
	{"Permissions-Policy", "interest-cohort=()"},
}

// SecureHeaders sets the hardening headers. API responses additionally get
// a deny-all CSP and are marked uncacheable.
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for _, kv := range baseHeaders {
			h.Set(kv[0], kv[1])
		}
		if isAPI(r) {
			h.Set("Content-Security-Policy", apiCSP)
			h.Set("Cache-Control", "no-store")
		} else {
			h.Set("Content-Security-Policy", pageCSP)
		}
		next.ServeHTTP(w, r)
	})
}
