package handlers

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"themeforge/internal/models"
	"themeforge/internal/slug"
)

// Validation limits for catalog, branding and event fields.
const (
	maxThemeNameLen     = 200
	maxTenantNameLen    = 200
	maxCategoryLen      = 100
	maxSectionNameLen   = 64
	maxColorLen         = 64
	maxEventTitleLen    = 300
	maxDescriptionLen   = 5_000
	maxVenueLen         = 300
	maxSiteTitleLen     = 200
	maxSiteDescLen      = 1_000
	maxURLLen           = 2_000
	maxContentSections  = 50
	maxPaymentMethodLen = 50
)

// colorForbidden are characters html/template refuses in a CSS value, or
// that could break out of the declaration. Colors are hex or named.
const colorForbidden = ";{}<>\"'`\\()/@[]"

// validateTheme checks catalog form inputs and returns the first error
// found. Publishing runs the stricter engine.ValidateTheme on top.
func validateTheme(t *models.Theme) string {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return "Theme name is required."
	}
	if utf8.RuneCountInString(name) > maxThemeNameLen {
		return "Theme name is too long (max 200 characters)."
	}
	if utf8.RuneCountInString(t.Category) > maxCategoryLen {
		return "Category is too long (max 100 characters)."
	}
	if t.Price < 0 {
		return "Price must not be negative."
	}
	if t.IsPremium && t.Price > 0 && !validCurrency(t.Currency) {
		return "A priced premium theme needs a three-letter currency code."
	}
	for _, s := range t.TemplateStructure.Sections {
		if strings.TrimSpace(s.Name) == "" {
			return "Section names must not be empty."
		}
		if utf8.RuneCountInString(s.Name) > maxSectionNameLen {
			return fmt.Sprintf("Section name %q is too long (max 64 characters).", s.Name)
		}
	}
	return validateColors(t.DefaultProperties.Colors)
}

// validateColors checks every value of a partial color mapping.
func validateColors(colors models.ColorMap) string {
	for _, key := range models.ColorKeys {
		if msg := validateColor(string(key), colors[key]); msg != "" {
			return msg
		}
	}
	for key := range colors {
		switch key {
		case models.ColorPrimary, models.ColorSecondary, models.ColorBackground, models.ColorText:
		default:
			return fmt.Sprintf("Unknown color token %q.", key)
		}
	}
	return ""
}

// validateColor checks one color value. Empty is allowed and means the
// layer does not override the token.
func validateColor(name, value string) string {
	if value == "" {
		return ""
	}
	if utf8.RuneCountInString(value) > maxColorLen {
		return fmt.Sprintf("Color %s is too long (max 64 characters).", name)
	}
	if strings.ContainsAny(value, colorForbidden) {
		return fmt.Sprintf("Color %s contains invalid characters.", name)
	}
	return ""
}

// validateTenant checks a new tenant. The slug must already be normalized.
func validateTenant(t *models.Tenant) string {
	name := strings.TrimSpace(t.Name)
	switch {
	case name == "":
		return "Tenant name is required."
	case utf8.RuneCountInString(name) > maxTenantNameLen:
		return "Tenant name is too long (max 200 characters)."
	case !slug.Valid(t.Slug):
		return "Slug must be lowercase letters, digits and single hyphens (max 80 characters)."
	}
	return ""
}

// validateEvent checks event form inputs. The slug must already be
// normalized.
func validateEvent(e *models.Event) string {
	title := strings.TrimSpace(e.Title)
	if title == "" {
		return "Event title is required."
	}
	if utf8.RuneCountInString(title) > maxEventTitleLen {
		return "Event title is too long (max 300 characters)."
	}
	if !slug.Valid(e.Slug) {
		return "Slug must be lowercase letters, digits and single hyphens (max 80 characters)."
	}
	if utf8.RuneCountInString(e.Description) > maxDescriptionLen {
		return "Description is too long (max 5,000 characters)."
	}
	if utf8.RuneCountInString(e.Venue) > maxVenueLen {
		return "Venue is too long (max 300 characters)."
	}
	return validateOverrides(e.Overrides)
}

// validateOverrides checks an event override layer.
func validateOverrides(o models.EventOverrides) string {
	if msg := validateColor("primary", o.ThemeCustomization.PrimaryColor); msg != "" {
		return msg
	}
	if msg := validateColor("secondary", o.ThemeCustomization.SecondaryColor); msg != "" {
		return msg
	}
	return validateContent(o.ThemeContent)
}

// validateContent bounds per-section content payloads.
func validateContent(content map[string]models.Content) string {
	if len(content) > maxContentSections {
		return "Too many content sections (max 50)."
	}
	for name := range content {
		if strings.TrimSpace(name) == "" {
			return "Content section names must not be empty."
		}
		if utf8.RuneCountInString(name) > maxSectionNameLen {
			return fmt.Sprintf("Content section name %q is too long (max 64 characters).", name)
		}
	}
	return ""
}

// validateBranding checks a tenant branding payload.
func validateBranding(b *models.Branding) string {
	if msg := validateColors(b.StyleOverrides.Colors); msg != "" {
		return msg
	}
	if utf8.RuneCountInString(b.SiteInfo.Title) > maxSiteTitleLen {
		return "Site title is too long (max 200 characters)."
	}
	if utf8.RuneCountInString(b.SiteInfo.Description) > maxSiteDescLen {
		return "Site description is too long (max 1,000 characters)."
	}
	if b.SiteInfo.ContactEmail != "" && !strings.Contains(b.SiteInfo.ContactEmail, "@") {
		return "Contact email is invalid."
	}
	for label, u := range map[string]string{"Logo URL": b.Assets.LogoURL, "Banner URL": b.Assets.BannerURL} {
		if msg := validateURL(label, u); msg != "" {
			return msg
		}
	}
	for network, u := range b.SiteInfo.SocialLinks {
		if msg := validateURL("Social link "+network, u); msg != "" {
			return msg
		}
	}
	return ""
}

// validateURL accepts empty values and absolute http(s) URLs.
func validateURL(label, raw string) string {
	if raw == "" {
		return ""
	}
	if len(raw) > maxURLLen {
		return label + " is too long."
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return label + " must be an absolute http(s) URL."
	}
	return ""
}

// validatePurchase checks a purchase request. Amount and currency may be
// left empty to charge the catalog price.
func validatePurchase(method string, amount int64, currency string) string {
	method = strings.TrimSpace(method)
	if method == "" {
		return "Payment method is required."
	}
	if utf8.RuneCountInString(method) > maxPaymentMethodLen {
		return "Payment method is too long (max 50 characters)."
	}
	if amount < 0 {
		return "Amount must not be negative."
	}
	if currency != "" && !validCurrency(currency) {
		return "Currency must be a three-letter code."
	}
	return ""
}

func validCurrency(c string) bool {
	if len(c) != 3 {
		return false
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
