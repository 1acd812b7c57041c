// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// EntitlementStatus is the state of a tenant's right to a premium theme.
type EntitlementStatus string

const (
	EntitlementActive  EntitlementStatus = "active"
	EntitlementRevoked EntitlementStatus = "revoked"
)

// Entitlement records that a tenant paid for, or was granted, a theme.
// At most one active record exists per (TenantID, ThemeID).
type Entitlement struct {
	ID            uuid.UUID         `json:"id" yaml:"id"`
	TenantID      uuid.UUID         `json:"tenant_id" yaml:"tenant_id"`
	ThemeID       uuid.UUID         `json:"theme_id" yaml:"theme_id"`
	Status        EntitlementStatus `json:"status" yaml:"status"`
	PaymentMethod string            `json:"payment_method" yaml:"payment_method"`
	Amount        int64             `json:"amount" yaml:"amount"`
	Currency      string            `json:"currency" yaml:"currency"`
	PurchasedAt   time.Time         `json:"purchased_at" yaml:"purchased_at"`
	RevokedAt     *time.Time        `json:"revoked_at,omitempty" yaml:"revoked_at,omitempty"`
}

// IsActive returns true if the entitlement currently grants ownership.
func (e *Entitlement) IsActive() bool {
	return e.Status == EntitlementActive
}
