// Copyright (c) 2026 Gavella. All rights reserved.

package site

import (
	"time"

	"github.com/shopspring/decimal"
)

// Site is the tenant boundary of the marketplace. Every user, session, and
// auction belongs to exactly one site, and cross-site interaction is forbidden.
type Site struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// TimezoneOffset is the site's UTC offset in whole hours, in [-12, 12].
	TimezoneOffset int `json:"timezone_offset"`

	// SessionLifetimeSeconds drives sliding session expiration: every
	// authenticated activity re-derives expiry as now + this lifetime.
	SessionLifetimeSeconds int `json:"session_lifetime_seconds"`

	// MinBidIncrement is the smallest step by which a challenger or incumbent
	// must raise over the standing ceiling or displayed price.
	MinBidIncrement decimal.Decimal `json:"min_bid_increment"`

	CreatedAt time.Time `json:"-"`
}

// SessionLifetime returns the configured lifetime as a duration.
func (s *Site) SessionLifetime() time.Duration {
	return time.Duration(s.SessionLifetimeSeconds) * time.Second
}

// Info is the public listing projection of a site.
type Info struct {
	Name           string `json:"name"`
	TimezoneOffset int    `json:"timezone_offset"`
}
