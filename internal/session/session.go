// Copyright (c) 2026 Gavella. All rights reserved.

package session

import "time"

// Session is a server-side login record with sliding expiration.
//
// The ID is an opaque UUIDv7; clients carry it inside a signed transport
// token, but validity is always this record's ExpiresAt compared against the
// injected clock at the moment of use. A session that has slipped past its
// expiry is dead even if the row still exists.
type Session struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	SiteID string `json:"site_id"`

	// ExpiresAt is re-derived as now + site.SessionLifetime on login and on
	// every authenticated activity.
	ExpiresAt time.Time `json:"expires_at"`

	CreatedAt time.Time `json:"-"`
}

// LiveAt reports whether the session is still valid at the given instant.
func (s *Session) LiveAt(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}
