// Copyright (c) 2026 Gavella. All rights reserved.

package user

import "time"

// User is a per-site account. Usernames are unique within a site, not across
// the marketplace; the same name on two sites names two unrelated people.
type User struct {
	ID       string `json:"id"`
	SiteID   string `json:"site_id"`
	Username string `json:"username"`

	// PasswordHash is a bcrypt hash. Never serialized.
	PasswordHash string `json:"-"`

	CreatedAt time.Time `json:"-"`
}
