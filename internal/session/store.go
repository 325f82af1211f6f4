// Copyright (c) 2026 Gavella. All rights reserved.

package session

import (
	"context"
	"time"
)

// Repository defines the persistence contract for login sessions.
//
// Stored expiry timestamps are authoritative; backends with native TTL
// support (Redis) use it only as garbage collection, never as the validity
// check.
type Repository interface {
	// Create persists a new session.
	Create(ctx context.Context, session *Session) error

	// FindByID retrieves a session by its opaque UUID.
	FindByID(ctx context.Context, id string) (*Session, error)

	// FindByUser retrieves the session bound to a user, live or not.
	// At most one session exists per user.
	FindByUser(ctx context.Context, userID string) (*Session, error)

	// UpdateExpiry slides a session's expiry to the given instant.
	UpdateExpiry(ctx context.Context, id string, expiresAt time.Time) error

	// Delete removes a session row. Fails with NotFound if already gone.
	Delete(ctx context.Context, id string) error

	// DeleteByUser removes the session of a user, if any.
	DeleteByUser(ctx context.Context, userID string) error

	// DeleteBySite removes every session belonging to a site (cascade hook).
	DeleteBySite(ctx context.Context, siteID string) error
}
