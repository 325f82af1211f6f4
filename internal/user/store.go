// Copyright (c) 2026 Gavella. All rights reserved.

package user

import "context"

// Repository defines the persistence contract for per-site user accounts.
type Repository interface {
	// Create persists a new user. Fails with AlreadyExists when the username
	// is already taken on the same site.
	Create(ctx context.Context, user *User) error

	// FindByID retrieves a user by UUID.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByUsername retrieves a user by site-scoped username.
	FindByUsername(ctx context.Context, siteID, username string) (*User, error)

	// List returns all users of a site ordered by username.
	List(ctx context.Context, siteID string) ([]*User, error)

	// Delete removes a user row.
	Delete(ctx context.Context, id string) error

	// DeleteBySite removes every user belonging to a site (cascade hook).
	DeleteBySite(ctx context.Context, siteID string) error
}
