// Copyright (c) 2026 Gavella. All rights reserved.

package site

import "context"

// Repository defines the persistence contract for sites.
//
// Implementations map their storage errors to the [apperr] taxonomy:
// missing rows become NotFound, name collisions become AlreadyExists, and
// connectivity failures become StoreUnavailable.
type Repository interface {
	// Create persists a new site. Fails with AlreadyExists on a name collision.
	Create(ctx context.Context, site *Site) error

	// FindByID retrieves a site by its UUID.
	FindByID(ctx context.Context, id string) (*Site, error)

	// FindByName retrieves a site by its unique, NFC-normalized name.
	FindByName(ctx context.Context, name string) (*Site, error)

	// List returns all sites ordered by name.
	List(ctx context.Context) ([]*Site, error)

	// Delete removes a site row. Dependent rows are removed by the caller's
	// purge hooks and, in PostgreSQL, by ON DELETE CASCADE constraints.
	Delete(ctx context.Context, id string) error
}
