// Copyright (c) 2026 Gavella. All rights reserved.

package auction

import (
	"context"
	"time"
)

// ResolveFunc runs inside the store's per-auction critical section. It may
// mutate the auction's Price, WinnerID, and Ceiling; the store persists those
// fields when the function returns nil. The boolean is the resolver verdict,
// passed through to the caller.
type ResolveFunc func(auction *Auction) (bool, error)

// Repository defines the persistence contract for auctions.
type Repository interface {
	// Create persists a new auction and assigns its ID.
	Create(ctx context.Context, auction *Auction) error

	// FindByID retrieves an auction by its site-scoped identity.
	FindByID(ctx context.Context, siteID string, id int64) (*Auction, error)

	// ListBySite returns all auctions of a site ordered by ID.
	ListBySite(ctx context.Context, siteID string) ([]*Auction, error)

	// ListWonByUser returns auctions already ended at the given instant whose
	// final winner is the user.
	ListWonByUser(ctx context.Context, siteID, userID string, now time.Time) ([]*Auction, error)

	// HasOpenInvolvement reports whether the user is the seller or current
	// winner of any auction still open at the given instant.
	HasOpenInvolvement(ctx context.Context, siteID, userID string, now time.Time) (bool, error)

	// ResolveBid executes fn against the auction's bidding state with mutual
	// exclusion per auction: at most one resolution is in flight for a given
	// (siteID, id) at any time. Postgres uses a row lock, memory a keyed
	// mutex. State changes persist only when fn returns a nil error.
	ResolveBid(ctx context.Context, siteID string, id int64, fn ResolveFunc) (bool, error)

	// Delete removes an auction unconditionally, open or closed.
	Delete(ctx context.Context, siteID string, id int64) error

	// DeleteBySite removes every auction of a site (cascade hook).
	DeleteBySite(ctx context.Context, siteID string) error
}
