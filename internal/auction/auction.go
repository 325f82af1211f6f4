// Copyright (c) 2026 Gavella. All rights reserved.

package auction

import (
	"time"

	"github.com/shopspring/decimal"
)

// Auction is the authoritative bidding state for one listed item.
//
// The displayed Price and the hidden Ceiling implement proxy bidding: the
// winner's ceiling is the most they authorized, the price is the least they
// currently have to pay. The ceiling is never serialized; leaking it would
// let challengers snipe the winner's true limit.
type Auction struct {
	// ID is site-scoped: the (SiteID, ID) pair identifies an auction.
	ID     int64  `json:"id"`
	SiteID string `json:"site_id"`

	SellerID    string `json:"seller_id"`
	Description string `json:"description"`

	// EndsOn closes the auction: open while now < EndsOn, immutable after.
	EndsOn time.Time `json:"ends_on"`

	// Price is the displayed current price.
	Price decimal.Decimal `json:"price"`

	// WinnerID is the current winner, nil until the first accepted bid.
	// Exposed only through CurrentWinner and won-auction queries, never
	// in listing payloads.
	WinnerID *string `json:"-"`

	// Ceiling is the winner's hidden maximum. Unset iff no winner exists.
	// Mutated only inside the store's ResolveBid critical section.
	Ceiling decimal.NullDecimal `json:"-"`

	CreatedAt time.Time `json:"-"`
}

// OpenAt reports whether the auction is still accepting bids at the given instant.
func (a *Auction) OpenAt(now time.Time) bool {
	return now.Before(a.EndsOn)
}
