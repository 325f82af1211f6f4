// Copyright (c) 2026 Gavella. All rights reserved.

package auction

import "github.com/shopspring/decimal"

// BidState is the slice of auction state the resolver reads and writes:
// displayed price, current winner, and the winner's hidden ceiling.
type BidState struct {
	Price    decimal.Decimal
	WinnerID *string
	Ceiling  decimal.NullDecimal
}

/*
Resolve applies one bid to the bidding state under the second-price rule.

Description: A pure function — no clock, no storage, no identity checks; the
service admits the bid first and the store serializes calls per auction. The
returned boolean reports whether the bid took effect on the book. An accepted
bid does not necessarily make the bidder the winner: a challenge below the
standing ceiling only pushes the price up.

Rules (increment is the site's minimum bid increment; every rejection is a
strict < comparison, so meeting a threshold exactly is enough, and rejections
leave the state untouched):

  - First bid (no winner): rejected below the displayed price. Accepted, the
    bidder becomes winner and the amount becomes their ceiling; the displayed
    price does not move.
  - Incumbent raise: rejected below ceiling + increment. Accepted, only the
    ceiling moves; the incumbent never bids against themselves.
  - Challenge: rejected below price + increment. Over the ceiling the
    challenger takes over at min(amount, ceiling + increment) — they pay one
    increment over the old limit, not their own maximum. At or under the
    ceiling the incumbent defends and the price rises to
    min(ceiling, amount + increment).

Parameters:
  - state: BidState (Current book)
  - bidderID: string
  - amount: decimal.Decimal (Bid amount, validated non-negative by the caller)
  - increment: decimal.Decimal (Site minimum increment)

Returns:
  - BidState: Resulting book (unchanged on rejection)
  - bool: Whether the bid took effect
*/
func Resolve(state BidState, bidderID string, amount, increment decimal.Decimal) (BidState, bool) {

	// ── First bid ─────────────────────────────────────────────────────────
	if state.WinnerID == nil {
		if amount.LessThan(state.Price) {
			return state, false
		}
		state.WinnerID = &bidderID
		state.Ceiling = decimal.NewNullDecimal(amount)
		return state, true
	}

	ceiling := state.Ceiling.Decimal

	// ── Incumbent raising their own ceiling ───────────────────────────────
	if *state.WinnerID == bidderID {
		if amount.LessThan(ceiling.Add(increment)) {
			return state, false
		}
		state.Ceiling = decimal.NewNullDecimal(amount)
		return state, true
	}

	// ── Challenge ─────────────────────────────────────────────────────────
	if amount.LessThan(state.Price.Add(increment)) {
		return state, false
	}

	if amount.GreaterThan(ceiling) {
		// Challenger overtakes. Second-price rule: they pay one increment
		// over the beaten ceiling, capped by their own bid.
		state.Price = decimal.Min(amount, ceiling.Add(increment))
		state.WinnerID = &bidderID
		state.Ceiling = decimal.NewNullDecimal(amount)
		return state, true
	}

	// Incumbent defends: their proxy answers up to the ceiling. Ties go to
	// the earlier bid.
	state.Price = decimal.Min(ceiling, amount.Add(increment))
	return state, true
}
