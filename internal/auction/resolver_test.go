// Copyright (c) 2026 Gavella. All rights reserved.

package auction_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gavella/gavella/internal/auction"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func strPtr(s string) *string { return &s }

/*
TestResolve_FirstBid verifies that an opening bid sets the ceiling and the
winner but leaves the displayed price at the starting price.
*/
func TestResolve_FirstBid(t *testing.T) {
	tests := []struct {
		name         string
		price        string
		amount       string
		wantAccepted bool
		wantCeiling  string
	}{
		{"above_price", "100", "150", true, "150"},
		{"exactly_price", "100", "100", true, "100"},
		{"below_price", "100", "99.99", false, ""},
		{"zero_start_zero_bid", "0", "0", true, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := auction.BidState{Price: dec(tt.price)}

			result, accepted := auction.Resolve(state, "alice", dec(tt.amount), dec("10"))

			assert.Equal(t, tt.wantAccepted, accepted)
			if !tt.wantAccepted {
				assert.Equal(t, state, result, "rejection must not change state")
				return
			}

			// The price never moves on the first bid; only the hidden ceiling does.
			require.NotNil(t, result.WinnerID)
			assert.Equal(t, "alice", *result.WinnerID)
			assert.True(t, result.Price.Equal(dec(tt.price)))
			require.True(t, result.Ceiling.Valid)
			assert.True(t, result.Ceiling.Decimal.Equal(dec(tt.wantCeiling)))
		})
	}
}

/*
TestResolve_IncumbentRaise verifies that the current winner can only raise
their own ceiling by at least a full increment, and that doing so never moves
the displayed price.
*/
func TestResolve_IncumbentRaise(t *testing.T) {
	tests := []struct {
		name         string
		amount       string
		wantAccepted bool
		wantCeiling  string
	}{
		{"below_full_increment", "255", false, "250"},
		{"exactly_full_increment", "260", true, "260"},
		{"well_above", "400", true, "400"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := auction.BidState{
				Price:    dec("200"),
				WinnerID: strPtr("alice"),
				Ceiling:  decimal.NewNullDecimal(dec("250")),
			}

			result, accepted := auction.Resolve(state, "alice", dec(tt.amount), dec("10"))

			assert.Equal(t, tt.wantAccepted, accepted)
			assert.True(t, result.Price.Equal(dec("200")), "self-raise must not move the price")
			require.NotNil(t, result.WinnerID)
			assert.Equal(t, "alice", *result.WinnerID)
			assert.True(t, result.Ceiling.Decimal.Equal(dec(tt.wantCeiling)))
		})
	}
}

/*
TestResolve_ChallengeOvertake verifies the second-price rule: a challenger who
beats the ceiling pays one increment over the old limit, capped by their own bid.
*/
func TestResolve_ChallengeOvertake(t *testing.T) {
	state := auction.BidState{
		Price:    dec("200"),
		WinnerID: strPtr("alice"),
		Ceiling:  decimal.NewNullDecimal(dec("250")),
	}

	result, accepted := auction.Resolve(state, "bob", dec("300"), dec("10"))

	require.True(t, accepted)
	require.NotNil(t, result.WinnerID)
	assert.Equal(t, "bob", *result.WinnerID)
	// min(300, 250 + 10): bob pays one increment over alice's beaten ceiling.
	assert.True(t, result.Price.Equal(dec("260")))
	assert.True(t, result.Ceiling.Decimal.Equal(dec("300")))
}

/*
TestResolve_ChallengeOvertake_CappedByOwnBid verifies that the new price never
exceeds what the challenger actually offered.
*/
func TestResolve_ChallengeOvertake_CappedByOwnBid(t *testing.T) {
	state := auction.BidState{
		Price:    dec("200"),
		WinnerID: strPtr("alice"),
		Ceiling:  decimal.NewNullDecimal(dec("250")),
	}

	result, accepted := auction.Resolve(state, "bob", dec("255"), dec("10"))

	require.True(t, accepted)
	assert.Equal(t, "bob", *result.WinnerID)
	// min(255, 260): bob's own bid caps the price.
	assert.True(t, result.Price.Equal(dec("255")))
	assert.True(t, result.Ceiling.Decimal.Equal(dec("255")))
}

/*
TestResolve_ChallengeInsufficient verifies that a challenge below
price + increment is a complete no-op.
*/
func TestResolve_ChallengeInsufficient(t *testing.T) {
	state := auction.BidState{
		Price:    dec("200"),
		WinnerID: strPtr("alice"),
		Ceiling:  decimal.NewNullDecimal(dec("250")),
	}

	result, accepted := auction.Resolve(state, "bob", dec("205"), dec("10"))

	assert.False(t, accepted)
	assert.Equal(t, state, result, "rejection must not change state")
}

/*
TestResolve_ChallengeDefended verifies that a challenge at or under the
standing ceiling is outbid by the incumbent's proxy: the price rises, the
winner does not change.
*/
func TestResolve_ChallengeDefended(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		wantPrice string
	}{
		// min(ceiling, amount + increment)
		{"under_ceiling", "230", "240"},
		{"near_ceiling", "245", "250"},
		{"exactly_ceiling_tie_goes_to_incumbent", "250", "250"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := auction.BidState{
				Price:    dec("200"),
				WinnerID: strPtr("alice"),
				Ceiling:  decimal.NewNullDecimal(dec("250")),
			}

			result, accepted := auction.Resolve(state, "bob", dec(tt.amount), dec("10"))

			require.True(t, accepted, "an admissible losing challenge still moves the price")
			require.NotNil(t, result.WinnerID)
			assert.Equal(t, "alice", *result.WinnerID)
			assert.True(t, result.Price.Equal(dec(tt.wantPrice)))
			assert.True(t, result.Ceiling.Decimal.Equal(dec("250")), "a defended ceiling never changes")
		})
	}
}

/*
TestResolve_PriceMonotonicAndCeilingDominance drives a long bidding war and
checks the two structural invariants after every step: the displayed price
never decreases, and it never exceeds the standing ceiling.
*/
func TestResolve_PriceMonotonicAndCeilingDominance(t *testing.T) {
	type step struct {
		bidder string
		amount string
	}

	steps := []step{
		{"alice", "100"},
		{"bob", "105"},   // defended
		{"bob", "150"},   // overtake
		{"alice", "149"}, // insufficient, no-op
		{"alice", "200"}, // overtake back
		{"bob", "190"},   // defended
		{"alice", "215"}, // incumbent raise
		{"carol", "500"}, // overtake
	}

	state := auction.BidState{Price: dec("50")}
	increment := dec("10")
	lastPrice := state.Price

	for _, s := range steps {
		next, _ := auction.Resolve(state, s.bidder, dec(s.amount), increment)

		assert.True(t, next.Price.GreaterThanOrEqual(lastPrice),
			"price decreased after bid %s by %s", s.amount, s.bidder)
		if next.WinnerID != nil {
			require.True(t, next.Ceiling.Valid)
			assert.True(t, next.Price.LessThanOrEqual(next.Ceiling.Decimal),
				"price exceeded ceiling after bid %s by %s", s.amount, s.bidder)
		}

		lastPrice = next.Price
		state = next
	}

	// The war ends with carol holding the book.
	require.NotNil(t, state.WinnerID)
	assert.Equal(t, "carol", *state.WinnerID)
}
