// Copyright (c) 2026 Gavella. All rights reserved.

/*
Package auction implements the auction ledger and the proxy-bid resolver.

The ledger owns auction lifecycle (create, list, delete) and is the only
writer of bidding state. Bids go through a two-stage pipeline: the service
admits the bid (open auction, valid amount, live session, no self-dealing, no
cross-site bidding), then the store runs the pure resolver inside a
per-auction critical section.

Architecture:

  - Service: Admission checks and session sliding.
  - Resolve: The pure second-price resolver (resolver.go).
  - Repository: Abstracted persistence with a ResolveBid critical section.
*/
package auction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gavella/gavella/internal/platform/apperr"
	"github.com/gavella/gavella/internal/platform/clock"
	"github.com/gavella/gavella/internal/platform/validate"
	"github.com/gavella/gavella/internal/session"
	"github.com/gavella/gavella/internal/site"
)

// # Contracts & Types

// SessionValidator validates a session and slides its expiry in one step.
// Implemented by [session.Service].
type SessionValidator interface {
	Touch(ctx context.Context, sessionID string) (*session.Session, error)
}

// Service implements auction ledger use cases.
type Service struct {
	repo     Repository
	sites    site.Repository
	sessions SessionValidator
	clock    clock.Clock
	logger   *slog.Logger
}

// NewService constructs a new auction [Service].
func NewService(repo Repository, sites site.Repository, sessions SessionValidator, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		sites:    sites,
		sessions: sessions,
		clock:    clk,
		logger:   logger,
	}
}

// # Lifecycle

// CreateInput holds the data required to list a new auction.
type CreateInput struct {
	SessionID     string
	Description   string
	EndsOn        time.Time
	StartingPrice decimal.Decimal
}

/*
Create validates and persists a new auction for the session's user.

Description: The caller's live session identifies both the seller and the
owning site; creating an auction is authenticated activity, so the session
slides. A new auction starts with price = starting price, no winner, and no
ceiling.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Auction: Created entity with its assigned ID
  - error: InvalidArgument, TemporalViolation, SessionExpired, or storage errors
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Auction, error) {
	validator := &validate.Validator{}
	err := validator.
		Required("description", input.Description).
		NonNegative("starting_price", input.StartingPrice).
		Err()
	if err != nil {
		return nil, err
	}

	// The end time must be strictly in the future on the site clock. An
	// auction born closed could never accept a bid.
	if !service.clock.Now().Before(input.EndsOn) {
		return nil, apperr.TemporalViolation("Auction end time must be in the future")
	}

	liveSession, err := service.sessions.Touch(context, input.SessionID)
	if err != nil {
		return nil, err
	}

	auction := &Auction{
		SiteID:      liveSession.SiteID,
		SellerID:    liveSession.UserID,
		Description: input.Description,
		EndsOn:      input.EndsOn,
		Price:       input.StartingPrice,
		CreatedAt:   service.clock.Now(),
	}

	if err := service.repo.Create(context, auction); err != nil {
		return nil, fmt.Errorf("auction_service_create_failed: %w", err)
	}

	service.logger.Info("auction_created",
		slog.Int64("auction_id", auction.ID),
		slog.String("site_id", auction.SiteID),
		slog.String("seller_id", auction.SellerID),
	)

	return auction, nil
}

/*
Delete removes an auction unconditionally.

Description: Works on open and closed auctions alike; closed auctions are
immutable to bids, not to removal.

Returns:
  - error: NotFound or storage errors
*/
func (service *Service) Delete(context context.Context, siteID string, auctionID int64) error {
	if _, err := service.repo.FindByID(context, siteID, auctionID); err != nil {
		return err
	}

	if err := service.repo.Delete(context, siteID, auctionID); err != nil {
		return fmt.Errorf("auction_service_delete_failed: %w", err)
	}

	service.logger.Info("auction_deleted",
		slog.Int64("auction_id", auctionID),
		slog.String("site_id", siteID),
	)

	return nil
}

// # Bidding

/*
Bid admits and resolves a bid against an auction.

Description: Admission checks run in a fixed order, each with its own error
kind: the auction must be open (AuctionClosed), the amount non-negative
(InvalidArgument), the session live (SessionExpired, slid on success), the
bidder must not be the seller (SelfBidForbidden), and bidder and seller must
share a site (CrossTenantForbidden). An admitted bid runs the resolver inside
the store's per-auction critical section; the openness check is repeated
there so a bid racing the deadline cannot mutate a just-closed auction.

A bid that is simply too low is a normal false — never an error.

Parameters:
  - context: context.Context
  - siteID: string
  - auctionID: int64
  - sessionID: string
  - amount: decimal.Decimal

Returns:
  - bool: The resolver's verdict (whether the bid took effect)
  - error: Admission failures or storage errors
*/
func (service *Service) Bid(context context.Context, siteID string, auctionID int64, sessionID string, amount decimal.Decimal) (bool, error) {
	auction, err := service.repo.FindByID(context, siteID, auctionID)
	if err != nil {
		return false, err
	}

	if !auction.OpenAt(service.clock.Now()) {
		return false, apperr.AuctionClosed("Auction is closed")
	}

	if amount.IsNegative() {
		return false, validate.RequiredError("amount", "Must not be negative")
	}

	liveSession, err := service.sessions.Touch(context, sessionID)
	if err != nil {
		return false, err
	}

	if liveSession.UserID == auction.SellerID {
		return false, apperr.SelfBidForbidden()
	}

	if liveSession.SiteID != auction.SiteID {
		return false, apperr.CrossTenantForbidden()
	}

	owningSite, err := service.sites.FindByID(context, auction.SiteID)
	if err != nil {
		return false, err
	}
	increment := owningSite.MinBidIncrement
	bidderID := liveSession.UserID

	accepted, err := service.repo.ResolveBid(context, siteID, auctionID, func(current *Auction) (bool, error) {
		// Re-check under the lock: the deadline may have passed, or another
		// bid may have changed the book since admission.
		if !current.OpenAt(service.clock.Now()) {
			return false, apperr.AuctionClosed("Auction is closed")
		}

		state, ok := Resolve(BidState{
			Price:    current.Price,
			WinnerID: current.WinnerID,
			Ceiling:  current.Ceiling,
		}, bidderID, amount, increment)

		current.Price = state.Price
		current.WinnerID = state.WinnerID
		current.Ceiling = state.Ceiling
		return ok, nil
	})
	if err != nil {
		return false, err
	}

	service.logger.Info("bid_resolved",
		slog.Int64("auction_id", auctionID),
		slog.String("site_id", siteID),
		slog.String("bidder_id", bidderID),
		slog.String("amount", amount.String()),
		slog.Bool("accepted", accepted),
	)

	return accepted, nil
}

// # Queries

/*
CurrentPrice returns the displayed price of an auction.

Returns:
  - decimal.Decimal: Displayed price
  - error: NotFound or storage errors
*/
func (service *Service) CurrentPrice(context context.Context, siteID string, auctionID int64) (decimal.Decimal, error) {
	auction, err := service.repo.FindByID(context, siteID, auctionID)
	if err != nil {
		return decimal.Zero, err
	}
	return auction.Price, nil
}

/*
CurrentWinner returns the user currently winning an auction.

Description: nil when no bid was ever accepted AND once the auction has
ended — a closed auction has a final winner, not a current one, and the final
winner is reported through WonByUser.

Returns:
  - *string: Winning user ID, or nil
  - error: NotFound or storage errors
*/
func (service *Service) CurrentWinner(context context.Context, siteID string, auctionID int64) (*string, error) {
	auction, err := service.repo.FindByID(context, siteID, auctionID)
	if err != nil {
		return nil, err
	}

	if !auction.OpenAt(service.clock.Now()) {
		return nil, nil
	}

	return auction.WinnerID, nil
}

// ListAll returns every auction of a site, open and closed.
func (service *Service) ListAll(context context.Context, siteID string) ([]*Auction, error) {
	return service.repo.ListBySite(context, siteID)
}

// ListOpen returns the auctions of a site still accepting bids.
func (service *Service) ListOpen(context context.Context, siteID string) ([]*Auction, error) {
	auctions, err := service.repo.ListBySite(context, siteID)
	if err != nil {
		return nil, err
	}

	now := service.clock.Now()
	open := make([]*Auction, 0, len(auctions))
	for _, auction := range auctions {
		if auction.OpenAt(now) {
			open = append(open, auction)
		}
	}

	return open, nil
}

/*
WonByUser returns the closed auctions whose final winner is the user.

Returns:
  - []*Auction: Ended auctions won by the user
  - error: Storage errors
*/
func (service *Service) WonByUser(context context.Context, siteID, userID string) ([]*Auction, error) {
	return service.repo.ListWonByUser(context, siteID, userID, service.clock.Now())
}

// # Guard & Cascade Hooks

// HasOpenInvolvement implements [user.AuctionGuard]: reports whether the user
// is the seller or current winner of any open auction on the site.
func (service *Service) HasOpenInvolvement(context context.Context, siteID, userID string) (bool, error) {
	return service.repo.HasOpenInvolvement(context, siteID, userID, service.clock.Now())
}

// PurgeSite implements [site.Purger]: removes every auction of a deleted site.
func (service *Service) PurgeSite(context context.Context, siteID string) error {
	return service.repo.DeleteBySite(context, siteID)
}
