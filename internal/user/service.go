// Copyright (c) 2026 Gavella. All rights reserved.

/*
Package user implements per-site account management.

It handles registration with site-scoped username uniqueness, bcrypt password
hashing, and the deletion guard that keeps accounts alive while they are
entangled in open auctions.

Architecture:

  - Service: Orchestrates validation, uniqueness, and deletion guards.
  - Repository: Abstracted persistence (Postgres or in-memory).
  - AuctionGuard: Interface the auction domain implements so this package
    never has to import it.
*/
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gavella/gavella/internal/platform/apperr"
	"github.com/gavella/gavella/internal/platform/constants"
	"github.com/gavella/gavella/internal/platform/sec"
	"github.com/gavella/gavella/internal/platform/validate"
	"github.com/gavella/gavella/internal/site"
	"github.com/gavella/gavella/pkg/normalize"
	"github.com/gavella/gavella/pkg/uuidv7"
)

// # Contracts & Types

// AuctionGuard reports whether a user is entangled in open auctions.
//
// A user is entangled while they are the seller or the current winner of any
// auction that has not yet ended. Entangled users cannot be deleted.
type AuctionGuard interface {
	HasOpenInvolvement(ctx context.Context, siteID, userID string) (bool, error)
}

// SessionPurger removes all sessions of a user, invoked when the account goes away.
type SessionPurger interface {
	PurgeUser(ctx context.Context, userID string) error
}

// Service implements account management use cases.
type Service struct {
	repo          Repository
	sites         site.Repository
	guard         AuctionGuard
	sessionPurger SessionPurger
	logger        *slog.Logger
}

// NewService constructs a new user [Service].
func NewService(repo Repository, sites site.Repository, guard AuctionGuard, sessionPurger SessionPurger, logger *slog.Logger) *Service {
	return &Service{
		repo:          repo,
		sites:         sites,
		guard:         guard,
		sessionPurger: sessionPurger,
		logger:        logger,
	}
}

// # Registration

/*
Create validates, hashes, and persists a new account on the named site.

Description: Usernames are NFC-normalized and unique per site. Passwords are
bcrypt-hashed; the plaintext never touches storage.

Parameters:
  - context: context.Context
  - siteName: string (Owning tenant, by unique name)
  - username: string
  - password: string

Returns:
  - *User: Created entity
  - error: InvalidArgument, NotFound (site), AlreadyExists, or storage errors
*/
func (service *Service) Create(context context.Context, siteName, username, password string) (*User, error) {
	username = normalize.Username(username)

	validator := &validate.Validator{}
	err := validator.
		Required("username", username).
		MinLen("username", username, constants.MinUsernameLength).
		MaxLen("username", username, constants.MaxUsernameLength).
		MinLen("password", password, constants.MinPasswordLength).
		Err()
	if err != nil {
		return nil, err
	}

	// Resolve the owning site first; an unknown site is NotFound, not a
	// validation problem.
	owningSite, err := service.sites.FindByName(context, normalize.Name(siteName))
	if err != nil {
		return nil, err
	}

	// Verify per-site username uniqueness.
	_, err = service.repo.FindByUsername(context, owningSite.ID, username)
	if err == nil {
		return nil, apperr.AlreadyExists("Username is already taken on this site")
	}
	if !apperr.HasCode(err, apperr.CodeNotFound) {
		return nil, err
	}

	// Prevent storing plain-text passwords.
	hashedPassword, err := sec.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("user_service_hash_failed: %w", err)
	}

	user := &User{
		ID:           uuidv7.New(),
		SiteID:       owningSite.ID,
		Username:     username,
		PasswordHash: hashedPassword,
	}

	if err := service.repo.Create(context, user); err != nil {
		return nil, fmt.Errorf("user_service_create_failed: %w", err)
	}

	service.logger.Info("user_created",
		slog.String("user_id", user.ID),
		slog.String("site_id", user.SiteID),
	)

	return user, nil
}

// # Queries

/*
Get retrieves a user by site-scoped username.

Returns:
  - *User: Hydrated account entity
  - error: NotFound or storage errors
*/
func (service *Service) Get(context context.Context, siteID, username string) (*User, error) {
	return service.repo.FindByUsername(context, siteID, normalize.Username(username))
}

/*
List returns all accounts registered on a site.

Returns:
  - []*User: Accounts ordered by username
  - error: Storage errors
*/
func (service *Service) List(context context.Context, siteID string) ([]*User, error) {
	return service.repo.List(context, siteID)
}

// # Deletion

/*
Delete removes an account unless it is entangled in open auctions.

Description: A user who is the seller or current winner of an open auction
cannot be deleted; the auction's money trail must stay attached to a real
account until the auction closes. Deleting a user also drops their sessions.

Parameters:
  - context: context.Context
  - siteID: string
  - username: string

Returns:
  - error: NotFound, InvalidArgument (entangled), or storage errors
*/
func (service *Service) Delete(context context.Context, siteID, username string) error {
	user, err := service.repo.FindByUsername(context, siteID, normalize.Username(username))
	if err != nil {
		return err
	}

	entangled, err := service.guard.HasOpenInvolvement(context, siteID, user.ID)
	if err != nil {
		return fmt.Errorf("user_service_guard_failed: %w", err)
	}
	if entangled {
		return apperr.InvalidArgument("User is the seller or current winner of an open auction")
	}

	// Drop the user's sessions before the account itself.
	if err := service.sessionPurger.PurgeUser(context, user.ID); err != nil {
		return fmt.Errorf("user_service_session_purge_failed: %w", err)
	}

	if err := service.repo.Delete(context, user.ID); err != nil {
		return fmt.Errorf("user_service_delete_failed: %w", err)
	}

	service.logger.Info("user_deleted",
		slog.String("user_id", user.ID),
		slog.String("site_id", siteID),
	)

	return nil
}

// ListBySiteName resolves the named site and returns its accounts.
func (service *Service) ListBySiteName(context context.Context, siteName string) ([]*User, error) {
	owningSite, err := service.sites.FindByName(context, normalize.Name(siteName))
	if err != nil {
		return nil, err
	}
	return service.List(context, owningSite.ID)
}

// DeleteBySiteName resolves the named site and deletes one of its accounts.
func (service *Service) DeleteBySiteName(context context.Context, siteName, username string) error {
	owningSite, err := service.sites.FindByName(context, normalize.Name(siteName))
	if err != nil {
		return err
	}
	return service.Delete(context, owningSite.ID, username)
}

// # Cascade Hooks

// PurgeSite implements [site.Purger]: removes every account of a deleted site.
func (service *Service) PurgeSite(context context.Context, siteID string) error {
	return service.repo.DeleteBySite(context, siteID)
}
