// Copyright (c) 2026 Gavella. All rights reserved.

/*
Package session implements the login session manager.

Sessions use sliding expiration: every authenticated activity re-derives the
expiry as now + the owning site's configured lifetime. Nothing in this package
ever sleeps or schedules; validity is a lazy comparison of the stored expiry
against the injected clock at the moment of use.

Architecture:

  - Service: Login, logout, and the Touch operation other domains call to
    validate-and-slide a session in one step.
  - Repository: Abstracted persistence (Postgres, Redis, or in-memory).
*/
package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gavella/gavella/internal/platform/apperr"
	"github.com/gavella/gavella/internal/platform/clock"
	"github.com/gavella/gavella/internal/platform/sec"
	"github.com/gavella/gavella/internal/site"
	"github.com/gavella/gavella/internal/user"
	"github.com/gavella/gavella/pkg/normalize"
	"github.com/gavella/gavella/pkg/uuidv7"
)

// Service implements session lifecycle use cases.
type Service struct {
	repo   Repository
	sites  site.Repository
	users  user.Repository
	clock  clock.Clock
	logger *slog.Logger
}

// NewService constructs a new session [Service].
func NewService(repo Repository, sites site.Repository, users user.Repository, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		sites:  sites,
		users:  users,
		clock:  clk,
		logger: logger,
	}
}

// # Authentication Flow

/*
Login authenticates a user on the named site and returns a live session.

Description: Wrong username or wrong password both yield (nil, nil) — an
absent value, not an error. Failed authentication is a normal outcome, and the
two causes are deliberately indistinguishable to prevent user enumeration.
If the user already holds a live session, it is slid and returned instead of
creating a second one; a stale session is replaced.

Parameters:
  - context: context.Context
  - siteName: string
  - username: string
  - password: string

Returns:
  - *Session: Live session, or nil on failed authentication
  - error: NotFound (site) or storage errors only
*/
func (service *Service) Login(context context.Context, siteName, username, password string) (*Session, error) {
	owningSite, err := service.sites.FindByName(context, normalize.Name(siteName))
	if err != nil {
		return nil, err
	}

	// Look up the account. Unknown user means failed authentication, not an error.
	account, err := service.users.FindByUsername(context, owningSite.ID, normalize.Username(username))
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, nil
		}
		return nil, err
	}

	// Constant-time comparison in bcrypt prevents timing attacks.
	if !sec.CheckPasswordHash(password, account.PasswordHash) {
		return nil, nil
	}

	now := service.clock.Now()
	expiresAt := now.Add(owningSite.SessionLifetime())

	// Reuse the existing session if it is still live; logging in twice must
	// not mint a second identity.
	existing, err := service.repo.FindByUser(context, account.ID)
	if err == nil {
		if existing.LiveAt(now) {
			if err := service.repo.UpdateExpiry(context, existing.ID, expiresAt); err != nil {
				return nil, fmt.Errorf("session_service_slide_failed: %w", err)
			}
			existing.ExpiresAt = expiresAt
			return existing, nil
		}

		// Stale session: replace it.
		if err := service.repo.Delete(context, existing.ID); err != nil && !apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, fmt.Errorf("session_service_replace_failed: %w", err)
		}
	} else if !apperr.HasCode(err, apperr.CodeNotFound) {
		return nil, err
	}

	session := &Session{
		ID:        uuidv7.New(),
		UserID:    account.ID,
		SiteID:    owningSite.ID,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}

	if err := service.repo.Create(context, session); err != nil {
		return nil, fmt.Errorf("session_service_create_failed: %w", err)
	}

	service.logger.Info("session_created",
		slog.String("session_id", session.ID),
		slog.String("user_id", account.ID),
		slog.String("site_id", owningSite.ID),
	)

	return session, nil
}

/*
Logout deletes a session.

Description: Logging out of a session that no longer exists — including a
second logout of the same session — is NotFound, not a silent success.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - error: NotFound or storage errors
*/
func (service *Service) Logout(context context.Context, sessionID string) error {
	// Resolve first so a vanished session reports NotFound regardless of the
	// backend's delete semantics.
	if _, err := service.repo.FindByID(context, sessionID); err != nil {
		return err
	}

	if err := service.repo.Delete(context, sessionID); err != nil {
		return err
	}

	service.logger.Info("session_deleted", slog.String("session_id", sessionID))
	return nil
}

// # Validation & Sliding

/*
Touch validates a session and slides its expiry in one step.

Description: The single entry point every session-consuming operation goes
through. An unknown or expired session yields SessionExpired; a live one has
its expiry re-derived as now + site lifetime before being returned. Expired
rows found here are lazily deleted.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - *Session: The live, freshly slid session
  - error: SessionExpired or storage errors
*/
func (service *Service) Touch(context context.Context, sessionID string) (*Session, error) {
	session, err := service.repo.FindByID(context, sessionID)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.SessionExpired("Session does not exist")
		}
		return nil, err
	}

	now := service.clock.Now()
	if !session.LiveAt(now) {
		// Lazy cleanup: the row outlived its validity.
		_ = service.repo.Delete(context, session.ID)
		return nil, apperr.SessionExpired("Session has expired")
	}

	owningSite, err := service.sites.FindByID(context, session.SiteID)
	if err != nil {
		return nil, err
	}

	expiresAt := now.Add(owningSite.SessionLifetime())
	if err := service.repo.UpdateExpiry(context, session.ID, expiresAt); err != nil {
		return nil, fmt.Errorf("session_service_slide_failed: %w", err)
	}

	session.ExpiresAt = expiresAt
	return session, nil
}

// # Cascade Hooks

// PurgeSite implements [site.Purger]: removes every session of a deleted site.
func (service *Service) PurgeSite(context context.Context, siteID string) error {
	return service.repo.DeleteBySite(context, siteID)
}

// PurgeUser implements [user.SessionPurger]: removes the session of a deleted user.
func (service *Service) PurgeUser(context context.Context, userID string) error {
	return service.repo.DeleteByUser(context, userID)
}
