// Copyright (c) 2026 Gavella. All rights reserved.

package session_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gavella/gavella/internal/platform/apperr"
	"github.com/gavella/gavella/internal/platform/clock"
	"github.com/gavella/gavella/internal/platform/sec"
	"github.com/gavella/gavella/internal/session"
	"github.com/gavella/gavella/internal/site"
	"github.com/gavella/gavella/internal/user"
	"github.com/gavella/gavella/pkg/uuidv7"
)

const (
	testSiteName = "hammerfall"
	testPassword = "opensesame"
	testLifetime = 600 // seconds
)

// newService builds a session service on in-memory repositories with one site
// and one registered account ("alice").
func newService(t *testing.T) (*session.Service, *clock.FakeClock, *site.Site) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	siteRepo := site.NewMemoryRepository()
	userRepo := user.NewMemoryRepository()
	sessionRepo := session.NewMemoryRepository()

	testSite := &site.Site{
		ID:                     uuidv7.New(),
		Name:                   testSiteName,
		SessionLifetimeSeconds: testLifetime,
		MinBidIncrement:        decimal.NewFromInt(1),
	}
	require.NoError(t, siteRepo.Create(context.Background(), testSite))

	hash, err := sec.HashPassword(testPassword)
	require.NoError(t, err)
	require.NoError(t, userRepo.Create(context.Background(), &user.User{
		ID:           uuidv7.New(),
		SiteID:       testSite.ID,
		Username:     "alice",
		PasswordHash: hash,
	}))

	return session.NewService(sessionRepo, siteRepo, userRepo, clk, logger), clk, testSite
}

/*
TestSessionService_Login covers the authentication outcomes: success with a
correctly derived expiry, and the deliberate (nil, nil) for both wrong
username and wrong password.
*/
func TestSessionService_Login(t *testing.T) {
	t.Run("success derives expiry from site lifetime", func(t *testing.T) {
		service, clk, testSite := newService(t)

		liveSession, err := service.Login(context.Background(), testSiteName, "alice", testPassword)

		require.NoError(t, err)
		require.NotNil(t, liveSession)
		assert.Equal(t, testSite.ID, liveSession.SiteID)
		assert.True(t, liveSession.ExpiresAt.Equal(clk.Now().Add(testLifetime*time.Second)))
	})

	t.Run("unknown username yields nil nil", func(t *testing.T) {
		service, _, _ := newService(t)

		liveSession, err := service.Login(context.Background(), testSiteName, "mallory", testPassword)

		assert.NoError(t, err, "failed authentication is not an error")
		assert.Nil(t, liveSession)
	})

	t.Run("wrong password yields nil nil", func(t *testing.T) {
		service, _, _ := newService(t)

		liveSession, err := service.Login(context.Background(), testSiteName, "alice", "letmein")

		assert.NoError(t, err)
		assert.Nil(t, liveSession)
	})

	t.Run("unknown site is not found", func(t *testing.T) {
		service, _, _ := newService(t)

		_, err := service.Login(context.Background(), "atlantis", "alice", testPassword)

		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	})
}

/*
TestSessionService_Login_ReusesLiveSession verifies that a second login while
a session is still live returns the same session, slid — never a second
identity for the same user.
*/
func TestSessionService_Login_ReusesLiveSession(t *testing.T) {
	service, clk, _ := newService(t)
	ctx := context.Background()

	first, err := service.Login(ctx, testSiteName, "alice", testPassword)
	require.NoError(t, err)
	require.NotNil(t, first)

	clk.Advance(5 * time.Minute)

	second, err := service.Login(ctx, testSiteName, "alice", testPassword)
	require.NoError(t, err)
	require.NotNil(t, second)

	assert.Equal(t, first.ID, second.ID, "a live session is reused, not replaced")
	assert.True(t, second.ExpiresAt.Equal(clk.Now().Add(testLifetime*time.Second)),
		"the reused session slides to a fresh full lifetime")
}

/*
TestSessionService_Login_ReplacesStaleSession verifies that logging in after
the previous session expired mints a brand new session ID.
*/
func TestSessionService_Login_ReplacesStaleSession(t *testing.T) {
	service, clk, _ := newService(t)
	ctx := context.Background()

	first, err := service.Login(ctx, testSiteName, "alice", testPassword)
	require.NoError(t, err)
	require.NotNil(t, first)

	clk.Advance(11 * time.Minute)

	second, err := service.Login(ctx, testSiteName, "alice", testPassword)
	require.NoError(t, err)
	require.NotNil(t, second)

	assert.NotEqual(t, first.ID, second.ID, "a stale session is replaced")

	// The old identity is gone for good.
	_, err = service.Touch(ctx, first.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeSessionExpired))
}

/*
TestSessionService_Logout verifies deletion semantics: a successful logout,
then NotFound on the second attempt.
*/
func TestSessionService_Logout(t *testing.T) {
	service, _, _ := newService(t)
	ctx := context.Background()

	liveSession, err := service.Login(ctx, testSiteName, "alice", testPassword)
	require.NoError(t, err)
	require.NotNil(t, liveSession)

	require.NoError(t, service.Logout(ctx, liveSession.ID))

	err = service.Logout(ctx, liveSession.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound), "double logout reports not found")
}

/*
TestSessionService_Touch covers the validate-and-slide operation: a live
session slides to a fresh full lifetime, an expired one is reported and
lazily deleted, an unknown one reads the same as an expired one.
*/
func TestSessionService_Touch(t *testing.T) {
	t.Run("live session slides", func(t *testing.T) {
		service, clk, _ := newService(t)
		ctx := context.Background()

		liveSession, err := service.Login(ctx, testSiteName, "alice", testPassword)
		require.NoError(t, err)
		require.NotNil(t, liveSession)

		clk.Advance(9 * time.Minute)

		touched, err := service.Touch(ctx, liveSession.ID)
		require.NoError(t, err)
		assert.True(t, touched.ExpiresAt.Equal(clk.Now().Add(testLifetime*time.Second)))
	})

	t.Run("activity within the window keeps the session alive indefinitely", func(t *testing.T) {
		service, clk, _ := newService(t)
		ctx := context.Background()

		liveSession, err := service.Login(ctx, testSiteName, "alice", testPassword)
		require.NoError(t, err)
		require.NotNil(t, liveSession)

		// Five touches, each just inside the 10-minute lifetime: total elapsed
		// time far exceeds a single lifetime.
		for range [5]struct{}{} {
			clk.Advance(9 * time.Minute)
			_, err := service.Touch(ctx, liveSession.ID)
			require.NoError(t, err)
		}
	})

	t.Run("expired session is reported and removed", func(t *testing.T) {
		service, clk, _ := newService(t)
		ctx := context.Background()

		liveSession, err := service.Login(ctx, testSiteName, "alice", testPassword)
		require.NoError(t, err)
		require.NotNil(t, liveSession)

		clk.Advance(11 * time.Minute)

		_, err = service.Touch(ctx, liveSession.ID)
		require.True(t, apperr.HasCode(err, apperr.CodeSessionExpired))
		appError := apperr.As(err)
		assert.Equal(t, "Session has expired", appError.Message)

		// The lazy delete ran: the row reads as nonexistent now.
		_, err = service.Touch(ctx, liveSession.ID)
		require.True(t, apperr.HasCode(err, apperr.CodeSessionExpired))
		appError = apperr.As(err)
		assert.Equal(t, "Session does not exist", appError.Message)
	})

	t.Run("expiry instant itself is already expired", func(t *testing.T) {
		service, clk, _ := newService(t)
		ctx := context.Background()

		liveSession, err := service.Login(ctx, testSiteName, "alice", testPassword)
		require.NoError(t, err)
		require.NotNil(t, liveSession)

		// now == expiresAt: validity requires now strictly before expiry.
		clk.Set(liveSession.ExpiresAt)

		_, err = service.Touch(ctx, liveSession.ID)
		assert.True(t, apperr.HasCode(err, apperr.CodeSessionExpired))
	})

	t.Run("unknown session", func(t *testing.T) {
		service, _, _ := newService(t)

		_, err := service.Touch(context.Background(), uuidv7.New())
		assert.True(t, apperr.HasCode(err, apperr.CodeSessionExpired))
	})
}

/*
TestSessionService_PurgeUser verifies the cascade hook invoked on account
deletion: the user's session disappears with the account.
*/
func TestSessionService_PurgeUser(t *testing.T) {
	service, _, _ := newService(t)
	ctx := context.Background()

	liveSession, err := service.Login(ctx, testSiteName, "alice", testPassword)
	require.NoError(t, err)
	require.NotNil(t, liveSession)

	require.NoError(t, service.PurgeUser(ctx, liveSession.UserID))

	_, err = service.Touch(ctx, liveSession.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeSessionExpired))
}
