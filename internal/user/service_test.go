// Copyright (c) 2026 Gavella. All rights reserved.

package user_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gavella/gavella/internal/auction"
	"github.com/gavella/gavella/internal/platform/apperr"
	"github.com/gavella/gavella/internal/platform/clock"
	"github.com/gavella/gavella/internal/platform/sec"
	"github.com/gavella/gavella/internal/session"
	"github.com/gavella/gavella/internal/site"
	"github.com/gavella/gavella/internal/user"
	"github.com/gavella/gavella/pkg/uuidv7"
)

// fixture wires the user service against in-memory repositories and the real
// auction guard and session purger, with two independent sites.
type fixture struct {
	clock    *clock.FakeClock
	users    *user.Service
	sessions *session.Service
	auctions *auction.Service

	siteA *site.Site
	siteB *site.Site
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	siteRepo := site.NewMemoryRepository()
	userRepo := user.NewMemoryRepository()
	sessionRepo := session.NewMemoryRepository()
	auctionRepo := auction.NewMemoryRepository()

	siteA := &site.Site{
		ID:                     uuidv7.New(),
		Name:                   "hammerfall",
		SessionLifetimeSeconds: 600,
		MinBidIncrement:        decimal.NewFromInt(10),
	}
	siteB := &site.Site{
		ID:                     uuidv7.New(),
		Name:                   "ironforge",
		SessionLifetimeSeconds: 600,
		MinBidIncrement:        decimal.NewFromInt(10),
	}
	require.NoError(t, siteRepo.Create(context.Background(), siteA))
	require.NoError(t, siteRepo.Create(context.Background(), siteB))

	sessionSvc := session.NewService(sessionRepo, siteRepo, userRepo, clk, logger)
	auctionSvc := auction.NewService(auctionRepo, siteRepo, sessionSvc, clk, logger)
	userSvc := user.NewService(userRepo, siteRepo, auctionSvc, sessionSvc, logger)

	return &fixture{
		clock:    clk,
		users:    userSvc,
		sessions: sessionSvc,
		auctions: auctionSvc,
		siteA:    siteA,
		siteB:    siteB,
	}
}

/*
TestUserService_Create covers registration: validation bounds, per-site
username uniqueness, and password hashing.
*/
func TestUserService_Create(t *testing.T) {
	t.Run("success stores a bcrypt hash", func(t *testing.T) {
		f := newFixture(t)

		created, err := f.users.Create(context.Background(), "hammerfall", "alice", "opensesame")

		require.NoError(t, err)
		assert.Equal(t, f.siteA.ID, created.SiteID)
		assert.NotEqual(t, "opensesame", created.PasswordHash, "the plaintext never touches storage")
		assert.True(t, sec.CheckPasswordHash("opensesame", created.PasswordHash))
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name     string
			username string
			password string
		}{
			{"username too short", "al", "opensesame"},
			{"username empty", "", "opensesame"},
			{"password too short", "alice", "abc"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newFixture(t)

				_, err := f.users.Create(context.Background(), "hammerfall", tt.username, tt.password)
				assert.True(t, apperr.HasCode(err, apperr.CodeInvalidArgument))
			})
		}
	})

	t.Run("duplicate username on the same site", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()

		_, err := f.users.Create(ctx, "hammerfall", "alice", "opensesame")
		require.NoError(t, err)

		_, err = f.users.Create(ctx, "hammerfall", "alice", "different")
		assert.True(t, apperr.HasCode(err, apperr.CodeAlreadyExists))
	})

	t.Run("same username on another site is fine", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()

		first, err := f.users.Create(ctx, "hammerfall", "alice", "opensesame")
		require.NoError(t, err)

		second, err := f.users.Create(ctx, "ironforge", "alice", "opensesame")
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
		assert.Equal(t, f.siteB.ID, second.SiteID)
	})

	t.Run("unknown site", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.users.Create(context.Background(), "atlantis", "alice", "opensesame")
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	})
}

/*
TestUserService_List verifies the per-site account listing, by ID and by
site name.
*/
func TestUserService_List(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.users.Create(ctx, "hammerfall", "bob", "opensesame")
	require.NoError(t, err)
	_, err = f.users.Create(ctx, "hammerfall", "alice", "opensesame")
	require.NoError(t, err)
	_, err = f.users.Create(ctx, "ironforge", "carol", "opensesame")
	require.NoError(t, err)

	accounts, err := f.users.ListBySiteName(ctx, "hammerfall")
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "alice", accounts[0].Username)
	assert.Equal(t, "bob", accounts[1].Username)
}

/*
TestUserService_Delete covers the deletion guard: a user entangled in an open
auction (as seller or current winner) stays, everyone else goes, and deletion
takes the user's session along.
*/
func TestUserService_Delete(t *testing.T) {
	listAuction := func(t *testing.T, f *fixture, sessionID string) *auction.Auction {
		t.Helper()
		listed, err := f.auctions.Create(context.Background(), auction.CreateInput{
			SessionID:     sessionID,
			Description:   "A gently used gavel",
			EndsOn:        f.clock.Now().Add(30 * time.Minute),
			StartingPrice: decimal.NewFromInt(100),
		})
		require.NoError(t, err)
		return listed
	}

	t.Run("free user is deleted with their session", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()

		_, err := f.users.Create(ctx, "hammerfall", "alice", "opensesame")
		require.NoError(t, err)
		aliceSession, err := f.sessions.Login(ctx, "hammerfall", "alice", "opensesame")
		require.NoError(t, err)
		require.NotNil(t, aliceSession)

		require.NoError(t, f.users.DeleteBySiteName(ctx, "hammerfall", "alice"))

		_, err = f.users.Get(ctx, f.siteA.ID, "alice")
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

		_, err = f.sessions.Touch(ctx, aliceSession.ID)
		assert.True(t, apperr.HasCode(err, apperr.CodeSessionExpired))
	})

	t.Run("seller of an open auction cannot be deleted", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()

		_, err := f.users.Create(ctx, "hammerfall", "seller", "opensesame")
		require.NoError(t, err)
		sellerSession, err := f.sessions.Login(ctx, "hammerfall", "seller", "opensesame")
		require.NoError(t, err)
		require.NotNil(t, sellerSession)

		listAuction(t, f, sellerSession.ID)

		err = f.users.DeleteBySiteName(ctx, "hammerfall", "seller")
		assert.True(t, apperr.HasCode(err, apperr.CodeInvalidArgument))

		// Once the auction ends, the guard releases.
		f.clock.Advance(time.Hour)
		assert.NoError(t, f.users.DeleteBySiteName(ctx, "hammerfall", "seller"))
	})

	t.Run("current winner of an open auction cannot be deleted", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()

		_, err := f.users.Create(ctx, "hammerfall", "seller", "opensesame")
		require.NoError(t, err)
		_, err = f.users.Create(ctx, "hammerfall", "alice", "opensesame")
		require.NoError(t, err)

		sellerSession, err := f.sessions.Login(ctx, "hammerfall", "seller", "opensesame")
		require.NoError(t, err)
		aliceSession, err := f.sessions.Login(ctx, "hammerfall", "alice", "opensesame")
		require.NoError(t, err)

		listed := listAuction(t, f, sellerSession.ID)
		accepted, err := f.auctions.Bid(ctx, f.siteA.ID, listed.ID, aliceSession.ID, decimal.NewFromInt(150))
		require.NoError(t, err)
		require.True(t, accepted)

		err = f.users.DeleteBySiteName(ctx, "hammerfall", "alice")
		assert.True(t, apperr.HasCode(err, apperr.CodeInvalidArgument))
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newFixture(t)

		err := f.users.DeleteBySiteName(context.Background(), "hammerfall", "nobody")
		assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	})
}
