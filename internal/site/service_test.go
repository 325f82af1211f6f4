// Copyright (c) 2026 Gavella. All rights reserved.

package site_test

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
	"github.com/gavella/gavella/internal/session"
	"github.com/gavella/gavella/internal/site"
	"github.com/gavella/gavella/internal/user"
)

func newSiteService(t *testing.T) *site.Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return site.NewService(site.NewMemoryRepository(), nil, logger)
}

func validInput() site.CreateInput {
	return site.CreateInput{
		Name:                   "hammerfall",
		TimezoneOffset:         2,
		SessionLifetimeSeconds: 600,
		MinBidIncrement:        decimal.NewFromInt(10),
	}
}

/*
TestSiteService_Create_Validation runs the tenant configuration rules through
the validator: name bounds, timezone range, and non-negative lifetime and
increment.
*/
func TestSiteService_Create_Validation(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*site.CreateInput)
		wantCode string
	}{
		{
			name:     "valid input",
			mutate:   func(*site.CreateInput) {},
			wantCode: "",
		},
		{
			name:     "empty name",
			mutate:   func(input *site.CreateInput) { input.Name = "" },
			wantCode: apperr.CodeInvalidArgument,
		},
		{
			name:     "whitespace-only name",
			mutate:   func(input *site.CreateInput) { input.Name = "   " },
			wantCode: apperr.CodeInvalidArgument,
		},
		{
			name: "name too long",
			mutate: func(input *site.CreateInput) {
				long := make([]byte, 129)
				for i := range long {
					long[i] = 'a'
				}
				input.Name = string(long)
			},
			wantCode: apperr.CodeInvalidArgument,
		},
		{
			name:     "timezone offset too low",
			mutate:   func(input *site.CreateInput) { input.TimezoneOffset = -13 },
			wantCode: apperr.CodeInvalidArgument,
		},
		{
			name:     "timezone offset too high",
			mutate:   func(input *site.CreateInput) { input.TimezoneOffset = 13 },
			wantCode: apperr.CodeInvalidArgument,
		},
		{
			name:     "timezone offset at the edge",
			mutate:   func(input *site.CreateInput) { input.TimezoneOffset = -12 },
			wantCode: "",
		},
		{
			name:     "negative session lifetime",
			mutate:   func(input *site.CreateInput) { input.SessionLifetimeSeconds = -1 },
			wantCode: apperr.CodeInvalidArgument,
		},
		{
			name:     "zero session lifetime is allowed",
			mutate:   func(input *site.CreateInput) { input.SessionLifetimeSeconds = 0 },
			wantCode: "",
		},
		{
			name:     "negative bid increment",
			mutate:   func(input *site.CreateInput) { input.MinBidIncrement = decimal.NewFromInt(-1) },
			wantCode: apperr.CodeInvalidArgument,
		},
		{
			name:     "zero bid increment is allowed",
			mutate:   func(input *site.CreateInput) { input.MinBidIncrement = decimal.Zero },
			wantCode: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newSiteService(t)
			input := validInput()
			tt.mutate(&input)

			created, err := service.Create(context.Background(), input)

			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.NotEmpty(t, created.ID)
				return
			}
			assert.True(t, apperr.HasCode(err, tt.wantCode))
		})
	}
}

/*
TestSiteService_Create_DuplicateName verifies global name uniqueness,
including names that only differ in Unicode composition.
*/
func TestSiteService_Create_DuplicateName(t *testing.T) {
	service := newSiteService(t)
	ctx := context.Background()

	input := validInput()
	input.Name = "café" // café, precomposed
	_, err := service.Create(ctx, input)
	require.NoError(t, err)

	_, err = service.Create(ctx, input)
	assert.True(t, apperr.HasCode(err, apperr.CodeAlreadyExists))

	// Same name, decomposed: NFC normalization makes it collide.
	input.Name = "café"
	_, err = service.Create(ctx, input)
	assert.True(t, apperr.HasCode(err, apperr.CodeAlreadyExists))
}

/*
TestSiteService_LoadAndList verifies name-keyed lookup and the public info
projection.
*/
func TestSiteService_LoadAndList(t *testing.T) {
	service := newSiteService(t)
	ctx := context.Background()

	first := validInput()
	_, err := service.Create(ctx, first)
	require.NoError(t, err)

	second := validInput()
	second.Name = "ironforge"
	second.TimezoneOffset = -5
	_, err = service.Create(ctx, second)
	require.NoError(t, err)

	loaded, err := service.Load(ctx, "hammerfall")
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.TimezoneOffset)
	assert.Equal(t, 10*time.Minute, loaded.SessionLifetime())

	_, err = service.Load(ctx, "atlantis")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	infos, err := service.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "hammerfall", infos[0].Name)
	assert.Equal(t, "ironforge", infos[1].Name)
}

/*
TestSiteService_Delete_Cascade wires the full purge chain the way main does
(auctions, then sessions, then users) and verifies that deleting a site takes
everything scoped to it along.
*/
func TestSiteService_Delete_Cascade(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	ctx := context.Background()

	siteRepo := site.NewMemoryRepository()
	userRepo := user.NewMemoryRepository()
	sessionRepo := session.NewMemoryRepository()
	auctionRepo := auction.NewMemoryRepository()

	sessionSvc := session.NewService(sessionRepo, siteRepo, userRepo, clk, logger)
	auctionSvc := auction.NewService(auctionRepo, siteRepo, sessionSvc, clk, logger)
	userSvc := user.NewService(userRepo, siteRepo, auctionSvc, sessionSvc, logger)
	siteSvc := site.NewService(siteRepo, []site.Purger{auctionSvc, sessionSvc, userSvc}, logger)

	created, err := siteSvc.Create(ctx, validInput())
	require.NoError(t, err)

	seller, err := userSvc.Create(ctx, "hammerfall", "seller", "opensesame")
	require.NoError(t, err)

	sellerSession, err := sessionSvc.Login(ctx, "hammerfall", "seller", "opensesame")
	require.NoError(t, err)
	require.NotNil(t, sellerSession)

	_, err = auctionSvc.Create(ctx, auction.CreateInput{
		SessionID:     sellerSession.ID,
		Description:   "A gently used gavel",
		EndsOn:        clk.Now().Add(time.Hour),
		StartingPrice: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	require.NoError(t, siteSvc.Delete(ctx, "hammerfall"))

	// The tenant and everything scoped to it is gone.
	_, err = siteSvc.Load(ctx, "hammerfall")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	_, err = userRepo.FindByID(ctx, seller.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	_, err = sessionRepo.FindByID(ctx, sellerSession.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	auctions, err := auctionRepo.ListBySite(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, auctions)

	// Deleting a site that is already gone reports not found.
	err = siteSvc.Delete(ctx, "hammerfall")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}
