// Copyright (c) 2026 Gavella. All rights reserved.

/*
Package site implements the tenant layer of the Gavella marketplace.

A site is an independent auction house: it owns its users, their login
sessions, and its auctions, and it carries the configuration that drives the
rest of the system (timezone offset, session lifetime, minimum bid increment).

Architecture:

  - Service: Orchestrates validation, uniqueness, and cascade deletion.
  - Repository: Abstracted persistence (Postgres or in-memory).
  - Purger: Hook interface other domains implement to take part in cascades.
*/
package site

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/gavella/gavella/internal/platform/apperr"
	"github.com/gavella/gavella/internal/platform/constants"
	"github.com/gavella/gavella/internal/platform/validate"
	"github.com/gavella/gavella/pkg/normalize"
	"github.com/gavella/gavella/pkg/uuidv7"
)

// # Contracts & Types

// Purger is implemented by domains that own site-scoped data (users, sessions,
// auctions). Deleting a site invokes every registered purger before the site
// row itself is removed, so non-SQL backends stay consistent with the cascade.
type Purger interface {
	PurgeSite(ctx context.Context, siteID string) error
}

// Service implements site (tenant) management use cases.
type Service struct {
	repo    Repository
	purgers []Purger
	logger  *slog.Logger
}

// NewService constructs a new site [Service].
//
// Purgers run in registration order on delete; register dependents before
// their dependencies (auctions before sessions before users).
func NewService(repo Repository, purgers []Purger, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		purgers: purgers,
		logger:  logger,
	}
}

// # Site Lifecycle

// CreateInput holds the configuration for a new site.
type CreateInput struct {
	Name                   string
	TimezoneOffset         int
	SessionLifetimeSeconds int
	MinBidIncrement        decimal.Decimal
}

/*
Create validates and persists a brand new site.

Description: Registers an independent tenant with its clock and bidding
configuration. Names are NFC-normalized before the uniqueness check so
visually identical names cannot coexist.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Site: Created entity
  - error: InvalidArgument, AlreadyExists, or storage errors
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Site, error) {
	name := normalize.Name(input.Name)

	validator := &validate.Validator{}
	err := validator.
		Required("name", name).
		MinLen("name", name, constants.MinSiteNameLength).
		MaxLen("name", name, constants.MaxSiteNameLength).
		Range("timezone_offset", input.TimezoneOffset, constants.MinTimezoneOffset, constants.MaxTimezoneOffset).
		NonNegativeInt("session_lifetime_seconds", input.SessionLifetimeSeconds).
		NonNegative("min_bid_increment", input.MinBidIncrement).
		Err()
	if err != nil {
		return nil, err
	}

	// Verify name uniqueness. Return a client-safe AlreadyExists error.
	_, err = service.repo.FindByName(context, name)
	if err == nil {
		return nil, apperr.AlreadyExists("A site with this name already exists")
	}
	if !apperr.HasCode(err, apperr.CodeNotFound) {
		return nil, err
	}

	// Construct the new Site entity. Time-sortable ID to prevent PG index fragmentation.
	site := &Site{
		ID:                     uuidv7.New(),
		Name:                   name,
		TimezoneOffset:         input.TimezoneOffset,
		SessionLifetimeSeconds: input.SessionLifetimeSeconds,
		MinBidIncrement:        input.MinBidIncrement,
	}

	if err := service.repo.Create(context, site); err != nil {
		return nil, fmt.Errorf("site_service_create_failed: %w", err)
	}

	service.logger.Info("site_created",
		slog.String("site_id", site.ID),
		slog.String("name", site.Name),
	)

	return site, nil
}

/*
Load retrieves a site by its unique name.

Parameters:
  - context: context.Context
  - name: string

Returns:
  - *Site: Hydrated tenant entity
  - error: NotFound or storage errors
*/
func (service *Service) Load(context context.Context, name string) (*Site, error) {
	return service.repo.FindByName(context, normalize.Name(name))
}

/*
List returns the public info projection of every site.

Description: Name and timezone only, ordered by name. Configuration like the
bid increment stays internal to the tenant.

Parameters:
  - context: context.Context

Returns:
  - []Info: Public site infos
  - error: Storage errors
*/
func (service *Service) List(context context.Context) ([]Info, error) {
	sites, err := service.repo.List(context)
	if err != nil {
		return nil, err
	}

	infos := make([]Info, 0, len(sites))
	for _, site := range sites {
		infos = append(infos, Info{
			Name:           site.Name,
			TimezoneOffset: site.TimezoneOffset,
		})
	}

	return infos, nil
}

/*
Delete removes a site and everything scoped to it.

Description: Runs every registered purge hook (auctions, sessions, users) and
then deletes the site row. In PostgreSQL the FK cascade is a safety net behind
the hooks; for memory and Redis backends the hooks ARE the cascade.

Parameters:
  - context: context.Context
  - name: string

Returns:
  - error: NotFound or cascade failures
*/
func (service *Service) Delete(context context.Context, name string) error {
	site, err := service.repo.FindByName(context, normalize.Name(name))
	if err != nil {
		return err
	}

	for _, purger := range service.purgers {
		if err := purger.PurgeSite(context, site.ID); err != nil {
			return fmt.Errorf("site_service_purge_failed: %w", err)
		}
	}

	if err := service.repo.Delete(context, site.ID); err != nil {
		return fmt.Errorf("site_service_delete_failed: %w", err)
	}

	service.logger.Info("site_deleted",
		slog.String("site_id", site.ID),
		slog.String("name", site.Name),
	)

	return nil
}
