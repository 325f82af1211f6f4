// Copyright (c) 2026 Gavella. All rights reserved.

package site

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gavella/gavella/internal/platform/dberr"
)

// PostgresRepository implements the [Repository] interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of the site Repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Create persists a new site record into the auction.site table.

Parameters:
  - context: context.Context
  - site: *Site (Entity to persist)

Returns:
  - error: AlreadyExists on name collision, or connectivity errors
*/
func (repository *PostgresRepository) Create(context context.Context, site *Site) error {
	const query = `
		INSERT INTO auction.site (
			id, name, timezoneoffset, sessionlifetimeseconds, minbidincrement, createdat
		) VALUES ($1, $2, $3, $4, $5, $6)`

	if site.CreatedAt.IsZero() {
		site.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		site.ID,
		site.Name,
		site.TimezoneOffset,
		site.SessionLifetimeSeconds,
		site.MinBidIncrement,
		site.CreatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Site")
	}

	return nil
}

/*
FindByID retrieves a site record by its UUID.

Returns:
  - *Site: Hydrated tenant entity
  - error: apperr.NotFound or storage errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Site, error) {
	const query = `
		SELECT id, name, timezoneoffset, sessionlifetimeseconds, minbidincrement, createdat
		FROM auction.site
		WHERE id = $1`

	site := &Site{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&site.ID,
		&site.Name,
		&site.TimezoneOffset,
		&site.SessionLifetimeSeconds,
		&site.MinBidIncrement,
		&site.CreatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Site")
	}

	return site, nil
}

/*
FindByName retrieves a site record by its unique name.

Returns:
  - *Site: Hydrated tenant entity
  - error: apperr.NotFound or storage errors
*/
func (repository *PostgresRepository) FindByName(context context.Context, name string) (*Site, error) {
	const query = `
		SELECT id, name, timezoneoffset, sessionlifetimeseconds, minbidincrement, createdat
		FROM auction.site
		WHERE name = $1`

	site := &Site{}
	err := repository.pool.QueryRow(context, query, name).Scan(
		&site.ID,
		&site.Name,
		&site.TimezoneOffset,
		&site.SessionLifetimeSeconds,
		&site.MinBidIncrement,
		&site.CreatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Site")
	}

	return site, nil
}

/*
List returns all sites ordered by name.

Returns:
  - []*Site: All registered tenants
  - error: Storage errors
*/
func (repository *PostgresRepository) List(context context.Context) ([]*Site, error) {
	const query = `
		SELECT id, name, timezoneoffset, sessionlifetimeseconds, minbidincrement, createdat
		FROM auction.site
		ORDER BY name ASC`

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "Site")
	}
	defer rows.Close()

	sites := make([]*Site, 0)
	for rows.Next() {
		site := &Site{}
		if err := rows.Scan(
			&site.ID,
			&site.Name,
			&site.TimezoneOffset,
			&site.SessionLifetimeSeconds,
			&site.MinBidIncrement,
			&site.CreatedAt,
		); err != nil {
			return nil, dberr.Wrap(err, "Site")
		}
		sites = append(sites, site)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "Site")
	}

	return sites, nil
}

/*
Delete removes a site row. The schema's ON DELETE CASCADE constraints remove
dependent users, sessions, and auctions in the same statement.

Returns:
  - error: Storage errors
*/
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	const query = "DELETE FROM auction.site WHERE id = $1"

	_, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "Site")
	}

	return nil
}
