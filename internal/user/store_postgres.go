// Copyright (c) 2026 Gavella. All rights reserved.

package user

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

// NewPostgresRepository creates a new PostgreSQL implementation of the user Repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Create persists a new account record into the users.account table.

Description: The (siteid, username) unique constraint enforces per-site
uniqueness at the storage level; collisions surface as AlreadyExists.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: AlreadyExists or connectivity errors
*/
func (repository *PostgresRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, siteid, username, passwordhash, createdat
		) VALUES ($1, $2, $3, $4, $5)`

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.SiteID,
		user.Username,
		user.PasswordHash,
		user.CreatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "User")
	}

	return nil
}

/*
FindByID retrieves an account record by its UUID.

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or storage errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*User, error) {
	const query = `
		SELECT id, siteid, username, passwordhash, createdat
		FROM users.account
		WHERE id = $1`

	user := &User{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&user.ID,
		&user.SiteID,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	return user, nil
}

/*
FindByUsername retrieves an account by its site-scoped username.

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or storage errors
*/
func (repository *PostgresRepository) FindByUsername(context context.Context, siteID, username string) (*User, error) {
	const query = `
		SELECT id, siteid, username, passwordhash, createdat
		FROM users.account
		WHERE siteid = $1 AND username = $2`

	user := &User{}
	err := repository.pool.QueryRow(context, query, siteID, username).Scan(
		&user.ID,
		&user.SiteID,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	return user, nil
}

/*
List returns all accounts of a site ordered by username.

Returns:
  - []*User: Site accounts
  - error: Storage errors
*/
func (repository *PostgresRepository) List(context context.Context, siteID string) ([]*User, error) {
	const query = `
		SELECT id, siteid, username, passwordhash, createdat
		FROM users.account
		WHERE siteid = $1
		ORDER BY username ASC`

	rows, err := repository.pool.Query(context, query, siteID)
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}
	defer rows.Close()

	users := make([]*User, 0)
	for rows.Next() {
		user := &User{}
		if err := rows.Scan(
			&user.ID,
			&user.SiteID,
			&user.Username,
			&user.PasswordHash,
			&user.CreatedAt,
		); err != nil {
			return nil, dberr.Wrap(err, "User")
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	return users, nil
}

/*
Delete removes an account row.

Returns:
  - error: Storage errors
*/
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	const query = "DELETE FROM users.account WHERE id = $1"

	_, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "User")
	}

	return nil
}

/*
DeleteBySite removes every account belonging to a site.

Description: Cascade hook used by site deletion; the FK cascade covers the
same ground when the site row is deleted directly.

Returns:
  - error: Storage errors
*/
func (repository *PostgresRepository) DeleteBySite(context context.Context, siteID string) error {
	const query = "DELETE FROM users.account WHERE siteid = $1"

	_, err := repository.pool.Exec(context, query, siteID)
	if err != nil {
		return dberr.Wrap(err, "User")
	}

	return nil
}
