// Copyright (c) 2026 Gavella. All rights reserved.

package session

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gavella/gavella/internal/platform/apperr"
	"github.com/gavella/gavella/internal/platform/dberr"
)

// PostgresRepository implements the [Repository] interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of the session Repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Create persists a new session record into the users.session table.

Parameters:
  - context: context.Context
  - session: *Session

Returns:
  - error: Storage failures
*/
func (repository *PostgresRepository) Create(context context.Context, session *Session) error {
	const query = `
		INSERT INTO users.session (
			id, userid, siteid, expiresat, createdat
		) VALUES ($1, $2, $3, $4, $5)`

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		session.ID,
		session.UserID,
		session.SiteID,
		session.ExpiresAt,
		session.CreatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Session")
	}

	return nil
}

/*
FindByID retrieves a session by its opaque UUID.

Description: Returns the row regardless of expiry; the service layer owns the
validity check against its injected clock.

Returns:
  - *Session: Hydrated session
  - error: apperr.NotFound or storage errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Session, error) {
	const query = `
		SELECT id, userid, siteid, expiresat, createdat
		FROM users.session
		WHERE id = $1`

	session := &Session{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&session.ID,
		&session.UserID,
		&session.SiteID,
		&session.ExpiresAt,
		&session.CreatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Session")
	}

	return session, nil
}

/*
FindByUser retrieves the session bound to a user.

Returns:
  - *Session: Hydrated session
  - error: apperr.NotFound or storage errors
*/
func (repository *PostgresRepository) FindByUser(context context.Context, userID string) (*Session, error) {
	const query = `
		SELECT id, userid, siteid, expiresat, createdat
		FROM users.session
		WHERE userid = $1`

	session := &Session{}
	err := repository.pool.QueryRow(context, query, userID).Scan(
		&session.ID,
		&session.UserID,
		&session.SiteID,
		&session.ExpiresAt,
		&session.CreatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Session")
	}

	return session, nil
}

/*
UpdateExpiry slides a session's expiry to the given instant.

Returns:
  - error: apperr.NotFound if the session vanished, or storage errors
*/
func (repository *PostgresRepository) UpdateExpiry(context context.Context, id string, expiresAt time.Time) error {
	const query = "UPDATE users.session SET expiresat = $2 WHERE id = $1"

	tag, err := repository.pool.Exec(context, query, id, expiresAt)
	if err != nil {
		return dberr.Wrap(err, "Session")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Session")
	}

	return nil
}

/*
Delete removes a session row.

Returns:
  - error: apperr.NotFound if already gone, or storage errors
*/
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	const query = "DELETE FROM users.session WHERE id = $1"

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "Session")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Session")
	}

	return nil
}

/*
DeleteByUser removes the session of a user, if any.

Returns:
  - error: Storage errors
*/
func (repository *PostgresRepository) DeleteByUser(context context.Context, userID string) error {
	const query = "DELETE FROM users.session WHERE userid = $1"

	_, err := repository.pool.Exec(context, query, userID)
	if err != nil {
		return dberr.Wrap(err, "Session")
	}

	return nil
}

/*
DeleteBySite removes every session belonging to a site.

Returns:
  - error: Storage errors
*/
func (repository *PostgresRepository) DeleteBySite(context context.Context, siteID string) error {
	const query = "DELETE FROM users.session WHERE siteid = $1"

	_, err := repository.pool.Exec(context, query, siteID)
	if err != nil {
		return dberr.Wrap(err, "Session")
	}

	return nil
}
