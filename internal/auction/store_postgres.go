// Copyright (c) 2026 Gavella. All rights reserved.

package auction

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gavella/gavella/internal/platform/dberr"
)

// PostgresRepository implements the [Repository] interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of the auction Repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Create persists a new auction into the auction.listing table.

Description: The database sequence assigns the ID, written back into the entity.

Parameters:
  - context: context.Context
  - auction: *Auction (Entity to persist; ID populated on return)

Returns:
  - error: Storage failures
*/
func (repository *PostgresRepository) Create(context context.Context, auction *Auction) error {
	const query = `
		INSERT INTO auction.listing (
			siteid, sellerid, description, endson, price, winnerid, ceiling, createdat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	if auction.CreatedAt.IsZero() {
		auction.CreatedAt = time.Now()
	}

	err := repository.pool.QueryRow(context, query,
		auction.SiteID,
		auction.SellerID,
		auction.Description,
		auction.EndsOn,
		auction.Price,
		auction.WinnerID,
		auction.Ceiling,
		auction.CreatedAt,
	).Scan(&auction.ID)

	if err != nil {
		return dberr.Wrap(err, "Auction")
	}

	return nil
}

/*
FindByID retrieves an auction by its site-scoped identity.

Returns:
  - *Auction: Hydrated auction including hidden bidding state
  - error: apperr.NotFound or storage errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, siteID string, id int64) (*Auction, error) {
	const query = `
		SELECT id, siteid, sellerid, description, endson, price, winnerid, ceiling, createdat
		FROM auction.listing
		WHERE siteid = $1 AND id = $2`

	auction := &Auction{}
	err := repository.pool.QueryRow(context, query, siteID, id).Scan(
		&auction.ID,
		&auction.SiteID,
		&auction.SellerID,
		&auction.Description,
		&auction.EndsOn,
		&auction.Price,
		&auction.WinnerID,
		&auction.Ceiling,
		&auction.CreatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Auction")
	}

	return auction, nil
}

/*
ListBySite returns all auctions of a site ordered by ID.

Returns:
  - []*Auction: Site auctions, open and closed
  - error: Storage errors
*/
func (repository *PostgresRepository) ListBySite(context context.Context, siteID string) ([]*Auction, error) {
	const query = `
		SELECT id, siteid, sellerid, description, endson, price, winnerid, ceiling, createdat
		FROM auction.listing
		WHERE siteid = $1
		ORDER BY id ASC`

	rows, err := repository.pool.Query(context, query, siteID)
	if err != nil {
		return nil, dberr.Wrap(err, "Auction")
	}
	defer rows.Close()

	return scanAuctions(rows)
}

/*
ListWonByUser returns auctions already ended at the given instant whose final
winner is the user.

Parameters:
  - context: context.Context
  - siteID: string
  - userID: string
  - now: time.Time (The site clock's current instant)

Returns:
  - []*Auction: Ended auctions won by the user
  - error: Storage errors
*/
func (repository *PostgresRepository) ListWonByUser(context context.Context, siteID, userID string, now time.Time) ([]*Auction, error) {
	const query = `
		SELECT id, siteid, sellerid, description, endson, price, winnerid, ceiling, createdat
		FROM auction.listing
		WHERE siteid = $1 AND winnerid = $2 AND endson <= $3
		ORDER BY endson DESC`

	rows, err := repository.pool.Query(context, query, siteID, userID, now)
	if err != nil {
		return nil, dberr.Wrap(err, "Auction")
	}
	defer rows.Close()

	return scanAuctions(rows)
}

/*
HasOpenInvolvement reports whether the user is the seller or current winner of
any auction still open at the given instant.

Returns:
  - bool: Whether open involvement exists
  - error: Storage errors
*/
func (repository *PostgresRepository) HasOpenInvolvement(context context.Context, siteID, userID string, now time.Time) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM auction.listing
			WHERE siteid = $1 AND endson > $3 AND (sellerid = $2 OR winnerid = $2)
		)`

	var involved bool
	if err := repository.pool.QueryRow(context, query, siteID, userID, now).Scan(&involved); err != nil {
		return false, dberr.Wrap(err, "Auction")
	}

	return involved, nil
}

/*
ResolveBid executes fn against the auction's bidding state under a row lock.

Description: SELECT ... FOR UPDATE inside a transaction serializes bid
resolution per auction: a concurrent bid on the same row blocks until this
transaction commits, then sees the updated book. fn errors roll the
transaction back and leave the row untouched.

Parameters:
  - context: context.Context
  - siteID: string
  - id: int64
  - fn: ResolveFunc

Returns:
  - bool: fn's verdict
  - error: apperr.NotFound, fn errors, or storage errors
*/
func (repository *PostgresRepository) ResolveBid(context context.Context, siteID string, id int64, fn ResolveFunc) (bool, error) {
	const lockQuery = `
		SELECT id, siteid, sellerid, description, endson, price, winnerid, ceiling, createdat
		FROM auction.listing
		WHERE siteid = $1 AND id = $2
		FOR UPDATE`

	const updateQuery = `
		UPDATE auction.listing
		SET price = $3, winnerid = $4, ceiling = $5
		WHERE siteid = $1 AND id = $2`

	transaction, err := repository.pool.BeginTx(context, pgx.TxOptions{})
	if err != nil {
		return false, dberr.Wrap(err, "Auction")
	}
	defer func() { _ = transaction.Rollback(context) }()

	auction := &Auction{}
	err = transaction.QueryRow(context, lockQuery, siteID, id).Scan(
		&auction.ID,
		&auction.SiteID,
		&auction.SellerID,
		&auction.Description,
		&auction.EndsOn,
		&auction.Price,
		&auction.WinnerID,
		&auction.Ceiling,
		&auction.CreatedAt,
	)
	if err != nil {
		return false, dberr.Wrap(err, "Auction")
	}

	accepted, err := fn(auction)
	if err != nil {
		return false, err
	}

	if _, err := transaction.Exec(context, updateQuery,
		siteID, id, auction.Price, auction.WinnerID, auction.Ceiling,
	); err != nil {
		return false, dberr.Wrap(err, "Auction")
	}

	if err := transaction.Commit(context); err != nil {
		return false, dberr.Wrap(err, "Auction")
	}

	return accepted, nil
}

/*
Delete removes an auction row unconditionally.

Returns:
  - error: Storage errors
*/
func (repository *PostgresRepository) Delete(context context.Context, siteID string, id int64) error {
	const query = "DELETE FROM auction.listing WHERE siteid = $1 AND id = $2"

	_, err := repository.pool.Exec(context, query, siteID, id)
	if err != nil {
		return dberr.Wrap(err, "Auction")
	}

	return nil
}

/*
DeleteBySite removes every auction of a site.

Returns:
  - error: Storage errors
*/
func (repository *PostgresRepository) DeleteBySite(context context.Context, siteID string) error {
	const query = "DELETE FROM auction.listing WHERE siteid = $1"

	_, err := repository.pool.Exec(context, query, siteID)
	if err != nil {
		return dberr.Wrap(err, "Auction")
	}

	return nil
}

// scanAuctions drains a row set into auction entities.
func scanAuctions(rows pgx.Rows) ([]*Auction, error) {
	auctions := make([]*Auction, 0)
	for rows.Next() {
		auction := &Auction{}
		if err := rows.Scan(
			&auction.ID,
			&auction.SiteID,
			&auction.SellerID,
			&auction.Description,
			&auction.EndsOn,
			&auction.Price,
			&auction.WinnerID,
			&auction.Ceiling,
			&auction.CreatedAt,
		); err != nil {
			return nil, dberr.Wrap(err, "Auction")
		}
		auctions = append(auctions, auction)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "Auction")
	}

	return auctions, nil
}
