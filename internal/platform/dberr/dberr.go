// Copyright (c) 2026 Gavella. All rights reserved.

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// # Classification
//
// The core never retries storage failures. Connectivity-class errors surface as
// STORE_UNAVAILABLE so callers can distinguish "try again later" from "does not
// exist" (NOT_FOUND) and "duplicate" (ALREADY_EXISTS).
package dberr

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gavella/gavella/internal/platform/apperr"
)

// SQLSTATE classes that mean the store itself is unreachable or refusing work.
const (
	classConnectionException   = "08"
	classInsufficientResources = "53"
	classOperatorIntervention  = "57"
	codeUniqueViolation        = "23505"
	codeForeignKeyViolation    = "23503"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// The resource name feeds the NOT_FOUND message (e.g. "Auction not found").
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	// 2. SQLSTATE-based mapping
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == codeUniqueViolation:
			return apperr.AlreadyExists(resource + " already exists")
		case pgErr.Code == codeForeignKeyViolation:
			return apperr.NotFound(resource)
		case strings.HasPrefix(pgErr.Code, classConnectionException),
			strings.HasPrefix(pgErr.Code, classInsufficientResources),
			strings.HasPrefix(pgErr.Code, classOperatorIntervention):
			return apperr.StoreUnavailable(err)
		default:
			return apperr.Internal(err)
		}
	}

	// 3. Cancellation propagates untouched so callers can tell it apart.
	if errors.Is(err, context.Canceled) {
		return err
	}

	// 4. Everything else (dial failures, timeouts, broken pools) means the
	// store could not be reached.
	return apperr.StoreUnavailable(err)
}
