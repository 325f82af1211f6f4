// Copyright (c) 2026 Gavella. All rights reserved.

/*
Package apperr defines the centralized error handling framework for Gavella.

It provides a rich error type that bridges the gap between low-level Domain/Storage
errors and high-level HTTP responses.

Architecture:

  - AppError: A struct containing machine-readable ErrorCode and user-friendly messages.
  - Taxonomy: One constructor per domain error kind (session expiry, closed auctions,
    cross-tenant bids, store availability).
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent API responses. Business outcomes that are not failures — a bid that is
simply too low to matter — are never errors; they are boolean results.
*/
package apperr

import (
	"errors"
	"net/http"
)

// # Error Codes

// Machine-readable error codes carried by every [AppError].
const (
	CodeInvalidArgument      = "INVALID_ARGUMENT"
	CodeNotFound             = "NOT_FOUND"
	CodeAlreadyExists        = "ALREADY_EXISTS"
	CodeSessionExpired       = "SESSION_EXPIRED"
	CodeAuctionClosed        = "AUCTION_CLOSED"
	CodeTemporalViolation    = "TEMPORAL_VIOLATION"
	CodeSelfBidForbidden     = "SELF_BID_FORBIDDEN"
	CodeCrossTenantForbidden = "CROSS_TENANT_FORBIDDEN"
	CodeStoreUnavailable     = "STORE_UNAVAILABLE"
	CodeInternal             = "INTERNAL_ERROR"
)

// AppError is the canonical error type for the Gavella API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "AUCTION_CLOSED").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for INVALID_ARGUMENT responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// InvalidArgument creates a 400 [AppError] with optional per-field details.
// It covers null/empty/out-of-range input.
func InvalidArgument(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       CodeInvalidArgument,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Auction") // Returns "Auction not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// AlreadyExists creates a 409 [AppError] for name collisions.
func AlreadyExists(msg string) *AppError {
	return &AppError{
		Code:       CodeAlreadyExists,
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// SessionExpired creates a 401 [AppError] for a session whose expiry has passed
// or that no longer exists.
func SessionExpired(msg string) *AppError {
	return &AppError{
		Code:       CodeSessionExpired,
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// AuctionClosed creates a 409 [AppError] for operations against an auction whose
// deadline has passed.
func AuctionClosed(msg string) *AppError {
	return &AppError{
		Code:       CodeAuctionClosed,
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// TemporalViolation creates a 422 [AppError] for scheduling an end time that is
// not in the future relative to the site clock.
func TemporalViolation(msg string) *AppError {
	return &AppError{
		Code:       CodeTemporalViolation,
		Message:    msg,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// SelfBidForbidden creates a 403 [AppError] for a seller bidding on their own auction.
func SelfBidForbidden() *AppError {
	return &AppError{
		Code:       CodeSelfBidForbidden,
		Message:    "The seller of an auction may not bid on it",
		HTTPStatus: http.StatusForbidden,
	}
}

// CrossTenantForbidden creates a 403 [AppError] for a bidder belonging to a
// different site than the auction's seller.
func CrossTenantForbidden() *AppError {
	return &AppError{
		Code:       CodeCrossTenantForbidden,
		Message:    "Bidder and seller must belong to the same site",
		HTTPStatus: http.StatusForbidden,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// StoreUnavailable creates a 503 [AppError] for an entity store that could not
// be reached. It is never retried by the core; the caller decides whether to retry.
func StoreUnavailable(cause error) *AppError {
	return &AppError{
		Code:       CodeStoreUnavailable,
		Message:    "The entity store is unavailable",
		HTTPStatus: http.StatusServiceUnavailable,
		Cause:      cause,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// HasCode reports whether err carries the given machine-readable code.
func HasCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}
