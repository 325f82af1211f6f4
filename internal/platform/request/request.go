// Copyright (c) 2026 Gavella. All rights reserved.

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gavella/gavella/internal/platform/apperr"
	"github.com/gavella/gavella/internal/platform/ctxutil"
	"github.com/gavella/gavella/internal/platform/sec"
	"github.com/gavella/gavella/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Session extracts the verified session claims from the request context.

Returns nil if the request carries no valid session token.
*/
func Session(request *http.Request) *sec.SessionClaims {
	return ctxutil.GetSession(request.Context())
}

/*
RequiredSession ensures the request carries a session token and returns its claims.

Returns:
  - *sec.SessionClaims: The verified session claims
  - error: apperr.SessionExpired if the request carries no session
*/
func RequiredSession(request *http.Request) (*sec.SessionClaims, error) {

	// Get session claims
	claims := ctxutil.GetSession(request.Context())

	// If the request is anonymous, reject it
	if claims == nil {
		return nil, apperr.SessionExpired("A valid session is required")
	}

	return claims, nil
}
