// Copyright (c) 2026 Gavella. All rights reserved.

package session

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gavella/gavella/internal/platform/apperr"
	"github.com/gavella/gavella/internal/platform/constants"
	requestutil "github.com/gavella/gavella/internal/platform/request"
	"github.com/gavella/gavella/internal/platform/respond"
	"github.com/gavella/gavella/internal/platform/sec"
)

// Handler exposes login/logout over HTTP.
//
// The wire token is a signed JWT wrapping the opaque session ID. Its own
// expiry only bounds replay; the server-side sliding expiry stays
// authoritative on every request.
type Handler struct {
	service *Service
	tokens  *sec.TokenService
}

func NewHandler(service *Service, tokens *sec.TokenService) *Handler {
	return &Handler{service: service, tokens: tokens}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/login", handler.login)
}

// RegisterProtectedRoutes mounts routes that require a verified session token.
func (handler *Handler) RegisterProtectedRoutes(router chi.Router) {
	router.Post("/logout", handler.logout)
}

type loginRequest struct {
	Site     string `json:"site"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var body loginRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.Login(request.Context(), body.Site, body.Username, body.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Failed authentication is an absent session, not a service error.
	// Generic message so username and password failures are indistinguishable.
	if session == nil {
		respond.Error(writer, request, apperr.SessionExpired("Invalid login credentials"))
		return
	}

	token, err := handler.tokens.GenerateSessionToken(
		session.ID, session.UserID, session.SiteID, body.Username,
		constants.SessionTokenTTL,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, loginResponse{
		Token:     token,
		SessionID: session.ID,
		ExpiresAt: session.ExpiresAt,
	})
}

func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Logout(request.Context(), claims.SessionID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
