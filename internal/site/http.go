// Copyright (c) 2026 Gavella. All rights reserved.

package site

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	requestutil "github.com/gavella/gavella/internal/platform/request"
	"github.com/gavella/gavella/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the site collection endpoints.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/", handler.createSite)
	router.Get("/", handler.listSites)
}

// RegisterItemRoutes mounts the endpoints of a single named site; the router
// is expected to carry the {siteName} URL parameter.
func (handler *Handler) RegisterItemRoutes(router chi.Router) {
	router.Get("/", handler.getSite)
	router.Delete("/", handler.deleteSite)
}

type createSiteRequest struct {
	Name                   string          `json:"name"`
	TimezoneOffset         int             `json:"timezone_offset"`
	SessionLifetimeSeconds int             `json:"session_lifetime_seconds"`
	MinBidIncrement        decimal.Decimal `json:"min_bid_increment"`
}

func (handler *Handler) createSite(writer http.ResponseWriter, request *http.Request) {
	var body createSiteRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	site, err := handler.service.Create(request.Context(), CreateInput{
		Name:                   body.Name,
		TimezoneOffset:         body.TimezoneOffset,
		SessionLifetimeSeconds: body.SessionLifetimeSeconds,
		MinBidIncrement:        body.MinBidIncrement,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, site)
}

func (handler *Handler) listSites(writer http.ResponseWriter, request *http.Request) {
	infos, err := handler.service.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, infos)
}

func (handler *Handler) getSite(writer http.ResponseWriter, request *http.Request) {
	name := requestutil.Param(request, "siteName")

	site, err := handler.service.Load(request.Context(), name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, site)
}

func (handler *Handler) deleteSite(writer http.ResponseWriter, request *http.Request) {
	name := requestutil.Param(request, "siteName")

	if err := handler.service.Delete(request.Context(), name); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
