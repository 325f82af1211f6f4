// Copyright (c) 2026 Gavella. All rights reserved.

package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/gavella/gavella/internal/platform/request"
	"github.com/gavella/gavella/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts user routes on the site-scoped router; the router is
// expected to carry the {siteName} URL parameter.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/users", handler.createUser)
	router.Get("/users", handler.listUsers)
	router.Delete("/users/{username}", handler.deleteUser)
}

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (handler *Handler) createUser(writer http.ResponseWriter, request *http.Request) {
	siteName := requestutil.Param(request, "siteName")

	var body createUserRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Create(request.Context(), siteName, body.Username, body.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user)
}

func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	siteName := requestutil.Param(request, "siteName")

	users, err := handler.service.ListBySiteName(request.Context(), siteName)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, users)
}

func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	siteName := requestutil.Param(request, "siteName")
	username := requestutil.Param(request, "username")

	if err := handler.service.DeleteBySiteName(request.Context(), siteName, username); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
