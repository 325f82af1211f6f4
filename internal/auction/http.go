// Copyright (c) 2026 Gavella. All rights reserved.

package auction

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/gavella/gavella/internal/platform/middleware"
	requestutil "github.com/gavella/gavella/internal/platform/request"
	"github.com/gavella/gavella/internal/platform/respond"
	"github.com/gavella/gavella/internal/platform/validate"
	"github.com/gavella/gavella/internal/site"
	"github.com/gavella/gavella/internal/user"
)

// SiteResolver resolves a site name from the URL into the site entity.
// Implemented by [site.Service].
type SiteResolver interface {
	Load(ctx context.Context, name string) (*site.Site, error)
}

// UserResolver resolves a site-scoped username into the account entity.
// Implemented by [user.Service].
type UserResolver interface {
	Get(ctx context.Context, siteID, username string) (*user.User, error)
}

type Handler struct {
	service *Service
	sites   SiteResolver
	users   UserResolver
}

func NewHandler(service *Service, sites SiteResolver, users UserResolver) *Handler {
	return &Handler{service: service, sites: sites, users: users}
}

// RegisterRoutes mounts auction routes under /sites/{siteName}. Bidding is the
// one site-scoped route that needs a verified session token.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/auctions", handler.listAuctions)
	router.Get("/auctions/{auctionID}/price", handler.currentPrice)
	router.Get("/auctions/{auctionID}/winner", handler.currentWinner)
	router.Delete("/auctions/{auctionID}", handler.deleteAuction)
	router.Get("/users/{username}/won-auctions", handler.wonAuctions)

	router.With(middleware.RequireSession).
		Post("/auctions/{auctionID}/bids", handler.placeBid)
}

// RegisterProtectedRoutes mounts routes that require a verified session token.
// Creating an auction is not site-scoped on the wire; the session already
// carries the seller's site.
func (handler *Handler) RegisterProtectedRoutes(router chi.Router) {
	router.Post("/auctions", handler.createAuction)
}

type createAuctionRequest struct {
	Description   string          `json:"description"`
	EndsOn        time.Time       `json:"ends_on"`
	StartingPrice decimal.Decimal `json:"starting_price"`
}

func (handler *Handler) createAuction(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body createAuctionRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	auction, err := handler.service.Create(request.Context(), CreateInput{
		SessionID:     claims.SessionID,
		Description:   body.Description,
		EndsOn:        body.EndsOn,
		StartingPrice: body.StartingPrice,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, auction)
}

type placeBidRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type placeBidResponse struct {
	Accepted bool `json:"accepted"`
}

func (handler *Handler) placeBid(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	siteID, err := handler.resolveSiteID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	auctionID, err := parseAuctionID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body placeBidRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	accepted, err := handler.service.Bid(request.Context(), siteID, auctionID, claims.SessionID, body.Amount)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, placeBidResponse{Accepted: accepted})
}

func (handler *Handler) listAuctions(writer http.ResponseWriter, request *http.Request) {
	siteID, err := handler.resolveSiteID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var auctions []*Auction
	if request.URL.Query().Get("status") == "open" {
		auctions, err = handler.service.ListOpen(request.Context(), siteID)
	} else {
		auctions, err = handler.service.ListAll(request.Context(), siteID)
	}
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, auctions)
}

type currentPriceResponse struct {
	Price decimal.Decimal `json:"price"`
}

func (handler *Handler) currentPrice(writer http.ResponseWriter, request *http.Request) {
	siteID, err := handler.resolveSiteID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	auctionID, err := parseAuctionID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	price, err := handler.service.CurrentPrice(request.Context(), siteID, auctionID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, currentPriceResponse{Price: price})
}

type currentWinnerResponse struct {
	WinnerID *string `json:"winner_id"`
}

func (handler *Handler) currentWinner(writer http.ResponseWriter, request *http.Request) {
	siteID, err := handler.resolveSiteID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	auctionID, err := parseAuctionID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	winnerID, err := handler.service.CurrentWinner(request.Context(), siteID, auctionID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, currentWinnerResponse{WinnerID: winnerID})
}

func (handler *Handler) deleteAuction(writer http.ResponseWriter, request *http.Request) {
	siteID, err := handler.resolveSiteID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	auctionID, err := parseAuctionID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), siteID, auctionID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

func (handler *Handler) wonAuctions(writer http.ResponseWriter, request *http.Request) {
	siteID, err := handler.resolveSiteID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.users.Get(request.Context(), siteID, requestutil.Param(request, "username"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	won, err := handler.service.WonByUser(request.Context(), siteID, account.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, won)
}

// resolveSiteID translates the {siteName} URL parameter into the site's UUID.
func (handler *Handler) resolveSiteID(request *http.Request) (string, error) {
	owningSite, err := handler.sites.Load(request.Context(), requestutil.Param(request, "siteName"))
	if err != nil {
		return "", err
	}
	return owningSite.ID, nil
}

// parseAuctionID extracts and parses the {auctionID} URL parameter.
func parseAuctionID(request *http.Request) (int64, error) {
	raw := requestutil.Param(request, "auctionID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, validate.RequiredError("auction_id", "Must be an integer")
	}
	return id, nil
}
