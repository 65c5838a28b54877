package adaptor

import (
	"net/http"

	"movie-catalog/internal/dto/request"
	"movie-catalog/internal/usecase"
	"movie-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type WatchlistHandler struct {
	service usecase.WatchlistService
	log     *zap.Logger
}

func NewWatchlistHandler(service usecase.WatchlistService, log *zap.Logger) *WatchlistHandler {
	return &WatchlistHandler{
		service: service,
		log:     log.With(zap.String("handler", "watchlist")),
	}
}

// List handles GET /api/watchlist
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), usecase.ActorFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, h.log, err, "list watchlist")
		return
	}
	utils.ResponseSuccess(w, "Watchlist retrieved successfully", items)
}

// Add handles POST /api/watchlist
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req request.AddWatchlistRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.service.Add(r.Context(), usecase.ActorFromContext(r.Context()), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "add to watchlist")
		return
	}
	utils.ResponseCreated(w, "Movie added to watchlist", item)
}

// Update handles PUT /api/watchlist/{movieId}
func (h *WatchlistHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateWatchlistRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.service.UpdateStatus(r.Context(), usecase.ActorFromContext(r.Context()), chi.URLParam(r, "movieId"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update watchlist")
		return
	}
	utils.ResponseSuccess(w, "Watchlist updated successfully", item)
}

// Remove handles DELETE /api/watchlist/{movieId}
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Remove(r.Context(), usecase.ActorFromContext(r.Context()), chi.URLParam(r, "movieId")); err != nil {
		handleServiceError(w, h.log, err, "remove from watchlist")
		return
	}
	utils.ResponseSuccess(w, "Movie removed from watchlist", nil)
}

// Status handles GET /api/watchlist/{movieId}
func (h *WatchlistHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Status(r.Context(), usecase.ActorFromContext(r.Context()), chi.URLParam(r, "movieId"))
	if err != nil {
		handleServiceError(w, h.log, err, "watchlist status")
		return
	}
	utils.ResponseSuccess(w, "Watchlist status retrieved", status)
}
