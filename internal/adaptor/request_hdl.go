package adaptor

import (
	"errors"
	"io"
	"net/http"

	"movie-catalog/internal/dto/request"
	"movie-catalog/internal/dto/response"
	"movie-catalog/internal/usecase"
	"movie-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RequestHandler serves access requests, general requests and their review.
type RequestHandler struct {
	service usecase.AccessService
	log     *zap.Logger
}

func NewRequestHandler(service usecase.AccessService, log *zap.Logger) *RequestHandler {
	return &RequestHandler{
		service: service,
		log:     log.With(zap.String("handler", "request")),
	}
}

// RequestAccess handles POST /api/movies/{id}/access-request
// The body is optional.
func (h *RequestHandler) RequestAccess(w http.ResponseWriter, r *http.Request) {
	var req request.AccessRequest
	if r.Body != nil {
		if err := decodeOptional(r.Body, &req); err != nil {
			utils.ResponseBadRequest(w, "Invalid request body", nil)
			return
		}
	}

	resp, err := h.service.RequestAccess(r.Context(), usecase.ActorFromContext(r.Context()), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "request access")
		return
	}
	utils.ResponseCreated(w, "Access request submitted successfully", resp)
}

func decodeOptional(body io.Reader, dst any) error {
	err := jsonDecode(body, dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// CheckAccess handles GET /api/movies/{id}/access
func (h *RequestHandler) CheckAccess(w http.ResponseWriter, r *http.Request) {
	hasAccess := h.service.CheckAccess(r.Context(), usecase.ActorFromContext(r.Context()), chi.URLParam(r, "id"))
	utils.ResponseSuccess(w, "Access checked", response.AccessResponse{HasAccess: hasAccess})
}

// CheckRequested handles GET /api/movies/{id}/requested
func (h *RequestHandler) CheckRequested(w http.ResponseWriter, r *http.Request) {
	actor := usecase.ActorFromContext(r.Context())
	movieID := chi.URLParam(r, "id")

	requested := h.service.CheckRequested(r.Context(), actor, movieID)
	utils.ResponseSuccess(w, "Request status checked", response.AccessResponse{
		HasAccess: h.service.CheckAccess(r.Context(), actor, movieID),
		Requested: &requested,
	})
}

// CreateGeneralRequest handles POST /api/requests
func (h *RequestHandler) CreateGeneralRequest(w http.ResponseWriter, r *http.Request) {
	var req request.GeneralRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.CreateGeneralRequest(r.Context(), usecase.ActorFromContext(r.Context()), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create request")
		return
	}
	utils.ResponseCreated(w, "Request submitted successfully", resp)
}

// MyRequests handles GET /api/user/requests
func (h *RequestHandler) MyRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.service.ListMyRequests(r.Context(), usecase.ActorFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, h.log, err, "list my requests")
		return
	}
	utils.ResponseSuccess(w, "Requests retrieved successfully", requests)
}

// ListRequests handles GET /api/admin/requests?status=&page=&limit=
func (h *RequestHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	q := &request.RequestListQuery{
		PaginatedRequest: parsePagination(r),
		Status:           r.URL.Query().Get("status"),
	}

	requests, err := h.service.ListRequests(r.Context(), usecase.ActorFromContext(r.Context()), q)
	if err != nil {
		handleServiceError(w, h.log, err, "list requests")
		return
	}
	utils.ResponseSuccess(w, "Requests retrieved successfully", requests)
}

// ReviewRequest handles PUT /api/admin/requests/{id}
func (h *RequestHandler) ReviewRequest(w http.ResponseWriter, r *http.Request) {
	var req request.ReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.ReviewRequest(r.Context(), usecase.ActorFromContext(r.Context()), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "review request")
		return
	}
	utils.ResponseSuccess(w, "Request updated successfully", resp)
}
