package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"

	"movie-catalog/internal/usecase"
	"movie-catalog/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth      *AuthHandler
	User      *UserHandler
	Movie     *MovieHandler
	Genre     *GenreHandler
	Request   *RequestHandler
	Watchlist *WatchlistHandler
	Stats     *StatsHandler
}

func NewHandler(service *usecase.Service, cookies SessionCookies, log *zap.Logger) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(service.Auth, cookies, log),
		User:      NewUserHandler(service.User, log),
		Movie:     NewMovieHandler(service.Movie, log),
		Genre:     NewGenreHandler(service.Genre, log),
		Request:   NewRequestHandler(service.Access, log),
		Watchlist: NewWatchlistHandler(service.Watchlist, log),
		Stats:     NewStatsHandler(service.Stats, log),
	}
}

func jsonDecode(body io.Reader, dst any) error {
	return json.NewDecoder(body).Decode(dst)
}

// decodeJSON writes a 400 and returns false when the body is not valid JSON
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := jsonDecode(r.Body, dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// handleServiceError maps service errors to HTTP responses by kind.
// Internal errors are logged with their cause and never shown to the caller.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var appErr *utils.AppError
	if !errors.As(err, &appErr) {
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	switch appErr.Kind {
	case utils.KindUnauthorized:
		utils.ResponseUnauthorized(w, appErr.Message)
	case utils.KindForbidden:
		log.Warn(operation+" forbidden", zap.String("reason", appErr.Message))
		utils.ResponseForbidden(w, appErr.Message)
	case utils.KindNotFound:
		utils.ResponseNotFound(w, appErr.Message)
	case utils.KindValidation:
		if len(appErr.Fields) > 0 {
			utils.ResponseBadRequest(w, appErr.Message, appErr.Fields)
			return
		}
		utils.ResponseBadRequest(w, appErr.Message, nil)
	case utils.KindConflict:
		utils.ResponseConflict(w, appErr.Message)
	case utils.KindUpstream:
		log.Error(operation+" upstream failure", zap.Error(err))
		utils.ResponseBadGateway(w, appErr.Message)
	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
