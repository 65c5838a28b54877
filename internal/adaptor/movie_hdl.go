package adaptor

import (
	"net/http"
	"strconv"

	"movie-catalog/internal/dto/request"
	"movie-catalog/internal/usecase"
	"movie-catalog/pkg/media"
	"movie-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	// sisanya di-spool ke disk oleh net/http
	multipartMemory = 32 << 20
	maxUploadSize   = 2 << 30
)

type MovieHandler struct {
	service usecase.MovieService
	log     *zap.Logger
}

func NewMovieHandler(service usecase.MovieService, log *zap.Logger) *MovieHandler {
	return &MovieHandler{
		service: service,
		log:     log.With(zap.String("handler", "movie")),
	}
}

func parseMovieQuery(r *http.Request) *request.MovieListQuery {
	query := r.URL.Query()
	q := &request.MovieListQuery{
		PaginatedRequest: parsePagination(r),
		Status:           query.Get("status"),
		Genre:            query.Get("genre"),
		Search:           query.Get("search"),
		Sort:             query.Get("sort"),
	}
	q.Year = utils.ParseInt(query.Get("year"), 0)
	q.Count, _ = strconv.ParseBool(query.Get("count"))
	return q
}

// ListMovies handles GET /api/movies
// ?count=true returns only the total for the same filter.
func (h *MovieHandler) ListMovies(w http.ResponseWriter, r *http.Request) {
	actor := usecase.ActorFromContext(r.Context())
	q := parseMovieQuery(r)

	if q.Count {
		count, err := h.service.CountMovies(r.Context(), actor, q)
		if err != nil {
			handleServiceError(w, h.log, err, "count movies")
			return
		}
		utils.ResponseSuccess(w, "Movies counted successfully", count)
		return
	}

	movies, err := h.service.ListMovies(r.Context(), actor, q)
	if err != nil {
		handleServiceError(w, h.log, err, "list movies")
		return
	}
	utils.ResponseSuccess(w, "Movies retrieved successfully", movies)
}

// GetMovie handles GET /api/movies/{id}
func (h *MovieHandler) GetMovie(w http.ResponseWriter, r *http.Request) {
	movie, err := h.service.GetMovie(r.Context(), usecase.ActorFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get movie")
		return
	}
	utils.ResponseSuccess(w, "Movie retrieved successfully", movie)
}

// SearchMovies handles GET /api/movies/search?q=
func (h *MovieHandler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.service.SearchMovies(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		handleServiceError(w, h.log, err, "search movies")
		return
	}
	utils.ResponseSuccess(w, "Movies retrieved successfully", movies)
}

// CreateMovie handles POST /api/admin/movies
func (h *MovieHandler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var req request.CreateMovieRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	movie, err := h.service.CreateMovie(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create movie")
		return
	}
	utils.ResponseCreated(w, "Movie created successfully", movie)
}

// UpdateMovie handles PUT /api/admin/movies/{id}
func (h *MovieHandler) UpdateMovie(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateMovieRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	movie, err := h.service.UpdateMovie(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update movie")
		return
	}
	utils.ResponseSuccess(w, "Movie updated successfully", movie)
}

// DeleteMovie handles DELETE /api/admin/movies/{id}
func (h *MovieHandler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteMovie(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete movie")
		return
	}
	utils.ResponseSuccess(w, "Movie deleted successfully", nil)
}

// UploadMedia handles POST /api/admin/media (multipart: kind, file)
func (h *MovieHandler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		utils.ResponseBadRequest(w, "Invalid multipart form", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.ResponseBadRequest(w, "file is required", nil)
		return
	}
	defer file.Close()

	obj, err := h.service.UploadMedia(r.Context(), r.FormValue("kind"), media.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      file,
	})
	if err != nil {
		handleServiceError(w, h.log, err, "upload media")
		return
	}
	utils.ResponseCreated(w, "File uploaded successfully", obj)
}
