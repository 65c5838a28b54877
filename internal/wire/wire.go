// internal/wire/wire.go
package wire

import (
	"net/http"

	"movie-catalog/internal/adaptor"
	"movie-catalog/internal/data/repository"
	"movie-catalog/internal/usecase"
	"movie-catalog/pkg/middleware"
	"movie-catalog/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App menyimpan semua dependencies
type App struct {
	Router *chi.Mux
}

// guards groups the middleware the route files attach per group
type guards struct {
	auth    *middleware.Authenticator
	admin   func(http.Handler) http.Handler
	limiter *middleware.RateLimiter
}

// Wiring menginisialisasi semua handler dan router
func Wiring(
	service *usecase.Service,
	repo *repository.Repository,
	cookies *middleware.SessionStore,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	handler := adaptor.NewHandler(service, cookies, logger)

	g := guards{
		auth:    middleware.NewAuthenticator(repo.Session, repo.User, cookies, logger),
		admin:   middleware.Admin(logger),
		limiter: middleware.NewRateLimiter(config.Limit.RPS, config.Limit.Burst, logger),
	}

	return &App{
		Router: setupRouter(handler, g, config, logger),
	}
}

// setupRouter konfigurasi Chi router
func setupRouter(handler *adaptor.Handler, g guards, config *utils.Config, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.CORSOrigins))
	r.Use(middleware.Metrics)

	// Apply routes
	wireAuth(r, handler.Auth, g)
	wireUser(r, handler.User, g)
	wireMovie(r, handler.Movie, g)
	wireGenre(r, handler.Genre, g)
	wireRequest(r, handler.Request, g)
	wireWatchlist(r, handler.Watchlist, g)
	wireAdmin(r, handler.Stats, g)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", middleware.MetricsHandler())

	return r
}
