package wire

import (
	"movie-catalog/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireWatchlist(r chi.Router, watchlistHandler *adaptor.WatchlistHandler, g guards) {
	// ==================== PROTECTED ROUTES ====================
	r.Route("/api/watchlist", func(r chi.Router) {
		r.Use(g.auth.Required)

		r.Get("/", watchlistHandler.List)
		r.Post("/", watchlistHandler.Add)
		r.Get("/{movieId}", watchlistHandler.Status)
		r.Put("/{movieId}", watchlistHandler.Update)
		r.Delete("/{movieId}", watchlistHandler.Remove)
	})
}
