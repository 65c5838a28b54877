package wire

import (
	"movie-catalog/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireMovie(r chi.Router, movieHandler *adaptor.MovieHandler, g guards) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/movies - anonymous callers only see published movies
	r.With(g.auth.Optional).Get("/api/movies", movieHandler.ListMovies)
	r.Get("/api/movies/search", movieHandler.SearchMovies)

	// GET /api/movies/{id} - videos are only listed for callers with access
	r.With(g.auth.Optional).Get("/api/movies/{id}", movieHandler.GetMovie)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/movies", func(r chi.Router) {
		r.Use(g.auth.Required) // Must be authenticated
		r.Use(g.admin)         // Must be admin

		r.Post("/", movieHandler.CreateMovie)       // POST /api/admin/movies
		r.Put("/{id}", movieHandler.UpdateMovie)    // PUT /api/admin/movies/{id}
		r.Delete("/{id}", movieHandler.DeleteMovie) // DELETE /api/admin/movies/{id}
	})

	r.With(g.auth.Required, g.admin).Post("/api/admin/media", movieHandler.UploadMedia)
}
