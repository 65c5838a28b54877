package wire

import (
	"movie-catalog/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireGenre(r chi.Router, genreHandler *adaptor.GenreHandler, g guards) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/genres", genreHandler.ListGenres)
	r.Get("/api/genres/{id}", genreHandler.GetGenre)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/genres", func(r chi.Router) {
		r.Use(g.auth.Required)
		r.Use(g.admin)

		r.Get("/", genreHandler.ListAllGenres) // inactive genres included
		r.Post("/", genreHandler.CreateGenre)
		r.Put("/{id}", genreHandler.UpdateGenre)
		r.Delete("/{id}", genreHandler.DeleteGenre)
	})
}
