package wire

import (
	"movie-catalog/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireRequest(r chi.Router, requestHandler *adaptor.RequestHandler, g guards) {
	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(g.auth.Required)

		// rate limited per user, runs after auth so the key is the user id
		r.With(g.limiter.Middleware).Post("/api/movies/{id}/access-request", requestHandler.RequestAccess)
		r.Get("/api/movies/{id}/access", requestHandler.CheckAccess)
		r.Get("/api/movies/{id}/requested", requestHandler.CheckRequested)

		r.Post("/api/requests", requestHandler.CreateGeneralRequest)
		r.Get("/api/user/requests", requestHandler.MyRequests)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/requests", func(r chi.Router) {
		r.Use(g.auth.Required)
		r.Use(g.admin)

		r.Get("/", requestHandler.ListRequests)
		r.Put("/{id}", requestHandler.ReviewRequest)
	})
}
