package wire

import (
	"movie-catalog/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAdmin(r chi.Router, statsHandler *adaptor.StatsHandler, g guards) {
	// ==================== ADMIN ROUTES ====================
	r.With(g.auth.Required, g.admin).Get("/api/admin/stats", statsHandler.Dashboard)
}
