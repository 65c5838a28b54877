package response

import "movie-catalog/internal/data/entity"

type StatsResponse struct {
	TotalUsers       int64            `json:"total_users"`
	TotalMovies      int64            `json:"total_movies"`
	MoviesByStatus   map[string]int64 `json:"movies_by_status"`
	TotalGenres      int64            `json:"total_genres"`
	RequestsByStatus map[string]int64 `json:"requests_by_status"`
	WatchlistItems   int64            `json:"watchlist_items"`
}

func StatsToResponse(s *entity.DashboardStats) StatsResponse {
	resp := StatsResponse{
		TotalUsers:       s.TotalUsers,
		TotalGenres:      s.TotalGenres,
		WatchlistItems:   s.WatchlistItems,
		MoviesByStatus:   make(map[string]int64, len(s.MoviesByStatus)),
		RequestsByStatus: make(map[string]int64, len(s.RequestsByStatus)),
	}
	for status, n := range s.MoviesByStatus {
		resp.MoviesByStatus[string(status)] = n
		resp.TotalMovies += n
	}
	for status, n := range s.RequestsByStatus {
		resp.RequestsByStatus[string(status)] = n
	}
	return resp
}
