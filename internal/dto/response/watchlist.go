package response

import (
	"time"

	"movie-catalog/internal/data/entity"
)

type WatchlistItemResponse struct {
	MovieID   string         `json:"movie_id"`
	Status    string         `json:"status"`
	AddedAt   time.Time      `json:"added_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Movie     *MovieResponse `json:"movie,omitempty"`
}

type WatchlistStatusResponse struct {
	Status *string `json:"status"`
}

func WatchlistItemToResponse(item *entity.WatchlistItem) WatchlistItemResponse {
	resp := WatchlistItemResponse{
		MovieID:   item.MovieID.String(),
		Status:    string(item.Status),
		AddedAt:   item.AddedAt,
		UpdatedAt: item.UpdatedAt,
	}
	if item.Movie != nil {
		movie := MovieToResponse(item.Movie)
		resp.Movie = &movie
	}
	return resp
}
