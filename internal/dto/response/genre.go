package response

import (
	"time"

	"movie-catalog/internal/data/entity"
)

type GenreResponse struct {
	ID          string    `json:"id"`
	NameEnglish string    `json:"name_english"`
	NameArabic  string    `json:"name_arabic"`
	Status      bool      `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func GenreToResponse(genre entity.Genre) GenreResponse {
	return GenreResponse{
		ID:          genre.ID.String(),
		NameEnglish: genre.NameEnglish,
		NameArabic:  genre.NameArabic,
		Status:      genre.Status,
		CreatedAt:   genre.CreatedAt,
		UpdatedAt:   genre.UpdatedAt,
	}
}

func GenresToResponse(genres []entity.Genre) []GenreResponse {
	out := make([]GenreResponse, len(genres))
	for i, g := range genres {
		out[i] = GenreToResponse(g)
	}
	return out
}
