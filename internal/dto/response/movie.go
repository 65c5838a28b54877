package response

import (
	"time"

	"movie-catalog/internal/data/entity"
)

type VideoResponse struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	IsTrailer bool   `json:"is_trailer"`
}

type MovieResponse struct {
	ID           string          `json:"id"`
	TitleEnglish string          `json:"title_english"`
	TitleArabic  string          `json:"title_arabic"`
	PlotEnglish  string          `json:"plot_english"`
	PlotArabic   string          `json:"plot_arabic"`
	Year         int             `json:"year"`
	Budget       *int64          `json:"budget,omitempty"`
	Poster       *string         `json:"poster,omitempty"`
	Cover        *string         `json:"cover,omitempty"`
	Status       string          `json:"status"`
	Genres       []GenreResponse `json:"genres"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type MovieDetailResponse struct {
	MovieResponse
	Videos    []VideoResponse `json:"videos"`
	HasAccess bool            `json:"hasAccess"`
	Requested bool            `json:"requested"`
}

type MovieCountResponse struct {
	Total int64 `json:"total"`
}

// Helper converters
func MovieToResponse(movie *entity.Movie) MovieResponse {
	return MovieResponse{
		ID:           movie.ID.String(),
		TitleEnglish: movie.TitleEnglish,
		TitleArabic:  movie.TitleArabic,
		PlotEnglish:  movie.PlotEnglish,
		PlotArabic:   movie.PlotArabic,
		Year:         movie.Year,
		Budget:       movie.Budget,
		Poster:       movie.Poster,
		Cover:        movie.Cover,
		Status:       string(movie.Status),
		Genres:       GenresToResponse(movie.Genres),
		CreatedAt:    movie.CreatedAt,
		UpdatedAt:    movie.UpdatedAt,
	}
}

// MovieToDetailResponse hides full videos unless hasAccess
func MovieToDetailResponse(movie *entity.Movie, hasAccess, requested bool) MovieDetailResponse {
	visible := movie.VisibleVideos(hasAccess)
	videos := make([]VideoResponse, len(visible))
	for i, v := range visible {
		videos[i] = VideoResponse{Title: v.Title, URL: v.URL, IsTrailer: v.IsTrailer}
	}

	return MovieDetailResponse{
		MovieResponse: MovieToResponse(movie),
		Videos:        videos,
		HasAccess:     hasAccess,
		Requested:     requested,
	}
}
