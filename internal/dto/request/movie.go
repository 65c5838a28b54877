package request

type VideoRequest struct {
	Title     string `json:"title" validate:"required,max=200"`
	URL       string `json:"url" validate:"required,url"`
	IsTrailer bool   `json:"is_trailer"`
}

type CreateMovieRequest struct {
	TitleEnglish string         `json:"title_english" validate:"required,min=1,max=255"`
	TitleArabic  string         `json:"title_arabic" validate:"max=255"`
	PlotEnglish  string         `json:"plot_english" validate:"required"`
	PlotArabic   string         `json:"plot_arabic"`
	Year         int            `json:"year" validate:"required,gte=1888,lte=2100"`
	Budget       *int64         `json:"budget,omitempty" validate:"omitempty,gte=0"`
	Poster       *string        `json:"poster,omitempty" validate:"omitempty,url"`
	Cover        *string        `json:"cover,omitempty" validate:"omitempty,url"`
	Videos       []VideoRequest `json:"videos" validate:"dive"`
	Status       string         `json:"status" validate:"omitempty,oneof=draft published"`
	GenreIDs     []string       `json:"genre_ids" validate:"dive,uuid"`
}

type UpdateMovieRequest struct {
	TitleEnglish *string         `json:"title_english,omitempty" validate:"omitempty,min=1,max=255"`
	TitleArabic  *string         `json:"title_arabic,omitempty" validate:"omitempty,max=255"`
	PlotEnglish  *string         `json:"plot_english,omitempty"`
	PlotArabic   *string         `json:"plot_arabic,omitempty"`
	Year         *int            `json:"year,omitempty" validate:"omitempty,gte=1888,lte=2100"`
	Budget       *int64          `json:"budget,omitempty" validate:"omitempty,gte=0"`
	Poster       *string         `json:"poster,omitempty" validate:"omitempty,url"`
	Cover        *string         `json:"cover,omitempty" validate:"omitempty,url"`
	Videos       *[]VideoRequest `json:"videos,omitempty" validate:"omitempty,dive"`
	Status       *string         `json:"status,omitempty" validate:"omitempty,oneof=draft published"`
	GenreIDs     *[]string       `json:"genre_ids,omitempty" validate:"omitempty,dive,uuid"`
}

// MovieListQuery is parsed from the query string of GET /api/movies
type MovieListQuery struct {
	PaginatedRequest
	Status string
	Genre  string // single id or comma separated ids
	Year   int
	Search string
	Sort   string
	Count  bool
}
