package entity

import (
	"github.com/google/uuid"
)

type MovieStatus string

const (
	MovieStatusDraft     MovieStatus = "draft"
	MovieStatusPublished MovieStatus = "published"
)

// Video disimpan sebagai JSONB di kolom movies.videos
type Video struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	IsTrailer bool   `json:"is_trailer"`
}

type Movie struct {
	Base
	TitleEnglish string      `db:"title_english"`
	TitleArabic  string      `db:"title_arabic"`
	PlotEnglish  string      `db:"plot_english"`
	PlotArabic   string      `db:"plot_arabic"`
	Year         int         `db:"year"`
	Budget       *int64      `db:"budget"`
	Poster       *string     `db:"poster"`
	Cover        *string     `db:"cover"`
	Videos       []Video     `db:"videos"`
	Status       MovieStatus `db:"status"`

	Genres []Genre `db:"-"`
}

func (m *Movie) IsPublished() bool {
	return m.Status == MovieStatusPublished
}

// VisibleVideos returns trailers always and full videos only with access.
func (m *Movie) VisibleVideos(hasAccess bool) []Video {
	videos := make([]Video, 0, len(m.Videos))
	for _, v := range m.Videos {
		if v.IsTrailer || hasAccess {
			videos = append(videos, v)
		}
	}
	return videos
}

func (m *Movie) GenreIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(m.Genres))
	for i, g := range m.Genres {
		ids[i] = g.ID
	}
	return ids
}
