package entity

import (
	"github.com/google/uuid"
)

// MovieGenre is one row of the movie_genres join table.
type MovieGenre struct {
	MovieID uuid.UUID `db:"movie_id"`
	GenreID uuid.UUID `db:"genre_id"`
}
