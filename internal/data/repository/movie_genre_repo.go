package repository

import (
	"context"
	"fmt"

	"movie-catalog/internal/data/entity"
	"movie-catalog/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MovieGenreRepository interface {
	// Bridge table operations
	DeleteByMovieID(ctx context.Context, movieID uuid.UUID) error
	CreateBatch(ctx context.Context, movieGenres []entity.MovieGenre) error
	// ReplaceForMovie swaps the whole genre set of a movie
	ReplaceForMovie(ctx context.Context, movieID uuid.UUID, genreIDs []uuid.UUID) error
}

type movieGenreRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewMovieGenreRepository(db database.Querier, log *zap.Logger) MovieGenreRepository {
	return &movieGenreRepository{
		db:  db,
		log: log.With(zap.String("repository", "movie_genre")),
	}
}

func (r *movieGenreRepository) DeleteByMovieID(ctx context.Context, movieID uuid.UUID) error {
	query := `DELETE FROM movie_genres WHERE movie_id = $1`

	_, err := r.db.Exec(ctx, query, movieID)
	if err != nil {
		r.log.Error("Failed to delete movie_genres by movie ID",
			zap.Error(err),
			zap.String("movie_id", movieID.String()),
		)
		return fmt.Errorf("failed to delete movie_genres: %w", err)
	}

	return nil
}

func (r *movieGenreRepository) CreateBatch(ctx context.Context, movieGenres []entity.MovieGenre) error {
	if len(movieGenres) == 0 {
		return nil
	}

	movieIDs := make([]string, len(movieGenres))
	genreIDs := make([]string, len(movieGenres))
	for i, mg := range movieGenres {
		movieIDs[i] = mg.MovieID.String()
		genreIDs[i] = mg.GenreID.String()
	}

	query := `
		INSERT INTO movie_genres (movie_id, genre_id)
		SELECT * FROM UNNEST($1::uuid[], $2::uuid[])
		ON CONFLICT DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, movieIDs, genreIDs); err != nil {
		r.log.Error("Failed to create movie_genres batch",
			zap.Error(err),
			zap.Int("count", len(movieGenres)),
		)
		return fmt.Errorf("failed to create movie_genres: %w", err)
	}

	return nil
}

func (r *movieGenreRepository) ReplaceForMovie(ctx context.Context, movieID uuid.UUID, genreIDs []uuid.UUID) error {
	if err := r.DeleteByMovieID(ctx, movieID); err != nil {
		return err
	}

	links := make([]entity.MovieGenre, len(genreIDs))
	for i, genreID := range genreIDs {
		links[i] = entity.MovieGenre{MovieID: movieID, GenreID: genreID}
	}
	return r.CreateBatch(ctx, links)
}
