package repository

import (
	"context"
	"errors"
	"fmt"

	"movie-catalog/internal/data/entity"
	"movie-catalog/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type GenreRepository interface {
	Create(ctx context.Context, genre *entity.Genre) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Genre, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Genre, error)
	FindAll(ctx context.Context, activeOnly bool) ([]entity.Genre, error)
	FindByMovieID(ctx context.Context, movieID uuid.UUID) ([]entity.Genre, error)
	FindByMovieIDs(ctx context.Context, movieIDs []uuid.UUID) (map[uuid.UUID][]entity.Genre, error)
	Update(ctx context.Context, genre *entity.Genre) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type genreRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewGenreRepository(db database.Querier, log *zap.Logger) GenreRepository {
	return &genreRepository{
		db:  db,
		log: log.With(zap.String("repository", "genre")),
	}
}

const genreColumns = `g.id, g.name_english, g.name_arabic, g.status, g.created_at, g.updated_at`

func scanGenre(row pgx.Row, extra ...any) (entity.Genre, error) {
	var genre entity.Genre
	dest := append(extra,
		&genre.ID,
		&genre.NameEnglish,
		&genre.NameArabic,
		&genre.Status,
		&genre.CreatedAt,
		&genre.UpdatedAt,
	)
	err := row.Scan(dest...)
	return genre, err
}

func toStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func (r *genreRepository) Create(ctx context.Context, genre *entity.Genre) error {
	query := `
		INSERT INTO genres (id, name_english, name_arabic, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		genre.ID,
		genre.NameEnglish,
		genre.NameArabic,
		genre.Status,
		genre.CreatedAt,
		genre.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		r.log.Error("Failed to create genre", zap.Error(err), zap.String("name", genre.NameEnglish))
		return fmt.Errorf("failed to create genre: %w", err)
	}
	return nil
}

func (r *genreRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Genre, error) {
	query := `SELECT ` + genreColumns + ` FROM genres g WHERE g.id = $1`

	genre, err := scanGenre(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find genre by ID",
			zap.Error(err),
			zap.String("genre_id", id.String()),
		)
		return nil, fmt.Errorf("failed to find genre: %w", err)
	}

	return &genre, nil
}

func (r *genreRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Genre, error) {
	if len(ids) == 0 {
		return []entity.Genre{}, nil
	}
	query := `SELECT ` + genreColumns + ` FROM genres g WHERE g.id = ANY($1::uuid[]) ORDER BY g.name_english`
	return r.queryGenres(ctx, "find genres by ids", query, toStrings(ids))
}

func (r *genreRepository) FindAll(ctx context.Context, activeOnly bool) ([]entity.Genre, error) {
	query := `SELECT ` + genreColumns + ` FROM genres g`
	if activeOnly {
		query += ` WHERE g.status = TRUE`
	}
	query += ` ORDER BY g.name_english`
	return r.queryGenres(ctx, "find all genres", query)
}

func (r *genreRepository) FindByMovieID(ctx context.Context, movieID uuid.UUID) ([]entity.Genre, error) {
	query := `
		SELECT ` + genreColumns + `
		FROM genres g
		INNER JOIN movie_genres mg ON g.id = mg.genre_id
		WHERE mg.movie_id = $1
		ORDER BY g.name_english
	`
	return r.queryGenres(ctx, "find genres by movie", query, movieID)
}

// FindByMovieIDs loads genres for a page of movies in one round trip
func (r *genreRepository) FindByMovieIDs(ctx context.Context, movieIDs []uuid.UUID) (map[uuid.UUID][]entity.Genre, error) {
	result := make(map[uuid.UUID][]entity.Genre, len(movieIDs))
	if len(movieIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT mg.movie_id, ` + genreColumns + `
		FROM genres g
		INNER JOIN movie_genres mg ON g.id = mg.genre_id
		WHERE mg.movie_id = ANY($1::uuid[])
		ORDER BY g.name_english
	`
	rows, err := r.db.Query(ctx, query, toStrings(movieIDs))
	if err != nil {
		r.log.Error("Failed to find genres by movies", zap.Error(err))
		return nil, fmt.Errorf("failed to find genres: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var movieID uuid.UUID
		genre, err := scanGenre(rows, &movieID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan genre: %w", err)
		}
		result[movieID] = append(result[movieID], genre)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate genres: %w", err)
	}
	return result, nil
}

func (r *genreRepository) queryGenres(ctx context.Context, op, query string, args ...any) ([]entity.Genre, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to "+op, zap.Error(err))
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	defer rows.Close()

	genres := []entity.Genre{}
	for rows.Next() {
		genre, err := scanGenre(rows)
		if err != nil {
			r.log.Error("Failed to scan genre", zap.Error(err))
			return nil, fmt.Errorf("failed to scan genre: %w", err)
		}
		genres = append(genres, genre)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate genres: %w", err)
	}
	return genres, nil
}

func (r *genreRepository) Update(ctx context.Context, genre *entity.Genre) error {
	query := `
		UPDATE genres
		SET name_english = $2, name_arabic = $3, status = $4, updated_at = $5
		WHERE id = $1
	`
	result, err := r.db.Exec(ctx, query,
		genre.ID,
		genre.NameEnglish,
		genre.NameArabic,
		genre.Status,
		genre.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		r.log.Error("Failed to update genre", zap.Error(err), zap.String("genre_id", genre.ID.String()))
		return fmt.Errorf("failed to update genre: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *genreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM genres WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete genre", zap.Error(err), zap.String("genre_id", id.String()))
		return fmt.Errorf("failed to delete genre: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
