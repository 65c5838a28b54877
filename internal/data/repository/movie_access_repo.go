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

// MovieAccessRepository stores per-user access state. allowedMovies and
// requestMovies of a user are read from here.
type MovieAccessRepository interface {
	Find(ctx context.Context, userID, movieID uuid.UUID) (*entity.MovieAccess, error)
	Upsert(ctx context.Context, access *entity.MovieAccess) error
	FindMovieIDs(ctx context.Context, userID uuid.UUID, status entity.AccessStatus) ([]uuid.UUID, error)
}

type movieAccessRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewMovieAccessRepository(db database.Querier, log *zap.Logger) MovieAccessRepository {
	return &movieAccessRepository{
		db:  db,
		log: log.With(zap.String("repository", "movie_access")),
	}
}

func (r *movieAccessRepository) Find(ctx context.Context, userID, movieID uuid.UUID) (*entity.MovieAccess, error) {
	query := `
		SELECT user_id, movie_id, status, request_id, updated_at
		FROM movie_access
		WHERE user_id = $1 AND movie_id = $2
	`
	var access entity.MovieAccess
	err := r.db.QueryRow(ctx, query, userID, movieID).Scan(
		&access.UserID,
		&access.MovieID,
		&access.Status,
		&access.RequestID,
		&access.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find movie access",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("movie_id", movieID.String()),
		)
		return nil, fmt.Errorf("failed to find movie access: %w", err)
	}
	return &access, nil
}

func (r *movieAccessRepository) Upsert(ctx context.Context, access *entity.MovieAccess) error {
	query := `
		INSERT INTO movie_access (user_id, movie_id, status, request_id, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, movie_id)
		DO UPDATE SET status = EXCLUDED.status,
		              request_id = EXCLUDED.request_id,
		              updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.Exec(ctx, query,
		access.UserID,
		access.MovieID,
		access.Status,
		access.RequestID,
		access.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to upsert movie access",
			zap.Error(err),
			zap.String("user_id", access.UserID.String()),
			zap.String("movie_id", access.MovieID.String()),
			zap.String("status", string(access.Status)),
		)
		return fmt.Errorf("failed to upsert movie access: %w", err)
	}
	return nil
}

func (r *movieAccessRepository) FindMovieIDs(ctx context.Context, userID uuid.UUID, status entity.AccessStatus) ([]uuid.UUID, error) {
	query := `SELECT movie_id FROM movie_access WHERE user_id = $1 AND status = $2 ORDER BY updated_at`

	rows, err := r.db.Query(ctx, query, userID, status)
	if err != nil {
		r.log.Error("Failed to list movie access", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list movie access: %w", err)
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan movie id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate movie access: %w", err)
	}
	return ids, nil
}
