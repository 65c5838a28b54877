package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"movie-catalog/internal/data/entity"
	"movie-catalog/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type WatchlistRepository interface {
	Upsert(ctx context.Context, item *entity.WatchlistItem) error
	Delete(ctx context.Context, userID, movieID uuid.UUID) error
	UpdateStatus(ctx context.Context, userID, movieID uuid.UUID, status entity.WatchStatus, at time.Time) error
	Find(ctx context.Context, userID, movieID uuid.UUID) (*entity.WatchlistItem, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.WatchlistItem, error)
}

type watchlistRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewWatchlistRepository(db database.Querier, log *zap.Logger) WatchlistRepository {
	return &watchlistRepository{
		db:  db,
		log: log.With(zap.String("repository", "watchlist")),
	}
}

// Upsert keeps one row per (user, movie); added_at survives re-adds
func (r *watchlistRepository) Upsert(ctx context.Context, item *entity.WatchlistItem) error {
	query := `
		INSERT INTO watchlist (user_id, movie_id, status, added_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, movie_id)
		DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
		RETURNING added_at
	`
	err := r.db.QueryRow(ctx, query,
		item.UserID,
		item.MovieID,
		item.Status,
		item.AddedAt,
		item.UpdatedAt,
	).Scan(&item.AddedAt)
	if err != nil {
		r.log.Error("Failed to upsert watchlist item",
			zap.Error(err),
			zap.String("user_id", item.UserID.String()),
			zap.String("movie_id", item.MovieID.String()),
		)
		return fmt.Errorf("failed to upsert watchlist item: %w", err)
	}
	return nil
}

func (r *watchlistRepository) Delete(ctx context.Context, userID, movieID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM watchlist WHERE user_id = $1 AND movie_id = $2`, userID, movieID)
	if err != nil {
		r.log.Error("Failed to delete watchlist item", zap.Error(err))
		return fmt.Errorf("failed to delete watchlist item: %w", err)
	}
	return nil
}

func (r *watchlistRepository) UpdateStatus(ctx context.Context, userID, movieID uuid.UUID, status entity.WatchStatus, at time.Time) error {
	query := `UPDATE watchlist SET status = $3, updated_at = $4 WHERE user_id = $1 AND movie_id = $2`

	result, err := r.db.Exec(ctx, query, userID, movieID, status, at)
	if err != nil {
		r.log.Error("Failed to update watchlist status", zap.Error(err))
		return fmt.Errorf("failed to update watchlist status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *watchlistRepository) Find(ctx context.Context, userID, movieID uuid.UUID) (*entity.WatchlistItem, error) {
	query := `
		SELECT user_id, movie_id, status, added_at, updated_at
		FROM watchlist WHERE user_id = $1 AND movie_id = $2
	`
	var item entity.WatchlistItem
	err := r.db.QueryRow(ctx, query, userID, movieID).Scan(
		&item.UserID,
		&item.MovieID,
		&item.Status,
		&item.AddedAt,
		&item.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find watchlist item", zap.Error(err))
		return nil, fmt.Errorf("failed to find watchlist item: %w", err)
	}
	return &item, nil
}

// FindByUserID returns items newest-updated first with the movie attached
func (r *watchlistRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.WatchlistItem, error) {
	query := `
		SELECT w.user_id, w.movie_id, w.status, w.added_at, w.updated_at, ` + movieColumns + `
		FROM watchlist w
		INNER JOIN movies m ON m.id = w.movie_id
		WHERE w.user_id = $1
		ORDER BY w.updated_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to list watchlist", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}
	defer rows.Close()

	items := []*entity.WatchlistItem{}
	for rows.Next() {
		var item entity.WatchlistItem
		movie, err := scanMovie(prefixedRow{rows: rows, prefix: []any{
			&item.UserID,
			&item.MovieID,
			&item.Status,
			&item.AddedAt,
			&item.UpdatedAt,
		}})
		if err != nil {
			return nil, fmt.Errorf("failed to scan watchlist item: %w", err)
		}
		item.Movie = movie
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate watchlist: %w", err)
	}
	return items, nil
}

// prefixedRow lets scanMovie read a row that starts with extra columns.
type prefixedRow struct {
	rows   pgx.Rows
	prefix []any
}

func (p prefixedRow) Scan(dest ...any) error {
	return p.rows.Scan(append(p.prefix, dest...)...)
}
