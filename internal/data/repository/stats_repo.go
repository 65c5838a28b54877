package repository

import (
	"context"
	"fmt"

	"movie-catalog/internal/data/entity"
	"movie-catalog/pkg/database"

	"go.uber.org/zap"
)

type StatsRepository interface {
	Dashboard(ctx context.Context) (*entity.DashboardStats, error)
}

type statsRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewStatsRepository(db database.Querier, log *zap.Logger) StatsRepository {
	return &statsRepository{
		db:  db,
		log: log.With(zap.String("repository", "stats")),
	}
}

func (r *statsRepository) Dashboard(ctx context.Context) (*entity.DashboardStats, error) {
	stats := &entity.DashboardStats{
		MoviesByStatus: map[entity.MovieStatus]int64{
			entity.MovieStatusDraft:     0,
			entity.MovieStatusPublished: 0,
		},
		RequestsByStatus: map[entity.RequestStatus]int64{
			entity.RequestStatusPending:  0,
			entity.RequestStatusApproved: 0,
			entity.RequestStatusRejected: 0,
		},
	}

	query := `
		SELECT (SELECT COUNT(*) FROM users),
		       (SELECT COUNT(*) FROM genres),
		       (SELECT COUNT(*) FROM watchlist)
	`
	if err := r.db.QueryRow(ctx, query).Scan(&stats.TotalUsers, &stats.TotalGenres, &stats.WatchlistItems); err != nil {
		r.log.Error("Failed to load totals", zap.Error(err))
		return nil, fmt.Errorf("failed to load totals: %w", err)
	}

	if err := r.groupCount(ctx, `SELECT status, COUNT(*) FROM movies GROUP BY status`, func(status string, n int64) {
		stats.MoviesByStatus[entity.MovieStatus(status)] = n
	}); err != nil {
		return nil, err
	}

	if err := r.groupCount(ctx, `SELECT status, COUNT(*) FROM movie_requests GROUP BY status`, func(status string, n int64) {
		stats.RequestsByStatus[entity.RequestStatus(status)] = n
	}); err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *statsRepository) groupCount(ctx context.Context, query string, fn func(string, int64)) error {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to group count", zap.Error(err))
		return fmt.Errorf("failed to group count: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return fmt.Errorf("failed to scan group count: %w", err)
		}
		fn(status, n)
	}
	return rows.Err()
}
