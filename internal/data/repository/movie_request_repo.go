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

type RequestFilter struct {
	Status *entity.RequestStatus
	Offset int
	Limit  int
}

type MovieRequestRepository interface {
	Create(ctx context.Context, req *entity.MovieRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.MovieRequest, error)
	FindPendingAccess(ctx context.Context, userID, movieID uuid.UUID) (*entity.MovieRequest, error)
	UpdateReview(ctx context.Context, req *entity.MovieRequest) error
	FindAll(ctx context.Context, filter RequestFilter) ([]*entity.MovieRequestDetail, error)
	Count(ctx context.Context, status *entity.RequestStatus) (int64, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.MovieRequestDetail, error)
}

type movieRequestRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewMovieRequestRepository(db database.Querier, log *zap.Logger) MovieRequestRepository {
	return &movieRequestRepository{
		db:  db,
		log: log.With(zap.String("repository", "movie_request")),
	}
}

const requestColumns = `r.id, r.title, r.description, r.user_id, r.movie_id, r.status,
	r.admin_response, r.created_at, r.updated_at`

func requestDest(req *entity.MovieRequest) []any {
	return []any{
		&req.ID,
		&req.Title,
		&req.Description,
		&req.UserID,
		&req.MovieID,
		&req.Status,
		&req.AdminResponse,
		&req.CreatedAt,
		&req.UpdatedAt,
	}
}

func (r *movieRequestRepository) Create(ctx context.Context, req *entity.MovieRequest) error {
	query := `
		INSERT INTO movie_requests (id, title, description, user_id, movie_id, status,
		                            admin_response, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		req.ID,
		req.Title,
		req.Description,
		req.UserID,
		req.MovieID,
		req.Status,
		req.AdminResponse,
		req.CreatedAt,
		req.UpdatedAt,
	)
	if err != nil {
		// idx_movie_requests_pending_access
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		r.log.Error("Failed to create movie request", zap.Error(err), zap.String("user_id", req.UserID.String()))
		return fmt.Errorf("failed to create movie request: %w", err)
	}
	return nil
}

func (r *movieRequestRepository) findOne(ctx context.Context, query string, args ...any) (*entity.MovieRequest, error) {
	var req entity.MovieRequest
	err := r.db.QueryRow(ctx, query, args...).Scan(requestDest(&req)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find movie request", zap.Error(err))
		return nil, fmt.Errorf("failed to find movie request: %w", err)
	}
	return &req, nil
}

func (r *movieRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.MovieRequest, error) {
	return r.findOne(ctx, `SELECT `+requestColumns+` FROM movie_requests r WHERE r.id = $1`, id)
}

func (r *movieRequestRepository) FindPendingAccess(ctx context.Context, userID, movieID uuid.UUID) (*entity.MovieRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM movie_requests r
		WHERE r.user_id = $1 AND r.movie_id = $2 AND r.status = 'pending'
		ORDER BY r.created_at DESC
		LIMIT 1`
	return r.findOne(ctx, query, userID, movieID)
}

// UpdateReview persists status and admin response of a reviewed request
func (r *movieRequestRepository) UpdateReview(ctx context.Context, req *entity.MovieRequest) error {
	query := `
		UPDATE movie_requests
		SET status = $2, admin_response = $3, updated_at = $4
		WHERE id = $1
	`
	result, err := r.db.Exec(ctx, query, req.ID, req.Status, req.AdminResponse, req.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to update movie request", zap.Error(err), zap.String("request_id", req.ID.String()))
		return fmt.Errorf("failed to update movie request: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const requestDetailSelect = `SELECT ` + requestColumns + `, u.name, u.email, m.title_english
	FROM movie_requests r
	INNER JOIN users u ON u.id = r.user_id
	LEFT JOIN movies m ON m.id = r.movie_id`

func (r *movieRequestRepository) FindAll(ctx context.Context, filter RequestFilter) ([]*entity.MovieRequestDetail, error) {
	query := requestDetailSelect
	args := []any{}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		query += ` WHERE r.status = $1`
	}
	args = append(args, filter.Limit, filter.Offset)
	query += fmt.Sprintf(` ORDER BY r.created_at DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	return r.queryDetails(ctx, query, args...)
}

func (r *movieRequestRepository) Count(ctx context.Context, status *entity.RequestStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM movie_requests`
	args := []any{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, string(*status))
	}

	var total int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		r.log.Error("Failed to count movie requests", zap.Error(err))
		return 0, fmt.Errorf("failed to count movie requests: %w", err)
	}
	return total, nil
}

func (r *movieRequestRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.MovieRequestDetail, error) {
	query := requestDetailSelect + ` WHERE r.user_id = $1 ORDER BY r.created_at DESC`
	return r.queryDetails(ctx, query, userID)
}

func (r *movieRequestRepository) queryDetails(ctx context.Context, query string, args ...any) ([]*entity.MovieRequestDetail, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list movie requests", zap.Error(err))
		return nil, fmt.Errorf("failed to list movie requests: %w", err)
	}
	defer rows.Close()

	requests := []*entity.MovieRequestDetail{}
	for rows.Next() {
		var d entity.MovieRequestDetail
		dest := append(requestDest(&d.MovieRequest), &d.UserName, &d.UserEmail, &d.MovieTitle)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan movie request: %w", err)
		}
		requests = append(requests, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate movie requests: %w", err)
	}
	return requests, nil
}
