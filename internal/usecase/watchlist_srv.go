package usecase

import (
	"context"
	"errors"
	"time"

	"movie-catalog/internal/data/entity"
	"movie-catalog/internal/data/repository"
	"movie-catalog/internal/dto/request"
	"movie-catalog/internal/dto/response"
	"movie-catalog/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type WatchlistService interface {
	Add(ctx context.Context, actor Actor, req *request.AddWatchlistRequest) (*response.WatchlistItemResponse, error)
	Remove(ctx context.Context, actor Actor, movieID string) error
	UpdateStatus(ctx context.Context, actor Actor, movieID string, req *request.UpdateWatchlistRequest) (*response.WatchlistItemResponse, error)
	List(ctx context.Context, actor Actor) ([]response.WatchlistItemResponse, error)
	Status(ctx context.Context, actor Actor, movieID string) (*response.WatchlistStatusResponse, error)
}

type watchlistService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewWatchlistService(repo *repository.Repository, log *zap.Logger) WatchlistService {
	return &watchlistService{
		repo: repo,
		now:  time.Now,
		log:  log.With(zap.String("service", "watchlist")),
	}
}

func (s *watchlistService) Add(ctx context.Context, actor Actor, req *request.AddWatchlistRequest) (*response.WatchlistItemResponse, error) {
	if err := requireAuth(actor); err != nil {
		return nil, err
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, utils.ErrValidationFields(errs)
	}

	movieID, err := uuid.Parse(req.MovieID)
	if err != nil {
		return nil, utils.ErrValidation("Invalid movie ID")
	}

	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		s.log.Error("Failed to find movie", zap.Error(err), zap.String("movie_id", req.MovieID))
		return nil, utils.ErrInternal("Failed to add to watchlist", err)
	}
	// draft disembunyikan dari non-admin
	if movie == nil || (!movie.IsPublished() && !actor.IsAdmin()) {
		return nil, utils.ErrNotFound("Movie not found")
	}

	status := entity.WatchStatus(req.Status)
	if status == "" {
		status = entity.WatchStatusWantToWatch
	}

	now := s.now()
	item := &entity.WatchlistItem{
		UserID:    actor.UserID,
		MovieID:   movieID,
		Status:    status,
		AddedAt:   now,
		UpdatedAt: now,
	}
	if err := s.repo.Watchlist.Upsert(ctx, item); err != nil {
		s.log.Error("Failed to upsert watchlist", zap.Error(err),
			zap.String("user_id", actor.UserID.String()),
			zap.String("movie_id", req.MovieID))
		return nil, utils.ErrInternal("Failed to add to watchlist", err)
	}
	item.Movie = movie

	s.log.Info("Watchlist updated",
		zap.String("user_id", actor.UserID.String()),
		zap.String("movie_id", req.MovieID),
		zap.String("status", string(status)))

	resp := response.WatchlistItemToResponse(item)
	return &resp, nil
}

// Remove is idempotent
func (s *watchlistService) Remove(ctx context.Context, actor Actor, movieID string) error {
	if err := requireAuth(actor); err != nil {
		return err
	}
	id, err := uuid.Parse(movieID)
	if err != nil {
		return nil
	}

	if err := s.repo.Watchlist.Delete(ctx, actor.UserID, id); err != nil {
		s.log.Error("Failed to remove from watchlist", zap.Error(err),
			zap.String("user_id", actor.UserID.String()),
			zap.String("movie_id", movieID))
		return utils.ErrInternal("Failed to remove from watchlist", err)
	}
	return nil
}

func (s *watchlistService) UpdateStatus(ctx context.Context, actor Actor, movieID string, req *request.UpdateWatchlistRequest) (*response.WatchlistItemResponse, error) {
	if err := requireAuth(actor); err != nil {
		return nil, err
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, utils.ErrValidationFields(errs)
	}

	id, err := parseID(movieID, "Movie not found in watchlist")
	if err != nil {
		return nil, err
	}

	now := s.now()
	err = s.repo.Watchlist.UpdateStatus(ctx, actor.UserID, id, entity.WatchStatus(req.Status), now)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.ErrNotFound("Movie not found in watchlist")
	}
	if err != nil {
		s.log.Error("Failed to update watchlist status", zap.Error(err),
			zap.String("user_id", actor.UserID.String()),
			zap.String("movie_id", movieID))
		return nil, utils.ErrInternal("Failed to update watchlist", err)
	}

	item, err := s.repo.Watchlist.Find(ctx, actor.UserID, id)
	if err != nil || item == nil {
		// update sudah sukses, cukup kembalikan data minimal
		item = &entity.WatchlistItem{UserID: actor.UserID, MovieID: id, Status: entity.WatchStatus(req.Status), UpdatedAt: now}
	}

	resp := response.WatchlistItemToResponse(item)
	return &resp, nil
}

func (s *watchlistService) List(ctx context.Context, actor Actor) ([]response.WatchlistItemResponse, error) {
	if err := requireAuth(actor); err != nil {
		return nil, err
	}

	items, err := s.repo.Watchlist.FindByUserID(ctx, actor.UserID)
	if err != nil {
		s.log.Error("Failed to list watchlist", zap.Error(err), zap.String("user_id", actor.UserID.String()))
		return nil, utils.ErrInternal("Failed to fetch watchlist", err)
	}

	movieIDs := make([]uuid.UUID, len(items))
	for i, item := range items {
		movieIDs[i] = item.MovieID
	}
	genres, err := s.repo.Genre.FindByMovieIDs(ctx, movieIDs)
	if err != nil {
		s.log.Warn("Failed to load genres for watchlist", zap.Error(err))
		genres = nil
	}

	out := make([]response.WatchlistItemResponse, len(items))
	for i, item := range items {
		if item.Movie != nil {
			item.Movie.Genres = genres[item.MovieID]
		}
		out[i] = response.WatchlistItemToResponse(item)
	}
	return out, nil
}

func (s *watchlistService) Status(ctx context.Context, actor Actor, movieID string) (*response.WatchlistStatusResponse, error) {
	if err := requireAuth(actor); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(movieID)
	if err != nil {
		return &response.WatchlistStatusResponse{}, nil
	}

	item, err := s.repo.Watchlist.Find(ctx, actor.UserID, id)
	if err != nil {
		s.log.Error("Failed to get watchlist status", zap.Error(err))
		return nil, utils.ErrInternal("Failed to fetch watchlist status", err)
	}
	if item == nil {
		return &response.WatchlistStatusResponse{}, nil
	}

	status := string(item.Status)
	return &response.WatchlistStatusResponse{Status: &status}, nil
}
