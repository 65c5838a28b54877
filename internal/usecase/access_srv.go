package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"movie-catalog/internal/data/entity"
	"movie-catalog/internal/data/repository"
	"movie-catalog/internal/dto/request"
	"movie-catalog/internal/dto/response"
	"movie-catalog/pkg/queue"
	"movie-catalog/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const accessRequestTitle = "Request for full movie access"

type AccessService interface {
	RequestAccess(ctx context.Context, actor Actor, movieID string, req *request.AccessRequest) (*response.MovieRequestResponse, error)
	CheckAccess(ctx context.Context, actor Actor, movieID string) bool
	CheckRequested(ctx context.Context, actor Actor, movieID string) bool
	ReviewRequest(ctx context.Context, actor Actor, requestID string, req *request.ReviewRequest) (*response.MovieRequestResponse, error)
	CreateGeneralRequest(ctx context.Context, actor Actor, req *request.GeneralRequest) (*response.MovieRequestResponse, error)
	ListRequests(ctx context.Context, actor Actor, q *request.RequestListQuery) (*response.PaginatedResponse[response.MovieRequestResponse], error)
	ListMyRequests(ctx context.Context, actor Actor) ([]response.MovieRequestResponse, error)
}

type accessService struct {
	repo      *repository.Repository
	cache     AccessCache
	cacheTTL  time.Duration
	publisher queue.Publisher
	now       func() time.Time
	log       *zap.Logger
}

func NewAccessService(
	repo *repository.Repository,
	cache AccessCache,
	cacheTTL time.Duration,
	publisher queue.Publisher,
	log *zap.Logger,
) AccessService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &accessService{
		repo:      repo,
		cache:     cache,
		cacheTTL:  cacheTTL,
		publisher: publisher,
		now:       time.Now,
		log:       log.With(zap.String("service", "access")),
	}
}

func accessCacheKey(userID, movieID uuid.UUID) string {
	return fmt.Sprintf("access:%s:%s", userID, movieID)
}

func (s *accessService) invalidate(ctx context.Context, userID, movieID uuid.UUID) {
	if err := s.cache.Invalidate(ctx, accessCacheKey(userID, movieID)); err != nil {
		s.log.Warn("Failed to invalidate access cache", zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("movie_id", movieID.String()))
	}
}

func (s *accessService) RequestAccess(ctx context.Context, actor Actor, movieID string, req *request.AccessRequest) (*response.MovieRequestResponse, error) {
	if err := requireAuth(actor); err != nil {
		return nil, err
	}

	id, err := parseID(movieID, "Movie not found")
	if err != nil {
		return nil, err
	}

	movie, err := s.repo.Movie.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find movie", zap.Error(err), zap.String("movie_id", movieID))
		return nil, utils.ErrInternal("Failed to request access", err)
	}
	if movie == nil || (!movie.IsPublished() && !actor.IsAdmin()) {
		return nil, utils.ErrNotFound("Movie not found")
	}

	movieName := strings.TrimSpace(req.MovieName)
	if movieName == "" {
		movieName = movie.TitleEnglish
	}

	now := s.now()
	movieRequest := &entity.MovieRequest{
		Base:        entity.NewBase(now),
		Title:       accessRequestTitle,
		Description: fmt.Sprintf("User requested access to the full version of movie %s (ID: %s)", movieName, movie.ID),
		UserID:      actor.UserID,
		MovieID:     &movie.ID,
		Status:      entity.RequestStatusPending,
	}

	// 1 request + 1 access row, harus atomic
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		access, err := tx.MovieAccess.Find(ctx, actor.UserID, movie.ID)
		if err != nil {
			return err
		}
		if access != nil && access.Status == entity.AccessGranted {
			return utils.ErrConflict("You already have access to this movie")
		}

		pending, err := tx.MovieRequest.FindPendingAccess(ctx, actor.UserID, movie.ID)
		if err != nil {
			return err
		}
		if pending != nil {
			return utils.ErrConflict("Access request already pending")
		}

		if err := tx.MovieRequest.Create(ctx, movieRequest); err != nil {
			return err
		}

		return tx.MovieAccess.Upsert(ctx, &entity.MovieAccess{
			UserID:    actor.UserID,
			MovieID:   movie.ID,
			Status:    entity.AccessRequested,
			RequestID: &movieRequest.ID,
			UpdatedAt: now,
		})
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.ErrConflict("Access request already pending")
		}
		if utils.KindOf(err) != utils.KindInternal {
			return nil, err
		}
		s.log.Error("Failed to request access", zap.Error(err),
			zap.String("user_id", actor.UserID.String()),
			zap.String("movie_id", movieID))
		return nil, utils.ErrInternal("Failed to request access", err)
	}

	s.invalidate(ctx, actor.UserID, movie.ID)

	s.log.Info("Access requested",
		zap.String("request_id", movieRequest.ID.String()),
		zap.String("user_id", actor.UserID.String()),
		zap.String("movie_id", movie.ID.String()))

	resp := response.MovieRequestToResponse(movieRequest)
	return &resp, nil
}

// CheckAccess fails closed: any error reads as "no access"
func (s *accessService) CheckAccess(ctx context.Context, actor Actor, movieID string) bool {
	if !actor.Authenticated {
		return false
	}
	if actor.IsAdmin() {
		return true
	}

	id, err := uuid.Parse(movieID)
	if err != nil {
		return false
	}

	key := accessCacheKey(actor.UserID, id)
	var cached bool
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("Access cache read failed", zap.Error(err), zap.String("key", key))
	} else if found {
		return cached
	}

	access, err := s.repo.MovieAccess.Find(ctx, actor.UserID, id)
	if err != nil {
		s.log.Error("Failed to check access", zap.Error(err),
			zap.String("user_id", actor.UserID.String()),
			zap.String("movie_id", movieID))
		return false
	}

	hasAccess := access != nil && access.Status == entity.AccessGranted
	if err := s.cache.Set(ctx, key, hasAccess, s.cacheTTL); err != nil {
		s.log.Warn("Access cache write failed", zap.Error(err), zap.String("key", key))
	}
	return hasAccess
}

func (s *accessService) CheckRequested(ctx context.Context, actor Actor, movieID string) bool {
	if !actor.Authenticated {
		return false
	}
	id, err := uuid.Parse(movieID)
	if err != nil {
		return false
	}

	access, err := s.repo.MovieAccess.Find(ctx, actor.UserID, id)
	if err != nil {
		s.log.Error("Failed to check requested", zap.Error(err),
			zap.String("user_id", actor.UserID.String()),
			zap.String("movie_id", movieID))
		return false
	}
	return access != nil && access.Status == entity.AccessRequested
}

func (s *accessService) ReviewRequest(ctx context.Context, actor Actor, requestID string, req *request.ReviewRequest) (*response.MovieRequestResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	status := entity.RequestStatus(req.Status)
	if status != entity.RequestStatusApproved && status != entity.RequestStatusRejected {
		return nil, utils.ErrValidation("Status must be approved or rejected")
	}

	id, err := parseID(requestID, "Request not found")
	if err != nil {
		return nil, err
	}

	var (
		reviewed *entity.MovieRequest
		changed  bool
	)
	now := s.now()

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		movieRequest, err := tx.MovieRequest.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if movieRequest == nil {
			return utils.ErrNotFound("Request not found")
		}

		// terminal state hanya boleh di-apply ulang dengan status yang sama
		if movieRequest.Status.IsTerminal() && movieRequest.Status != status {
			return utils.ErrConflict("Request has already been " + string(movieRequest.Status))
		}
		changed = movieRequest.Status != status

		movieRequest.Status = status
		if adminResponse := strings.TrimSpace(req.AdminResponse); adminResponse != "" {
			movieRequest.AdminResponse = &adminResponse
		}
		movieRequest.UpdatedAt = now
		if err := tx.MovieRequest.UpdateReview(ctx, movieRequest); err != nil {
			return err
		}

		if movieRequest.MovieID != nil {
			if err := s.applyDecision(ctx, tx, movieRequest, now); err != nil {
				return err
			}
		}

		reviewed = movieRequest
		return nil
	})
	if err != nil {
		if utils.KindOf(err) != utils.KindInternal {
			return nil, err
		}
		s.log.Error("Failed to review request", zap.Error(err), zap.String("request_id", requestID))
		return nil, utils.ErrInternal("Failed to update request", err)
	}

	if reviewed.MovieID != nil {
		s.invalidate(ctx, reviewed.UserID, *reviewed.MovieID)
	}

	s.log.Info("Request reviewed",
		zap.String("request_id", reviewed.ID.String()),
		zap.String("status", string(status)),
		zap.Bool("changed", changed))

	if changed {
		s.publishReviewed(ctx, reviewed)
	}

	resp := response.MovieRequestToResponse(reviewed)
	return &resp, nil
}

// applyDecision moves the access row to match the request decision.
// Approve always ends granted. Reject only touches a row that is still
// requested by this same request, so replaying an old rejection never
// clobbers a newer pending request.
func (s *accessService) applyDecision(ctx context.Context, tx *repository.Repository, req *entity.MovieRequest, now time.Time) error {
	access, err := tx.MovieAccess.Find(ctx, req.UserID, *req.MovieID)
	if err != nil {
		return err
	}

	var next entity.AccessStatus
	switch req.Status {
	case entity.RequestStatusApproved:
		next = entity.AccessGranted
	case entity.RequestStatusRejected:
		if access == nil || access.Status != entity.AccessRequested {
			return nil
		}
		if access.RequestID == nil || *access.RequestID != req.ID {
			return nil
		}
		next = entity.AccessDenied
	default:
		return nil
	}

	if access != nil && access.Status == next {
		return nil
	}

	return tx.MovieAccess.Upsert(ctx, &entity.MovieAccess{
		UserID:    req.UserID,
		MovieID:   *req.MovieID,
		Status:    next,
		RequestID: &req.ID,
		UpdatedAt: now,
	})
}

// publishReviewed never fails the review, the broker is best effort
func (s *accessService) publishReviewed(ctx context.Context, req *entity.MovieRequest) {
	event := queue.RequestReviewedEvent{
		RequestID:  req.ID.String(),
		UserID:     req.UserID.String(),
		Title:      req.Title,
		Status:     string(req.Status),
		ReviewedAt: req.UpdatedAt.UTC(),
	}
	if req.MovieID != nil {
		event.MovieID = req.MovieID.String()
	}
	if req.AdminResponse != nil {
		event.AdminResponse = *req.AdminResponse
	}

	if err := s.publisher.PublishRequestReviewed(ctx, event); err != nil {
		s.log.Warn("Failed to publish request reviewed event", zap.Error(err),
			zap.String("request_id", event.RequestID))
	}
}

func (s *accessService) CreateGeneralRequest(ctx context.Context, actor Actor, req *request.GeneralRequest) (*response.MovieRequestResponse, error) {
	if err := requireAuth(actor); err != nil {
		return nil, err
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, utils.ErrValidationFields(errs)
	}

	movieRequest := &entity.MovieRequest{
		Base:        entity.NewBase(s.now()),
		Title:       req.Title,
		Description: req.Description,
		UserID:      actor.UserID,
		Status:      entity.RequestStatusPending,
	}

	if err := s.repo.MovieRequest.Create(ctx, movieRequest); err != nil {
		s.log.Error("Failed to create general request", zap.Error(err), zap.String("user_id", actor.UserID.String()))
		return nil, utils.ErrInternal("Failed to submit request", err)
	}

	s.log.Info("General request created",
		zap.String("request_id", movieRequest.ID.String()),
		zap.String("user_id", actor.UserID.String()))

	resp := response.MovieRequestToResponse(movieRequest)
	return &resp, nil
}

func (s *accessService) ListRequests(ctx context.Context, actor Actor, q *request.RequestListQuery) (*response.PaginatedResponse[response.MovieRequestResponse], error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	q.Normalize()

	var status *entity.RequestStatus
	if q.Status != "" {
		st := entity.RequestStatus(q.Status)
		if st != entity.RequestStatusPending && !st.IsTerminal() {
			return nil, utils.ErrValidation("Invalid status filter")
		}
		status = &st
	}

	requests, err := s.repo.MovieRequest.FindAll(ctx, repository.RequestFilter{
		Status: status,
		Offset: q.Offset(),
		Limit:  q.Limit,
	})
	if err != nil {
		s.log.Error("Failed to list requests", zap.Error(err))
		return nil, utils.ErrInternal("Failed to fetch requests", err)
	}

	total, err := s.repo.MovieRequest.Count(ctx, status)
	if err != nil {
		s.log.Error("Failed to count requests", zap.Error(err))
		return nil, utils.ErrInternal("Failed to fetch requests", err)
	}

	items := make([]response.MovieRequestResponse, len(requests))
	for i, r := range requests {
		items[i] = response.MovieRequestDetailToResponse(r)
	}

	return response.NewPaginatedResponse(items, q.Page, q.Limit, total), nil
}

func (s *accessService) ListMyRequests(ctx context.Context, actor Actor) ([]response.MovieRequestResponse, error) {
	if err := requireAuth(actor); err != nil {
		return nil, err
	}

	requests, err := s.repo.MovieRequest.FindByUserID(ctx, actor.UserID)
	if err != nil {
		s.log.Error("Failed to list user requests", zap.Error(err), zap.String("user_id", actor.UserID.String()))
		return nil, utils.ErrInternal("Failed to fetch requests", err)
	}

	items := make([]response.MovieRequestResponse, len(requests))
	for i, r := range requests {
		items[i] = response.MovieRequestDetailToResponse(r)
	}
	return items, nil
}
