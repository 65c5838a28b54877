package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"movie-catalog/internal/data/entity"
	"movie-catalog/internal/data/repository"
	"movie-catalog/internal/dto/request"
	"movie-catalog/internal/dto/response"
	"movie-catalog/pkg/utils"

	"go.uber.org/zap"
)

type GenreService interface {
	CreateGenre(ctx context.Context, req *request.GenreRequest) (*response.GenreResponse, error)
	UpdateGenre(ctx context.Context, genreID string, req *request.GenreRequest) (*response.GenreResponse, error)
	DeleteGenre(ctx context.Context, genreID string) error
	ListGenres(ctx context.Context, activeOnly bool) ([]response.GenreResponse, error)
	GetGenre(ctx context.Context, genreID string) (*response.GenreResponse, error)
}

type genreService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewGenreService(repo *repository.Repository, log *zap.Logger) GenreService {
	return &genreService{
		repo: repo,
		now:  time.Now,
		log:  log.With(zap.String("service", "genre")),
	}
}

func validateGenre(req *request.GenreRequest) error {
	req.NameEnglish = strings.TrimSpace(req.NameEnglish)
	req.NameArabic = strings.TrimSpace(req.NameArabic)
	if req.NameEnglish == "" {
		return utils.ErrValidation("Name in English is required")
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return utils.ErrValidationFields(errs)
	}
	return nil
}

func (s *genreService) CreateGenre(ctx context.Context, req *request.GenreRequest) (*response.GenreResponse, error) {
	if err := validateGenre(req); err != nil {
		return nil, err
	}

	active := true
	if req.Status != nil {
		active = *req.Status
	}

	genre := &entity.Genre{
		Base:        entity.NewBase(s.now()),
		NameEnglish: req.NameEnglish,
		NameArabic:  req.NameArabic,
		Status:      active,
	}

	err := s.repo.Genre.Create(ctx, genre)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, utils.ErrConflict("Genre already exists")
	}
	if err != nil {
		s.log.Error("Failed to create genre", zap.Error(err), zap.String("name", req.NameEnglish))
		return nil, utils.ErrInternal("Failed to create genre", err)
	}

	s.log.Info("Genre created", zap.String("genre_id", genre.ID.String()), zap.String("name", genre.NameEnglish))

	resp := response.GenreToResponse(*genre)
	return &resp, nil
}

func (s *genreService) UpdateGenre(ctx context.Context, genreID string, req *request.GenreRequest) (*response.GenreResponse, error) {
	if err := validateGenre(req); err != nil {
		return nil, err
	}

	id, err := parseID(genreID, "Genre not found")
	if err != nil {
		return nil, err
	}

	genre, err := s.repo.Genre.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find genre", zap.Error(err), zap.String("genre_id", genreID))
		return nil, utils.ErrInternal("Failed to update genre", err)
	}
	if genre == nil {
		return nil, utils.ErrNotFound("Genre not found")
	}

	genre.NameEnglish = req.NameEnglish
	genre.NameArabic = req.NameArabic
	if req.Status != nil {
		genre.Status = *req.Status
	}
	genre.UpdatedAt = s.now()

	err = s.repo.Genre.Update(ctx, genre)
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return nil, utils.ErrConflict("Genre already exists")
	case errors.Is(err, repository.ErrNotFound):
		return nil, utils.ErrNotFound("Genre not found")
	case err != nil:
		s.log.Error("Failed to update genre", zap.Error(err), zap.String("genre_id", genreID))
		return nil, utils.ErrInternal("Failed to update genre", err)
	}

	resp := response.GenreToResponse(*genre)
	return &resp, nil
}

func (s *genreService) DeleteGenre(ctx context.Context, genreID string) error {
	id, err := parseID(genreID, "Genre not found")
	if err != nil {
		return err
	}

	err = s.repo.Genre.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return utils.ErrNotFound("Genre not found")
	}
	if err != nil {
		s.log.Error("Failed to delete genre", zap.Error(err), zap.String("genre_id", genreID))
		return utils.ErrInternal("Failed to delete genre", err)
	}

	s.log.Info("Genre deleted", zap.String("genre_id", genreID))
	return nil
}

func (s *genreService) ListGenres(ctx context.Context, activeOnly bool) ([]response.GenreResponse, error) {
	genres, err := s.repo.Genre.FindAll(ctx, activeOnly)
	if err != nil {
		s.log.Error("Failed to list genres", zap.Error(err))
		return nil, utils.ErrInternal("Failed to fetch genres", err)
	}
	return response.GenresToResponse(genres), nil
}

func (s *genreService) GetGenre(ctx context.Context, genreID string) (*response.GenreResponse, error) {
	id, err := parseID(genreID, "Genre not found")
	if err != nil {
		return nil, err
	}

	genre, err := s.repo.Genre.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find genre", zap.Error(err), zap.String("genre_id", genreID))
		return nil, utils.ErrInternal("Failed to fetch genre", err)
	}
	if genre == nil {
		return nil, utils.ErrNotFound("Genre not found")
	}

	resp := response.GenreToResponse(*genre)
	return &resp, nil
}
