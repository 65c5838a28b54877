package usecase

import (
	"context"

	"movie-catalog/internal/data/repository"
	"movie-catalog/internal/dto/response"
	"movie-catalog/pkg/utils"

	"go.uber.org/zap"
)

type StatsService interface {
	Dashboard(ctx context.Context) (*response.StatsResponse, error)
}

type statsService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewStatsService(repo *repository.Repository, log *zap.Logger) StatsService {
	return &statsService{
		repo: repo,
		log:  log.With(zap.String("service", "stats")),
	}
}

func (s *statsService) Dashboard(ctx context.Context) (*response.StatsResponse, error) {
	stats, err := s.repo.Stats.Dashboard(ctx)
	if err != nil {
		s.log.Error("Failed to load dashboard stats", zap.Error(err))
		return nil, utils.ErrInternal("Failed to load stats", err)
	}
	resp := response.StatsToResponse(stats)
	return &resp, nil
}
