package usecase

import (
	"context"
	"time"

	"movie-catalog/internal/data/repository"
	"movie-catalog/pkg/mailer"
	"movie-catalog/pkg/media"
	"movie-catalog/pkg/queue"
	"movie-catalog/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AccessCache is the subset of the redis cache used for access checks.
type AccessCache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
	InvalidatePattern(ctx context.Context, pattern string) error
}

// Deps groups everything the services talk to. Cache may be nil.
type Deps struct {
	Repo      *repository.Repository
	Config    *utils.Config
	Cache     AccessCache
	Publisher queue.Publisher
	Mailer    mailer.Mailer
	Media     media.Store
}

type Service struct {
	Auth         AuthService
	User         UserService
	Movie        MovieService
	Genre        GenreService
	Access       AccessService
	Watchlist    WatchlistService
	Stats        StatsService
	Notification NotificationService
}

func NewService(deps Deps, log *zap.Logger) *Service {
	if deps.Cache == nil {
		deps.Cache = noopCache{}
	}

	access := NewAccessService(deps.Repo, deps.Cache, deps.Config.Redis.AccessCacheTTL, deps.Publisher, log)

	return &Service{
		Auth:         NewAuthService(deps.Repo, deps.Config, deps.Mailer, log),
		User:         NewUserService(deps.Repo, log),
		Movie:        NewMovieService(deps.Repo, access, deps.Cache, deps.Media, log),
		Genre:        NewGenreService(deps.Repo, log),
		Access:       access,
		Watchlist:    NewWatchlistService(deps.Repo, log),
		Stats:        NewStatsService(deps.Repo, log),
		Notification: NewNotificationService(deps.Repo, deps.Mailer, log),
	}
}

// parseID turns a path id into a uuid, reporting a malformed one as NotFound
// with the given message
func parseID(raw, notFoundMsg string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, utils.ErrNotFound(notFoundMsg)
	}
	return id, nil
}

type noopCache struct{}

func (noopCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (noopCache) Set(context.Context, string, any, time.Duration) error { return nil }
func (noopCache) Invalidate(context.Context, ...string) error { return nil }
func (noopCache) InvalidatePattern(context.Context, string) error { return nil }
