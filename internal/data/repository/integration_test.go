//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"movie-catalog/internal/data/entity"
	"movie-catalog/migrations"
	"movie-catalog/pkg/database"
	"movie-catalog/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

// setupPostgres starts a throwaway postgres, migrates it and returns a
// repository bound to it.
func setupPostgres(t *testing.T) *Repository {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("movies"),
		postgres.WithUsername("movies"),
		postgres.WithPassword("movies"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := utils.DatabaseConfig{
		Host:     host,
		Port:     port.Port(),
		Name:     "movies",
		User:     "movies",
		Password: "movies",
		MaxConns: 4,
	}

	log := zap.NewNop()
	require.NoError(t, database.Migrate(migrations.FS, database.DSN(cfg, "pgx5"), log))

	db, err := database.InitDB(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	return NewRepository(db, log)
}

func seedUserAndMovie(t *testing.T, repo *Repository) (*entity.User, *entity.Movie) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	user := &entity.User{
		Base:         entity.NewBase(now),
		Name:         "Dina",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "hash",
		Role:         entity.RoleUser,
	}
	require.NoError(t, repo.User.Create(ctx, user))

	movie := &entity.Movie{
		Base:         entity.NewBase(now),
		TitleEnglish: "Heat",
		PlotEnglish:  "A crew of thieves.",
		Year:         1995,
		Videos:       []entity.Video{{Title: "Trailer", URL: "https://cdn.example.com/t.mp4", IsTrailer: true}},
		Status:       entity.MovieStatusPublished,
	}
	require.NoError(t, repo.Movie.Create(ctx, movie))

	return user, movie
}

func TestIntegration_PendingAccessRequestIsUnique(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()
	user, movie := seedUserAndMovie(t, repo)

	newRequest := func() *entity.MovieRequest {
		return &entity.MovieRequest{
			Base:        entity.NewBase(time.Now()),
			Title:       "Access request: Heat",
			Description: "Access request",
			UserID:      user.ID,
			MovieID:     &movie.ID,
			Status:      entity.RequestStatusPending,
		}
	}

	first := newRequest()
	require.NoError(t, repo.MovieRequest.Create(ctx, first))
	assert.ErrorIs(t, repo.MovieRequest.Create(ctx, newRequest()), ErrDuplicate)

	pending, err := repo.MovieRequest.FindPendingAccess(ctx, user.ID, movie.ID)
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, first.ID, pending.ID)

	// once reviewed a new pending request is allowed again
	first.Status = entity.RequestStatusRejected
	first.UpdatedAt = time.Now()
	require.NoError(t, repo.MovieRequest.UpdateReview(ctx, first))
	assert.NoError(t, repo.MovieRequest.Create(ctx, newRequest()))
}

func TestIntegration_AccessUpsertAndRollback(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()
	user, movie := seedUserAndMovie(t, repo)

	access := &entity.MovieAccess{
		UserID:    user.ID,
		MovieID:   movie.ID,
		Status:    entity.AccessRequested,
		UpdatedAt: time.Now(),
	}
	require.NoError(t, repo.MovieAccess.Upsert(ctx, access))

	access.Status = entity.AccessGranted
	require.NoError(t, repo.MovieAccess.Upsert(ctx, access))

	got, err := repo.MovieAccess.Find(ctx, user.ID, movie.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.AccessGranted, got.Status)

	granted, err := repo.MovieAccess.FindMovieIDs(ctx, user.ID, entity.AccessGranted)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{movie.ID}, granted)

	// a failing transaction leaves the row untouched
	err = repo.WithTx(ctx, func(tx *Repository) error {
		require.NoError(t, tx.MovieAccess.Upsert(ctx, &entity.MovieAccess{
			UserID:    user.ID,
			MovieID:   movie.ID,
			Status:    entity.AccessDenied,
			UpdatedAt: time.Now(),
		}))
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	got, err = repo.MovieAccess.Find(ctx, user.ID, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AccessGranted, got.Status)
}

func TestIntegration_MovieFilters(t *testing.T) {
	repo := setupPostgres(t)
	ctx := context.Background()
	_, movie := seedUserAndMovie(t, repo)

	draft := &entity.Movie{
		Base:         entity.NewBase(time.Now()),
		TitleEnglish: "Unreleased 100%",
		PlotEnglish:  "Secret.",
		Year:         2030,
		Status:       entity.MovieStatusDraft,
	}
	require.NoError(t, repo.Movie.Create(ctx, draft))

	published := entity.MovieStatusPublished
	movies, err := repo.Movie.FindAll(ctx, MovieFilter{Status: &published, Limit: 12})
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, movie.ID, movies[0].ID)
	assert.Equal(t, movie.Videos, movies[0].Videos)

	total, err := repo.Movie.Count(ctx, MovieFilter{Search: "100%"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	found, err := repo.Movie.Search(ctx, "thieves", 20)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, movie.ID, found[0].ID)
}
