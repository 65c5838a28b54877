package usecase

import (
	"context"
	"testing"
	"time"

	"movie-catalog/internal/data/entity"
	"movie-catalog/internal/dto/request"
	"movie-catalog/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newWatchlistFixture() (*fixture, *watchlistService) {
	f := newFixture()
	svc := NewWatchlistService(f.repo, zap.NewNop()).(*watchlistService)
	return f, svc
}

func TestWatchlist_AddDefaultsAndUpserts(t *testing.T) {
	f, svc := newWatchlistFixture()
	ctx := context.Background()
	user := f.addUser(entity.RoleUser)
	movie := f.addMovie("Dune", entity.MovieStatusPublished)

	first := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return first }
	item, err := svc.Add(ctx, user, &request.AddWatchlistRequest{MovieID: movie.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, "want_to_watch", item.Status)
	require.NotNil(t, item.Movie)
	assert.Equal(t, "Dune", item.Movie.TitleEnglish)

	later := first.Add(time.Hour)
	svc.now = func() time.Time { return later }
	item, err = svc.Add(ctx, user, &request.AddWatchlistRequest{MovieID: movie.ID.String(), Status: "watching"})
	require.NoError(t, err)
	assert.Equal(t, "watching", item.Status)
	assert.Equal(t, first, item.AddedAt, "re-adding keeps the original added_at")
	assert.Len(t, f.db.watchlist, 1)
}

func TestWatchlist_AddErrors(t *testing.T) {
	f, svc := newWatchlistFixture()
	ctx := context.Background()
	user := f.addUser(entity.RoleUser)

	_, err := svc.Add(ctx, Actor{}, &request.AddWatchlistRequest{MovieID: uuid.NewString()})
	requireKind(t, err, utils.KindUnauthorized)

	_, err = svc.Add(ctx, user, &request.AddWatchlistRequest{MovieID: "nope"})
	requireKind(t, err, utils.KindValidation)

	_, err = svc.Add(ctx, user, &request.AddWatchlistRequest{MovieID: uuid.NewString(), Status: "someday"})
	requireKind(t, err, utils.KindValidation)

	_, err = svc.Add(ctx, user, &request.AddWatchlistRequest{MovieID: uuid.NewString()})
	requireKind(t, err, utils.KindNotFound)
}

func TestWatchlist_AddDraftHiddenFromUsers(t *testing.T) {
	f, svc := newWatchlistFixture()
	ctx := context.Background()
	user := f.addUser(entity.RoleUser)
	admin := f.addUser(entity.RoleAdmin)
	draft := f.addMovie("Unreleased", entity.MovieStatusDraft)

	_, err := svc.Add(ctx, user, &request.AddWatchlistRequest{MovieID: draft.ID.String()})
	requireKind(t, err, utils.KindNotFound)
	assert.Empty(t, f.db.watchlist)

	item, err := svc.Add(ctx, admin, &request.AddWatchlistRequest{MovieID: draft.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, draft.ID.String(), item.MovieID)
}

func TestWatchlist_RemoveIsIdempotent(t *testing.T) {
	f, svc := newWatchlistFixture()
	ctx := context.Background()
	user := f.addUser(entity.RoleUser)
	movie := f.addMovie("Dune", entity.MovieStatusPublished)

	_, err := svc.Add(ctx, user, &request.AddWatchlistRequest{MovieID: movie.ID.String()})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, user, movie.ID.String()))
	require.NoError(t, svc.Remove(ctx, user, movie.ID.String()))
	require.NoError(t, svc.Remove(ctx, user, "garbage"))
	assert.Empty(t, f.db.watchlist)

	requireKind(t, svc.Remove(ctx, Actor{}, movie.ID.String()), utils.KindUnauthorized)
}

func TestWatchlist_UpdateStatus(t *testing.T) {
	f, svc := newWatchlistFixture()
	ctx := context.Background()
	user := f.addUser(entity.RoleUser)
	movie := f.addMovie("Dune", entity.MovieStatusPublished)

	_, err := svc.UpdateStatus(ctx, user, movie.ID.String(), &request.UpdateWatchlistRequest{Status: "completed"})
	requireKind(t, err, utils.KindNotFound)
	assert.Contains(t, err.Error(), "Movie not found in watchlist")

	_, err = svc.Add(ctx, user, &request.AddWatchlistRequest{MovieID: movie.ID.String()})
	require.NoError(t, err)

	item, err := svc.UpdateStatus(ctx, user, movie.ID.String(), &request.UpdateWatchlistRequest{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, "completed", item.Status)

	_, err = svc.UpdateStatus(ctx, user, movie.ID.String(), &request.UpdateWatchlistRequest{Status: "later"})
	requireKind(t, err, utils.KindValidation)
}

func TestWatchlist_ListAndStatus(t *testing.T) {
	f, svc := newWatchlistFixture()
	ctx := context.Background()
	user := f.addUser(entity.RoleUser)
	other := f.addUser(entity.RoleUser)
	drama := f.addGenre("Drama", true)
	m1 := f.addMovie("One", entity.MovieStatusPublished, drama.ID)
	m2 := f.addMovie("Two", entity.MovieStatusPublished)

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, m := range []entity.Movie{m1, m2} {
		at := base.Add(time.Duration(i) * time.Hour)
		svc.now = func() time.Time { return at }
		_, err := svc.Add(ctx, user, &request.AddWatchlistRequest{MovieID: m.ID.String()})
		require.NoError(t, err)
	}

	items, err := svc.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, m2.ID.String(), items[0].MovieID, "most recently added first")
	require.NotNil(t, items[1].Movie)
	require.Len(t, items[1].Movie.Genres, 1)
	assert.Equal(t, "Drama", items[1].Movie.Genres[0].NameEnglish)

	empty, err := svc.List(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, empty)

	status, err := svc.Status(ctx, user, m1.ID.String())
	require.NoError(t, err)
	require.NotNil(t, status.Status)
	assert.Equal(t, "want_to_watch", *status.Status)

	status, err = svc.Status(ctx, other, m1.ID.String())
	require.NoError(t, err)
	assert.Nil(t, status.Status)
}
