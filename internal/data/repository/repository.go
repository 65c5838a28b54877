package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"movie-catalog/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

var (
	// ErrDuplicate is returned when an insert or update hits a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
	// ErrNotFound is returned by writes that matched no row.
	ErrNotFound = errors.New("record not found")
)

// Transactor runs fn with repositories bound to a single transaction.
type Transactor interface {
	RunInTx(ctx context.Context, fn func(tx *Repository) error) error
}

type Repository struct {
	User         UserRepository
	Session      SessionRepository
	Movie        MovieRepository
	Genre        GenreRepository
	MovieGenre   MovieGenreRepository
	MovieRequest MovieRequestRepository
	MovieAccess  MovieAccessRepository
	Watchlist    WatchlistRepository
	Stats        StatsRepository

	Tx Transactor
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repo := newRepository(db, log)
	repo.Tx = &pgxTransactor{db: db, log: log.With(zap.String("repository", "tx"))}
	return repo
}

func newRepository(db database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		User:         NewUserRepository(db, log),
		Session:      NewSessionRepository(db, log),
		Movie:        NewMovieRepository(db, log),
		Genre:        NewGenreRepository(db, log),
		MovieGenre:   NewMovieGenreRepository(db, log),
		MovieRequest: NewMovieRequestRepository(db, log),
		MovieAccess:  NewMovieAccessRepository(db, log),
		Watchlist:    NewWatchlistRepository(db, log),
		Stats:        NewStatsRepository(db, log),
	}
}

// WithTx executes fn atomically. Without a transactor (already inside a
// transaction, or in tests) fn runs against r directly.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	if r.Tx == nil {
		return fn(r)
	}
	return r.Tx.RunInTx(ctx, fn)
}

type pgxTransactor struct {
	db  database.PgxIface
	log *zap.Logger
}

func (t *pgxTransactor) RunInTx(ctx context.Context, fn func(tx *Repository) error) (err error) {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			t.log.Error("Failed to rollback transaction", zap.Error(rbErr))
		}
	}()

	if err = fn(newRepository(tx, t.log)); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// escapeLike escapes LIKE wildcards so user input is matched literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
