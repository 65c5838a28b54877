package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"movie-catalog/internal/data/entity"
	"movie-catalog/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const (
	SortNewest = "newest"
	SortOldest = "oldest"
)

// MovieFilter drives list and count queries. Zero values mean "no filter".
type MovieFilter struct {
	Status   *entity.MovieStatus
	GenreIDs []uuid.UUID
	Year     *int
	Search   string
	Sort     string
	Offset   int
	Limit    int
}

type MovieRepository interface {
	Create(ctx context.Context, movie *entity.Movie) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error)
	Update(ctx context.Context, movie *entity.Movie) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context, filter MovieFilter) ([]*entity.Movie, error)
	Count(ctx context.Context, filter MovieFilter) (int64, error)
	Search(ctx context.Context, q string, limit int) ([]*entity.Movie, error)
}

type movieRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewMovieRepository(db database.Querier, log *zap.Logger) MovieRepository {
	return &movieRepository{
		db:  db,
		log: log.With(zap.String("repository", "movie")),
	}
}

const movieColumns = `m.id, m.title_english, m.title_arabic, m.plot_english, m.plot_arabic,
	m.year, m.budget, m.poster, m.cover, m.videos, m.status, m.created_at, m.updated_at`

func scanMovie(row pgx.Row) (*entity.Movie, error) {
	var movie entity.Movie
	var videos []byte
	err := row.Scan(
		&movie.ID,
		&movie.TitleEnglish,
		&movie.TitleArabic,
		&movie.PlotEnglish,
		&movie.PlotArabic,
		&movie.Year,
		&movie.Budget,
		&movie.Poster,
		&movie.Cover,
		&videos,
		&movie.Status,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	movie.Videos = []entity.Video{}
	if len(videos) > 0 {
		if err := json.Unmarshal(videos, &movie.Videos); err != nil {
			return nil, fmt.Errorf("decode videos: %w", err)
		}
	}
	return &movie, nil
}

func encodeVideos(videos []entity.Video) ([]byte, error) {
	if videos == nil {
		videos = []entity.Video{}
	}
	return json.Marshal(videos)
}

func (r *movieRepository) Create(ctx context.Context, movie *entity.Movie) error {
	videos, err := encodeVideos(movie.Videos)
	if err != nil {
		return fmt.Errorf("encode videos: %w", err)
	}

	query := `
		INSERT INTO movies (id, title_english, title_arabic, plot_english, plot_arabic,
		                    year, budget, poster, cover, videos, status,
		                    created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::jsonb, $11, $12, $13)
	`

	_, err = r.db.Exec(ctx, query,
		movie.ID,
		movie.TitleEnglish,
		movie.TitleArabic,
		movie.PlotEnglish,
		movie.PlotArabic,
		movie.Year,
		movie.Budget,
		movie.Poster,
		movie.Cover,
		string(videos),
		movie.Status,
		movie.CreatedAt,
		movie.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create movie",
			zap.Error(err),
			zap.String("title", movie.TitleEnglish),
		)
		return fmt.Errorf("failed to create movie: %w", err)
	}

	return nil
}

func (r *movieRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies m WHERE m.id = $1`

	movie, err := scanMovie(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find movie by ID",
			zap.Error(err),
			zap.String("movie_id", id.String()),
		)
		return nil, fmt.Errorf("failed to find movie: %w", err)
	}

	return movie, nil
}

// buildWhere renders the filter into a WHERE clause and its positional args
func (f MovieFilter) buildWhere() (string, []any) {
	var sb strings.Builder
	sb.WriteString(" WHERE 1=1")
	args := []any{}

	if f.Status != nil {
		args = append(args, string(*f.Status))
		sb.WriteString(fmt.Sprintf(" AND m.status = $%d", len(args)))
	}

	if len(f.GenreIDs) > 0 {
		ids := make([]string, len(f.GenreIDs))
		for i, id := range f.GenreIDs {
			ids[i] = id.String()
		}
		args = append(args, ids)
		sb.WriteString(fmt.Sprintf(
			" AND EXISTS (SELECT 1 FROM movie_genres mg WHERE mg.movie_id = m.id AND mg.genre_id = ANY($%d::uuid[]))",
			len(args)))
	}

	if f.Year != nil {
		args = append(args, *f.Year)
		sb.WriteString(fmt.Sprintf(" AND m.year = $%d", len(args)))
	}

	if search := strings.TrimSpace(f.Search); search != "" {
		args = append(args, "%"+escapeLike(search)+"%")
		sb.WriteString(fmt.Sprintf(" AND (m.title_english ILIKE $%d OR m.title_arabic ILIKE $%d)", len(args), len(args)))
	}

	return sb.String(), args
}

func orderBy(sort string) string {
	if sort == SortOldest {
		return " ORDER BY m.year ASC, m.created_at ASC"
	}
	return " ORDER BY m.year DESC, m.created_at DESC"
}

func (r *movieRepository) FindAll(ctx context.Context, filter MovieFilter) ([]*entity.Movie, error) {
	where, args := filter.buildWhere()

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + movieColumns + ` FROM movies m`)
	queryBuilder.WriteString(where)
	queryBuilder.WriteString(orderBy(filter.Sort))

	args = append(args, filter.Limit, filter.Offset)
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args)))

	movies, err := r.queryMovies(ctx, queryBuilder.String(), args...)
	if err != nil {
		r.log.Error("Failed to find all movies",
			zap.Error(err),
			zap.Int("offset", filter.Offset),
			zap.Int("limit", filter.Limit),
		)
		return nil, fmt.Errorf("failed to find movies: %w", err)
	}

	r.log.Debug("Movies found",
		zap.Int("count", len(movies)),
		zap.Int("offset", filter.Offset),
		zap.Int("limit", filter.Limit),
	)

	return movies, nil
}

func (r *movieRepository) Count(ctx context.Context, filter MovieFilter) (int64, error) {
	where, args := filter.buildWhere()

	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM movies m`+where, args...).Scan(&total)
	if err != nil {
		r.log.Error("Failed to count movies", zap.Error(err))
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}

	return total, nil
}

// Search matches published movies on both titles and plots
func (r *movieRepository) Search(ctx context.Context, q string, limit int) ([]*entity.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies m
		WHERE m.status = 'published'
		  AND (m.title_english ILIKE $1 OR m.title_arabic ILIKE $1
		       OR m.plot_english ILIKE $1 OR m.plot_arabic ILIKE $1)
		ORDER BY m.year DESC, m.created_at DESC
		LIMIT $2`

	movies, err := r.queryMovies(ctx, query, "%"+escapeLike(q)+"%", limit)
	if err != nil {
		r.log.Error("Failed to search movies", zap.Error(err), zap.String("q", q))
		return nil, fmt.Errorf("failed to search movies: %w", err)
	}
	return movies, nil
}

func (r *movieRepository) queryMovies(ctx context.Context, query string, args ...any) ([]*entity.Movie, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := []*entity.Movie{}
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return movies, nil
}

func (r *movieRepository) Update(ctx context.Context, movie *entity.Movie) error {
	videos, err := encodeVideos(movie.Videos)
	if err != nil {
		return fmt.Errorf("encode videos: %w", err)
	}

	query := `
		UPDATE movies
		SET title_english = $2, title_arabic = $3, plot_english = $4, plot_arabic = $5,
		    year = $6, budget = $7, poster = $8, cover = $9, videos = $10::jsonb,
		    status = $11, updated_at = $12
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		movie.ID,
		movie.TitleEnglish,
		movie.TitleArabic,
		movie.PlotEnglish,
		movie.PlotArabic,
		movie.Year,
		movie.Budget,
		movie.Poster,
		movie.Cover,
		string(videos),
		movie.Status,
		movie.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update movie",
			zap.Error(err),
			zap.String("movie_id", movie.ID.String()),
		)
		return fmt.Errorf("failed to update movie: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes the movie; genre links, watchlist and access rows cascade
func (r *movieRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete movie",
			zap.Error(err),
			zap.String("movie_id", id.String()),
		)
		return fmt.Errorf("failed to delete movie: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	r.log.Info("Movie deleted", zap.String("movie_id", id.String()))
	return nil
}
