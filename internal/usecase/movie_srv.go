package usecase

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"movie-catalog/internal/data/entity"
	"movie-catalog/internal/data/repository"
	"movie-catalog/internal/dto/request"
	"movie-catalog/internal/dto/response"
	"movie-catalog/pkg/media"
	"movie-catalog/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	searchMinLength = 2
	searchLimit     = 10
)

type MovieService interface {
	ListMovies(ctx context.Context, actor Actor, q *request.MovieListQuery) (*response.PaginatedResponse[response.MovieResponse], error)
	CountMovies(ctx context.Context, actor Actor, q *request.MovieListQuery) (*response.MovieCountResponse, error)
	GetMovie(ctx context.Context, actor Actor, movieID string) (*response.MovieDetailResponse, error)
	SearchMovies(ctx context.Context, q string) ([]response.MovieResponse, error)
	CreateMovie(ctx context.Context, req *request.CreateMovieRequest) (*response.MovieDetailResponse, error)
	UpdateMovie(ctx context.Context, movieID string, req *request.UpdateMovieRequest) (*response.MovieDetailResponse, error)
	DeleteMovie(ctx context.Context, movieID string) error
	UploadMedia(ctx context.Context, kind string, file media.File) (*response.MediaResponse, error)
}

type movieService struct {
	repo   *repository.Repository
	access AccessService
	cache  AccessCache
	media  media.Store
	now    func() time.Time
	log    *zap.Logger
}

func NewMovieService(
	repo *repository.Repository,
	access AccessService,
	cache AccessCache,
	store media.Store,
	log *zap.Logger,
) MovieService {
	return &movieService{
		repo:   repo,
		access: access,
		cache:  cache,
		media:  store,
		now:    time.Now,
		log:    log.With(zap.String("service", "movie")),
	}
}

// buildFilter converts query params into a repository filter. Non-admins
// only ever see published movies.
func (s *movieService) buildFilter(actor Actor, q *request.MovieListQuery) (repository.MovieFilter, error) {
	q.Normalize()

	filter := repository.MovieFilter{
		Search: strings.TrimSpace(q.Search),
		Sort:   repository.SortNewest,
		Offset: q.Offset(),
		Limit:  q.Limit,
	}

	if q.Sort == repository.SortOldest {
		filter.Sort = repository.SortOldest
	}

	published := entity.MovieStatusPublished
	switch {
	case !actor.IsAdmin():
		filter.Status = &published
	case q.Status == string(entity.MovieStatusDraft) || q.Status == string(entity.MovieStatusPublished):
		status := entity.MovieStatus(q.Status)
		filter.Status = &status
	}

	if q.Year > 0 {
		year := q.Year
		filter.Year = &year
	}

	if q.Genre != "" {
		for _, raw := range strings.Split(q.Genre, ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			id, err := uuid.Parse(raw)
			if err != nil {
				return filter, utils.ErrValidation("Invalid genre ID: " + raw)
			}
			filter.GenreIDs = append(filter.GenreIDs, id)
		}
	}

	return filter, nil
}

func (s *movieService) ListMovies(ctx context.Context, actor Actor, q *request.MovieListQuery) (*response.PaginatedResponse[response.MovieResponse], error) {
	filter, err := s.buildFilter(actor, q)
	if err != nil {
		return nil, err
	}

	movies, err := s.repo.Movie.FindAll(ctx, filter)
	if err != nil {
		s.log.Error("Failed to get movies", zap.Error(err), zap.Int("page", q.Page), zap.Int("limit", q.Limit))
		return nil, utils.ErrInternal("Failed to fetch movies", err)
	}

	total, err := s.repo.Movie.Count(ctx, filter)
	if err != nil {
		s.log.Error("Failed to count movies", zap.Error(err))
		return nil, utils.ErrInternal("Failed to fetch movies", err)
	}

	s.attachGenres(ctx, movies)

	items := make([]response.MovieResponse, len(movies))
	for i, movie := range movies {
		items[i] = response.MovieToResponse(movie)
	}

	s.log.Debug("Movies retrieved",
		zap.Int("count", len(movies)),
		zap.Int64("total", total),
		zap.Int("page", q.Page),
		zap.Int("limit", q.Limit),
	)

	return response.NewPaginatedResponse(items, q.Page, q.Limit, total), nil
}

func (s *movieService) CountMovies(ctx context.Context, actor Actor, q *request.MovieListQuery) (*response.MovieCountResponse, error) {
	filter, err := s.buildFilter(actor, q)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Movie.Count(ctx, filter)
	if err != nil {
		s.log.Error("Failed to count movies", zap.Error(err))
		return nil, utils.ErrInternal("Failed to count movies", err)
	}
	return &response.MovieCountResponse{Total: total}, nil
}

// attachGenres expands genre references; failures only cost the genre list
func (s *movieService) attachGenres(ctx context.Context, movies []*entity.Movie) {
	if len(movies) == 0 {
		return
	}
	ids := make([]uuid.UUID, len(movies))
	for i, m := range movies {
		ids[i] = m.ID
	}

	genres, err := s.repo.Genre.FindByMovieIDs(ctx, ids)
	if err != nil {
		s.log.Warn("Failed to get genres for movies", zap.Error(err))
		return
	}
	for _, m := range movies {
		m.Genres = genres[m.ID]
	}
}

func (s *movieService) GetMovie(ctx context.Context, actor Actor, movieID string) (*response.MovieDetailResponse, error) {
	id, err := parseID(movieID, "Movie not found")
	if err != nil {
		return nil, err
	}

	movie, err := s.repo.Movie.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find movie", zap.Error(err), zap.String("movie_id", movieID))
		return nil, utils.ErrInternal("Failed to fetch movie", err)
	}
	if movie == nil || (!movie.IsPublished() && !actor.IsAdmin()) {
		return nil, utils.ErrNotFound("Movie not found")
	}

	s.attachGenres(ctx, []*entity.Movie{movie})

	hasAccess := s.access.CheckAccess(ctx, actor, movieID)
	requested := !hasAccess && s.access.CheckRequested(ctx, actor, movieID)

	resp := response.MovieToDetailResponse(movie, hasAccess, requested)
	return &resp, nil
}

func (s *movieService) SearchMovies(ctx context.Context, q string) ([]response.MovieResponse, error) {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < searchMinLength {
		return []response.MovieResponse{}, nil
	}

	movies, err := s.repo.Movie.Search(ctx, q, searchLimit)
	if err != nil {
		s.log.Error("Failed to search movies", zap.Error(err), zap.String("q", q))
		return nil, utils.ErrInternal("Failed to search movies", err)
	}
	s.attachGenres(ctx, movies)

	out := make([]response.MovieResponse, len(movies))
	for i, m := range movies {
		out[i] = response.MovieToResponse(m)
	}
	return out, nil
}

// resolveGenres checks every id exists
func (s *movieService) resolveGenres(ctx context.Context, rawIDs []string) ([]entity.Genre, error) {
	ids := make([]uuid.UUID, 0, len(rawIDs))
	seen := make(map[uuid.UUID]struct{}, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, utils.ErrValidation("Invalid genre ID: " + raw)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	genres, err := s.repo.Genre.FindByIDs(ctx, ids)
	if err != nil {
		return nil, utils.ErrInternal("Failed to load genres", err)
	}
	if len(genres) != len(ids) {
		return nil, utils.ErrValidation("One or more genres do not exist")
	}
	return genres, nil
}

func toVideos(in []request.VideoRequest) []entity.Video {
	videos := make([]entity.Video, len(in))
	for i, v := range in {
		videos[i] = entity.Video{Title: v.Title, URL: v.URL, IsTrailer: v.IsTrailer}
	}
	return videos
}

func (s *movieService) CreateMovie(ctx context.Context, req *request.CreateMovieRequest) (*response.MovieDetailResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, utils.ErrValidationFields(errs)
	}

	genres, err := s.resolveGenres(ctx, req.GenreIDs)
	if err != nil {
		return nil, err
	}

	status := entity.MovieStatus(req.Status)
	if status == "" {
		status = entity.MovieStatusDraft
	}

	movie := &entity.Movie{
		Base:         entity.NewBase(s.now()),
		TitleEnglish: strings.TrimSpace(req.TitleEnglish),
		TitleArabic:  strings.TrimSpace(req.TitleArabic),
		PlotEnglish:  req.PlotEnglish,
		PlotArabic:   req.PlotArabic,
		Year:         req.Year,
		Budget:       req.Budget,
		Poster:       req.Poster,
		Cover:        req.Cover,
		Videos:       toVideos(req.Videos),
		Status:       status,
		Genres:       genres,
	}

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Movie.Create(ctx, movie); err != nil {
			return err
		}
		return tx.MovieGenre.ReplaceForMovie(ctx, movie.ID, movie.GenreIDs())
	})
	if err != nil {
		s.log.Error("Failed to create movie", zap.Error(err), zap.String("title", movie.TitleEnglish))
		return nil, utils.ErrInternal("Failed to create movie", err)
	}

	s.log.Info("Movie created", zap.String("movie_id", movie.ID.String()), zap.String("title", movie.TitleEnglish))

	resp := response.MovieToDetailResponse(movie, true, false)
	return &resp, nil
}

func (s *movieService) UpdateMovie(ctx context.Context, movieID string, req *request.UpdateMovieRequest) (*response.MovieDetailResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, utils.ErrValidationFields(errs)
	}

	id, err := parseID(movieID, "Movie not found")
	if err != nil {
		return nil, err
	}

	movie, err := s.repo.Movie.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find movie", zap.Error(err), zap.String("movie_id", movieID))
		return nil, utils.ErrInternal("Failed to update movie", err)
	}
	if movie == nil {
		return nil, utils.ErrNotFound("Movie not found")
	}
	before := s.ownedObjects(movie)

	if req.TitleEnglish != nil {
		movie.TitleEnglish = strings.TrimSpace(*req.TitleEnglish)
	}
	if req.TitleArabic != nil {
		movie.TitleArabic = strings.TrimSpace(*req.TitleArabic)
	}
	if req.PlotEnglish != nil {
		movie.PlotEnglish = *req.PlotEnglish
	}
	if req.PlotArabic != nil {
		movie.PlotArabic = *req.PlotArabic
	}
	if req.Year != nil {
		movie.Year = *req.Year
	}
	if req.Budget != nil {
		movie.Budget = req.Budget
	}
	if req.Poster != nil {
		movie.Poster = req.Poster
	}
	if req.Cover != nil {
		movie.Cover = req.Cover
	}
	if req.Videos != nil {
		movie.Videos = toVideos(*req.Videos)
	}
	if req.Status != nil {
		movie.Status = entity.MovieStatus(*req.Status)
	}
	movie.UpdatedAt = s.now()

	var genres []entity.Genre
	if req.GenreIDs != nil {
		genres, err = s.resolveGenres(ctx, *req.GenreIDs)
		if err != nil {
			return nil, err
		}
	}

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Movie.Update(ctx, movie); err != nil {
			return err
		}
		if req.GenreIDs == nil {
			return nil
		}
		movie.Genres = genres
		return tx.MovieGenre.ReplaceForMovie(ctx, movie.ID, movie.GenreIDs())
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.ErrNotFound("Movie not found")
	}
	if err != nil {
		s.log.Error("Failed to update movie", zap.Error(err), zap.String("movie_id", movieID))
		return nil, utils.ErrInternal("Failed to update movie", err)
	}

	if req.GenreIDs == nil {
		s.attachGenres(ctx, []*entity.Movie{movie})
	}

	// file lama yang sudah tidak dipakai dibersihkan
	after := s.ownedObjects(movie)
	var stale []string
	for objectID := range before {
		if _, keep := after[objectID]; !keep {
			stale = append(stale, objectID)
		}
	}
	s.deleteObjects(ctx, stale)

	s.log.Info("Movie updated", zap.String("movie_id", movieID))

	resp := response.MovieToDetailResponse(movie, true, false)
	return &resp, nil
}

func (s *movieService) DeleteMovie(ctx context.Context, movieID string) error {
	id, err := parseID(movieID, "Movie not found")
	if err != nil {
		return err
	}

	movie, err := s.repo.Movie.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find movie", zap.Error(err), zap.String("movie_id", movieID))
		return utils.ErrInternal("Failed to delete movie", err)
	}
	if movie == nil {
		return utils.ErrNotFound("Movie not found")
	}

	err = s.repo.Movie.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return utils.ErrNotFound("Movie not found")
	}
	if err != nil {
		s.log.Error("Failed to delete movie", zap.Error(err), zap.String("movie_id", movieID))
		return utils.ErrInternal("Failed to delete movie", err)
	}

	if err := s.cache.InvalidatePattern(ctx, "access:*:"+id.String()); err != nil {
		s.log.Warn("Failed to invalidate access cache", zap.Error(err), zap.String("movie_id", movieID))
	}

	objects := make([]string, 0)
	for objectID := range s.ownedObjects(movie) {
		objects = append(objects, objectID)
	}
	s.deleteObjects(ctx, objects)

	s.log.Info("Movie deleted", zap.String("movie_id", movieID))
	return nil
}

// ownedObjects collects object ids of poster, cover and videos hosted by our store
func (s *movieService) ownedObjects(movie *entity.Movie) map[string]struct{} {
	owned := make(map[string]struct{})
	add := func(url string) {
		if id, ok := s.media.ObjectID(url); ok {
			owned[id] = struct{}{}
		}
	}
	if movie.Poster != nil {
		add(*movie.Poster)
	}
	if movie.Cover != nil {
		add(*movie.Cover)
	}
	for _, v := range movie.Videos {
		add(v.URL)
	}
	return owned
}

func (s *movieService) deleteObjects(ctx context.Context, ids []string) {
	for _, id := range ids {
		if err := s.media.Delete(ctx, id); err != nil {
			s.log.Warn("Failed to delete media object", zap.Error(err), zap.String("object_id", id))
		}
	}
}

func (s *movieService) UploadMedia(ctx context.Context, kind string, file media.File) (*response.MediaResponse, error) {
	var folder string
	switch kind {
	case "image":
		folder = media.ImageFolder
	case "video":
		folder = media.VideoFolder
	default:
		return nil, utils.ErrValidation("kind must be image or video")
	}

	obj, err := s.media.Upload(ctx, folder, file)
	if err != nil {
		s.log.Error("Failed to upload media", zap.Error(err),
			zap.String("kind", kind),
			zap.String("file", file.Name),
			zap.Int64("size", file.Size))
		return nil, utils.ErrUpstream("Failed to upload "+kind, err)
	}

	return &response.MediaResponse{URL: obj.URL, ID: obj.ID}, nil
}
