package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"movie-catalog/internal/data/entity"
	"movie-catalog/internal/data/repository"
	"movie-catalog/pkg/media"
	"movie-catalog/pkg/queue"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type accessKey struct{ user, movie uuid.UUID }

// memDB backs every fake repository. Maps hold values so snapshots are cheap copies.
type memDB struct {
	mu          sync.Mutex
	users       map[uuid.UUID]entity.User
	sessions    map[uuid.UUID]entity.Session // by token
	movies      map[uuid.UUID]entity.Movie
	genres      map[uuid.UUID]entity.Genre
	movieGenres map[uuid.UUID][]uuid.UUID
	requests    map[uuid.UUID]entity.MovieRequest
	access      map[accessKey]entity.MovieAccess
	watchlist   map[accessKey]entity.WatchlistItem

	failAccessUpsert error
}

func newMemDB() *memDB {
	return &memDB{
		users:       map[uuid.UUID]entity.User{},
		sessions:    map[uuid.UUID]entity.Session{},
		movies:      map[uuid.UUID]entity.Movie{},
		genres:      map[uuid.UUID]entity.Genre{},
		movieGenres: map[uuid.UUID][]uuid.UUID{},
		requests:    map[uuid.UUID]entity.MovieRequest{},
		access:      map[accessKey]entity.MovieAccess{},
		watchlist:   map[accessKey]entity.WatchlistItem{},
	}
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (db *memDB) snapshot() *memDB {
	return &memDB{
		users:       copyMap(db.users),
		sessions:    copyMap(db.sessions),
		movies:      copyMap(db.movies),
		genres:      copyMap(db.genres),
		movieGenres: copyMap(db.movieGenres),
		requests:    copyMap(db.requests),
		access:      copyMap(db.access),
		watchlist:   copyMap(db.watchlist),
	}
}

func (db *memDB) restore(s *memDB) {
	db.users, db.sessions, db.movies, db.genres = s.users, s.sessions, s.movies, s.genres
	db.movieGenres, db.requests, db.access, db.watchlist = s.movieGenres, s.requests, s.access, s.watchlist
}

// memTx rolls the whole store back when fn fails.
type memTx struct{ db *memDB }

func (t memTx) RunInTx(ctx context.Context, fn func(tx *repository.Repository) error) error {
	t.db.mu.Lock()
	snap := t.db.snapshot()
	t.db.mu.Unlock()

	if err := fn(t.db.repository(false)); err != nil {
		t.db.mu.Lock()
		t.db.restore(snap)
		t.db.mu.Unlock()
		return err
	}
	return nil
}

func (db *memDB) repository(withTx bool) *repository.Repository {
	repo := &repository.Repository{
		User:         memUsers{db},
		Session:      memSessions{db},
		Movie:        memMovies{db},
		Genre:        memGenres{db},
		MovieGenre:   memMovieGenres{db},
		MovieRequest: memRequests{db},
		MovieAccess:  memAccess{db},
		Watchlist:    memWatchlist{db},
		Stats:        memStats{db},
	}
	if withTx {
		repo.Tx = memTx{db}
	}
	return repo
}

// ==================== users ====================

type memUsers struct{ db *memDB }

func (r memUsers) Create(_ context.Context, u *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return repository.ErrDuplicate
		}
	}
	r.db.users[u.ID] = *u
	return nil
}

func (r memUsers) find(match func(entity.User) bool) *entity.User {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if match(u) {
			return &u
		}
	}
	return nil
}

func (r memUsers) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.ID == id }), nil
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return strings.EqualFold(u.Email, email) }), nil
}

func (r memUsers) FindByVerificationToken(_ context.Context, token string) (*entity.User, error) {
	now := time.Now()
	return r.find(func(u entity.User) bool {
		return u.VerificationToken != nil && *u.VerificationToken == token &&
			u.VerificationTokenExpiry != nil && u.VerificationTokenExpiry.After(now)
	}), nil
}

func (r memUsers) FindByResetToken(_ context.Context, token string) (*entity.User, error) {
	now := time.Now()
	return r.find(func(u entity.User) bool {
		return u.ResetPasswordToken != nil && *u.ResetPasswordToken == token &&
			u.ResetPasswordTokenExpiry != nil && u.ResetPasswordTokenExpiry.After(now)
	}), nil
}

func (r memUsers) FindAll(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	all := make([]*entity.User, 0, len(r.db.users))
	for _, u := range r.db.users {
		u := u
		all = append(all, &u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Email < all[j].Email })
	if offset >= len(all) {
		return []*entity.User{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r memUsers) CountAll(context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return int64(len(r.db.users)), nil
}

func (r memUsers) Update(_ context.Context, u *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	r.db.users[u.ID] = *u
	return nil
}

func (r memUsers) Delete(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.users, id)
	return nil
}

// ==================== sessions ====================

type memSessions struct{ db *memDB }

func (r memSessions) Create(_ context.Context, s *entity.Session) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.sessions[s.Token] = *s
	return nil
}

func (r memSessions) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	id, err := uuid.Parse(token)
	if err != nil {
		return nil, nil
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.sessions[id]
	if !ok || !s.Valid(time.Now()) {
		return nil, nil
	}
	return &s, nil
}

func (r memSessions) Revoke(_ context.Context, token string) error {
	id, err := uuid.Parse(token)
	if err != nil {
		return repository.ErrNotFound
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	s, ok := r.db.sessions[id]
	if !ok || s.RevokedAt != nil {
		return repository.ErrNotFound
	}
	now := time.Now()
	s.RevokedAt = &now
	r.db.sessions[id] = s
	return nil
}

func (r memSessions) RevokeAllUserSessions(_ context.Context, userID uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	for k, s := range r.db.sessions {
		if s.UserID == userID && s.RevokedAt == nil {
			s.RevokedAt = &now
			r.db.sessions[k] = s
		}
	}
	return nil
}

func (r memSessions) CleanExpiredSessions(context.Context) (int64, error) { return 0, nil }

// ==================== movies ====================

type memMovies struct{ db *memDB }

func (r memMovies) Create(_ context.Context, m *entity.Movie) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored := *m
	stored.Genres = nil
	r.db.movies[m.ID] = stored
	return nil
}

func (r memMovies) FindByID(_ context.Context, id uuid.UUID) (*entity.Movie, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	m, ok := r.db.movies[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r memMovies) Update(_ context.Context, m *entity.Movie) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.movies[m.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *m
	stored.Genres = nil
	r.db.movies[m.ID] = stored
	return nil
}

func (r memMovies) Delete(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.movies[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.movies, id)
	delete(r.db.movieGenres, id)
	for k := range r.db.watchlist {
		if k.movie == id {
			delete(r.db.watchlist, k)
		}
	}
	return nil
}

func (r memMovies) matching(f repository.MovieFilter) []*entity.Movie {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []*entity.Movie
	for _, m := range r.db.movies {
		if f.Status != nil && m.Status != *f.Status {
			continue
		}
		if f.Year != nil && m.Year != *f.Year {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(m.TitleEnglish), strings.ToLower(f.Search)) {
			continue
		}
		if len(f.GenreIDs) > 0 && !hasAny(r.db.movieGenres[m.ID], f.GenreIDs) {
			continue
		}
		m := m
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool {
		if f.Sort == repository.SortOldest {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func hasAny(have, want []uuid.UUID) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}

func (r memMovies) FindAll(_ context.Context, f repository.MovieFilter) ([]*entity.Movie, error) {
	all := r.matching(f)
	if f.Offset >= len(all) {
		return []*entity.Movie{}, nil
	}
	end := f.Offset + f.Limit
	if f.Limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[f.Offset:end], nil
}

func (r memMovies) Count(_ context.Context, f repository.MovieFilter) (int64, error) {
	return int64(len(r.matching(f))), nil
}

func (r memMovies) Search(_ context.Context, q string, limit int) ([]*entity.Movie, error) {
	published := entity.MovieStatusPublished
	all := r.matching(repository.MovieFilter{Status: &published, Search: q})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// ==================== genres ====================

type memGenres struct{ db *memDB }

func (r memGenres) Create(_ context.Context, g *entity.Genre) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.genres {
		if existing.NameEnglish == g.NameEnglish {
			return repository.ErrDuplicate
		}
	}
	r.db.genres[g.ID] = *g
	return nil
}

func (r memGenres) FindByID(_ context.Context, id uuid.UUID) (*entity.Genre, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	g, ok := r.db.genres[id]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

func (r memGenres) FindByIDs(_ context.Context, ids []uuid.UUID) ([]entity.Genre, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []entity.Genre{}
	for _, id := range ids {
		if g, ok := r.db.genres[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r memGenres) FindAll(_ context.Context, activeOnly bool) ([]entity.Genre, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []entity.Genre{}
	for _, g := range r.db.genres {
		if activeOnly && !g.Status {
			continue
		}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NameEnglish < out[j].NameEnglish })
	return out, nil
}

func (r memGenres) FindByMovieID(ctx context.Context, movieID uuid.UUID) ([]entity.Genre, error) {
	r.db.mu.Lock()
	ids := append([]uuid.UUID(nil), r.db.movieGenres[movieID]...)
	r.db.mu.Unlock()
	return r.FindByIDs(ctx, ids)
}

func (r memGenres) FindByMovieIDs(ctx context.Context, movieIDs []uuid.UUID) (map[uuid.UUID][]entity.Genre, error) {
	out := make(map[uuid.UUID][]entity.Genre, len(movieIDs))
	for _, id := range movieIDs {
		genres, _ := r.FindByMovieID(ctx, id)
		if len(genres) > 0 {
			out[id] = genres
		}
	}
	return out, nil
}

func (r memGenres) Update(_ context.Context, g *entity.Genre) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.genres[g.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, existing := range r.db.genres {
		if id != g.ID && existing.NameEnglish == g.NameEnglish {
			return repository.ErrDuplicate
		}
	}
	r.db.genres[g.ID] = *g
	return nil
}

func (r memGenres) Delete(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.genres[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.genres, id)
	return nil
}

type memMovieGenres struct{ db *memDB }

func (r memMovieGenres) DeleteByMovieID(_ context.Context, movieID uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.movieGenres, movieID)
	return nil
}

func (r memMovieGenres) CreateBatch(_ context.Context, mgs []entity.MovieGenre) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, mg := range mgs {
		r.db.movieGenres[mg.MovieID] = append(r.db.movieGenres[mg.MovieID], mg.GenreID)
	}
	return nil
}

func (r memMovieGenres) ReplaceForMovie(_ context.Context, movieID uuid.UUID, genreIDs []uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.movieGenres[movieID] = append([]uuid.UUID(nil), genreIDs...)
	return nil
}

// ==================== requests & access ====================

type memRequests struct{ db *memDB }

func (r memRequests) Create(_ context.Context, req *entity.MovieRequest) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if req.MovieID != nil && req.Status == entity.RequestStatusPending {
		for _, existing := range r.db.requests {
			if existing.MovieID != nil && *existing.MovieID == *req.MovieID &&
				existing.UserID == req.UserID && existing.Status == entity.RequestStatusPending {
				return repository.ErrDuplicate
			}
		}
	}
	r.db.requests[req.ID] = *req
	return nil
}

func (r memRequests) FindByID(_ context.Context, id uuid.UUID) (*entity.MovieRequest, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	req, ok := r.db.requests[id]
	if !ok {
		return nil, nil
	}
	return &req, nil
}

func (r memRequests) FindPendingAccess(_ context.Context, userID, movieID uuid.UUID) (*entity.MovieRequest, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, req := range r.db.requests {
		if req.UserID == userID && req.MovieID != nil && *req.MovieID == movieID && req.Status == entity.RequestStatusPending {
			return &req, nil
		}
	}
	return nil, nil
}

func (r memRequests) UpdateReview(_ context.Context, req *entity.MovieRequest) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.requests[req.ID]; !ok {
		return repository.ErrNotFound
	}
	r.db.requests[req.ID] = *req
	return nil
}

func (r memRequests) details(match func(entity.MovieRequest) bool) []*entity.MovieRequestDetail {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*entity.MovieRequestDetail{}
	for _, req := range r.db.requests {
		if !match(req) {
			continue
		}
		d := &entity.MovieRequestDetail{MovieRequest: req}
		if u, ok := r.db.users[req.UserID]; ok {
			d.UserName, d.UserEmail = u.Name, u.Email
		}
		if req.MovieID != nil {
			if m, ok := r.db.movies[*req.MovieID]; ok {
				title := m.TitleEnglish
				d.MovieTitle = &title
			}
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r memRequests) FindAll(_ context.Context, f repository.RequestFilter) ([]*entity.MovieRequestDetail, error) {
	all := r.details(func(req entity.MovieRequest) bool { return f.Status == nil || req.Status == *f.Status })
	if f.Offset >= len(all) {
		return []*entity.MovieRequestDetail{}, nil
	}
	end := f.Offset + f.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[f.Offset:end], nil
}

func (r memRequests) Count(_ context.Context, status *entity.RequestStatus) (int64, error) {
	all := r.details(func(req entity.MovieRequest) bool { return status == nil || req.Status == *status })
	return int64(len(all)), nil
}

func (r memRequests) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.MovieRequestDetail, error) {
	return r.details(func(req entity.MovieRequest) bool { return req.UserID == userID }), nil
}

type memAccess struct{ db *memDB }

func (r memAccess) Find(_ context.Context, userID, movieID uuid.UUID) (*entity.MovieAccess, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	a, ok := r.db.access[accessKey{userID, movieID}]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r memAccess) Upsert(_ context.Context, a *entity.MovieAccess) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.failAccessUpsert != nil {
		return r.db.failAccessUpsert
	}
	r.db.access[accessKey{a.UserID, a.MovieID}] = *a
	return nil
}

func (r memAccess) FindMovieIDs(_ context.Context, userID uuid.UUID, status entity.AccessStatus) ([]uuid.UUID, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []uuid.UUID{}
	for k, a := range r.db.access {
		if k.user == userID && a.Status == status {
			out = append(out, k.movie)
		}
	}
	return out, nil
}

// ==================== watchlist & stats ====================

type memWatchlist struct{ db *memDB }

func (r memWatchlist) Upsert(_ context.Context, item *entity.WatchlistItem) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := accessKey{item.UserID, item.MovieID}
	if existing, ok := r.db.watchlist[key]; ok {
		item.AddedAt = existing.AddedAt
	}
	stored := *item
	stored.Movie = nil
	r.db.watchlist[key] = stored
	return nil
}

func (r memWatchlist) Delete(_ context.Context, userID, movieID uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.watchlist, accessKey{userID, movieID})
	return nil
}

func (r memWatchlist) UpdateStatus(_ context.Context, userID, movieID uuid.UUID, status entity.WatchStatus, at time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	key := accessKey{userID, movieID}
	item, ok := r.db.watchlist[key]
	if !ok {
		return repository.ErrNotFound
	}
	item.Status = status
	item.UpdatedAt = at
	r.db.watchlist[key] = item
	return nil
}

func (r memWatchlist) Find(_ context.Context, userID, movieID uuid.UUID) (*entity.WatchlistItem, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	item, ok := r.db.watchlist[accessKey{userID, movieID}]
	if !ok {
		return nil, nil
	}
	return &item, nil
}

func (r memWatchlist) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.WatchlistItem, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := []*entity.WatchlistItem{}
	for k, item := range r.db.watchlist {
		if k.user != userID {
			continue
		}
		item := item
		if m, ok := r.db.movies[k.movie]; ok {
			item.Movie = &m
		}
		out = append(out, &item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AddedAt.After(out[j].AddedAt) })
	return out, nil
}

type memStats struct{ db *memDB }

func (r memStats) Dashboard(context.Context) (*entity.DashboardStats, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stats := &entity.DashboardStats{
		TotalUsers:       int64(len(r.db.users)),
		TotalGenres:      int64(len(r.db.genres)),
		MoviesByStatus:   map[entity.MovieStatus]int64{},
		RequestsByStatus: map[entity.RequestStatus]int64{},
		WatchlistItems:   int64(len(r.db.watchlist)),
	}
	for _, m := range r.db.movies {
		stats.MoviesByStatus[m.Status]++
	}
	for _, req := range r.db.requests {
		stats.RequestsByStatus[req.Status]++
	}
	return stats, nil
}

// ==================== collaborators ====================

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendWelcome(ctx context.Context, to, name, url string) error {
	return m.Called(ctx, to, name, url).Error(0)
}

func (m *mockMailer) SendPasswordReset(ctx context.Context, to, name, url string) error {
	return m.Called(ctx, to, name, url).Error(0)
}

func (m *mockMailer) SendNotification(ctx context.Context, to, name, title, body string) error {
	return m.Called(ctx, to, name, title, body).Error(0)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.RequestReviewedEvent
	err    error
}

func (p *recordingPublisher) PublishRequestReviewed(_ context.Context, e queue.RequestReviewedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

// mapCache is an in-memory AccessCache
type mapCache struct {
	mu      sync.Mutex
	entries map[string]bool
	getErr  error
}

func newMapCache() *mapCache { return &mapCache{entries: map[string]bool{}} }

func (c *mapCache) Get(_ context.Context, key string, result any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return false, c.getErr
	}
	v, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	b, isBool := result.(*bool)
	if !isBool {
		return false, errors.New("unsupported result type")
	}
	*b = v
	return true, nil
}

func (c *mapCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, _ := value.(bool)
	c.entries[key] = v
	return nil
}

func (c *mapCache) Invalidate(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

func (c *mapCache) InvalidatePattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix, suffix, _ := strings.Cut(pattern, "*")
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) && strings.HasSuffix(k, suffix) {
			delete(c.entries, k)
		}
	}
	return nil
}

func (c *mapCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

type fakeStore struct {
	mu      sync.Mutex
	base    string
	deleted []string
	upErr   error
}

func (s *fakeStore) Upload(_ context.Context, folder string, f media.File) (*media.Object, error) {
	if s.upErr != nil {
		return nil, s.upErr
	}
	id := folder + "/" + f.Name
	return &media.Object{URL: s.base + "/" + id, ID: id}, nil
}

func (s *fakeStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *fakeStore) ObjectID(url string) (string, bool) {
	if s.base == "" || !strings.HasPrefix(url, s.base+"/") {
		return "", false
	}
	return strings.TrimPrefix(url, s.base+"/"), true
}

// ==================== fixtures ====================

type fixture struct {
	db        *memDB
	repo      *repository.Repository
	cache     *mapCache
	publisher *recordingPublisher
	store     *fakeStore
	access    AccessService
	movies    MovieService
	log       *zap.Logger
}

func newFixture() *fixture {
	db := newMemDB()
	f := &fixture{
		db:        db,
		repo:      db.repository(true),
		cache:     newMapCache(),
		publisher: &recordingPublisher{},
		store:     &fakeStore{base: "http://media.local/movies"},
		log:       zap.NewNop(),
	}
	f.access = NewAccessService(f.repo, f.cache, time.Minute, f.publisher, f.log)
	f.movies = NewMovieService(f.repo, f.access, f.cache, f.store, f.log)
	return f
}

var fixtureClock = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func (f *fixture) addUser(role entity.UserRole) Actor {
	u := entity.User{
		Base:  entity.NewBase(fixtureClock),
		Name:  "user " + string(role),
		Email: uuid.NewString() + "@example.com",
		Role:  role,
	}
	f.db.users[u.ID] = u
	return Actor{UserID: u.ID, Role: role, Authenticated: true}
}

func (f *fixture) addMovie(title string, status entity.MovieStatus, genres ...uuid.UUID) entity.Movie {
	fixtureClock = fixtureClock.Add(time.Minute)
	m := entity.Movie{
		Base:         entity.NewBase(fixtureClock),
		TitleEnglish: title,
		PlotEnglish:  "plot of " + title,
		Year:         2020,
		Status:       status,
		Videos: []entity.Video{
			{Title: "Trailer", URL: "http://cdn.example.com/trailer.mp4", IsTrailer: true},
			{Title: "Full", URL: "http://cdn.example.com/full.mp4"},
		},
	}
	f.db.movies[m.ID] = m
	if len(genres) > 0 {
		f.db.movieGenres[m.ID] = genres
	}
	return m
}

func (f *fixture) addGenre(name string, active bool) entity.Genre {
	g := entity.Genre{Base: entity.NewBase(fixtureClock), NameEnglish: name, Status: active}
	f.db.genres[g.ID] = g
	return g
}
