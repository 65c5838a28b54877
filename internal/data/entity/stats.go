package entity

type DashboardStats struct {
	TotalUsers       int64
	TotalGenres      int64
	MoviesByStatus   map[MovieStatus]int64
	RequestsByStatus map[RequestStatus]int64
	WatchlistItems   int64
}
