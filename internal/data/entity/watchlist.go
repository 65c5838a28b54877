package entity

import (
	"time"

	"github.com/google/uuid"
)

type WatchStatus string

const (
	WatchStatusWantToWatch WatchStatus = "want_to_watch"
	WatchStatusWatching    WatchStatus = "watching"
	WatchStatusCompleted   WatchStatus = "completed"
)

type WatchlistItem struct {
	UserID    uuid.UUID   `db:"user_id"`
	MovieID   uuid.UUID   `db:"movie_id"`
	Status    WatchStatus `db:"status"`
	AddedAt   time.Time   `db:"added_at"`
	UpdatedAt time.Time   `db:"updated_at"`

	Movie *Movie `db:"-"`
}
