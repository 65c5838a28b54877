package entity

import (
	"time"

	"github.com/google/uuid"
)

type AccessStatus string

const (
	AccessRequested AccessStatus = "requested"
	AccessGranted   AccessStatus = "granted"
	AccessDenied    AccessStatus = "denied"
)

// MovieAccess tracks one user's access state for one movie. A missing row
// means no request was ever made.
type MovieAccess struct {
	UserID    uuid.UUID    `db:"user_id"`
	MovieID   uuid.UUID    `db:"movie_id"`
	Status    AccessStatus `db:"status"`
	RequestID *uuid.UUID   `db:"request_id"`
	UpdatedAt time.Time    `db:"updated_at"`
}
