package entity

import (
	"github.com/google/uuid"
)

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected
}

type MovieRequest struct {
	Base
	Title         string        `db:"title"`
	Description   string        `db:"description"`
	UserID        uuid.UUID     `db:"user_id"`
	MovieID       *uuid.UUID    `db:"movie_id"` // nil untuk general request
	Status        RequestStatus `db:"status"`
	AdminResponse *string       `db:"admin_response"`
}

func (r *MovieRequest) IsAccessRequest() bool {
	return r.MovieID != nil
}

// MovieRequestDetail is a request joined with its requester and movie.
type MovieRequestDetail struct {
	MovieRequest
	UserName   string  `db:"user_name"`
	UserEmail  string  `db:"user_email"`
	MovieTitle *string `db:"movie_title"`
}
