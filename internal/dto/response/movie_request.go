package response

import (
	"time"

	"movie-catalog/internal/data/entity"
)

type MovieRequestResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	UserID        string    `json:"user_id"`
	UserName      string    `json:"user_name,omitempty"`
	UserEmail     string    `json:"user_email,omitempty"`
	MovieID       *string   `json:"movie_id,omitempty"`
	MovieTitle    *string   `json:"movie_title,omitempty"`
	Status        string    `json:"status"`
	AdminResponse *string   `json:"admin_response,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AccessResponse answers both access and requested checks
type AccessResponse struct {
	HasAccess bool  `json:"hasAccess"`
	Requested *bool `json:"requested,omitempty"`
}

func MovieRequestToResponse(req *entity.MovieRequest) MovieRequestResponse {
	resp := MovieRequestResponse{
		ID:            req.ID.String(),
		Title:         req.Title,
		Description:   req.Description,
		UserID:        req.UserID.String(),
		Status:        string(req.Status),
		AdminResponse: req.AdminResponse,
		CreatedAt:     req.CreatedAt,
		UpdatedAt:     req.UpdatedAt,
	}
	if req.MovieID != nil {
		id := req.MovieID.String()
		resp.MovieID = &id
	}
	return resp
}

func MovieRequestDetailToResponse(d *entity.MovieRequestDetail) MovieRequestResponse {
	resp := MovieRequestToResponse(&d.MovieRequest)
	resp.UserName = d.UserName
	resp.UserEmail = d.UserEmail
	resp.MovieTitle = d.MovieTitle
	return resp
}
