package response

import (
	"time"

	"movie-catalog/internal/data/entity"

	"github.com/google/uuid"
)

type AuthResponse struct {
	UserID     string          `json:"user_id"`
	Token      string          `json:"token,omitempty"`
	ExpiresAt  *time.Time      `json:"expires_at,omitempty"`
	Email      string          `json:"email"`
	Name       string          `json:"name"`
	Role       entity.UserRole `json:"role"`
	IsVerified bool            `json:"is_verified"`
}

type UserResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Role           entity.UserRole `json:"role"`
	IsVerified     bool            `json:"is_verified"`
	ProfilePicture *string         `json:"profile_picture,omitempty"`
	AllowedMovies  []string        `json:"allowed_movies"`
	RequestMovies  []string        `json:"request_movies"`
	CreatedAt      time.Time       `json:"created_at"`
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// Helper converters
func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:             user.ID.String(),
		Name:           user.Name,
		Email:          user.Email,
		Role:           user.Role,
		IsVerified:     user.IsVerified,
		ProfilePicture: user.ProfilePicture,
		AllowedMovies:  idStrings(user.AllowedMovies),
		RequestMovies:  idStrings(user.RequestMovies),
		CreatedAt:      user.CreatedAt,
	}
}

func AuthToResponse(user *entity.User, session *entity.Session) AuthResponse {
	resp := AuthResponse{
		UserID:     user.ID.String(),
		Email:      user.Email,
		Name:       user.Name,
		Role:       user.Role,
		IsVerified: user.IsVerified,
	}

	if session != nil {
		resp.Token = session.Token.String()
		expiresAt := session.ExpiresAt
		resp.ExpiresAt = &expiresAt
	}

	return resp
}
