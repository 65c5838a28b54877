package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

type User struct {
	Base
	Name                     string     `db:"name"`
	Email                    string     `db:"email"`
	PasswordHash             string     `db:"password"`
	Role                     UserRole   `db:"role"`
	IsVerified               bool       `db:"is_verified"`
	VerificationToken        *string    `db:"verification_token"`
	VerificationTokenExpiry  *time.Time `db:"verification_token_expiry"`
	ResetPasswordToken       *string    `db:"reset_password_token"`
	ResetPasswordTokenExpiry *time.Time `db:"reset_password_token_expiry"`
	ProfilePicture           *string    `db:"profile_picture"`

	// derived from movie_access, never stored on the row
	AllowedMovies []uuid.UUID `db:"-"`
	RequestMovies []uuid.UUID `db:"-"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
