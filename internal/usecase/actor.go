package usecase

import (
	"context"

	"movie-catalog/internal/data/entity"
	"movie-catalog/pkg/utils"

	"github.com/google/uuid"
)

// Actor is the caller of an operation as resolved by the auth middleware.
type Actor struct {
	UserID        uuid.UUID
	Role          entity.UserRole
	Authenticated bool
}

func ActorFromContext(ctx context.Context) Actor {
	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		return Actor{}
	}
	role, _ := utils.GetRoleFromContext(ctx)
	return Actor{
		UserID:        userID,
		Role:          entity.UserRole(role),
		Authenticated: true,
	}
}

func (a Actor) IsAdmin() bool {
	return a.Authenticated && a.Role == entity.RoleAdmin
}

func requireAuth(a Actor) error {
	if !a.Authenticated {
		return utils.ErrUnauthorized("Authentication required")
	}
	return nil
}

func requireAdmin(a Actor) error {
	if err := requireAuth(a); err != nil {
		return err
	}
	if !a.IsAdmin() {
		return utils.ErrForbidden("Admin access required")
	}
	return nil
}
