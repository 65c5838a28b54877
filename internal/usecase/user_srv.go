package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"movie-catalog/internal/data/entity"
	"movie-catalog/internal/data/repository"
	"movie-catalog/internal/dto/request"
	"movie-catalog/internal/dto/response"
	"movie-catalog/pkg/utils"

	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, actor Actor) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, actor Actor, req *request.UpdateProfileRequest) (*response.UserResponse, error)
	ChangePassword(ctx context.Context, actor Actor, req *request.ChangePasswordRequest) error
	ListUsers(ctx context.Context, actor Actor, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	DeleteUser(ctx context.Context, actor Actor, userID string) error
	EnsureAdmin(ctx context.Context, email, password string) error
}

type userService struct {
	repo *repository.Repository
	now  func() time.Time
	log  *zap.Logger
}

func NewUserService(repo *repository.Repository, log *zap.Logger) UserService {
	return &userService{
		repo: repo,
		now:  time.Now,
		log:  log.With(zap.String("service", "user")),
	}
}

func (us *userService) GetProfile(ctx context.Context, actor Actor) (*response.UserResponse, error) {
	user, err := us.currentUser(ctx, actor)
	if err != nil {
		return nil, err
	}

	// allowed & requested movie sets come from movie_access
	allowed, err := us.repo.MovieAccess.FindMovieIDs(ctx, user.ID, entity.AccessGranted)
	if err != nil {
		us.log.Error("Failed to load allowed movies", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, utils.ErrInternal("Failed to get profile", err)
	}
	requested, err := us.repo.MovieAccess.FindMovieIDs(ctx, user.ID, entity.AccessRequested)
	if err != nil {
		us.log.Error("Failed to load requested movies", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, utils.ErrInternal("Failed to get profile", err)
	}
	user.AllowedMovies = allowed
	user.RequestMovies = requested

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) UpdateProfile(ctx context.Context, actor Actor, req *request.UpdateProfileRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, utils.ErrValidationFields(errs)
	}

	user, err := us.currentUser(ctx, actor)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = req.ProfilePicture
	}
	user.UpdatedAt = us.now()

	if err := us.repo.User.Update(ctx, user); err != nil {
		us.log.Error("Failed to update profile", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, utils.ErrInternal("Failed to update profile", err)
	}

	us.log.Info("Profile updated", zap.String("user_id", user.ID.String()))
	return us.GetProfile(ctx, actor)
}

func (us *userService) ChangePassword(ctx context.Context, actor Actor, req *request.ChangePasswordRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return utils.ErrValidationFields(errs)
	}

	user, err := us.currentUser(ctx, actor)
	if err != nil {
		return err
	}

	if !utils.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return utils.ErrValidation("Current password is incorrect")
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return utils.ErrInternal("Failed to process password", err)
	}
	user.PasswordHash = hashed
	user.UpdatedAt = us.now()

	if err := us.repo.User.Update(ctx, user); err != nil {
		us.log.Error("Failed to change password", zap.Error(err), zap.String("user_id", user.ID.String()))
		return utils.ErrInternal("Failed to change password", err)
	}

	us.log.Info("Password changed", zap.String("user_id", user.ID.String()))
	return nil
}

func (us *userService) ListUsers(ctx context.Context, actor Actor, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	req.Normalize()

	users, err := us.repo.User.FindAll(ctx, req.Limit, req.Offset())
	if err != nil {
		us.log.Error("Failed to list users", zap.Error(err))
		return nil, utils.ErrInternal("Failed to get users", err)
	}

	total, err := us.repo.User.CountAll(ctx)
	if err != nil {
		us.log.Error("Failed to count users", zap.Error(err))
		return nil, utils.ErrInternal("Failed to get users", err)
	}

	data := make([]response.UserResponse, len(users))
	for i, u := range users {
		data[i] = response.UserToResponse(u)
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit, total), nil
}

func (us *userService) DeleteUser(ctx context.Context, actor Actor, userID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	id, err := parseID(userID, "User not found")
	if err != nil {
		return err
	}
	if id == actor.UserID {
		return utils.ErrValidation("You cannot delete your own account")
	}

	err = us.repo.User.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return utils.ErrNotFound("User not found")
	}
	if err != nil {
		us.log.Error("Failed to delete user", zap.Error(err), zap.String("user_id", userID))
		return utils.ErrInternal("Failed to delete user", err)
	}

	us.log.Info("User deleted", zap.String("user_id", userID), zap.String("by", actor.UserID.String()))
	return nil
}

// EnsureAdmin creates the bootstrap admin account, or promotes an existing
// account with that email. Empty credentials are a no-op.
func (us *userService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}

	user, err := us.repo.User.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	now := us.now()
	if user != nil {
		if user.IsAdmin() {
			return nil
		}
		user.Role = entity.RoleAdmin
		user.UpdatedAt = now
		if err := us.repo.User.Update(ctx, user); err != nil {
			return err
		}
		us.log.Info("Existing user promoted to admin", zap.String("email", email))
		return nil
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &entity.User{
		Base:         entity.NewBase(now),
		Name:         "Administrator",
		Email:        email,
		PasswordHash: hashed,
		Role:         entity.RoleAdmin,
		IsVerified:   true,
	}
	if err := us.repo.User.Create(ctx, admin); err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return err
	}

	us.log.Info("Admin account created", zap.String("email", email))
	return nil
}

func (us *userService) currentUser(ctx context.Context, actor Actor) (*entity.User, error) {
	if err := requireAuth(actor); err != nil {
		return nil, err
	}

	user, err := us.repo.User.FindByID(ctx, actor.UserID)
	if err != nil {
		us.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", actor.UserID.String()))
		return nil, utils.ErrInternal("Failed to get profile", err)
	}
	if user == nil {
		return nil, utils.ErrNotFound("User not found")
	}
	return user, nil
}
