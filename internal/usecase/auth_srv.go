package usecase

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"movie-catalog/internal/data/entity"
	"movie-catalog/internal/data/repository"
	"movie-catalog/internal/dto/request"
	"movie-catalog/internal/dto/response"
	"movie-catalog/pkg/mailer"
	"movie-catalog/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	verificationTokenTTL = 24 * time.Hour
	resetTokenTTL        = time.Hour
)

// SessionMeta is recorded on the session row at login.
type SessionMeta struct {
	UserAgent string
	IPAddress string
}

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest, meta SessionMeta) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest, meta SessionMeta) (*response.AuthResponse, error)
	Logout(ctx context.Context, token string) error
	VerifyEmail(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, req *request.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) error
}

type authService struct {
	repo   *repository.Repository // grouping userRepo & sessionRepo
	config *utils.Config
	mailer mailer.Mailer
	now    func() time.Time
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	m mailer.Mailer,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		mailer: m,
		now:    time.Now,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) appURL(path, token string) string {
	return strings.TrimRight(s.config.App.URL, "/") + path + "?token=" + url.QueryEscape(token)
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest, meta SessionMeta) (*response.AuthResponse, error) {
	// 1. Validasi input
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, utils.ErrValidationFields(errs)
	}

	// 2. Cek email sudah terdaftar
	existingUser, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", req.Email))
		return nil, utils.ErrInternal("Failed to register user", err)
	}
	if existingUser != nil {
		return nil, utils.ErrConflict("User with this email already exists")
	}

	// 3. Hash password
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, utils.ErrInternal("Failed to process password", err)
	}

	token, err := utils.GenerateToken(32)
	if err != nil {
		return nil, utils.ErrInternal("Failed to register user", err)
	}

	// 4. Create user entity
	now := s.now()
	expiry := now.Add(verificationTokenTTL)
	user := &entity.User{
		Base:                    entity.NewBase(now),
		Name:                    req.Name,
		Email:                   req.Email,
		PasswordHash:            hashedPassword,
		Role:                    entity.RoleUser,
		VerificationToken:       &token,
		VerificationTokenExpiry: &expiry,
	}

	// 5. Save user
	err = s.repo.User.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, utils.ErrConflict("User with this email already exists")
	}
	if err != nil {
		s.log.Error("Failed to create user", zap.Error(err), zap.String("email", req.Email))
		return nil, utils.ErrInternal("Failed to register user", err)
	}

	// 6. Email gagal tidak menggagalkan registrasi
	if err := s.mailer.SendWelcome(ctx, user.Email, user.Name, s.appURL("/verify-email", token)); err != nil {
		s.log.Warn("Failed to send welcome email", zap.Error(err), zap.String("user_id", user.ID.String()))
	}

	// 7. Auto login setelah register
	session, err := s.createSession(ctx, user.ID, meta)
	if err != nil {
		s.log.Warn("Failed to create session after register",
			zap.Error(err), zap.String("user_id", user.ID.String()))
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	resp := response.AuthToResponse(user, session)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest, meta SessionMeta) (*response.AuthResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, utils.ErrValidationFields(errs)
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to find user by email", zap.Error(err), zap.String("email", req.Email))
		return nil, utils.ErrInternal("Failed to login", err)
	}

	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid login attempt", zap.String("email", req.Email))
		return nil, utils.ErrUnauthorized("Invalid email or password")
	}

	session, err := s.createSession(ctx, user.ID, meta)
	if err != nil {
		s.log.Error("Failed to create session", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, utils.ErrInternal("Failed to create session", err)
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))

	resp := response.AuthToResponse(user, session)
	return &resp, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	tokenUUID, err := uuid.Parse(token)
	if err != nil {
		return utils.ErrUnauthorized("Invalid or expired session")
	}

	err = s.repo.Session.Revoke(ctx, tokenUUID.String())
	if errors.Is(err, repository.ErrNotFound) {
		return utils.ErrUnauthorized("Invalid or expired session")
	}
	if err != nil {
		s.log.Error("Failed to revoke session", zap.Error(err))
		return utils.ErrInternal("Failed to logout", err)
	}

	s.log.Info("User logged out")
	return nil
}

func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return utils.ErrValidation("Invalid or expired verification token")
	}

	user, err := s.repo.User.FindByVerificationToken(ctx, token)
	if err != nil {
		s.log.Error("Failed to find user by verification token", zap.Error(err))
		return utils.ErrInternal("Failed to verify email", err)
	}
	if user == nil {
		return utils.ErrValidation("Invalid or expired verification token")
	}

	user.IsVerified = true
	user.VerificationToken = nil
	user.VerificationTokenExpiry = nil
	user.UpdatedAt = s.now()

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Error("Failed to update user verification", zap.Error(err), zap.String("user_id", user.ID.String()))
		return utils.ErrInternal("Failed to verify email", err)
	}

	s.log.Info("Email verified", zap.String("user_id", user.ID.String()))
	return nil
}

// ForgotPassword selalu sukses supaya email terdaftar tidak bisa ditebak
func (s *authService) ForgotPassword(ctx context.Context, req *request.ForgotPasswordRequest) error {
	req.Email = strings.TrimSpace(req.Email)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return utils.ErrValidationFields(errs)
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to find user for password reset", zap.Error(err))
		return nil
	}
	if user == nil {
		s.log.Info("Password reset requested for unknown email")
		return nil
	}

	token, err := utils.GenerateToken(32)
	if err != nil {
		s.log.Error("Failed to generate reset token", zap.Error(err))
		return nil
	}

	now := s.now()
	expiry := now.Add(resetTokenTTL)
	user.ResetPasswordToken = &token
	user.ResetPasswordTokenExpiry = &expiry
	user.UpdatedAt = now

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Error("Failed to store reset token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.Name, s.appURL("/reset-password", token)); err != nil {
		s.log.Warn("Failed to send password reset email", zap.Error(err), zap.String("user_id", user.ID.String()))
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return utils.ErrValidationFields(errs)
	}

	user, err := s.repo.User.FindByResetToken(ctx, req.Token)
	if err != nil {
		s.log.Error("Failed to find user by reset token", zap.Error(err))
		return utils.ErrInternal("Failed to reset password", err)
	}
	if user == nil {
		return utils.ErrValidation("Invalid or expired reset token")
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return utils.ErrInternal("Failed to process password", err)
	}

	user.PasswordHash = hashed
	user.ResetPasswordToken = nil
	user.ResetPasswordTokenExpiry = nil
	user.UpdatedAt = s.now()

	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Update(ctx, user); err != nil {
			return err
		}
		return tx.Session.RevokeAllUserSessions(ctx, user.ID)
	})
	if err != nil {
		s.log.Error("Failed to reset password", zap.Error(err), zap.String("user_id", user.ID.String()))
		return utils.ErrInternal("Failed to reset password", err)
	}

	s.log.Info("Password reset", zap.String("user_id", user.ID.String()))
	return nil
}

// ==================== HELPER METHODS ====================

func (s *authService) createSession(ctx context.Context, userID uuid.UUID, meta SessionMeta) (*entity.Session, error) {
	expiryHours := s.config.Session.ExpiryHours
	if expiryHours <= 0 {
		expiryHours = 24
	}

	now := s.now()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    userID,
		Token:     uuid.New(),
		ExpiresAt: now.Add(time.Duration(expiryHours) * time.Hour),
	}
	if meta.UserAgent != "" {
		session.UserAgent = &meta.UserAgent
	}
	if meta.IPAddress != "" {
		session.IPAddress = &meta.IPAddress
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}
