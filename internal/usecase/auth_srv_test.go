package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"movie-catalog/internal/data/entity"
	"movie-catalog/internal/dto/request"
	"movie-catalog/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthFixture() (*memDB, *mockMailer, *authService) {
	db := newMemDB()
	m := &mockMailer{}
	cfg := &utils.Config{
		App:     utils.AppConfig{URL: "http://localhost:3000/"},
		Session: utils.SessionConfig{ExpiryHours: 2},
	}
	svc := NewAuthService(db.repository(true), cfg, m, zap.NewNop()).(*authService)
	return db, m, svc
}

func TestRegister(t *testing.T) {
	db, m, svc := newAuthFixture()
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	var verifyURL string
	m.On("SendWelcome", mock.Anything, "alice@example.com", "Alice", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { verifyURL = args.String(3) }).
		Return(nil).Once()

	resp, err := svc.Register(ctx, &request.RegisterRequest{
		Name:     " Alice ",
		Email:    "Alice@Example.com",
		Password: "secret123",
	}, SessionMeta{UserAgent: "test", IPAddress: "127.0.0.1"})
	require.NoError(t, err)
	m.AssertExpectations(t)

	assert.Equal(t, "alice@example.com", resp.Email)
	assert.Equal(t, "Alice", resp.Name)
	assert.Equal(t, entity.RoleUser, resp.Role)
	assert.False(t, resp.IsVerified)
	assert.NotEmpty(t, resp.Token)
	require.NotNil(t, resp.ExpiresAt)
	assert.Equal(t, now.Add(2*time.Hour), *resp.ExpiresAt)

	user := db.users[uuid.MustParse(resp.UserID)]
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.True(t, utils.CheckPasswordHash("secret123", user.PasswordHash))
	require.NotNil(t, user.VerificationToken)
	assert.Len(t, *user.VerificationToken, 64)
	assert.Equal(t, now.Add(24*time.Hour), *user.VerificationTokenExpiry)
	assert.Equal(t, "http://localhost:3000/verify-email?token="+*user.VerificationToken, verifyURL)
}

func TestRegister_EmailFailureIsNotFatal(t *testing.T) {
	db, m, svc := newAuthFixture()
	m.On("SendWelcome", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("smtp down")).Once()

	resp, err := svc.Register(context.Background(), &request.RegisterRequest{
		Name: "Bob", Email: "bob@example.com", Password: "secret123",
	}, SessionMeta{})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.UserID)
	assert.Len(t, db.users, 1)
}

func TestRegister_Errors(t *testing.T) {
	_, m, svc := newAuthFixture()
	ctx := context.Background()
	m.On("SendWelcome", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Register(ctx, &request.RegisterRequest{Name: "A", Email: "bad", Password: "1"}, SessionMeta{})
	requireKind(t, err, utils.KindValidation)
	appErr := err.(*utils.AppError)
	assert.Contains(t, appErr.Fields, "Email")
	assert.Contains(t, appErr.Fields, "Password")

	_, err = svc.Register(ctx, &request.RegisterRequest{Name: "Carol", Email: "carol@example.com", Password: "secret123"}, SessionMeta{})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &request.RegisterRequest{Name: "Carol", Email: "CAROL@example.com", Password: "secret123"}, SessionMeta{})
	requireKind(t, err, utils.KindConflict)
}

func TestVerifyEmail(t *testing.T) {
	db, m, svc := newAuthFixture()
	ctx := context.Background()
	m.On("SendWelcome", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	resp, err := svc.Register(ctx, &request.RegisterRequest{Name: "Dan", Email: "dan@example.com", Password: "secret123"}, SessionMeta{})
	require.NoError(t, err)
	id := uuid.MustParse(resp.UserID)
	token := *db.users[id].VerificationToken

	requireKind(t, svc.VerifyEmail(ctx, "wrong"), utils.KindValidation)
	requireKind(t, svc.VerifyEmail(ctx, ""), utils.KindValidation)

	require.NoError(t, svc.VerifyEmail(ctx, token))
	assert.True(t, db.users[id].IsVerified)
	assert.Nil(t, db.users[id].VerificationToken)

	requireKind(t, svc.VerifyEmail(ctx, token), utils.KindValidation)
}

func TestLoginLogout(t *testing.T) {
	db, m, svc := newAuthFixture()
	ctx := context.Background()
	m.On("SendWelcome", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Register(ctx, &request.RegisterRequest{Name: "Eve", Email: "eve@example.com", Password: "secret123"}, SessionMeta{})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &request.LoginRequest{Email: "eve@example.com", Password: "wrong"}, SessionMeta{})
	requireKind(t, err, utils.KindUnauthorized)
	assert.Equal(t, "Invalid email or password", err.Error())

	_, err = svc.Login(ctx, &request.LoginRequest{Email: "nobody@example.com", Password: "secret123"}, SessionMeta{})
	requireKind(t, err, utils.KindUnauthorized)
	assert.Equal(t, "Invalid email or password", err.Error())

	resp, err := svc.Login(ctx, &request.LoginRequest{Email: "EVE@example.com", Password: "secret123"}, SessionMeta{UserAgent: "curl"})
	require.NoError(t, err)
	session := db.sessions[uuid.MustParse(resp.Token)]
	require.NotNil(t, session.UserAgent)
	assert.Equal(t, "curl", *session.UserAgent)

	require.NoError(t, svc.Logout(ctx, resp.Token))
	requireKind(t, svc.Logout(ctx, resp.Token), utils.KindUnauthorized)
	requireKind(t, svc.Logout(ctx, "not-a-token"), utils.KindUnauthorized)
}

func TestForgotAndResetPassword(t *testing.T) {
	db, m, svc := newAuthFixture()
	ctx := context.Background()
	m.On("SendWelcome", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	var resetURL string
	m.On("SendPasswordReset", mock.Anything, "frank@example.com", "Frank", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { resetURL = args.String(3) }).
		Return(nil).Once()

	reg, err := svc.Register(ctx, &request.RegisterRequest{Name: "Frank", Email: "frank@example.com", Password: "secret123"}, SessionMeta{})
	require.NoError(t, err)

	// unknown email still succeeds and sends nothing
	require.NoError(t, svc.ForgotPassword(ctx, &request.ForgotPasswordRequest{Email: "ghost@example.com"}))
	require.NoError(t, svc.ForgotPassword(ctx, &request.ForgotPasswordRequest{Email: "frank@example.com"}))
	m.AssertExpectations(t)

	id := uuid.MustParse(reg.UserID)
	require.NotNil(t, db.users[id].ResetPasswordToken)
	token := *db.users[id].ResetPasswordToken
	assert.True(t, strings.HasPrefix(resetURL, "http://localhost:3000/reset-password?token="))
	assert.True(t, strings.HasSuffix(resetURL, token))

	err = svc.ResetPassword(ctx, &request.ResetPasswordRequest{Token: "nope", Password: "newsecret"})
	requireKind(t, err, utils.KindValidation)

	require.NoError(t, svc.ResetPassword(ctx, &request.ResetPasswordRequest{Token: token, Password: "newsecret"}))
	assert.Nil(t, db.users[id].ResetPasswordToken)
	assert.True(t, utils.CheckPasswordHash("newsecret", db.users[id].PasswordHash))

	// the auto-login session from registration is gone
	_, err = svc.repo.Session.FindValidSession(ctx, reg.Token)
	require.NoError(t, err)
	session := db.sessions[uuid.MustParse(reg.Token)]
	assert.NotNil(t, session.RevokedAt)

	_, err = svc.Login(ctx, &request.LoginRequest{Email: "frank@example.com", Password: "secret123"}, SessionMeta{})
	requireKind(t, err, utils.KindUnauthorized)
}
