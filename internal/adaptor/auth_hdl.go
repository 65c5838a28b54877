package adaptor

import (
	"net/http"

	"movie-catalog/internal/dto/request"
	"movie-catalog/internal/usecase"
	"movie-catalog/pkg/utils"

	"go.uber.org/zap"
)

// SessionCookies stores the session token for browser clients.
type SessionCookies interface {
	Save(w http.ResponseWriter, r *http.Request, token string) error
	Clear(w http.ResponseWriter, r *http.Request) error
}

type AuthHandler struct {
	service usecase.AuthService
	cookies SessionCookies
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, cookies SessionCookies, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		cookies: cookies,
		log:     log.With(zap.String("handler", "auth")),
	}
}

func sessionMeta(r *http.Request) usecase.SessionMeta {
	return usecase.SessionMeta{UserAgent: r.UserAgent(), IPAddress: clientIP(r)}
}

func (h *AuthHandler) saveCookie(w http.ResponseWriter, r *http.Request, token string) {
	if token == "" || h.cookies == nil {
		return
	}
	if err := h.cookies.Save(w, r, token); err != nil {
		h.log.Warn("Failed to save session cookie", zap.Error(err))
	}
}

// Register handles POST /api/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Register(r.Context(), &req, sessionMeta(r))
	if err != nil {
		handleServiceError(w, h.log, err, "register")
		return
	}

	h.saveCookie(w, r, resp.Token)
	utils.ResponseCreated(w, "Registration successful. Please check your email to verify your account.", resp)
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), &req, sessionMeta(r))
	if err != nil {
		handleServiceError(w, h.log, err, "login")
		return
	}

	h.saveCookie(w, r, resp.Token)
	utils.ResponseSuccess(w, "Login successful", resp)
}

// Logout handles POST /api/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	// token sudah divalidasi oleh auth middleware
	token, ok := utils.GetTokenFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Logout(r.Context(), token); err != nil {
		handleServiceError(w, h.log, err, "logout")
		return
	}

	if h.cookies != nil {
		if err := h.cookies.Clear(w, r); err != nil {
			h.log.Warn("Failed to clear session cookie", zap.Error(err))
		}
	}
	utils.ResponseSuccess(w, "Logout successful", nil)
}

// VerifyEmail handles GET /api/verify-email?token=
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	if err := h.service.VerifyEmail(r.Context(), r.URL.Query().Get("token")); err != nil {
		handleServiceError(w, h.log, err, "verify email")
		return
	}
	utils.ResponseSuccess(w, "Email verified successfully", nil)
}

// ForgotPassword handles POST /api/forgot-password
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req request.ForgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.ForgotPassword(r.Context(), &req); err != nil {
		handleServiceError(w, h.log, err, "forgot password")
		return
	}
	utils.ResponseSuccess(w, "If the email is registered, a password reset link has been sent", nil)
}

// ResetPassword handles POST /api/reset-password
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req request.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.ResetPassword(r.Context(), &req); err != nil {
		handleServiceError(w, h.log, err, "reset password")
		return
	}
	utils.ResponseSuccess(w, "Password has been reset successfully", nil)
}
