package middleware

import (
	"net/http"
	"strings"

	"movie-catalog/internal/data/repository"
	"movie-catalog/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Authenticator resolves the session token of a request into user context.
type Authenticator struct {
	sessions repository.SessionRepository
	users    repository.UserRepository
	cookies  *SessionStore
	log      *zap.Logger
}

func NewAuthenticator(
	sessions repository.SessionRepository,
	users repository.UserRepository,
	cookies *SessionStore,
	log *zap.Logger,
) *Authenticator {
	return &Authenticator{
		sessions: sessions,
		users:    users,
		cookies:  cookies,
		log:      log.With(zap.String("middleware", "auth")),
	}
}

type authFailure struct {
	status  int
	message string
}

// extractToken prefers the Authorization header and falls back to the cookie
func (a *Authenticator) extractToken(r *http.Request) (string, *authFailure) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", &authFailure{http.StatusUnauthorized, "Invalid token format. Use: Bearer <token>"}
		}
		return strings.TrimSpace(parts[1]), nil
	}

	if token := a.cookies.Token(r); token != "" {
		return token, nil
	}

	return "", &authFailure{http.StatusUnauthorized, "Missing authorization token"}
}

func (a *Authenticator) authenticate(r *http.Request) (*http.Request, *authFailure) {
	token, failure := a.extractToken(r)
	if failure != nil {
		return r, failure
	}

	if _, err := uuid.Parse(token); err != nil {
		return r, &authFailure{http.StatusUnauthorized, "Invalid or expired session"}
	}

	// Find valid session
	session, err := a.sessions.FindValidSession(r.Context(), token)
	if err != nil {
		a.log.Error("Failed to validate session", zap.Error(err))
		return r, &authFailure{http.StatusInternalServerError, "Internal server error"}
	}
	if session == nil {
		a.log.Warn("Invalid or expired session", zap.String("path", r.URL.Path))
		return r, &authFailure{http.StatusUnauthorized, "Invalid or expired session"}
	}

	// role diambil dari user, bukan dari session
	user, err := a.users.FindByID(r.Context(), session.UserID)
	if err != nil {
		a.log.Error("Failed to load session user", zap.Error(err), zap.String("user_id", session.UserID.String()))
		return r, &authFailure{http.StatusInternalServerError, "Internal server error"}
	}
	if user == nil {
		return r, &authFailure{http.StatusUnauthorized, "Invalid or expired session"}
	}

	// Set context dengan user info DAN token
	ctx := utils.SetUserContext(r.Context(), user.ID, string(user.Role))
	ctx = utils.SetTokenContext(ctx, token)
	return r.WithContext(ctx), nil
}

// Required rejects requests without a valid session.
func (a *Authenticator) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r, failure := a.authenticate(r)
		if failure != nil {
			utils.ResponseError(w, failure.status, failure.message, nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Optional attaches the user when a valid session is presented and otherwise
// lets the request through anonymously.
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if authed, failure := a.authenticate(r); failure == nil {
			r = authed
		}
		next.ServeHTTP(w, r)
	})
}

// Admin - middleware cek role admin, dipasang setelah Required
func Admin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := utils.GetUserIDFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			role, _ := utils.GetRoleFromContext(r.Context())
			if role != "admin" {
				logger.Warn("Admin check: non-admin access attempt",
					zap.String("user_id", userID.String()),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
