package middleware

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionCookieName = "movie-catalog-session"
	sessionTokenKey   = "token"
)

// SessionStore keeps the session token in a signed cookie so browser
// clients can authenticate without an Authorization header.
type SessionStore struct {
	store *sessions.CookieStore
}

func NewSessionStore(secret string, maxAgeSeconds int, secure bool) *SessionStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAgeSeconds,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionStore{store: store}
}

// Token returns the session token stored in the cookie, or "".
func (s *SessionStore) Token(r *http.Request) string {
	if s == nil {
		return ""
	}
	session, err := s.store.Get(r, sessionCookieName)
	if err != nil {
		return ""
	}
	token, _ := session.Values[sessionTokenKey].(string)
	return token
}

func (s *SessionStore) Save(w http.ResponseWriter, r *http.Request, token string) error {
	if s == nil {
		return nil
	}
	// cookie rusak tetap menghasilkan session baru, error-nya bisa diabaikan
	session, _ := s.store.Get(r, sessionCookieName)
	session.Values[sessionTokenKey] = token
	return session.Save(r, w)
}

func (s *SessionStore) Clear(w http.ResponseWriter, r *http.Request) error {
	if s == nil {
		return nil
	}
	session, _ := s.store.Get(r, sessionCookieName)
	delete(session.Values, sessionTokenKey)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
