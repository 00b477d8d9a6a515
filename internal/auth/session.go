package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"itassets-dashboard/internal/models"
)

// SessionCookie holds the signed token for browser sessions.
const SessionCookie = "session"

// Session is the authenticated caller.
type Session struct {
	UserID   uuid.UUID
	Email    string
	FullName string
	Role     string
}

// IsAdmin reports whether the caller may create, edit or delete records.
func (s Session) IsAdmin() bool {
	return s.Role == models.RoleAdmin
}

// DisplayName falls back to the e-mail address.
func (s Session) DisplayName() string {
	if s.FullName != "" {
		return s.FullName
	}
	return s.Email
}

// SessionFromClaims builds a Session from validated claims.
func SessionFromClaims(c *Claims) (Session, error) {
	id, err := c.UserID()
	if err != nil {
		return Session{}, err
	}
	name := c.Name
	if name == c.Email {
		name = ""
	}
	return Session{UserID: id, Email: c.Email, FullName: name, Role: c.Role}, nil
}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, SessionKey, s)
}

// SessionFromContext returns the caller's session, if authenticated.
func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(SessionKey).(Session)
	return s, ok
}

// IsAdmin reports whether the caller in ctx is an administrator.
func IsAdmin(ctx context.Context) bool {
	s, ok := SessionFromContext(ctx)
	return ok && s.IsAdmin()
}

// UserID returns the caller's id; it matches the accessor's session hook.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	s, ok := SessionFromContext(ctx)
	if !ok || s.UserID == uuid.Nil {
		return uuid.Nil, false
	}
	return s.UserID, true
}

// SetSessionCookie writes the browser session cookie.
func SetSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie removes the browser session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
