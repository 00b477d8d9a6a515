package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// ClaimsKey is the context key for JWT claims
	ClaimsKey contextKey = "claims"
	// SessionKey is the context key for the caller's Session
	SessionKey contextKey = "session"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ClaimsFromContext extracts the JWT claims from the request context
func ClaimsFromContext(ctx context.Context) *Claims {
	if claims, ok := ctx.Value(ClaimsKey).(*Claims); ok {
		return claims
	}
	return nil
}

// SendError writes the standard JSON error body.
func SendError(w http.ResponseWriter, message, code string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: message, Code: code}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// sendTokenExpirationWarning adds a warning header when token expires soon
func sendTokenExpirationWarning(w http.ResponseWriter, claims *Claims) {
	if claims.ExpiresAt == nil || !claims.IsExpiringSoon(time.Hour) {
		return
	}
	w.Header().Set("X-Token-Expires-At", claims.ExpiresAt.Time.Format(time.RFC3339))
	w.Header().Set("X-Token-Expires-In", time.Until(claims.ExpiresAt.Time).Round(time.Second).String())
}

// validateTokenFormat performs basic token format validation
func validateTokenFormat(tokenString string) error {
	if len(tokenString) == 0 {
		return errors.New("token cannot be empty")
	}
	if len(tokenString) > 8192 {
		return errors.New("token size exceeds maximum allowed")
	}
	if len(strings.Split(tokenString, ".")) != 3 {
		return errors.New("invalid JWT token format")
	}
	return nil
}

// classify maps a validation error to a message and code.
func classify(err error) (string, string) {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "Token has expired", "TOKEN_EXPIRED"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "Invalid token signature", "INVALID_SIGNATURE"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "Token is malformed", "MALFORMED_TOKEN"
	case errors.Is(err, jwt.ErrTokenInvalidIssuer), errors.Is(err, jwt.ErrTokenInvalidAudience):
		return "Token was not issued for this service", "INVALID_ISSUER"
	case strings.Contains(err.Error(), "signing method"):
		return "Invalid token signing method", "INVALID_SIGNING_METHOD"
	default:
		return "Invalid or expired token", "INVALID_TOKEN"
	}
}

// authenticate validates a raw token and returns a context carrying the
// claims and session.
func authenticate(ctx context.Context, jwtManager *JWTManager, token string) (context.Context, *Claims, string, string) {
	if err := validateTokenFormat(token); err != nil {
		return nil, nil, "Invalid token format: " + err.Error(), "INVALID_TOKEN_FORMAT"
	}
	claims, err := jwtManager.ValidateToken(token)
	if err != nil {
		msg, code := classify(err)
		return nil, nil, msg, code
	}
	session, err := SessionFromClaims(claims)
	if err != nil {
		return nil, nil, "Invalid user ID in token", "INVALID_USER_ID"
	}
	if claims.Role == "" {
		return nil, nil, "No role assigned to user", "NO_ROLE"
	}
	ctx = context.WithValue(ctx, ClaimsKey, claims)
	return WithSession(ctx, session), claims, "", ""
}

// AuthMiddleware validates bearer tokens for the JSON API.
func AuthMiddleware(jwtManager *JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				SendError(w, "Authorization header required", "MISSING_AUTH_HEADER", http.StatusUnauthorized)
				return
			}
			if !strings.HasPrefix(authHeader, "Bearer ") {
				SendError(w, "Invalid authorization header format. Expected: Bearer <token>", "INVALID_AUTH_FORMAT", http.StatusUnauthorized)
				return
			}

			ctx, claims, msg, code := authenticate(r.Context(), jwtManager, strings.TrimPrefix(authHeader, "Bearer "))
			if ctx == nil {
				SendError(w, msg, code, http.StatusUnauthorized)
				return
			}

			sendTokenExpirationWarning(w, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CookieMiddleware authenticates browser sessions. Requests without a valid
// session cookie are redirected to /login with the original path in "next".
func CookieMiddleware(jwtManager *JWTManager, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err == nil {
				if ctx, _, _, _ := authenticate(r.Context(), jwtManager, cookie.Value); ctx != nil {
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}
				ClearSessionCookie(w, secure)
			}

			target := "/login"
			if r.Method == http.MethodGet && r.URL.Path != "/" {
				target += "?next=" + url.QueryEscape(r.URL.RequestURI())
			}
			http.Redirect(w, r, target, http.StatusSeeOther)
		})
	}
}

// MustRole creates middleware that requires specific roles
func MustRole(requiredRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := SessionFromContext(r.Context())
			if !ok {
				SendError(w, "Authentication required", "AUTHENTICATION_REQUIRED", http.StatusUnauthorized)
				return
			}
			if len(requiredRoles) == 0 {
				SendError(w, "No roles specified for this endpoint", "NO_ROLES_SPECIFIED", http.StatusInternalServerError)
				return
			}
			for _, role := range requiredRoles {
				if session.Role == strings.TrimSpace(role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			SendError(w, "Insufficient permissions", "INSUFFICIENT_PERMISSIONS", http.StatusForbidden)
		})
	}
}
