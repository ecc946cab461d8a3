package middleware

import (
	"context"
	"dcasassess/internal/service"
	"net/http"
	"strings"
)

type contextKey string

const (
	CallerKey  contextKey = "caller"
	AdminIDKey contextKey = "adminId"
)

const (
	SessionCookie      = "session_token"
	SessionTokenHeader = "X-Session-Token"
)

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	authSvc *service.AuthService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authSvc *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// Identify resolves the caller from whatever tokens the request carries.
// It never rejects; session handlers decide with service.Authorize.
func (m *AuthMiddleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := m.authSvc.CallerFromTokens(extractBearerToken(r), extractSessionToken(r))
		ctx := context.WithValue(r.Context(), CallerKey, caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin validates admin JWT from Authorization header
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			http.Error(w, `{"error":"missing authorization header"}`, http.StatusUnauthorized)
			return
		}

		claims, err := m.authSvc.ValidateAdminToken(token)
		if err != nil {
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), AdminIDKey, claims.AdminID)
		ctx = context.WithValue(ctx, CallerKey, service.Caller{IsAdmin: true, SessionID: GetCaller(r.Context()).SessionID})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetCaller extracts the caller from context
func GetCaller(ctx context.Context) service.Caller {
	if v, ok := ctx.Value(CallerKey).(service.Caller); ok {
		return v
	}
	return service.Caller{}
}

// GetAdminID extracts admin ID from context
func GetAdminID(ctx context.Context) string {
	if v := ctx.Value(AdminIDKey); v != nil {
		return v.(string)
	}
	return ""
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// session token: header first, then cookie
func extractSessionToken(r *http.Request) string {
	if token := r.Header.Get(SessionTokenHeader); token != "" {
		return token
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}
