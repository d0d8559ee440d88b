package auth

import (
	"context"
	"net/http"
	"strings"

	"teahouse-storefront/internal/models"
	"teahouse-storefront/internal/web"
)

type contextKey string

const (
	userIDKey contextKey = "user_id"
	roleKey   contextKey = "role"
)

// UserID returns the authenticated user id from the context, nil for guests.
func UserID(ctx context.Context) *string {
	id, ok := ctx.Value(userIDKey).(string)
	if !ok || id == "" {
		return nil
	}
	return &id
}

// IsAdmin reports whether the context carries an admin session.
func IsAdmin(ctx context.Context) bool {
	role, _ := ctx.Value(roleKey).(string)
	return role == string(models.RoleAdmin)
}

// Optional attaches session claims to the context when a valid Bearer token
// is present, and passes the request through as a guest otherwise. Guest
// checkout depends on this being non-fatal.
func (s *Service) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := bearerToken(r); token != "" {
			if claims, err := s.Authenticate(r.Context(), token); err == nil {
				ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
				ctx = context.WithValue(ctx, roleKey, claims.Role)
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Required rejects requests without a valid session token.
func (s *Service) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			web.WriteError(w, http.StatusUnauthorized, "Missing session token", web.RequestID(r.Context()))
			return
		}
		claims, err := s.Authenticate(r.Context(), token)
		if err != nil {
			web.WriteError(w, http.StatusUnauthorized, "Invalid session token", web.RequestID(r.Context()))
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		ctx = context.WithValue(ctx, roleKey, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin gates the admin back-office.
func (s *Service) RequireAdmin(next http.Handler) http.Handler {
	return s.Required(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(r.Context()) {
			web.WriteError(w, http.StatusForbidden, "Admin access required", web.RequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	}))
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
