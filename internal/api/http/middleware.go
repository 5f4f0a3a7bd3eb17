package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"vehicle-rental-agency/internal/config"
	"vehicle-rental-agency/internal/logger"
	"vehicle-rental-agency/internal/security"

	"github.com/gorilla/mux"
)

type contextKey string

const staffClaimsKey contextKey = "staff-claims"

// StaffFromContext returns the claims of the authenticated staff member, if any
func StaffFromContext(ctx context.Context) (*security.StaffClaims, bool) {
	claims, ok := ctx.Value(staffClaimsKey).(*security.StaffClaims)
	return claims, ok
}

// AuthMiddleware enforces the route security table. A nil token manager
// disables authentication and every route is served.
type AuthMiddleware struct {
	tokenManager security.TokenManager
}

func NewAuthMiddleware(tm security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tm}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.tokenManager == nil {
			next.ServeHTTP(w, r)
			return
		}

		name := ""
		if route := mux.CurrentRoute(r); route != nil {
			name = route.GetName()
		}

		// Public endpoint - skip auth
		if config.GetSecurityLevel(name) == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := extractToken(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "authorization token is not provided"})
			return
		}

		claims, err := m.tokenManager.ValidateToken(token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "invalid token", Details: err.Error()})
			return
		}
		if !claims.HasRole(security.RoleStaff) {
			writeJSON(w, http.StatusForbidden, ErrorResponse{Error: "staff role required"})
			return
		}

		ctx := context.WithValue(r.Context(), staffClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	// Remove Bearer prefix if present
	if len(header) > 7 && strings.ToUpper(header[0:7]) == "BEARER " {
		header = header[7:]
	}
	return header, header != ""
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// LoggingMiddleware logs one line per request
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.InfoContext(r.Context(), "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
