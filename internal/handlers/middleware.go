package handlers

import (
	"context"
	"crypto/subtle"
	"log"
	"net/http"
	"strings"
	"time"

	"joyverse/internal/security"
	"joyverse/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const TherapistContextKey ContextKey = "therapist"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService *service.AuthService
	adminKey    string
	limiter     *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService, adminKey string) *Middleware {
	return &Middleware{
		authService: authService,
		adminKey:    adminKey,
		limiter:     security.NewRateLimiter(20, time.Minute),
	}
}

// RequireTherapist validates the Bearer token and puts the therapist's
// claims on the request context.
func (m *Middleware) RequireTherapist(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondWithError(w, http.StatusUnauthorized, "missing authorization token", "", nil)
			return
		}

		claims, err := m.authService.VerifyToken(token)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "invalid or expired token", "", nil)
			return
		}

		ctx := context.WithValue(r.Context(), TherapistContextKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// therapistClaims pulls the authenticated therapist's claims off the
// context. Only valid under RequireTherapist.
func therapistClaims(r *http.Request) *service.Claims {
	claims, _ := r.Context().Value(TherapistContextKey).(*service.Claims)
	return claims
}

// RequireAdmin gates super-admin endpoints on the shared admin key.
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("X-Admin-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(m.adminKey)) != 1 {
			respondWithError(w, http.StatusForbidden, "admin access denied", "", nil)
			return
		}
		next(w, r)
	}
}

// RateLimit rejects clients that exceed the per-IP budget.
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := security.GetClientIP(r)
		if !m.limiter.Allow(ip) {
			respondWithError(w, http.StatusTooManyRequests, "too many requests", "", nil)
			return
		}
		next(w, r)
	}
}

// Logging logs every request with its duration.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
