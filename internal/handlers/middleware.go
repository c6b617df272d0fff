package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"carelink/internal/security"
	"carelink/internal/token"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const IdentityContextKey ContextKey = "identity"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	tokens  *token.Manager
	limiter *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(tokens *token.Manager, limiter *security.RateLimiter) *Middleware {
	return &Middleware{
		tokens:  tokens,
		limiter: limiter,
	}
}

// RequireAuth is middleware that requires a valid bearer credential. The
// verified identity is placed in the request context; handlers never trust
// caller IDs from the request body.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing credential"})
			return
		}

		identity, err := m.tokens.Verify(raw)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid or expired credential"})
			return
		}

		ctx := context.WithValue(r.Context(), IdentityContextKey, identity)
		next(w, r.WithContext(ctx))
	}
}

// RateLimit is middleware that throttles requests per client IP
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := security.GetClientIP(r)
		if !m.limiter.Allow(ip) {
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
			return
		}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// IdentityFromContext retrieves the verified identity from the request
// context
func IdentityFromContext(ctx context.Context) *token.Identity {
	identity, ok := ctx.Value(IdentityContextKey).(*token.Identity)
	if !ok {
		return nil
	}
	return identity
}
