// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// rate limiting, and request context handling.
package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"newsdesk/internal/model"
	"newsdesk/internal/store"
)

// ContextKey is the type for request context keys set by this package.
type ContextKey string

// ContextKeyPrincipal is the context key for the authenticated principal.
const ContextKeyPrincipal ContextKey = "principal"

// APIError represents a JSON error response for the API.
type APIError struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// WriteAPIError writes a JSON error response.
func WriteAPIError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	apiErr := APIError{}
	apiErr.Error.Code = code
	apiErr.Error.Message = message
	apiErr.Error.Details = details

	_ = json.NewEncoder(w).Encode(apiErr)
}

// validateToken parses the Authorization header and resolves the bearer
// token to its principal. If required is true and validation fails, an
// error response is written; the second return value reports that.
func validateToken(w http.ResponseWriter, r *http.Request, queries *store.Queries, required bool) (*model.Principal, *model.Token, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		if required {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Missing Authorization header", nil)
			return nil, nil, true
		}
		return nil, nil, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		if required {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid Authorization header format. Use: Bearer <token>", nil)
			return nil, nil, true
		}
		return nil, nil, false
	}

	rawToken := parts[1]
	if rawToken == "" {
		if required {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Token is empty", nil)
			return nil, nil, true
		}
		return nil, nil, false
	}

	token, err := queries.GetTokenByHash(r.Context(), model.HashToken(rawToken))
	if err != nil {
		if required {
			if errors.Is(err, sql.ErrNoRows) {
				WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid token", nil)
			} else {
				slog.Error("failed to validate token", "error", err)
				WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to validate token", nil)
			}
			return nil, nil, true
		}
		return nil, nil, false
	}

	if token.ExpiresAt.Valid && time.Now().After(token.ExpiresAt.Time) {
		if required {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Token has expired", nil)
			return nil, nil, true
		}
		return nil, nil, false
	}

	principal, err := queries.GetPrincipalByID(r.Context(), token.PrincipalID)
	if err != nil {
		if required {
			slog.Error("failed to load principal for token", "error", err, "principal_id", token.PrincipalID)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to validate token", nil)
			return nil, nil, true
		}
		return nil, nil, false
	}

	if !principal.IsActive {
		if required {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Account is inactive", nil)
			return nil, nil, true
		}
		return nil, nil, false
	}

	return &principal, &token, false
}

// BearerAuth creates middleware that requires bearer token authentication.
func BearerAuth(db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, token, errorWritten := validateToken(w, r, queries, true)
			if errorWritten {
				return
			}

			updateTokenLastUsed(queries, token.ID)
			addPrincipalToContext(next, w, r, principal)
		})
	}
}

// OptionalBearerAuth creates middleware that validates a bearer token when
// one is presented but does not require it. It adds the principal to
// context if a valid token is provided.
func OptionalBearerAuth(db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, token, _ := validateToken(w, r, queries, false)
			if principal == nil {
				next.ServeHTTP(w, r)
				return
			}

			updateTokenLastUsed(queries, token.ID)
			addPrincipalToContext(next, w, r, principal)
		})
	}
}

// GetPrincipal retrieves the authenticated principal from the request
// context. Returns nil if the request is unauthenticated.
func GetPrincipal(r *http.Request) *model.Principal {
	principal, ok := r.Context().Value(ContextKeyPrincipal).(model.Principal)
	if !ok {
		return nil
	}
	return &principal
}

// updateTokenLastUsed updates the last used timestamp in a background goroutine.
func updateTokenLastUsed(queries *store.Queries, tokenID int64) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queries.UpdateTokenLastUsed(ctx, store.UpdateTokenLastUsedParams{
			LastUsedAt: sql.NullTime{Time: time.Now(), Valid: true},
			ID:         tokenID,
		})
	}()
}

func addPrincipalToContext(next http.Handler, w http.ResponseWriter, r *http.Request, principal *model.Principal) {
	ctx := context.WithValue(r.Context(), ContextKeyPrincipal, *principal)
	next.ServeHTTP(w, r.WithContext(ctx))
}

// limiterCache is a generic rate limiter cache with double-check locking.
type limiterCache[K comparable] struct {
	limiters map[K]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
}

// newLimiterCache creates a new limiter cache.
func newLimiterCache[K comparable](rps float64, burst int) *limiterCache[K] {
	return &limiterCache[K]{
		limiters: make(map[K]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

// get returns the rate limiter for a specific key, creating one if needed.
func (lc *limiterCache[K]) get(key K) *rate.Limiter {
	lc.mu.RLock()
	limiter, exists := lc.limiters[key]
	lc.mu.RUnlock()

	if exists {
		return limiter
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists = lc.limiters[key]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(lc.rate, lc.burst)
	lc.limiters[key] = limiter
	return limiter
}

// APIRateLimit creates middleware that rate limits requests per principal.
// rps is requests per second, burst is the maximum burst size.
func APIRateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	cache := newLimiterCache[int64](rps, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := GetPrincipal(r)
			if principal == nil {
				// Unauthenticated requests are covered by the global limiter
				next.ServeHTTP(w, r)
				return
			}

			if !cache.get(principal.ID).Allow() {
				WriteAPIError(w, http.StatusTooManyRequests, "rate_limit_exceeded", "Rate limit exceeded. Please slow down.", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GlobalRateLimiter provides a per-IP rate limiter for unauthenticated requests.
type GlobalRateLimiter struct {
	cache *limiterCache[string]
}

// NewGlobalRateLimiter creates a new global rate limiter.
func NewGlobalRateLimiter(rps float64, burst int) *GlobalRateLimiter {
	return &GlobalRateLimiter{
		cache: newLimiterCache[string](rps, burst),
	}
}

// Middleware returns the rate limiting middleware for API routes.
func (rl *GlobalRateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := getClientIP(r)
			if !rl.cache.get(ip).Allow() {
				slog.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path)
				WriteAPIError(w, http.StatusTooManyRequests, "rate_limit_exceeded", "Rate limit exceeded. Please slow down.", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	// Check X-Real-IP header (set by reverse proxies)
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}

	// X-Forwarded-For can contain multiple IPs; take the first one
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}

	return r.RemoteAddr
}
