// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"newsdesk/internal/auth"
	"newsdesk/internal/model"
	"newsdesk/internal/store"
)

// LoginRequest represents the request body for POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse contains the issued bearer token.
// The raw token is returned exactly once; only its hash is stored.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login handles POST /api/v1/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}
	if req.Email == "" || req.Password == "" {
		WriteBadRequest(w, "Email and password are required", nil)
		return
	}

	principal, err := h.queries.GetPrincipalByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteUnauthorized(w, "Invalid credentials")
		} else {
			WriteInternalError(w, "Failed to authenticate")
		}
		return
	}

	match, err := auth.CheckPassword(req.Password, principal.PasswordHash)
	if err != nil || !match {
		slog.Warn("failed login attempt", "category", "auth", "email", req.Email)
		WriteUnauthorized(w, "Invalid credentials")
		return
	}

	if !principal.IsActive {
		WriteUnauthorized(w, "Account is disabled")
		return
	}

	rawToken, err := model.GenerateToken()
	if err != nil {
		WriteInternalError(w, "Failed to issue token")
		return
	}

	now := time.Now()
	expiresAt := now.Add(h.tokenTTL)
	_, err = h.queries.CreateToken(ctx, store.CreateTokenParams{
		PrincipalID: principal.ID,
		TokenHash:   model.HashToken(rawToken),
		ExpiresAt:   sql.NullTime{Time: expiresAt, Valid: true},
		CreatedAt:   now,
	})
	if err != nil {
		WriteInternalError(w, "Failed to issue token")
		return
	}

	slog.Info("principal logged in", "principal_id", principal.ID)

	WriteSuccess(w, LoginResponse{
		Token:     rawToken,
		ExpiresAt: expiresAt,
	}, nil)
}
