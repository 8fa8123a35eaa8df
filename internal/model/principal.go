// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"time"
)

// Principal represents an authenticated contributor account.
// The optional metadata fields mirror what the upstream identity
// provider supplies; any of them may be blank.
type Principal struct {
	ID           int64          `json:"id"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"-"` // Never expose hash in JSON
	FullName     sql.NullString `json:"full_name,omitempty"`
	Name         sql.NullString `json:"name,omitempty"`
	DisplayName  sql.NullString `json:"display_name,omitempty"`
	IsActive     bool           `json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// DisplayNameCandidates returns the ordered name fallback chain used when
// creating an Author for this principal: full name, name, display name,
// then the local part of the email address. Blank entries are included;
// the consumer skips them.
func (p *Principal) DisplayNameCandidates() []string {
	candidates := []string{
		p.FullName.String,
		p.Name.String,
		p.DisplayName.String,
	}
	if p.Email != "" {
		local, _, _ := strings.Cut(p.Email, "@")
		candidates = append(candidates, local)
	}
	return candidates
}

// Token represents a bearer access token issued to a principal.
type Token struct {
	ID          int64        `json:"id"`
	PrincipalID int64        `json:"principal_id"`
	TokenHash   string       `json:"-"` // Never expose hash in JSON
	ExpiresAt   sql.NullTime `json:"expires_at,omitempty"`
	LastUsedAt  sql.NullTime `json:"last_used_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// GenerateToken generates a new random bearer token.
// Returns the raw token, shown to the caller exactly once.
func GenerateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}

// HashToken creates a SHA-256 hash of a bearer token for storage.
// Tokens are looked up by hash; the raw value is never persisted.
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
