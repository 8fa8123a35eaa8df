// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"newsdesk/internal/model"
)

const principalColumns = `id, email, password_hash, full_name, name, display_name,
	is_active, created_at, updated_at`

// CreatePrincipalParams holds the fields for creating a principal.
type CreatePrincipalParams struct {
	Email        string
	PasswordHash string
	FullName     sql.NullString
	Name         sql.NullString
	DisplayName  sql.NullString
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreatePrincipal inserts a new principal row and returns it.
func (q *Queries) CreatePrincipal(ctx context.Context, arg CreatePrincipalParams) (model.Principal, error) {
	result, err := q.db.ExecContext(ctx,
		`INSERT INTO principals (email, password_hash, full_name, name, display_name,
			is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Email, arg.PasswordHash, arg.FullName, arg.Name, arg.DisplayName,
		arg.IsActive, arg.CreatedAt, arg.UpdatedAt,
	)
	if err != nil {
		return model.Principal{}, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.Principal{}, err
	}

	return model.Principal{
		ID:           id,
		Email:        arg.Email,
		PasswordHash: arg.PasswordHash,
		FullName:     arg.FullName,
		Name:         arg.Name,
		DisplayName:  arg.DisplayName,
		IsActive:     arg.IsActive,
		CreatedAt:    arg.CreatedAt,
		UpdatedAt:    arg.UpdatedAt,
	}, nil
}

// GetPrincipalByEmail looks up a principal by its unique email.
func (q *Queries) GetPrincipalByEmail(ctx context.Context, email string) (model.Principal, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+principalColumns+` FROM principals WHERE email = ?`, email)
	return scanPrincipal(row)
}

// GetPrincipalByID fetches a principal by primary key.
func (q *Queries) GetPrincipalByID(ctx context.Context, id int64) (model.Principal, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+principalColumns+` FROM principals WHERE id = ?`, id)
	return scanPrincipal(row)
}

// CountPrincipals counts all principal accounts.
func (q *Queries) CountPrincipals(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM principals`).Scan(&count)
	return count, err
}

// CreateTokenParams holds the fields for issuing a bearer token.
type CreateTokenParams struct {
	PrincipalID int64
	TokenHash   string
	ExpiresAt   sql.NullTime
	CreatedAt   time.Time
}

// CreateToken inserts a new token row and returns it.
func (q *Queries) CreateToken(ctx context.Context, arg CreateTokenParams) (model.Token, error) {
	result, err := q.db.ExecContext(ctx,
		`INSERT INTO tokens (principal_id, token_hash, expires_at, created_at) VALUES (?, ?, ?, ?)`,
		arg.PrincipalID, arg.TokenHash, arg.ExpiresAt, arg.CreatedAt,
	)
	if err != nil {
		return model.Token{}, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.Token{}, err
	}

	return model.Token{
		ID:          id,
		PrincipalID: arg.PrincipalID,
		TokenHash:   arg.TokenHash,
		ExpiresAt:   arg.ExpiresAt,
		CreatedAt:   arg.CreatedAt,
	}, nil
}

// GetTokenByHash looks up a token by its hash.
func (q *Queries) GetTokenByHash(ctx context.Context, tokenHash string) (model.Token, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, principal_id, token_hash, expires_at, last_used_at, created_at
		 FROM tokens WHERE token_hash = ?`, tokenHash)
	var t model.Token
	err := row.Scan(&t.ID, &t.PrincipalID, &t.TokenHash, &t.ExpiresAt, &t.LastUsedAt, &t.CreatedAt)
	return t, err
}

// UpdateTokenLastUsedParams records the last use of a token.
type UpdateTokenLastUsedParams struct {
	LastUsedAt sql.NullTime
	ID         int64
}

// UpdateTokenLastUsed stamps the last-used time on a token.
func (q *Queries) UpdateTokenLastUsed(ctx context.Context, arg UpdateTokenLastUsedParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE tokens SET last_used_at = ? WHERE id = ?`, arg.LastUsedAt, arg.ID)
	return err
}

func scanPrincipal(row rowScanner) (model.Principal, error) {
	var p model.Principal
	err := row.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.FullName, &p.Name,
		&p.DisplayName, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
