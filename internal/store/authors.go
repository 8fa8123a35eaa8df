// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"newsdesk/internal/model"
)

const authorColumns = "id, principal_id, name, email, created_at"

// CreateAuthorParams holds the fields for creating an author.
type CreateAuthorParams struct {
	PrincipalID int64
	Name        string
	Email       string
	CreatedAt   time.Time
}

// CreateAuthor inserts a new author row and returns it.
func (q *Queries) CreateAuthor(ctx context.Context, arg CreateAuthorParams) (model.Author, error) {
	result, err := q.db.ExecContext(ctx,
		`INSERT INTO authors (principal_id, name, email, created_at) VALUES (?, ?, ?, ?)`,
		arg.PrincipalID, arg.Name, arg.Email, arg.CreatedAt,
	)
	if err != nil {
		return model.Author{}, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.Author{}, err
	}

	return model.Author{
		ID:          id,
		PrincipalID: arg.PrincipalID,
		Name:        arg.Name,
		Email:       arg.Email,
		CreatedAt:   arg.CreatedAt,
	}, nil
}

// GetAuthorByPrincipalID looks up the author owned by a principal.
// Returns sql.ErrNoRows if the principal has no author row yet.
func (q *Queries) GetAuthorByPrincipalID(ctx context.Context, principalID int64) (model.Author, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+authorColumns+` FROM authors WHERE principal_id = ?`, principalID)
	return scanAuthor(row)
}

// GetAuthorByID fetches an author by primary key.
func (q *Queries) GetAuthorByID(ctx context.Context, id int64) (model.Author, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+authorColumns+` FROM authors WHERE id = ?`, id)
	return scanAuthor(row)
}

// GetArticleAuthor fetches the author of an article.
func (q *Queries) GetArticleAuthor(ctx context.Context, articleID int64) (model.Author, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT a.id, a.principal_id, a.name, a.email, a.created_at
		 FROM authors a
		 JOIN articles ar ON ar.author_id = a.id
		 WHERE ar.id = ?`, articleID)
	return scanAuthor(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAuthor(row rowScanner) (model.Author, error) {
	var a model.Author
	err := row.Scan(&a.ID, &a.PrincipalID, &a.Name, &a.Email, &a.CreatedAt)
	return a, err
}
