// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"newsdesk/internal/model"
)

// CreateMediaParams holds the fields for recording an uploaded file.
type CreateMediaParams struct {
	UUID       string
	Filename   string
	MimeType   string
	Size       int64
	Width      sql.NullInt64
	Height     sql.NullInt64
	UploadedBy int64
	CreatedAt  time.Time
}

// CreateMedia inserts a new media row and returns it.
func (q *Queries) CreateMedia(ctx context.Context, arg CreateMediaParams) (model.Media, error) {
	result, err := q.db.ExecContext(ctx,
		`INSERT INTO media (uuid, filename, mime_type, size, width, height, uploaded_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.UUID, arg.Filename, arg.MimeType, arg.Size, arg.Width, arg.Height,
		arg.UploadedBy, arg.CreatedAt,
	)
	if err != nil {
		return model.Media{}, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.Media{}, err
	}

	return model.Media{
		ID:         id,
		UUID:       arg.UUID,
		Filename:   arg.Filename,
		MimeType:   arg.MimeType,
		Size:       arg.Size,
		Width:      arg.Width,
		Height:     arg.Height,
		UploadedBy: arg.UploadedBy,
		CreatedAt:  arg.CreatedAt,
	}, nil
}

// GetMediaByUUID looks up an uploaded file by its UUID.
func (q *Queries) GetMediaByUUID(ctx context.Context, uuid string) (model.Media, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, uuid, filename, mime_type, size, width, height, uploaded_by, created_at
		 FROM media WHERE uuid = ?`, uuid)
	var m model.Media
	err := row.Scan(&m.ID, &m.UUID, &m.Filename, &m.MimeType, &m.Size, &m.Width,
		&m.Height, &m.UploadedBy, &m.CreatedAt)
	return m, err
}
