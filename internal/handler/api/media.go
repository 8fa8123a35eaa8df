// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"newsdesk/internal/middleware"
	"newsdesk/internal/model"
	"newsdesk/internal/service"
)

// MediaResponse represents an uploaded media item in API responses.
type MediaResponse struct {
	ID        int64             `json:"id"`
	UUID      string            `json:"uuid"`
	Filename  string            `json:"filename"`
	MimeType  string            `json:"mime_type"`
	Size      int64             `json:"size"`
	Width     int64             `json:"width,omitempty"`
	Height    int64             `json:"height,omitempty"`
	URL       string            `json:"url"`
	Variants  map[string]string `json:"variants,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

func (h *Handler) mediaToResponse(media model.Media, variants map[string]string) MediaResponse {
	resp := MediaResponse{
		ID:        media.ID,
		UUID:      media.UUID,
		Filename:  media.Filename,
		MimeType:  media.MimeType,
		Size:      media.Size,
		URL:       h.media.URL(media, ""),
		Variants:  variants,
		CreatedAt: media.CreatedAt,
	}
	if media.Width.Valid {
		resp.Width = media.Width.Int64
	}
	if media.Height.Valid {
		resp.Height = media.Height.Int64
	}
	return resp
}

// UploadMedia handles POST /api/v1/media.
// Accepts a multipart form with a "file" field holding a JPEG, PNG or
// WebP image. The processed original and its variants are stored on disk.
func (h *Handler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal := middleware.GetPrincipal(r)
	if principal == nil {
		WriteUnauthorized(w, "Authentication required")
		return
	}

	if err := r.ParseMultipartForm(service.MaxUploadSize); err != nil {
		WriteBadRequest(w, "Invalid multipart form", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteBadRequest(w, "Missing file field", nil)
		return
	}
	defer func() { _ = file.Close() }()

	result, err := h.media.Upload(ctx, file, header, principal.ID)
	if err != nil {
		WriteValidationError(w, err.Error(), nil)
		return
	}

	variants := make(map[string]string, len(result.Variants))
	for _, v := range result.Variants {
		variants[v.Type] = h.media.URL(result.Media, v.Type)
	}

	WriteCreated(w, h.mediaToResponse(result.Media, variants))
}

// GetMedia handles GET /api/v1/media/{uuid}.
func (h *Handler) GetMedia(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	mediaUUID := chi.URLParam(r, "uuid")
	if mediaUUID == "" {
		WriteBadRequest(w, "Media UUID is required", nil)
		return
	}

	media, err := h.queries.GetMediaByUUID(ctx, mediaUUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Media not found")
		} else {
			WriteInternalError(w, "Failed to retrieve media")
		}
		return
	}

	WriteSuccess(w, h.mediaToResponse(media, nil), nil)
}
