// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the media upload service backing the featured
// image endpoint.
package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"newsdesk/internal/imaging"
	"newsdesk/internal/model"
	"newsdesk/internal/store"
)

// Upload limits
const (
	MaxUploadSize    = 20 * 1024 * 1024 // 20MB
	DefaultUploadDir = "./uploads"
)

// UploadResult contains the result of a media upload.
type UploadResult struct {
	Media    model.Media
	URL      string
	Variants []*imaging.VariantResult
}

// MediaService handles featured image uploads.
type MediaService struct {
	db        *sql.DB
	processor *imaging.Processor
	uploadDir string
}

// NewMediaService creates a new media service.
func NewMediaService(db *sql.DB, uploadDir string) *MediaService {
	if uploadDir == "" {
		uploadDir = DefaultUploadDir
	}
	return &MediaService{
		db:        db,
		processor: imaging.NewProcessor(uploadDir),
		uploadDir: uploadDir,
	}
}

// Upload validates, processes and stores one uploaded image, creating
// the resized variants alongside the original.
func (s *MediaService) Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, uploadedBy int64) (*UploadResult, error) {
	if header.Size > MaxUploadSize {
		return nil, fmt.Errorf("file size exceeds maximum allowed (%d bytes)", MaxUploadSize)
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = mimeTypeFromExtension(header.Filename)
	}
	if !s.processor.IsSupportedType(mimeType) {
		return nil, fmt.Errorf("file type %s is not allowed", mimeType)
	}

	fileUUID := uuid.New().String()
	filename := sanitizeFilename(header.Filename)

	processResult, err := s.processor.ProcessImage(file, fileUUID, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to process image: %w", err)
	}

	queries := store.New(s.db)
	media, err := queries.CreateMedia(ctx, store.CreateMediaParams{
		UUID:       fileUUID,
		Filename:   filename,
		MimeType:   processResult.MimeType,
		Size:       processResult.Size,
		Width:      sql.NullInt64{Int64: int64(processResult.Width), Valid: true},
		Height:     sql.NullInt64{Int64: int64(processResult.Height), Valid: true},
		UploadedBy: uploadedBy,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		// Clean up uploaded files on error
		_ = s.processor.DeleteMediaFiles(fileUUID)
		return nil, fmt.Errorf("failed to create media record: %w", err)
	}

	variants, err := s.processor.CreateAllVariants(processResult.FilePath, fileUUID, filename)
	if err != nil {
		// The original is stored; missing variants are not fatal
		slog.Warn("failed to create some image variants", "uuid", fileUUID, "error", err)
	}

	return &UploadResult{
		Media:    media,
		URL:      s.URL(media, ""),
		Variants: variants,
	}, nil
}

// URL returns the public URL path for a media item or one of its variants.
func (s *MediaService) URL(media model.Media, variant string) string {
	if variant == "" || variant == "original" {
		return fmt.Sprintf("/uploads/originals/%s/%s", media.UUID, media.Filename)
	}
	return fmt.Sprintf("/uploads/%s/%s/%s", variant, media.UUID, media.Filename)
}

func sanitizeFilename(filename string) string {
	filename = filepath.Base(filename)

	replacer := strings.NewReplacer(
		" ", "-",
		"'", "",
		"\"", "",
		"<", "",
		">", "",
		"&", "",
		"#", "",
		"?", "",
		"%", "",
	)
	filename = replacer.Replace(filename)

	if filepath.Ext(filename) == "" {
		filename += ".bin"
	}

	return filename
}

func mimeTypeFromExtension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg":
		return model.MimeTypeJPEG
	case ".png":
		return model.MimeTypePNG
	case ".webp":
		return model.MimeTypeWebP
	default:
		return "application/octet-stream"
	}
}
