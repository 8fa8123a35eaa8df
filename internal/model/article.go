// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the application.
package model

import (
	"database/sql"
	"strings"
	"time"
)

// Article statuses
const (
	ArticleStatusDraft     = "draft"
	ArticleStatusPublished = "published"
	ArticleStatusPending   = "pending"
	ArticleStatusArchived  = "archived"
)

// statusAliases maps free-form status strings to canonical statuses.
var statusAliases = map[string]string{
	"publish":   ArticleStatusPublished,
	"published": ArticleStatusPublished,
	"draft":     ArticleStatusDraft,
	"pending":   ArticleStatusPending,
	"archived":  ArticleStatusArchived,
}

// NormalizeStatus maps a free-form status string to one of the canonical
// article statuses. The lookup is case-insensitive; anything unrecognized,
// including an empty string, resolves to draft.
func NormalizeStatus(raw string) string {
	if status, ok := statusAliases[strings.ToLower(raw)]; ok {
		return status
	}
	return ArticleStatusDraft
}

// Article represents a published or draft news article.
type Article struct {
	ID              int64          `json:"id"`
	Title           string         `json:"title"`
	Slug            string         `json:"slug"`
	Content         string         `json:"content"`
	Excerpt         string         `json:"excerpt"`
	AuthorID        int64          `json:"author_id"`
	CategoryID      int64          `json:"category_id"`
	Status          string         `json:"status"`
	PublishedAt     time.Time      `json:"published_at"`
	MetaTitle       string         `json:"meta_title,omitempty"`
	MetaDescription string         `json:"meta_description,omitempty"`
	FeaturedImage   sql.NullString `json:"featured_image,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// IsPublished returns true if the article is published.
func (a *Article) IsPublished() bool {
	return a.Status == ArticleStatusPublished
}

// IsDraft returns true if the article is a draft.
func (a *Article) IsDraft() bool {
	return a.Status == ArticleStatusDraft
}

// ArticleTag links an article to a tag.
type ArticleTag struct {
	ArticleID int64 `json:"article_id"`
	TagID     int64 `json:"tag_id"`
}
