// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package ingest turns submitted article drafts into normalized,
// relationally linked rows: it resolves or creates the author, the
// category, and the tags, then writes the article and its tag links.
package ingest

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Error sentinels for classifying submission failures. Handlers map
// these onto HTTP status codes with errors.Is.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("invalid draft")
)

// Draft is the inbound article submission as decoded from the request
// body. Title, content and the URL handle are required; everything
// else is optional.
type Draft struct {
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	Summary         string   `json:"summary"`
	PublishDate     string   `json:"publishDate"`
	Status          string   `json:"status"`
	PageTitle       string   `json:"pageTitle"`
	MetaDescription string   `json:"metaDescription"`
	URLHandle       string   `json:"urlHandle"`
	Tags            []string `json:"tags"`
	FeaturedImage   string   `json:"featured_image"`
	Category        string   `json:"category"`
}

// Validate checks the required draft fields.
func (d *Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(d.Content) == "" {
		return fmt.Errorf("%w: content is required", ErrValidation)
	}
	if strings.TrimSpace(d.URLHandle) == "" {
		return fmt.Errorf("%w: urlHandle is required", ErrValidation)
	}
	return nil
}

// PublishedAt returns the draft's publish time, or now when the draft
// does not carry one. An unparseable value is a validation error.
func (d *Draft) PublishedAt(now time.Time) (time.Time, error) {
	raw := strings.TrimSpace(d.PublishDate)
	if raw == "" {
		return now, nil
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: publishDate must be RFC 3339", ErrValidation)
	}
	return ts, nil
}
