// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// PlaceholderEmail is recorded for authors whose principal carries no email.
const PlaceholderEmail = "no-email@example.com"

// UnknownAuthorName is the display name used when no metadata yields one.
const UnknownAuthorName = "Unknown User"

// Author represents a contributor byline. One Author row exists per
// principal; it is created on the principal's first article submission
// and never mutated by the ingestion pipeline afterwards.
type Author struct {
	ID          int64     `json:"id"`
	PrincipalID int64     `json:"principal_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
}
