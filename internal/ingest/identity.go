// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"newsdesk/internal/model"
	"newsdesk/internal/store"
)

// ResolveAuthor finds the Author owned by the principal, creating one on
// first submission. The display name falls back through the principal's
// metadata fields and finally to "Unknown User"; the email falls back to
// a placeholder when the principal has none.
func (p *Pipeline) ResolveAuthor(ctx context.Context, principal *model.Principal) (model.Author, error) {
	author, err := p.store.GetAuthorByPrincipalID(ctx, principal.ID)
	if err == nil {
		return author, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Author{}, fmt.Errorf("looking up author: %w", err)
	}

	author, err = p.store.CreateAuthor(ctx, store.CreateAuthorParams{
		PrincipalID: principal.ID,
		Name:        authorDisplayName(principal),
		Email:       authorEmail(principal),
		CreatedAt:   time.Now(),
	})
	if err != nil {
		return model.Author{}, fmt.Errorf("creating author: %w", err)
	}
	return author, nil
}

func authorDisplayName(principal *model.Principal) string {
	for _, candidate := range principal.DisplayNameCandidates() {
		if name := strings.TrimSpace(candidate); name != "" {
			return name
		}
	}
	return model.UnknownAuthorName
}

func authorEmail(principal *model.Principal) string {
	if principal.Email == "" {
		return model.PlaceholderEmail
	}
	return principal.Email
}
