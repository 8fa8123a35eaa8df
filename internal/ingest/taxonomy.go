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
	"newsdesk/internal/util"
)

// ResolveCategory finds the category for a submitted name, creating it
// on first use. Lookups go by slug so case and formatting variance in
// the submitted name resolve to the same row. A blank name, or one that
// slugifies to nothing, resolves to the default "Uncategorized" category.
func (p *Pipeline) ResolveCategory(ctx context.Context, name string) (model.Category, error) {
	name = strings.TrimSpace(name)
	slug := util.Slugify(name)
	if slug == "" {
		name = model.DefaultCategoryName
		slug = model.DefaultCategorySlug
	}

	category, err := p.store.GetCategoryBySlug(ctx, slug)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Category{}, fmt.Errorf("looking up category %q: %w", slug, err)
	}

	now := time.Now()
	category, err = p.store.CreateCategory(ctx, store.CreateCategoryParams{
		Name:      name,
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return model.Category{}, fmt.Errorf("creating category %q: %w", slug, err)
	}
	return category, nil
}

// ResolveTags finds or creates a tag per submitted name, in input order.
// Blank entries are skipped, and names that normalize to an already seen
// slug are folded into the earlier tag.
func (p *Pipeline) ResolveTags(ctx context.Context, names []string) ([]model.Tag, error) {
	var tags []model.Tag
	seen := make(map[string]bool)

	for _, name := range names {
		name = strings.TrimSpace(name)
		slug := util.Slugify(name)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true

		tag, err := p.store.GetTagBySlug(ctx, slug)
		if err == nil {
			tags = append(tags, tag)
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("looking up tag %q: %w", slug, err)
		}

		now := time.Now()
		tag, err = p.store.CreateTag(ctx, store.CreateTagParams{
			Name:      name,
			Slug:      slug,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return nil, fmt.Errorf("creating tag %q: %w", slug, err)
		}
		tags = append(tags, tag)
	}

	return tags, nil
}
