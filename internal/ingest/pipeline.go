// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"newsdesk/internal/model"
	"newsdesk/internal/store"
	"newsdesk/internal/util"
)

// Store is the persistence surface the pipeline needs. *store.Queries
// satisfies it; tests substitute a fake.
type Store interface {
	GetAuthorByPrincipalID(ctx context.Context, principalID int64) (model.Author, error)
	CreateAuthor(ctx context.Context, arg store.CreateAuthorParams) (model.Author, error)
	GetCategoryBySlug(ctx context.Context, slug string) (model.Category, error)
	CreateCategory(ctx context.Context, arg store.CreateCategoryParams) (model.Category, error)
	GetTagBySlug(ctx context.Context, slug string) (model.Tag, error)
	CreateTag(ctx context.Context, arg store.CreateTagParams) (model.Tag, error)
	CreateArticle(ctx context.Context, arg store.CreateArticleParams) (model.Article, error)
	AddTagToArticle(ctx context.Context, arg store.AddTagToArticleParams) error
}

// Summary is the projection of a created article returned to the caller.
type Summary struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Slug   string `json:"slug"`
	Status string `json:"status"`
}

// Pipeline orchestrates one draft submission: author, category and tags
// are resolved in order, then the article row and its tag links are
// written. Steps run sequentially; a failure aborts the remaining steps
// and already committed rows stay in place.
type Pipeline struct {
	store Store
}

// NewPipeline creates a submission pipeline on top of a store.
func NewPipeline(s Store) *Pipeline {
	return &Pipeline{store: s}
}

// Submit validates the draft and runs it through the pipeline.
func (p *Pipeline) Submit(ctx context.Context, principal *model.Principal, draft *Draft) (Summary, error) {
	if principal == nil {
		return Summary{}, ErrUnauthorized
	}
	if err := draft.Validate(); err != nil {
		return Summary{}, err
	}

	now := time.Now()

	status := model.NormalizeStatus(draft.Status)

	publishedAt, err := draft.PublishedAt(now)
	if err != nil {
		return Summary{}, err
	}

	author, err := p.ResolveAuthor(ctx, principal)
	if err != nil {
		return Summary{}, err
	}

	category, err := p.ResolveCategory(ctx, draft.Category)
	if err != nil {
		return Summary{}, err
	}

	tags, err := p.ResolveTags(ctx, draft.Tags)
	if err != nil {
		return Summary{}, err
	}

	article, err := p.store.CreateArticle(ctx, store.CreateArticleParams{
		Title:           draft.Title,
		Slug:            draft.URLHandle,
		Content:         draft.Content,
		Excerpt:         draft.Summary,
		AuthorID:        author.ID,
		CategoryID:      category.ID,
		Status:          status,
		PublishedAt:     publishedAt,
		MetaTitle:       draft.PageTitle,
		MetaDescription: draft.MetaDescription,
		FeaturedImage:   util.NullStringFromValue(draft.FeaturedImage),
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return Summary{}, fmt.Errorf("creating article: %w", err)
	}

	for _, tag := range tags {
		err := p.store.AddTagToArticle(ctx, store.AddTagToArticleParams{
			ArticleID: article.ID,
			TagID:     tag.ID,
		})
		if err != nil {
			return Summary{}, fmt.Errorf("linking tag %q: %w", tag.Slug, err)
		}
	}

	slog.Info("article submitted",
		"id", article.ID,
		"slug", article.Slug,
		"status", article.Status,
		"author_id", author.ID,
		"category_id", category.ID,
		"tags", len(tags),
	)

	return Summary{
		ID:     article.ID,
		Title:  article.Title,
		Slug:   article.Slug,
		Status: article.Status,
	}, nil
}
