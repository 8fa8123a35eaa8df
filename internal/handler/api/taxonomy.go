// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Cache keys for taxonomy listings.
const (
	cacheKeyCategories = "api:categories"
	cacheKeyTags       = "api:tags"
)

// CategoryResponse represents a category in API responses.
type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// TagResponse represents a tag in API responses.
type TagResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ListCategories handles GET /api/v1/categories.
// The listing is cached; the cache is invalidated on article submission.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cached, err := h.cache.Get(ctx, cacheKeyCategories); err == nil {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(cached)
		return
	}

	categories, err := h.queries.ListCategories(ctx)
	if err != nil {
		WriteInternalError(w, "Failed to list categories")
		return
	}

	responses := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		responses = append(responses, CategoryResponse{
			ID:   c.ID,
			Name: c.Name,
			Slug: c.Slug,
		})
	}

	h.writeCachedList(w, ctx, cacheKeyCategories, responses)
}

// GetCategory handles GET /api/v1/categories/{slug}.
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	slug := chi.URLParam(r, "slug")
	if slug == "" {
		WriteBadRequest(w, "Slug is required", nil)
		return
	}

	category, err := h.queries.GetCategoryBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Category not found")
		} else {
			WriteInternalError(w, "Failed to retrieve category")
		}
		return
	}

	WriteSuccess(w, CategoryResponse{
		ID:   category.ID,
		Name: category.Name,
		Slug: category.Slug,
	}, nil)
}

// ListTags handles GET /api/v1/tags.
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cached, err := h.cache.Get(ctx, cacheKeyTags); err == nil {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(cached)
		return
	}

	tags, err := h.queries.ListTags(ctx)
	if err != nil {
		WriteInternalError(w, "Failed to list tags")
		return
	}

	responses := make([]TagResponse, 0, len(tags))
	for _, t := range tags {
		responses = append(responses, TagResponse{
			ID:   t.ID,
			Name: t.Name,
			Slug: t.Slug,
		})
	}

	h.writeCachedList(w, ctx, cacheKeyTags, responses)
}

// writeCachedList marshals the wrapped response once, stores it in the
// cache and writes it to the client.
func (h *Handler) writeCachedList(w http.ResponseWriter, ctx context.Context, key string, data any) {
	body, err := json.Marshal(Response{Data: data})
	if err != nil {
		WriteInternalError(w, "Failed to encode response")
		return
	}

	if err := h.cache.Set(ctx, key, body, 0); err != nil {
		slog.Warn("failed to cache taxonomy listing", "key", key, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

// invalidateTaxonomyCache drops the cached category and tag listings.
func (h *Handler) invalidateTaxonomyCache(ctx context.Context) {
	for _, key := range []string{cacheKeyCategories, cacheKeyTags} {
		if err := h.cache.Delete(ctx, key); err != nil {
			slog.Warn("failed to invalidate cache", "key", key, "error", err)
		}
	}
}
