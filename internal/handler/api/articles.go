// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"newsdesk/internal/ingest"
	"newsdesk/internal/middleware"
	"newsdesk/internal/model"
	"newsdesk/internal/render"
	"newsdesk/internal/store"
)

// ArticleResponse represents an article in API responses.
type ArticleResponse struct {
	ID              int64             `json:"id"`
	Title           string            `json:"title"`
	Slug            string            `json:"slug"`
	Content         string            `json:"content"`
	ContentHTML     string            `json:"content_html,omitempty"`
	Excerpt         string            `json:"excerpt,omitempty"`
	AuthorID        int64             `json:"author_id"`
	CategoryID      int64             `json:"category_id"`
	Status          string            `json:"status"`
	PublishedAt     time.Time         `json:"published_at"`
	MetaTitle       string            `json:"meta_title,omitempty"`
	MetaDescription string            `json:"meta_description,omitempty"`
	FeaturedImage   string            `json:"featured_image,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	Author          *AuthorResponse   `json:"author,omitempty"`
	Category        *CategoryResponse `json:"category,omitempty"`
	Tags            []TagResponse     `json:"tags,omitempty"`
}

// AuthorResponse represents an author in API responses.
type AuthorResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func articleToResponse(a model.Article) ArticleResponse {
	resp := ArticleResponse{
		ID:              a.ID,
		Title:           a.Title,
		Slug:            a.Slug,
		Content:         a.Content,
		Excerpt:         a.Excerpt,
		AuthorID:        a.AuthorID,
		CategoryID:      a.CategoryID,
		Status:          a.Status,
		PublishedAt:     a.PublishedAt,
		MetaTitle:       a.MetaTitle,
		MetaDescription: a.MetaDescription,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
	if a.FeaturedImage.Valid {
		resp.FeaturedImage = a.FeaturedImage.String
	}
	return resp
}

// SubmitArticle handles POST /api/v1/articles.
// Runs the full ingest pipeline: author, category and tags are resolved
// or created, then the article row is inserted and tags are linked.
func (h *Handler) SubmitArticle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal := middleware.GetPrincipal(r)
	if principal == nil {
		WriteUnauthorized(w, "Authentication required")
		return
	}

	var draft ingest.Draft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		WriteBadRequest(w, "Invalid JSON body", nil)
		return
	}

	summary, err := h.pipeline.Submit(ctx, principal, &draft)
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrUnauthorized):
			WriteUnauthorized(w, "Authentication required")
		case errors.Is(err, ingest.ErrValidation):
			WriteValidationError(w, err.Error(), nil)
		default:
			WriteInternalError(w, "Failed to create article")
		}
		return
	}

	// The pipeline may have created categories or tags
	h.invalidateTaxonomyCache(ctx)

	WriteCreated(w, summary)
}

// ListArticles handles GET /api/v1/articles.
// Returns published articles, optionally filtered by category or tag slug.
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	categorySlug := r.URL.Query().Get("category")
	tagSlug := r.URL.Query().Get("tag")
	include := r.URL.Query().Get("include")

	page := parsePageParam(r)
	perPage := parsePerPageParam(r, 20, 100)
	limit := int64(perPage)
	offset := int64((page - 1) * perPage)

	var articles []model.Article
	var total int64
	var err error

	switch {
	case categorySlug != "":
		category, catErr := h.queries.GetCategoryBySlug(ctx, categorySlug)
		if catErr != nil {
			if errors.Is(catErr, sql.ErrNoRows) {
				WriteNotFound(w, "Category not found")
			} else {
				WriteInternalError(w, "Failed to list articles")
			}
			return
		}
		articles, err = h.queries.ListPublishedArticlesByCategory(ctx, store.ListPublishedArticlesByCategoryParams{
			CategoryID: category.ID, Limit: limit, Offset: offset,
		})
		if err == nil {
			total, err = h.queries.CountPublishedArticlesByCategory(ctx, category.ID)
		}
	case tagSlug != "":
		tag, tagErr := h.queries.GetTagBySlug(ctx, tagSlug)
		if tagErr != nil {
			if errors.Is(tagErr, sql.ErrNoRows) {
				WriteNotFound(w, "Tag not found")
			} else {
				WriteInternalError(w, "Failed to list articles")
			}
			return
		}
		articles, err = h.queries.ListPublishedArticlesByTag(ctx, store.ListPublishedArticlesByTagParams{
			TagID: tag.ID, Limit: limit, Offset: offset,
		})
		if err == nil {
			total, err = h.queries.CountPublishedArticlesByTag(ctx, tag.ID)
		}
	default:
		articles, err = h.queries.ListPublishedArticles(ctx, store.ListPublishedArticlesParams{
			Limit: limit, Offset: offset,
		})
		if err == nil {
			total, err = h.queries.CountPublishedArticles(ctx)
		}
	}

	if err != nil {
		WriteInternalError(w, "Failed to list articles")
		return
	}

	responses := make([]ArticleResponse, 0, len(articles))
	for _, a := range articles {
		resp := articleToResponse(a)
		h.populateArticleIncludes(ctx, &resp, a, include, false)
		responses = append(responses, resp)
	}

	totalPages := int(total) / perPage
	if int(total)%perPage != 0 {
		totalPages++
	}

	WriteSuccess(w, responses, &Meta{
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   totalPages,
	})
}

// GetArticle handles GET /api/v1/articles/{id}.
// Public requests see only published articles.
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteBadRequest(w, "Invalid article ID", nil)
		return
	}

	article, err := h.queries.GetArticleByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Article not found")
		} else {
			WriteInternalError(w, "Failed to retrieve article")
		}
		return
	}

	if !article.IsPublished() && middleware.GetPrincipal(r) == nil {
		WriteNotFound(w, "Article not found")
		return
	}

	h.writeArticle(w, r, article)
}

// GetArticleBySlug handles GET /api/v1/articles/slug/{slug}.
func (h *Handler) GetArticleBySlug(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	slug := chi.URLParam(r, "slug")
	if slug == "" {
		WriteBadRequest(w, "Slug is required", nil)
		return
	}

	var article model.Article
	var err error

	if middleware.GetPrincipal(r) != nil {
		article, err = h.queries.GetArticleBySlug(ctx, slug)
	} else {
		article, err = h.queries.GetPublishedArticleBySlug(ctx, slug)
	}

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Article not found")
		} else {
			WriteInternalError(w, "Failed to retrieve article")
		}
		return
	}

	h.writeArticle(w, r, article)
}

// writeArticle converts the article to a response, applying includes and
// the optional HTML rendering of the Markdown content.
func (h *Handler) writeArticle(w http.ResponseWriter, r *http.Request, article model.Article) {
	ctx := r.Context()
	include := r.URL.Query().Get("include")
	renderHTML := r.URL.Query().Get("render") == "html"

	resp := articleToResponse(article)
	h.populateArticleIncludes(ctx, &resp, article, include, renderHTML)

	WriteSuccess(w, resp, nil)
}

// populateArticleIncludes adds related data to an article response.
func (h *Handler) populateArticleIncludes(ctx context.Context, resp *ArticleResponse, article model.Article, include string, renderHTML bool) {
	if renderHTML {
		html, err := render.Markdown(article.Content)
		if err == nil {
			resp.ContentHTML = html
		}
	}

	for _, inc := range strings.Split(include, ",") {
		switch strings.TrimSpace(inc) {
		case "author":
			author, err := h.queries.GetArticleAuthor(ctx, article.ID)
			if err == nil {
				resp.Author = &AuthorResponse{
					ID:    author.ID,
					Name:  author.Name,
					Email: author.Email,
				}
			}
		case "category":
			category, err := h.queries.GetCategoryByID(ctx, article.CategoryID)
			if err == nil {
				resp.Category = &CategoryResponse{
					ID:   category.ID,
					Name: category.Name,
					Slug: category.Slug,
				}
			}
		case "tags":
			tags, err := h.queries.GetTagsForArticle(ctx, article.ID)
			if err == nil {
				resp.Tags = make([]TagResponse, 0, len(tags))
				for _, t := range tags {
					resp.Tags = append(resp.Tags, TagResponse{
						ID:   t.ID,
						Name: t.Name,
						Slug: t.Slug,
					})
				}
			}
		}
	}
}
