// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"newsdesk/internal/model"
)

const articleColumns = `id, title, slug, content, excerpt, author_id, category_id,
	status, published_at, meta_title, meta_description, featured_image, created_at, updated_at`

// CreateArticleParams holds the fields for creating an article.
type CreateArticleParams struct {
	Title           string
	Slug            string
	Content         string
	Excerpt         string
	AuthorID        int64
	CategoryID      int64
	Status          string
	PublishedAt     time.Time
	MetaTitle       string
	MetaDescription string
	FeaturedImage   sql.NullString
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CreateArticle inserts a new article row and returns it.
func (q *Queries) CreateArticle(ctx context.Context, arg CreateArticleParams) (model.Article, error) {
	result, err := q.db.ExecContext(ctx,
		`INSERT INTO articles (title, slug, content, excerpt, author_id, category_id,
			status, published_at, meta_title, meta_description, featured_image, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Title, arg.Slug, arg.Content, arg.Excerpt, arg.AuthorID, arg.CategoryID,
		arg.Status, arg.PublishedAt, arg.MetaTitle, arg.MetaDescription, arg.FeaturedImage,
		arg.CreatedAt, arg.UpdatedAt,
	)
	if err != nil {
		return model.Article{}, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.Article{}, err
	}

	return model.Article{
		ID:              id,
		Title:           arg.Title,
		Slug:            arg.Slug,
		Content:         arg.Content,
		Excerpt:         arg.Excerpt,
		AuthorID:        arg.AuthorID,
		CategoryID:      arg.CategoryID,
		Status:          arg.Status,
		PublishedAt:     arg.PublishedAt,
		MetaTitle:       arg.MetaTitle,
		MetaDescription: arg.MetaDescription,
		FeaturedImage:   arg.FeaturedImage,
		CreatedAt:       arg.CreatedAt,
		UpdatedAt:       arg.UpdatedAt,
	}, nil
}

// GetArticleByID fetches an article by primary key.
func (q *Queries) GetArticleByID(ctx context.Context, id int64) (model.Article, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE id = ?`, id)
	return scanArticle(row)
}

// GetArticleBySlug fetches an article by slug regardless of status.
func (q *Queries) GetArticleBySlug(ctx context.Context, slug string) (model.Article, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE slug = ?`, slug)
	return scanArticle(row)
}

// GetPublishedArticleBySlug fetches a published article by slug.
func (q *Queries) GetPublishedArticleBySlug(ctx context.Context, slug string) (model.Article, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE slug = ? AND status = ?`,
		slug, model.ArticleStatusPublished)
	return scanArticle(row)
}

// ListPublishedArticlesParams holds pagination for the published listing.
type ListPublishedArticlesParams struct {
	Limit  int64
	Offset int64
}

// ListPublishedArticles returns published articles, newest first.
func (q *Queries) ListPublishedArticles(ctx context.Context, arg ListPublishedArticlesParams) ([]model.Article, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+articleColumns+` FROM articles
		 WHERE status = ?
		 ORDER BY published_at DESC
		 LIMIT ? OFFSET ?`,
		model.ArticleStatusPublished, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return collectArticles(rows)
}

// CountPublishedArticles counts all published articles.
func (q *Queries) CountPublishedArticles(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM articles WHERE status = ?`,
		model.ArticleStatusPublished).Scan(&count)
	return count, err
}

// ListPublishedArticlesByCategoryParams filters the published listing by category.
type ListPublishedArticlesByCategoryParams struct {
	CategoryID int64
	Limit      int64
	Offset     int64
}

// ListPublishedArticlesByCategory returns published articles in a category, newest first.
func (q *Queries) ListPublishedArticlesByCategory(ctx context.Context, arg ListPublishedArticlesByCategoryParams) ([]model.Article, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+articleColumns+` FROM articles
		 WHERE status = ? AND category_id = ?
		 ORDER BY published_at DESC
		 LIMIT ? OFFSET ?`,
		model.ArticleStatusPublished, arg.CategoryID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return collectArticles(rows)
}

// CountPublishedArticlesByCategory counts published articles in a category.
func (q *Queries) CountPublishedArticlesByCategory(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM articles WHERE status = ? AND category_id = ?`,
		model.ArticleStatusPublished, categoryID).Scan(&count)
	return count, err
}

// ListPublishedArticlesByTagParams filters the published listing by tag.
type ListPublishedArticlesByTagParams struct {
	TagID  int64
	Limit  int64
	Offset int64
}

// ListPublishedArticlesByTag returns published articles carrying a tag, newest first.
func (q *Queries) ListPublishedArticlesByTag(ctx context.Context, arg ListPublishedArticlesByTagParams) ([]model.Article, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT a.id, a.title, a.slug, a.content, a.excerpt, a.author_id, a.category_id,
			a.status, a.published_at, a.meta_title, a.meta_description, a.featured_image,
			a.created_at, a.updated_at
		 FROM articles a
		 JOIN article_tags at ON at.article_id = a.id
		 WHERE a.status = ? AND at.tag_id = ?
		 ORDER BY a.published_at DESC
		 LIMIT ? OFFSET ?`,
		model.ArticleStatusPublished, arg.TagID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return collectArticles(rows)
}

// CountPublishedArticlesByTag counts published articles carrying a tag.
func (q *Queries) CountPublishedArticlesByTag(ctx context.Context, tagID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM articles a
		 JOIN article_tags at ON at.article_id = a.id
		 WHERE a.status = ? AND at.tag_id = ?`,
		model.ArticleStatusPublished, tagID).Scan(&count)
	return count, err
}

// AddTagToArticleParams links one tag to one article.
type AddTagToArticleParams struct {
	ArticleID int64
	TagID     int64
}

// AddTagToArticle inserts one article_tags join row.
func (q *Queries) AddTagToArticle(ctx context.Context, arg AddTagToArticleParams) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO article_tags (article_id, tag_id) VALUES (?, ?)`,
		arg.ArticleID, arg.TagID)
	return err
}

// ListDuePendingArticles returns pending articles whose publish time has passed.
func (q *Queries) ListDuePendingArticles(ctx context.Context, now time.Time) ([]model.Article, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+articleColumns+` FROM articles
		 WHERE status = ? AND published_at <= ?
		 ORDER BY published_at`,
		model.ArticleStatusPending, now)
	if err != nil {
		return nil, err
	}
	return collectArticles(rows)
}

// PublishArticleParams promotes one article to published.
type PublishArticleParams struct {
	ID        int64
	UpdatedAt time.Time
}

// PublishArticle sets an article's status to published.
func (q *Queries) PublishArticle(ctx context.Context, arg PublishArticleParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE articles SET status = ?, updated_at = ? WHERE id = ?`,
		model.ArticleStatusPublished, arg.UpdatedAt, arg.ID)
	return err
}

func scanArticle(row rowScanner) (model.Article, error) {
	var a model.Article
	err := row.Scan(&a.ID, &a.Title, &a.Slug, &a.Content, &a.Excerpt, &a.AuthorID,
		&a.CategoryID, &a.Status, &a.PublishedAt, &a.MetaTitle, &a.MetaDescription,
		&a.FeaturedImage, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func collectArticles(rows *sql.Rows) ([]model.Article, error) {
	defer rows.Close()

	var articles []model.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}
