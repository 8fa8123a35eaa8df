// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsdesk/internal/model"
	"newsdesk/internal/store"
	"newsdesk/internal/testutil"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	return db
}

func createPendingArticle(t *testing.T, q *store.Queries, slug string, publishedAt time.Time) model.Article {
	t.Helper()
	ctx := context.Background()

	now := time.Now()
	principal, err := q.CreatePrincipal(ctx, store.CreatePrincipalParams{
		Email:        slug + "@example.com",
		PasswordHash: "hash",
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err)

	author, err := q.CreateAuthor(ctx, store.CreateAuthorParams{
		PrincipalID: principal.ID,
		Name:        "Author",
		Email:       principal.Email,
		CreatedAt:   now,
	})
	require.NoError(t, err)

	cat, err := q.CreateCategory(ctx, store.CreateCategoryParams{
		Name: "News " + slug, Slug: "news-" + slug, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	article, err := q.CreateArticle(ctx, store.CreateArticleParams{
		Title:       "Pending " + slug,
		Slug:        slug,
		Content:     "Body",
		AuthorID:    author.ID,
		CategoryID:  cat.ID,
		Status:      model.ArticleStatusPending,
		PublishedAt: publishedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	require.NoError(t, err)
	return article
}

func TestProcessPendingArticles(t *testing.T) {
	db := testDB(t)
	q := store.New(db)
	s := New(db, slog.New(slog.NewTextHandler(io.Discard, nil)))

	due := createPendingArticle(t, q, "due", time.Now().Add(-time.Minute))
	future := createPendingArticle(t, q, "future", time.Now().Add(time.Hour))

	require.NoError(t, s.processPendingArticles())

	ctx := context.Background()

	published, err := q.GetArticleByID(ctx, due.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ArticleStatusPublished, published.Status)

	still, err := q.GetArticleByID(ctx, future.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ArticleStatusPending, still.Status)

	// Promotion is recorded in the event log
	events, err := q.ListRecentEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, model.EventCategoryArticle, events[0].Category)
	assert.Equal(t, model.EventLevelInfo, events[0].Level)
}

func TestProcessPendingArticles_Empty(t *testing.T) {
	db := testDB(t)
	s := New(db, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.NoError(t, s.processPendingArticles())
}
