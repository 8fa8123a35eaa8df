// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler promotes pending articles to published once their
// publish time arrives.
package scheduler

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"newsdesk/internal/model"
	"newsdesk/internal/store"
)

// Scheduler runs the periodic pending-article promotion job.
type Scheduler struct {
	db     *sql.DB
	cron   *cron.Cron
	logger *slog.Logger
}

// New creates a new scheduler instance.
func New(db *sql.DB, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		db:     db,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start begins the scheduler with a job that checks for due pending
// articles every minute.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("* * * * *", func() {
		if err := s.processPendingArticles(); err != nil {
			s.logger.Error("failed to process pending articles", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// processPendingArticles publishes pending articles whose publish time
// has passed.
func (s *Scheduler) processPendingArticles() error {
	ctx := context.Background()
	queries := store.New(s.db)

	now := time.Now()
	articles, err := queries.ListDuePendingArticles(ctx, now)
	if err != nil {
		return err
	}

	if len(articles) == 0 {
		return nil
	}

	s.logger.Info("processing pending articles", "count", len(articles))

	for _, article := range articles {
		if err := s.publishArticle(ctx, queries, article, now); err != nil {
			s.logger.Error("failed to publish pending article",
				"article_id", article.ID,
				"article_slug", article.Slug,
				"error", err,
			)
			continue
		}

		s.logger.Info("published pending article",
			"article_id", article.ID,
			"article_slug", article.Slug,
			"scheduled_for", article.PublishedAt,
		)
	}

	return nil
}

// publishArticle promotes a single pending article and records the event.
func (s *Scheduler) publishArticle(ctx context.Context, queries *store.Queries, article model.Article, now time.Time) error {
	err := queries.PublishArticle(ctx, store.PublishArticleParams{
		ID:        article.ID,
		UpdatedAt: now,
	})
	if err != nil {
		return err
	}

	metadata := map[string]interface{}{
		"article_id":    article.ID,
		"article_slug":  article.Slug,
		"scheduled_for": article.PublishedAt.Format(time.RFC3339),
		"published_at":  now.Format(time.RFC3339),
	}
	metadataJSON, _ := json.Marshal(metadata)

	_, err = queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     model.EventLevelInfo,
		Category:  model.EventCategoryArticle,
		Message:   "Article published automatically by scheduler: " + article.Title,
		Metadata:  string(metadataJSON),
		CreatedAt: now,
	})
	if err != nil {
		s.logger.Warn("failed to log scheduled publish event", "error", err)
	}

	return nil
}
