package store

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"newsdesk/internal/model"
)

// testDB creates a temporary test database.
func testDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp("", "newsdesk-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	f.Close()

	db, err := NewDB(dbPath)
	if err != nil {
		os.Remove(dbPath)
		t.Fatalf("NewDB: %v", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		os.Remove(dbPath)
		t.Fatalf("Migrate: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}

	return db, cleanup
}

func createTestPrincipal(t *testing.T, q *Queries, email string) model.Principal {
	t.Helper()

	now := time.Now()
	principal, err := q.CreatePrincipal(context.Background(), CreatePrincipalParams{
		Email:        email,
		PasswordHash: "hash",
		FullName:     sql.NullString{String: "Test Principal", Valid: true},
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreatePrincipal: %v", err)
	}
	return principal
}

func createTestAuthor(t *testing.T, q *Queries, email string) model.Author {
	t.Helper()

	principal := createTestPrincipal(t, q, email)
	author, err := q.CreateAuthor(context.Background(), CreateAuthorParams{
		PrincipalID: principal.ID,
		Name:        "Test Author",
		Email:       email,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateAuthor: %v", err)
	}
	return author
}

func createTestCategory(t *testing.T, q *Queries, name, slug string) model.Category {
	t.Helper()

	now := time.Now()
	cat, err := q.CreateCategory(context.Background(), CreateCategoryParams{
		Name:      name,
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	return cat
}

func TestCreatePrincipal(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	now := time.Now()
	principal, err := q.CreatePrincipal(ctx, CreatePrincipalParams{
		Email:        "test@example.com",
		PasswordHash: "hashed-password",
		FullName:     sql.NullString{String: "Test User", Valid: true},
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreatePrincipal: %v", err)
	}

	if principal.ID == 0 {
		t.Error("principal.ID should not be 0")
	}
	if principal.Email != "test@example.com" {
		t.Errorf("Email = %q, want %q", principal.Email, "test@example.com")
	}
	if !principal.IsActive {
		t.Error("IsActive should be true")
	}
}

func TestGetPrincipalByEmail(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	created := createTestPrincipal(t, q, "find@example.com")

	found, err := q.GetPrincipalByEmail(ctx, "find@example.com")
	if err != nil {
		t.Fatalf("GetPrincipalByEmail: %v", err)
	}

	if found.ID != created.ID {
		t.Errorf("ID = %d, want %d", found.ID, created.ID)
	}
	if found.Email != "find@example.com" {
		t.Errorf("Email = %q, want %q", found.Email, "find@example.com")
	}
}

func TestGetPrincipalByEmail_NotFound(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	q := New(db)

	_, err := q.GetPrincipalByEmail(context.Background(), "nonexistent@example.com")
	if err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	principal := createTestPrincipal(t, q, "token@example.com")

	now := time.Now()
	created, err := q.CreateToken(ctx, CreateTokenParams{
		PrincipalID: principal.ID,
		TokenHash:   "abc123hash",
		ExpiresAt:   sql.NullTime{Time: now.Add(24 * time.Hour), Valid: true},
		CreatedAt:   now,
	})
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	found, err := q.GetTokenByHash(ctx, "abc123hash")
	if err != nil {
		t.Fatalf("GetTokenByHash: %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %d, want %d", found.ID, created.ID)
	}
	if found.PrincipalID != principal.ID {
		t.Errorf("PrincipalID = %d, want %d", found.PrincipalID, principal.ID)
	}
	if found.LastUsedAt.Valid {
		t.Error("LastUsedAt should be null before first use")
	}

	used := time.Now()
	err = q.UpdateTokenLastUsed(ctx, UpdateTokenLastUsedParams{
		LastUsedAt: sql.NullTime{Time: used, Valid: true},
		ID:         created.ID,
	})
	if err != nil {
		t.Fatalf("UpdateTokenLastUsed: %v", err)
	}

	found, err = q.GetTokenByHash(ctx, "abc123hash")
	if err != nil {
		t.Fatalf("GetTokenByHash: %v", err)
	}
	if !found.LastUsedAt.Valid {
		t.Error("LastUsedAt should be set after use")
	}
}

func TestCreateAuthor(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	principal := createTestPrincipal(t, q, "author@example.com")

	author, err := q.CreateAuthor(ctx, CreateAuthorParams{
		PrincipalID: principal.ID,
		Name:        "Jane Writer",
		Email:       "author@example.com",
		CreatedAt:   time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateAuthor: %v", err)
	}

	if author.ID == 0 {
		t.Error("author.ID should not be 0")
	}
	if author.Name != "Jane Writer" {
		t.Errorf("Name = %q, want %q", author.Name, "Jane Writer")
	}

	found, err := q.GetAuthorByPrincipalID(ctx, principal.ID)
	if err != nil {
		t.Fatalf("GetAuthorByPrincipalID: %v", err)
	}
	if found.ID != author.ID {
		t.Errorf("ID = %d, want %d", found.ID, author.ID)
	}
}

func TestCategoryFindOrCreateFlow(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	// Lookup misses before create
	_, err := q.GetCategoryBySlug(ctx, "technology")
	if err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}

	created := createTestCategory(t, q, "Technology", "technology")

	found, err := q.GetCategoryBySlug(ctx, "technology")
	if err != nil {
		t.Fatalf("GetCategoryBySlug: %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %d, want %d", found.ID, created.ID)
	}
}

func TestListCategories(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	q := New(db)

	createTestCategory(t, q, "Zebra", "zebra")
	createTestCategory(t, q, "Apple", "apple")

	categories, err := q.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}

	if len(categories) != 2 {
		t.Fatalf("len(categories) = %d, want 2", len(categories))
	}
	if categories[0].Name != "Apple" {
		t.Errorf("first category = %q, want Apple (ordered by name)", categories[0].Name)
	}
}

func TestCreateArticle(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	author := createTestAuthor(t, q, "writer@example.com")
	cat := createTestCategory(t, q, "News", "news")

	now := time.Now()
	article, err := q.CreateArticle(ctx, CreateArticleParams{
		Title:       "Test Article",
		Slug:        "test-article",
		Content:     "Article body",
		Excerpt:     "Summary",
		AuthorID:    author.ID,
		CategoryID:  cat.ID,
		Status:      model.ArticleStatusPublished,
		PublishedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}

	if article.ID == 0 {
		t.Error("article.ID should not be 0")
	}
	if article.Slug != "test-article" {
		t.Errorf("Slug = %q, want %q", article.Slug, "test-article")
	}

	found, err := q.GetArticleBySlug(ctx, "test-article")
	if err != nil {
		t.Fatalf("GetArticleBySlug: %v", err)
	}
	if found.ID != article.ID {
		t.Errorf("ID = %d, want %d", found.ID, article.ID)
	}
}

func TestCreateArticle_DuplicateSlug(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	author := createTestAuthor(t, q, "writer@example.com")
	cat := createTestCategory(t, q, "News", "news")

	now := time.Now()
	params := CreateArticleParams{
		Title:       "First",
		Slug:        "same-slug",
		Content:     "Body",
		AuthorID:    author.ID,
		CategoryID:  cat.ID,
		Status:      model.ArticleStatusDraft,
		PublishedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := q.CreateArticle(ctx, params); err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}

	params.Title = "Second"
	if _, err := q.CreateArticle(ctx, params); err == nil {
		t.Error("expected unique constraint violation for duplicate slug")
	}
}

func TestListPublishedArticles(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	author := createTestAuthor(t, q, "writer@example.com")
	cat := createTestCategory(t, q, "News", "news")

	base := time.Now()
	statuses := []string{
		model.ArticleStatusPublished,
		model.ArticleStatusPublished,
		model.ArticleStatusDraft,
		model.ArticleStatusPublished,
	}
	for i, status := range statuses {
		_, err := q.CreateArticle(ctx, CreateArticleParams{
			Title:       "Article " + string(rune('0'+i)),
			Slug:        "article-" + string(rune('0'+i)),
			Content:     "Body",
			AuthorID:    author.ID,
			CategoryID:  cat.ID,
			Status:      status,
			PublishedAt: base.Add(time.Duration(i) * time.Minute),
			CreatedAt:   base,
			UpdatedAt:   base,
		})
		if err != nil {
			t.Fatalf("CreateArticle: %v", err)
		}
	}

	articles, err := q.ListPublishedArticles(ctx, ListPublishedArticlesParams{Limit: 10, Offset: 0})
	if err != nil {
		t.Fatalf("ListPublishedArticles: %v", err)
	}
	if len(articles) != 3 {
		t.Fatalf("len(articles) = %d, want 3 (draft excluded)", len(articles))
	}

	// Newest first
	if articles[0].Slug != "article-3" {
		t.Errorf("first slug = %q, want article-3", articles[0].Slug)
	}

	count, err := q.CountPublishedArticles(ctx)
	if err != nil {
		t.Fatalf("CountPublishedArticles: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}

func TestArticleTagAssociation(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	author := createTestAuthor(t, q, "writer@example.com")
	cat := createTestCategory(t, q, "News", "news")

	now := time.Now()
	article, err := q.CreateArticle(ctx, CreateArticleParams{
		Title:       "Tagged",
		Slug:        "tagged",
		Content:     "Body",
		AuthorID:    author.ID,
		CategoryID:  cat.ID,
		Status:      model.ArticleStatusPublished,
		PublishedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}

	tag1, _ := q.CreateTag(ctx, CreateTagParams{Name: "Go", Slug: "go", CreatedAt: now, UpdatedAt: now})
	tag2, _ := q.CreateTag(ctx, CreateTagParams{Name: "Web", Slug: "web", CreatedAt: now, UpdatedAt: now})

	if err := q.AddTagToArticle(ctx, AddTagToArticleParams{ArticleID: article.ID, TagID: tag1.ID}); err != nil {
		t.Fatalf("AddTagToArticle: %v", err)
	}
	if err := q.AddTagToArticle(ctx, AddTagToArticleParams{ArticleID: article.ID, TagID: tag2.ID}); err != nil {
		t.Fatalf("AddTagToArticle: %v", err)
	}

	tags, err := q.GetTagsForArticle(ctx, article.ID)
	if err != nil {
		t.Fatalf("GetTagsForArticle: %v", err)
	}
	if len(tags) != 2 {
		t.Errorf("len(tags) = %d, want 2", len(tags))
	}

	// Tag-filtered listing sees the article
	byTag, err := q.ListPublishedArticlesByTag(ctx, ListPublishedArticlesByTagParams{
		TagID: tag1.ID, Limit: 10, Offset: 0,
	})
	if err != nil {
		t.Fatalf("ListPublishedArticlesByTag: %v", err)
	}
	if len(byTag) != 1 {
		t.Errorf("len(byTag) = %d, want 1", len(byTag))
	}
}

func TestListDuePendingArticles(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	author := createTestAuthor(t, q, "writer@example.com")
	cat := createTestCategory(t, q, "News", "news")

	now := time.Now()
	past, err := q.CreateArticle(ctx, CreateArticleParams{
		Title:       "Due",
		Slug:        "due",
		Content:     "Body",
		AuthorID:    author.ID,
		CategoryID:  cat.ID,
		Status:      model.ArticleStatusPending,
		PublishedAt: now.Add(-time.Hour),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}

	_, err = q.CreateArticle(ctx, CreateArticleParams{
		Title:       "Future",
		Slug:        "future",
		Content:     "Body",
		AuthorID:    author.ID,
		CategoryID:  cat.ID,
		Status:      model.ArticleStatusPending,
		PublishedAt: now.Add(time.Hour),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("CreateArticle: %v", err)
	}

	due, err := q.ListDuePendingArticles(ctx, now)
	if err != nil {
		t.Fatalf("ListDuePendingArticles: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("len(due) = %d, want 1", len(due))
	}
	if due[0].ID != past.ID {
		t.Errorf("due article ID = %d, want %d", due[0].ID, past.ID)
	}

	// Promote and verify it leaves the pending set
	err = q.PublishArticle(ctx, PublishArticleParams{ID: past.ID, UpdatedAt: time.Now()})
	if err != nil {
		t.Fatalf("PublishArticle: %v", err)
	}

	due, err = q.ListDuePendingArticles(ctx, now)
	if err != nil {
		t.Fatalf("ListDuePendingArticles: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("len(due) = %d, want 0 after publish", len(due))
	}

	promoted, err := q.GetArticleByID(ctx, past.ID)
	if err != nil {
		t.Fatalf("GetArticleByID: %v", err)
	}
	if promoted.Status != model.ArticleStatusPublished {
		t.Errorf("Status = %q, want published", promoted.Status)
	}
}

func TestCreateMedia(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	principal := createTestPrincipal(t, q, "uploader@example.com")

	media, err := q.CreateMedia(ctx, CreateMediaParams{
		UUID:       "550e8400-e29b-41d4-a716-446655440000",
		Filename:   "photo.jpg",
		MimeType:   "image/jpeg",
		Size:       12345,
		Width:      sql.NullInt64{Int64: 1920, Valid: true},
		Height:     sql.NullInt64{Int64: 1080, Valid: true},
		UploadedBy: principal.ID,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateMedia: %v", err)
	}

	if media.ID == 0 {
		t.Error("media.ID should not be 0")
	}

	found, err := q.GetMediaByUUID(ctx, "550e8400-e29b-41d4-a716-446655440000")
	if err != nil {
		t.Fatalf("GetMediaByUUID: %v", err)
	}
	if found.Filename != "photo.jpg" {
		t.Errorf("Filename = %q, want photo.jpg", found.Filename)
	}
}

func TestCreateEvent(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	event, err := q.CreateEvent(ctx, CreateEventParams{
		Level:     model.EventLevelWarning,
		Category:  model.EventCategoryArticle,
		Message:   "something happened",
		Metadata:  `{"slug":"test"}`,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if event.ID == 0 {
		t.Error("event.ID should not be 0")
	}

	events, err := q.ListRecentEvents(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("len(events) = %d, want 1", len(events))
	}
}

func TestSeed(t *testing.T) {
	db, cleanup := testDB(t)
	defer cleanup()

	ctx := context.Background()
	q := New(db)

	// First seed should create the editor account
	if err := Seed(ctx, db); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	editor, err := q.GetPrincipalByEmail(ctx, DefaultEditorEmail)
	if err != nil {
		t.Fatalf("GetPrincipalByEmail: %v", err)
	}
	if !editor.IsActive {
		t.Error("seeded editor should be active")
	}

	// Second seed should skip
	if err := Seed(ctx, db); err != nil {
		t.Fatalf("Second Seed: %v", err)
	}

	count, err := q.CountPrincipals(ctx)
	if err != nil {
		t.Fatalf("CountPrincipals: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1 (seed should skip if exists)", count)
	}
}
