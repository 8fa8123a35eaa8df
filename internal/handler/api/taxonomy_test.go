// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"newsdesk/internal/store"
)

func TestListCategories(t *testing.T) {
	db, h := testSetup(t)
	q := store.New(db)
	principal := createTestPrincipal(t, q, "editor@example.com", "hash")

	submitDraft(t, h, principal, `{"title":"A","content":"x","urlHandle":"a","category":"Tech"}`)
	submitDraft(t, h, principal, `{"title":"B","content":"x","urlHandle":"b","category":"World"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil)
	w := executeHandler(t, h.ListCategories, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	categories, _ := unmarshalList[CategoryResponse](t, w)
	if len(categories) != 2 {
		t.Fatalf("len(categories) = %d, want 2", len(categories))
	}

	// Second request is served from the cache
	has, err := h.cache.Has(context.Background(), cacheKeyCategories)
	if err != nil || !has {
		t.Errorf("expected %q in cache, has=%v err=%v", cacheKeyCategories, has, err)
	}

	w2 := executeHandler(t, h.ListCategories, httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil))
	if w2.Body.String() != w.Body.String() {
		t.Error("cached response should match the original")
	}
}

func TestListCategories_InvalidatedOnSubmit(t *testing.T) {
	db, h := testSetup(t)
	q := store.New(db)
	principal := createTestPrincipal(t, q, "editor@example.com", "hash")

	// Prime the cache with the empty listing
	w := executeHandler(t, h.ListCategories, httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil))
	categories, _ := unmarshalList[CategoryResponse](t, w)
	if len(categories) != 0 {
		t.Fatalf("len(categories) = %d, want 0", len(categories))
	}

	submitDraft(t, h, principal, `{"title":"A","content":"x","urlHandle":"a","category":"Tech"}`)

	w = executeHandler(t, h.ListCategories, httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil))
	categories, _ = unmarshalList[CategoryResponse](t, w)
	if len(categories) != 1 || categories[0].Slug != "tech" {
		t.Errorf("categories = %+v, want the new tech category", categories)
	}
}

func TestGetCategory(t *testing.T) {
	db, h := testSetup(t)
	q := store.New(db)
	principal := createTestPrincipal(t, q, "editor@example.com", "hash")

	submitDraft(t, h, principal, `{"title":"A","content":"x","urlHandle":"a","category":"Tech News"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories/tech-news", nil)
	req = requestWithURLParams(req, map[string]string{"slug": "tech-news"})
	w := executeHandler(t, h.GetCategory, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	category := unmarshalData[CategoryResponse](t, w)
	if category.Name != "Tech News" {
		t.Errorf("Name = %q, want %q", category.Name, "Tech News")
	}
}

func TestGetCategory_NotFound(t *testing.T) {
	_, h := testSetup(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories/nope", nil)
	req = requestWithURLParams(req, map[string]string{"slug": "nope"})
	w := executeHandler(t, h.GetCategory, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestListTags(t *testing.T) {
	db, h := testSetup(t)
	q := store.New(db)
	principal := createTestPrincipal(t, q, "editor@example.com", "hash")

	submitDraft(t, h, principal, `{"title":"A","content":"x","urlHandle":"a","tags":["AI","Economy"]}`)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tags", nil)
	w := executeHandler(t, h.ListTags, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	tags, _ := unmarshalList[TagResponse](t, w)
	if len(tags) != 2 {
		t.Errorf("len(tags) = %d, want 2", len(tags))
	}
}
