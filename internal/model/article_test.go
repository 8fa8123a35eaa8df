package model

import "testing"

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"publish alias", "publish", ArticleStatusPublished},
		{"published", "published", ArticleStatusPublished},
		{"uppercase publish", "PUBLISH", ArticleStatusPublished},
		{"mixed case", "Published", ArticleStatusPublished},
		{"draft", "draft", ArticleStatusDraft},
		{"pending", "pending", ArticleStatusPending},
		{"archived", "archived", ArticleStatusArchived},
		{"unknown value", "banana", ArticleStatusDraft},
		{"empty string", "", ArticleStatusDraft},
		{"whitespace", "  ", ArticleStatusDraft},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeStatus(tt.input); got != tt.expected {
				t.Errorf("NormalizeStatus(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestArticleStatusHelpers(t *testing.T) {
	a := &Article{Status: ArticleStatusPublished}
	if !a.IsPublished() || a.IsDraft() {
		t.Errorf("published article misreported: IsPublished=%v IsDraft=%v", a.IsPublished(), a.IsDraft())
	}

	a.Status = ArticleStatusDraft
	if a.IsPublished() || !a.IsDraft() {
		t.Errorf("draft article misreported: IsPublished=%v IsDraft=%v", a.IsPublished(), a.IsDraft())
	}
}
