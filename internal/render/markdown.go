// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render converts stored article content to sanitized HTML for
// API consumers that request a rendered representation.
package render

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// htmlSanitizer strips dangerous elements like <script> and event handler
// attributes while keeping the tags safe for user-generated content.
var htmlSanitizer = bluemonday.UGCPolicy()

// Markdown converts Markdown content to sanitized HTML.
func Markdown(content string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return htmlSanitizer.Sanitize(buf.String()), nil
}

// SanitizeHTML strips unsafe markup from already rendered HTML content.
func SanitizeHTML(content string) string {
	return htmlSanitizer.Sanitize(content)
}
