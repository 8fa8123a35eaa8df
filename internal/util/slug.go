// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose utility functions including
// URL slug generation and validation with Unicode normalization support.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonSlugChars matches characters that are not word characters,
	// whitespace, or hyphens
	nonSlugChars = regexp.MustCompile(`[^a-z0-9_\s-]+`)
	// separatorRuns matches runs of whitespace, underscores, and hyphens
	separatorRuns = regexp.MustCompile(`[\s_-]+`)
)

// Slugify converts a human-readable name to a URL-safe slug.
// It lower-cases the input, decomposes accented characters, strips
// everything that is not a word character, whitespace, or hyphen, and
// collapses runs of whitespace, underscores, and hyphens into a single
// hyphen. An empty input yields an empty slug; callers must handle that.
func Slugify(s string) string {
	// Normalize unicode characters (decompose accents)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)

	result = strings.ToLower(result)
	result = strings.TrimSpace(result)

	result = nonSlugChars.ReplaceAllString(result, "")
	result = separatorRuns.ReplaceAllString(result, "-")

	// Trim hyphens from start and end
	result = strings.Trim(result, "-")

	return result
}

// IsValidSlug checks if a string is a valid slug format.
func IsValidSlug(s string) bool {
	if s == "" {
		return false
	}

	// Check if it only contains lowercase letters, numbers, and hyphens
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}

	// Check that it doesn't start or end with a hyphen
	if s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}

	// Check for consecutive hyphens
	if strings.Contains(s, "--") {
		return false
	}

	return true
}
