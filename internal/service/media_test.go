// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"testing"

	"newsdesk/internal/model"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"photo.jpg", "photo.jpg"},
		{"my photo.jpg", "my-photo.jpg"},
		{"../../etc/passwd", "passwd.bin"},
		{`weird<>&#?%'".png`, "weird.png"},
		{"noextension", "noextension.bin"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := sanitizeFilename(tt.input); got != tt.want {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMimeTypeFromExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"a.jpg", model.MimeTypeJPEG},
		{"a.JPEG", model.MimeTypeJPEG},
		{"a.png", model.MimeTypePNG},
		{"a.webp", model.MimeTypeWebP},
		{"a.gif", "application/octet-stream"},
		{"a", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := mimeTypeFromExtension(tt.filename); got != tt.want {
				t.Errorf("mimeTypeFromExtension(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestMediaServiceURL(t *testing.T) {
	s := NewMediaService(nil, "")
	media := model.Media{UUID: "abc-123", Filename: "photo.jpg"}

	if got := s.URL(media, ""); got != "/uploads/originals/abc-123/photo.jpg" {
		t.Errorf("URL original = %q", got)
	}
	if got := s.URL(media, model.VariantThumbnail); got != "/uploads/thumbnail/abc-123/photo.jpg" {
		t.Errorf("URL thumbnail = %q", got)
	}
}
