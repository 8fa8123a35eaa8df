package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"newsdesk/internal/auth"
)

// Default editor credentials
const (
	DefaultEditorEmail    = "editor@example.com"
	DefaultEditorPassword = "changeme"
	DefaultEditorName     = "Editor"
)

// Seed creates initial data in the database.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)

	// Check if the editor account already exists
	_, err := queries.GetPrincipalByEmail(ctx, DefaultEditorEmail)
	if err == nil {
		slog.Info("editor account already exists, skipping seed")
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("checking for editor account: %w", err)
	}

	passwordHash, err := auth.HashPassword(DefaultEditorPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	principal, err := queries.CreatePrincipal(ctx, CreatePrincipalParams{
		Email:        DefaultEditorEmail,
		PasswordHash: passwordHash,
		FullName:     sql.NullString{String: DefaultEditorName, Valid: true},
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating editor account: %w", err)
	}

	slog.Info("created default editor account",
		"id", principal.ID,
		"email", principal.Email,
		"password", DefaultEditorPassword,
	)

	return nil
}
