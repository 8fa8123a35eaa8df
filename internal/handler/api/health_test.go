// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"newsdesk/internal/store"
)

func TestHealth_Public(t *testing.T) {
	_, h := testSetup(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := executeHandler(t, h.Health, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp HealthStatusPublic
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("Status = %q, want healthy", resp.Status)
	}
}

func TestHealth_Authenticated(t *testing.T) {
	db, h := testSetup(t)
	q := store.New(db)
	principal := createTestPrincipal(t, q, "editor@example.com", "hash")

	req := withPrincipal(httptest.NewRequest(http.MethodGet, "/health", nil), principal)
	w := executeHandler(t, h.Health, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp HealthStatus
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Checks["database"].Status != "healthy" {
		t.Errorf("database check = %+v, want healthy", resp.Checks["database"])
	}
}

func TestLiveness(t *testing.T) {
	_, h := testSetup(t)

	w := executeHandler(t, h.Liveness, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestReadiness(t *testing.T) {
	_, h := testSetup(t)

	w := executeHandler(t, h.Readiness, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestStatus(t *testing.T) {
	_, h := testSetup(t)

	w := executeHandler(t, h.Status, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	status := unmarshalData[StatusResponse](t, w)
	if status.Version != "v1" {
		t.Errorf("Version = %q, want v1", status.Version)
	}
}
