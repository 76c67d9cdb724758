package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lazypower/persona/internal/engine"
	"github.com/lazypower/persona/internal/profile"
	"github.com/lazypower/persona/internal/store"
	"github.com/lazypower/persona/internal/taxonomy"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	eng := engine.New(db, taxonomy.Default(), profile.DefaultParams())
	return New(db, eng, "test")
}

func TestHealthEndpoint(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status field = %v", resp["status"])
	}
	if resp["db"] != true {
		t.Errorf("db field = %v", resp["db"])
	}
}

func TestGetProfileCreatesEmpty(t *testing.T) {
	s := testServer(t)

	req := httptest.NewRequest("GET", "/api/profile/u1", nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var p profile.Profile
	if err := json.NewDecoder(w.Body).Decode(&p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.UserID != "u1" {
		t.Errorf("UserID = %q", p.UserID)
	}
	if len(p.TagDimensions) == 0 {
		t.Error("empty profile missing seeded dimensions")
	}
}
