package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/skindev/faqgen/internal/database"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func ptr(s string) *string { return &s }

func seedRun(t *testing.T, db *database.DB) int64 {
	t.Helper()
	runID, err := db.InsertRun("products.csv", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("seeding run: %v", err)
	}
	productID, err := db.InsertProduct(runID, "serum-c", "Sérum Vitamina C",
		ptr("Natura Bissé"), ptr("serum"), "pass", ptr("EXCELLENT"), 8.4, 1)
	if err != nil {
		t.Fatalf("seeding product: %v", err)
	}
	for i := 1; i <= 5; i++ {
		if err := db.InsertFAQ(productID, i, "¿Cómo se aplica el sérum?",
			"Aplica 3 gotas cada noche sobre la piel **limpia**.", 8); err != nil {
			t.Fatalf("seeding faq: %v", err)
		}
	}
	return runID
}

func TestIndexRoute(t *testing.T) {
	db := openTestDB(t)
	seedRun(t, db)

	srv, err := New(db)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "products.csv") {
		t.Error("expected run catalog in index body")
	}
}

func TestIndexEmpty(t *testing.T) {
	db := openTestDB(t)
	srv, err := New(db)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Todavía no hay runs") {
		t.Error("expected empty-state message")
	}
}

func TestRunRoute(t *testing.T) {
	db := openTestDB(t)
	runID := seedRun(t, db)

	srv, err := New(db)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	req := httptest.NewRequest("GET", fmt.Sprintf("/run/%d", runID), nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Sérum Vitamina C") {
		t.Error("expected product title in run page")
	}
	if !strings.Contains(body, "EXCELLENT") {
		t.Error("expected quality tier in run page")
	}
	// Markdown emphasis in answers should come out as HTML.
	if !strings.Contains(body, "<strong>limpia</strong>") {
		t.Error("expected rendered markdown in answer")
	}
}

func TestRunRouteNotFound(t *testing.T) {
	db := openTestDB(t)
	srv, err := New(db)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	req := httptest.NewRequest("GET", "/run/999", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing run, got %d", rec.Code)
	}
}

func TestRunRouteBadID(t *testing.T) {
	db := openTestDB(t)
	srv, err := New(db)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	req := httptest.NewRequest("GET", "/run/not-a-number", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for bad run id, got %d", rec.Code)
	}
}
