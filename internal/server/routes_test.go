package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.handleHealth(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]string
	jsonDecode(rec, &resp)
	if resp["status"] != "ok" {
		t.Errorf("status = %q", resp["status"])
	}
}

func TestHandleVersion(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	rec := httptest.NewRecorder()
	srv.handleVersion(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]string
	jsonDecode(rec, &resp)
	if resp["version"] == "" {
		t.Error("version should not be empty")
	}
}

func TestHandleShutdown_DevMode(t *testing.T) {
	srv := newTestServer(t)
	srv.app.Config.Environment = "development"

	ch := make(chan struct{}, 1)
	srv.SetShutdownChannel(ch)

	req := httptest.NewRequest(http.MethodPost, "/shutdown", nil)
	rec := httptest.NewRecorder()
	srv.handleShutdown(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown channel was not signaled")
	}
}

func TestHandleShutdown_ProductionForbidden(t *testing.T) {
	srv := newTestServer(t)
	srv.app.Config.Environment = "production"

	req := httptest.NewRequest(http.MethodPost, "/shutdown", nil)
	rec := httptest.NewRecorder()
	srv.handleShutdown(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 in production, got %d", rec.Code)
	}
}

func TestHandleShutdown_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/shutdown", nil)
	rec := httptest.NewRecorder()
	srv.handleShutdown(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestRouteTerms_UnknownSubpath(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/terms/canonical/bogus", nil)
	rec := httptest.NewRecorder()
	srv.routeTerms(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestNewServer_WiresHandler(t *testing.T) {
	srv := newTestServer(t)
	full := NewServer(srv.app)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	full.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 through the full server handler, got %d", rec.Code)
	}
}
