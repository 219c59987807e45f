package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bandstand/internal/config"
)

func middlewareServer(enableCORS bool) *SiteServer {
	cfg := config.DefaultConfig()
	cfg.Server.EnableCORS = enableCORS
	cfg.Logging.RequestLogging = false
	return &SiteServer{config: cfg, logger: testLogger()}
}

func TestCORSMiddleware(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("enabled", func(t *testing.T) {
		s := middlewareServer(true)
		rec := httptest.NewRecorder()
		s.corsMiddleware(inner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Error("expected CORS header when enabled")
		}
	})

	t.Run("disabled", func(t *testing.T) {
		s := middlewareServer(false)
		rec := httptest.NewRecorder()
		s.corsMiddleware(inner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Header().Get("Access-Control-Allow-Origin") != "" {
			t.Error("CORS header must be absent when disabled")
		}
	})
}

func TestPanicRecoveryMiddleware(t *testing.T) {
	s := middlewareServer(false)
	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("render exploded")
	})

	rec := httptest.NewRecorder()
	s.panicRecoveryMiddleware(panicky).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, expected 500", rec.Code)
	}
}

func TestShouldLogRequest(t *testing.T) {
	s := middlewareServer(false)
	tests := []struct {
		path     string
		expected bool
	}{
		{"/", true},
		{"/albums/demo", true},
		{"/static/css/site.css", false},
		{"/static/js/site.js", false},
		{"/favicon.ico", false},
	}

	for _, tt := range tests {
		if got := s.shouldLogRequest(tt.path); got != tt.expected {
			t.Errorf("shouldLogRequest(%q) = %v, expected %v", tt.path, got, tt.expected)
		}
	}
}
