package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func corsProbe(origins []string, method, origin string) *httptest.ResponseRecorder {
	handler := CORS(origins, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(method, "/bookings", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCORSAllowedOriginPreflight(t *testing.T) {
	rec := corsProbe([]string{"https://app.example.com"}, http.MethodOptions, "https://app.example.com")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("allow-origin = %q", got)
	}
	if rec.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Fatal("allow-methods missing on allowed preflight")
	}
}

func TestCORSDisallowedOriginPreflightRejected(t *testing.T) {
	rec := corsProbe([]string{"https://app.example.com"}, http.MethodOptions, "https://evil.example.com")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("disallowed preflight status = %d, want 403", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatal("disallowed preflight leaked an allow-origin header")
	}
}

func TestCORSWildcard(t *testing.T) {
	rec := corsProbe([]string{"*"}, http.MethodOptions, "https://anywhere.example.com")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("wildcard preflight status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow-origin = %q, want *", got)
	}
}

func TestCORSNonPreflightPassesThrough(t *testing.T) {
	rec := corsProbe([]string{"https://app.example.com"}, http.MethodGet, "https://evil.example.com")
	if rec.Code != http.StatusOK {
		t.Fatalf("plain request status = %d, want 200 from inner handler", rec.Code)
	}
}
