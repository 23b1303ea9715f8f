package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/time/rate"

	"github.com/KisanMitra/KM-Backend/internal/middleware"
)

// callWithOrigin wraps a 200-OK inner handler in the CORS middleware,
// optionally setting an Origin header, and returns the recorded response.
func callWithOrigin(t *testing.T, method, origin string) *httptest.ResponseRecorder {
	t.Helper()

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware.CORSMiddleware(inner)
	req := httptest.NewRequest(method, "/test", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// TestCORS_AllowedOriginEchoed verifies that an allow-listed origin is echoed
// back in Access-Control-Allow-Origin.
func TestCORS_AllowedOriginEchoed(t *testing.T) {
	rec := callWithOrigin(t, http.MethodGet, "http://localhost:5173")

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("expected origin echoed, got %q", got)
	}
	if rec.Header().Get("Vary") != "Origin" {
		t.Error("expected Vary: Origin for caches")
	}
}

// TestCORS_UnknownOriginNotEchoed verifies that an origin off the allow-list
// receives no CORS grant.
func TestCORS_UnknownOriginNotEchoed(t *testing.T) {
	rec := callWithOrigin(t, http.MethodGet, "https://evil.example.com")

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no allow-origin header, got %q", got)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("request itself should still pass, got %d", rec.Code)
	}
}

// TestCORS_PreflightShortCircuits verifies OPTIONS requests get 204 without
// reaching the inner handler.
func TestCORS_PreflightShortCircuits(t *testing.T) {
	rec := callWithOrigin(t, http.MethodOptions, "http://localhost:5173")

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", rec.Code)
	}
}

// TestRateLimit_BurstThen429 verifies that requests beyond the burst get 429
// with a Retry-After header.
func TestRateLimit_BurstThen429(t *testing.T) {
	limiter := rate.NewLimiter(rate.Limit(0.001), 2) // effectively no refill
	mw := middleware.RateLimitMiddleware(limiter)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := mw(inner)

	codes := []int{}
	for i := 0; i < 4; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/analyze", nil))
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("burst requests should pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests || codes[3] != http.StatusTooManyRequests {
		t.Errorf("post-burst requests should be limited, got %v", codes)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/analyze", nil))
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After on 429")
	}
}
