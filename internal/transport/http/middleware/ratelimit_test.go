package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func hit(handler http.Handler, remoteAddr, forwardedFor string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitRejectsOverLimit(t *testing.T) {
	handler := RateLimit(2, time.Minute)(okHandler())

	for i := 0; i < 2; i++ {
		if rec := hit(handler, "10.0.0.1:5000", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i+1, rec.Code)
		}
	}

	rec := hit(handler, "10.0.0.1:5000", "")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third request: status = %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("missing Retry-After header")
	}
}

func TestRateLimitIsPerClient(t *testing.T) {
	handler := RateLimit(1, time.Minute)(okHandler())

	if rec := hit(handler, "10.0.0.1:5000", ""); rec.Code != http.StatusOK {
		t.Fatalf("first client: status = %d", rec.Code)
	}
	if rec := hit(handler, "10.0.0.1:5000", ""); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("first client second hit: status = %d", rec.Code)
	}
	// A different source port is still the same client.
	if rec := hit(handler, "10.0.0.1:6000", ""); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("same ip new port: status = %d", rec.Code)
	}
	if rec := hit(handler, "10.0.0.2:5000", ""); rec.Code != http.StatusOK {
		t.Fatalf("second client: status = %d", rec.Code)
	}
}

func TestRateLimitWindowResets(t *testing.T) {
	handler := RateLimit(1, 10*time.Millisecond)(okHandler())

	if rec := hit(handler, "10.0.0.1:5000", ""); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec := hit(handler, "10.0.0.1:5000", ""); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d", rec.Code)
	}

	time.Sleep(20 * time.Millisecond)
	if rec := hit(handler, "10.0.0.1:5000", ""); rec.Code != http.StatusOK {
		t.Fatalf("after window: status = %d", rec.Code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	handler := RateLimit(0, time.Minute)(okHandler())
	for i := 0; i < 10; i++ {
		if rec := hit(handler, "10.0.0.1:5000", ""); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i+1, rec.Code)
		}
	}
}

func TestClientIPKeyPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	if key := clientIPKey(req); key != "10.0.0.1" {
		t.Fatalf("key = %q", key)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if key := clientIPKey(req); key != "203.0.113.9" {
		t.Fatalf("key = %q", key)
	}
}
