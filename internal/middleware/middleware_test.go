package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestRequestID(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	ts := httptest.NewServer(RequestID(inner))
	defer ts.Close()

	first, err := http.Get(ts.URL)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	first.Body.Close()

	firstID := first.Header.Get("X-Request-Id")
	if firstID == "" {
		t.Fatal("X-Request-Id header not set")
	}
	if seen != firstID {
		t.Fatalf("context id = %q, header id = %q", seen, firstID)
	}

	second, err := http.Get(ts.URL)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	second.Body.Close()

	if second.Header.Get("X-Request-Id") == firstID {
		t.Fatal("request ids must be unique per request")
	}
}

func TestLogger_PreservesStatus(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	})

	ts := httptest.NewServer(RequestID(Logger(zap.NewNop())(inner)))
	defer ts.Close()

	resp, err := http.Get(ts.URL)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}
}
