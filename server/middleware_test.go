package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tayyibgondal/atc-ndc-bidirectional-conversion/config"
)

func TestRealIPMiddleware(t *testing.T) {
	var seenAddr string
	handler := RealIPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenAddr = r.RemoteAddr
	}))

	req := httptest.NewRequest(http.MethodGet, "/lookup/C10AA07", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seenAddr != "203.0.113.7" {
		t.Errorf("Expected first forwarded IP, got %s", seenAddr)
	}
}

func TestRequestSizeMiddlewareRejectsLargeBody(t *testing.T) {
	cfg := &config.Config{MaxRequestBody: 100, MaxHeaderSize: 1048576}
	handler := RequestSizeMiddleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/lookup/C10AA07", nil)
	req.Header.Set("Content-Length", "200")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Expected status 413, got %d", rr.Code)
	}
}

func TestRequestSizeMiddlewareAllowsSmallRequests(t *testing.T) {
	cfg := &config.Config{MaxRequestBody: 1048576, MaxHeaderSize: 1048576}
	handler := RequestSizeMiddleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/lookup/C10AA07", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rr.Code)
	}
}

func TestGetTokenCost(t *testing.T) {
	testCases := []struct {
		path     string
		expected int64
	}{
		{"/", 0},
		{"/health", 5},
		{"/metrics", 5},
		{"/convert/atc/C10AA07", 100},
		{"/convert/ndc/0310-0751-90", 100},
		{"/lookup/C10AA07", 20},
		{"/unknown", 20},
	}

	for _, tc := range testCases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		if cost := getTokenCost(req); cost != tc.expected {
			t.Errorf("Expected cost %d for %s, got %d", tc.expected, tc.path, cost)
		}
	}
}

func TestRateLimitHandlerExhaustsBucket(t *testing.T) {
	handler := RateLimitHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// A fresh bucket holds 1000 tokens; conversion requests cost 100, so
	// the eleventh request from the same client must be rejected
	var lastCode int
	for i := 0; i < 11; i++ {
		req := httptest.NewRequest(http.MethodGet, "/convert/atc/C10AA07", nil)
		req.RemoteAddr = "192.0.2.55:1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		lastCode = rr.Code
	}

	if lastCode != http.StatusTooManyRequests {
		t.Errorf("Expected status 429 after the bucket drained, got %d", lastCode)
	}
}
