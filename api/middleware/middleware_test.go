package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/salepoint/salepoint-backend/pkg/logger"
)

func testLogger(buf *bytes.Buffer) *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: buf, Level: zerolog.InfoLevel})
}

func TestLoggingCapturesStatus(t *testing.T) {
	var buf bytes.Buffer
	handler := Logging(testLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/brew", nil))

	if resp.Code != http.StatusTeapot {
		t.Fatalf("expected 418 got %d", resp.Code)
	}
	out := buf.String()
	if !strings.Contains(out, "request.complete") {
		t.Fatalf("expected request.complete log, got %q", out)
	}
	if !strings.Contains(out, `"status":418`) {
		t.Fatalf("expected captured status in log, got %q", out)
	}
}

func TestLoggingDefaultsStatusOK(t *testing.T) {
	var buf bytes.Buffer
	handler := Logging(testLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// no explicit WriteHeader
		_, _ = w.Write([]byte("ok"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !strings.Contains(buf.String(), `"status":200`) {
		t.Fatalf("expected implicit 200 in log, got %q", buf.String())
	}
}

func TestRequestIDGeneratesAndEchoes(t *testing.T) {
	var seen string
	handler := RequestID(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = w.Header().Get(requestIDHeader)
		w.WriteHeader(http.StatusOK)
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Header().Get(requestIDHeader) == "" || seen == "" {
		t.Fatal("expected a generated request id header")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "req-123")
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if got := resp.Header().Get(requestIDHeader); got != "req-123" {
		t.Fatalf("expected incoming id echoed, got %q", got)
	}
}

func TestRecovererConvertsPanic(t *testing.T) {
	var buf bytes.Buffer
	handler := Recoverer(testLogger(&buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "INTERNAL_ERROR") {
		t.Fatalf("expected error envelope, got %q", resp.Body.String())
	}
	if !strings.Contains(buf.String(), "panic.recovered") {
		t.Fatalf("expected panic log, got %q", buf.String())
	}
}

func TestCORSAllowsLocalOrigin(t *testing.T) {
	handler := CORS()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected origin allowed, got %q", got)
	}
}
