package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLoggingMiddleware(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Context().Value(LoggerKey) == nil {
			t.Error("expected request logger in context")
		}
		w.WriteHeader(http.StatusTeapot)
	})

	req, err := http.NewRequest("GET", "/test", nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	LoggingMiddleware(handler).ServeHTTP(rr, req)

	if status := rr.Code; status != http.StatusTeapot {
		t.Errorf("handler returned wrong status code: got %v want %v", status, http.StatusTeapot)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value(RequestIDKey).(string)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if seen == "" {
		t.Fatal("expected generated request ID in context")
	}
	if rr.Header().Get("X-Request-ID") != seen {
		t.Errorf("expected response header %q, got %q", seen, rr.Header().Get("X-Request-ID"))
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if seen != "abc-123" {
		t.Errorf("expected inbound request ID to be kept, got %q", seen)
	}
}

func TestRecovery(t *testing.T) {
	handler := Chain(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { panic("boom") }),
		RequestID, LoggingMiddleware, Recovery,
	)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rr.Code)
	}
	if rr.Body.String() != `{"error":"Internal server error"}` {
		t.Errorf("unexpected body %q", rr.Body.String())
	}
}
