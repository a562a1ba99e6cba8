package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"industrain/internal/logger/loggertest"

	"go.uber.org/zap/zapcore"
)

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel zapcore.Level
	}{
		{"ok", http.StatusOK, zapcore.InfoLevel},
		{"client error", http.StatusNotFound, zapcore.WarnLevel},
		{"server error", http.StatusServiceUnavailable, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, logs := loggertest.New()
			handler := RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte("body"))
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/courses", nil))

			entries := logs.All()
			if len(entries) != 1 {
				t.Fatalf("expected one log entry, got %d", len(entries))
			}
			e := entries[0]
			if e.Level != tt.wantLevel {
				t.Errorf("expected level %v, got %v", tt.wantLevel, e.Level)
			}
			fields := e.ContextMap()
			if fields["path"] != "/api/v1/courses" || fields["method"] != http.MethodGet {
				t.Errorf("unexpected fields: %v", fields)
			}
			if fields["status"] != int64(tt.status) {
				t.Errorf("expected status %d, got %v", tt.status, fields["status"])
			}
		})
	}
}

func TestRequestLogger_ImplicitOK(t *testing.T) {
	log, logs := loggertest.New()
	handler := RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	if got := logs.All()[0].ContextMap()["status"]; got != int64(http.StatusOK) {
		t.Errorf("expected status 200, got %v", got)
	}
}

func TestRecover(t *testing.T) {
	log, logs := loggertest.New()
	handler := Recover(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rec.Code)
	}
	if logs.FilterMessage("handler panic").Len() != 1 {
		t.Error("expected panic to be logged")
	}
}
