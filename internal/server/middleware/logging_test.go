package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name          string
		method        string
		path          string
		expectedLevel string
		status        int
	}{
		{name: "GET 200", method: http.MethodGet, path: "/api/v1/expenses", status: http.StatusOK, expectedLevel: "level=INFO"},
		{name: "POST 201", method: http.MethodPost, path: "/api/v1/expenses", status: http.StatusCreated, expectedLevel: "level=INFO"},
		{name: "404", method: http.MethodDelete, path: "/api/v1/bills/x", status: http.StatusNotFound, expectedLevel: "level=WARN"},
		{name: "500", method: http.MethodPut, path: "/api/v1/budgets/x", status: http.StatusInternalServerError, expectedLevel: "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logBuf strings.Builder
			logger := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelDebug}))

			handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("body"))
			}))

			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set("X-User-ID", "alice")
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)

			logs := logBuf.String()
			assert.Contains(t, logs, tt.expectedLevel)
			assert.Contains(t, logs, "method="+tt.method)
			assert.Contains(t, logs, "path="+tt.path)
			assert.Contains(t, logs, "user_id=alice")
			assert.Contains(t, logs, "bytes_written=4")
		})
	}
}

func TestLoggingMiddleware_SkipPaths(t *testing.T) {
	var logBuf strings.Builder
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	handler := LoggingMiddleware(logger, "/api/v1/health")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Empty(t, logBuf.String())

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/expenses", nil))
	assert.Contains(t, logBuf.String(), "path=/api/v1/expenses")
}

func TestResponseWriter_DefaultStatus(t *testing.T) {
	var logBuf strings.Builder
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("implicit ok"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, logBuf.String(), "status=200")
	assert.Contains(t, logBuf.String(), "bytes_written=11")
}
