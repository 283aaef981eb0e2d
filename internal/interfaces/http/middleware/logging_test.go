package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/SAScore/internal/testutil"
)

func statusHandler(code int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
	})
}

func TestRequestLogging_LevelByStatus(t *testing.T) {
	cases := []struct {
		code  int
		level string
		msg   string
	}{
		{http.StatusOK, "info", "HTTP request completed"},
		{http.StatusBadRequest, "warn", "HTTP request completed with client error"},
		{http.StatusServiceUnavailable, "error", "HTTP request completed with server error"},
	}
	for _, tc := range cases {
		logger := testutil.NewMockLogger()
		handler := RequestLogging(logger, DefaultLoggingConfig())(statusHandler(tc.code))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/sascore", nil))

		assert.Equal(t, tc.code, w.Code)
		assert.True(t, logger.HasMessage(tc.level, tc.msg), "status %d", tc.code)
	}
}

func TestRequestLogging_Slow(t *testing.T) {
	logger := testutil.NewMockLogger()
	cfg := LoggingConfig{SlowThreshold: time.Millisecond}
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond)
		_, _ = w.Write([]byte("done"))
	})

	RequestLogging(logger, cfg)(slow).ServeHTTP(httptest.NewRecorder(),
		httptest.NewRequest(http.MethodGet, "/api/v1/model", nil))

	assert.True(t, logger.HasMessage("warn", "HTTP request completed (slow)"))
}

func TestRequestLogging_SkipsProbes(t *testing.T) {
	logger := testutil.NewMockLogger()
	handler := RequestLogging(logger, DefaultLoggingConfig())(statusHandler(http.StatusOK))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, 0, logger.CountLevel("info"))
}

func TestWrappedResponseWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	w := newWrappedResponseWriter(rec)
	assert.Same(t, w, newWrappedResponseWriter(w))

	_, _ = w.Write([]byte("abc"))
	w.WriteHeader(http.StatusTeapot)

	assert.Equal(t, http.StatusOK, w.statusCode)
	assert.Equal(t, int64(3), w.bytesWritten)
	w.Flush()
	assert.True(t, rec.Flushed)

	_, _, err := w.Hijack()
	assert.Error(t, err)
}

//Personal.AI order the ending
