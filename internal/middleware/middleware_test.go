package middleware

import (
	"bufio"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/wordduel/internal/testutil"
)

type hijackRecorder struct {
	*httptest.ResponseRecorder
}

func (h hijackRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return nil, nil, nil
}

func lastEntry(t *testing.T, buf *testutil.LogBuffer) map[string]any {
	t.Helper()
	entries := buf.Entries()
	require.NotEmpty(t, entries)
	return entries[len(entries)-1]
}

func TestLoggingCapturesStatus(t *testing.T) {
	logger, buf := testutil.CaptureLogger()
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	entry := lastEntry(t, buf)
	assert.Equal(t, "INFO", entry["level"])
	assert.EqualValues(t, http.StatusTeapot, entry["status"])
	assert.EqualValues(t, 5, entry["size"])
}

func TestLoggingServerErrorsAtErrorLevel(t *testing.T) {
	logger, buf := testutil.CaptureLogger()
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "ERROR", lastEntry(t, buf)["level"])
}

func TestLoggingRecordsUpgrade(t *testing.T) {
	logger, buf := testutil.CaptureLogger()
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _, err := w.(http.Hijacker).Hijack()
		assert.NoError(t, err)
	}))

	h.ServeHTTP(hijackRecorder{httptest.NewRecorder()}, httptest.NewRequest(http.MethodGet, "/api/v1/ws", nil))

	assert.EqualValues(t, http.StatusSwitchingProtocols, lastEntry(t, buf)["status"])
}

func TestRecoveryCallsHandler(t *testing.T) {
	logger, buf := testutil.CaptureLogger()
	called := false
	h := Recovery(logger, func(w http.ResponseWriter, _ *http.Request, err any) {
		called = true
		assert.Equal(t, "boom", err)
		w.WriteHeader(http.StatusInternalServerError)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "panic recovered", lastEntry(t, buf)["msg"])
}

func TestRecoveryAfterUpgradeSkipsHandler(t *testing.T) {
	logger, buf := testutil.CaptureLogger()
	called := false
	h := Recovery(logger, func(http.ResponseWriter, *http.Request, any) {
		called = true
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _, _ = w.(http.Hijacker).Hijack()
		panic("after upgrade")
	}))

	h.ServeHTTP(hijackRecorder{httptest.NewRecorder()}, httptest.NewRequest(http.MethodGet, "/api/v1/ws", nil))

	assert.False(t, called)
	assert.Equal(t, true, lastEntry(t, buf)["upgraded"])
}
