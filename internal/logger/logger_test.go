package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}

func TestAccessMiddleware(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "debug", "json")
	h := AccessMiddleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("hi"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/routes?region=Seattle&algo=directions_driving&path=true", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "http_access", entry["msg"])
	assert.Equal(t, "/routes", entry["path"])
	assert.Equal(t, "Seattle", entry["region"])
	assert.Equal(t, "directions_driving", entry["algo"])
	assert.NotContains(t, entry, "refresh")
	assert.EqualValues(t, http.StatusTeapot, entry["status"])
	assert.EqualValues(t, 2, entry["bytes"])
}

func TestAccessMiddleware_ServerErrorAtWarn(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn", "json")
	h := AccessMiddleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/chart", nil))
	assert.Contains(t, buf.String(), `"level":"WARN"`)

	buf.Reset()
	ok := AccessMiddleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ok.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/chart", nil))
	assert.Empty(t, buf.String())
}

func TestAccess_SlowRequestAtInfo(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "info", "json")
	h := Access{Logger: l, Slow: time.Millisecond}.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/routes?region=Jakarta&refresh=true", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, true, entry["slow"])
	assert.Equal(t, "true", entry["refresh"])
}
