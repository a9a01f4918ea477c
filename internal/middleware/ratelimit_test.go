package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_PerClient(t *testing.T) {
	l := NewLimiter(1, 2)
	now := time.Now()
	assert.True(t, l.Allow("a", now))
	assert.True(t, l.Allow("a", now))
	assert.False(t, l.Allow("a", now))
	assert.True(t, l.Allow("b", now))
	// 一秒后补充一个令牌
	assert.True(t, l.Allow("a", now.Add(time.Second)))
}

func TestLimiter_Wrap(t *testing.T) {
	h := NewLimiter(1, 1).Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/routes", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestWrap_DisabledPassThrough(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	h := Wrap(next)
	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.7:5555"
	assert.Equal(t, "192.0.2.7", clientIP(r))

	r.Header.Set("Forwarded", `for="198.51.100.3";proto=https`)
	assert.Equal(t, "198.51.100.3", clientIP(r))

	r.Header.Set("X-Real-IP", "203.0.113.9")
	assert.Equal(t, "203.0.113.9", clientIP(r))
}
