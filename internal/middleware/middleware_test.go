package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCORSPreflight(t *testing.T) {
	called := false
	h := CORS(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "https://shop.test")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://shop.test", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPassesThrough(t *testing.T) {
	h := CORS(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) }))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestKeyedLimiterBurst(t *testing.T) {
	l := NewKeyedLimiter(0.001, 2)
	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"))

	var nilLimiter *KeyedLimiter
	assert.True(t, nilLimiter.Allow("a"))
}

func TestKeyedLimiterEvictsIdleKeys(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	l := NewKeyedLimiter(0.001, 1).WithIdle(time.Minute, func() time.Time { return now })

	for _, key := range []string{"a", "b", "c"} {
		assert.True(t, l.Allow(key))
	}
	assert.Equal(t, 3, trackedKeys(l))

	now = now.Add(30 * time.Second)
	assert.False(t, l.Allow("a"))

	now = now.Add(45 * time.Second)
	assert.False(t, l.Allow("a"), "a was seen within the window and keeps its empty bucket")
	assert.Equal(t, 1, trackedKeys(l))

	now = now.Add(2 * time.Minute)
	assert.True(t, l.Allow("b"), "an evicted key starts with a fresh bucket")
	assert.Equal(t, 1, trackedKeys(l))
}

func trackedKeys(l *KeyedLimiter) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}
