package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doLookup(h http.Handler, addr string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/lookup/hello", nil)
	req.RemoteAddr = addr
	h.ServeHTTP(rec, req)
	return rec
}

func TestLookupLimiter_AllowsBurstThenRejects(t *testing.T) {
	l := NewLookupLimiter(3, time.Minute)
	defer l.Stop()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	h := l.Middleware()(okHandler())

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, doLookup(h, "1.2.3.4:1000").Code, "request %d", i)
	}

	rec := doLookup(h, "1.2.3.4:2000")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code, "same host, different port shares the bucket")
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "too many lookups")

	assert.Equal(t, http.StatusOK, doLookup(h, "5.6.7.8:1000").Code, "other clients are unaffected")

	now = now.Add(21 * time.Second)
	assert.Equal(t, http.StatusOK, doLookup(h, "1.2.3.4:1000").Code, "one token refills every 20s")
}

func TestLookupLimiter_Disabled(t *testing.T) {
	l := NewLookupLimiter(0, time.Minute)
	defer l.Stop()

	h := l.Middleware()(okHandler())
	for i := 0; i < 100; i++ {
		require.Equal(t, http.StatusOK, doLookup(h, "1.2.3.4:1000").Code)
	}
}

func TestLookupLimiter_StopIdempotent(t *testing.T) {
	l := NewLookupLimiter(10, time.Millisecond)
	l.Stop()
	assert.NotPanics(t, l.Stop)
}
