package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// LookupLimiter throttles lookups per client address with a token bucket
// so one client cannot flood the public dictionary API through the server.
type LookupLimiter struct {
	perMinute int
	now       func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
	stop    chan struct{}
	once    sync.Once
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// NewLookupLimiter allows perMinute lookups per client with bursts of the
// same size. Idle buckets are dropped every cleanupInterval. Call Stop on
// shutdown.
func NewLookupLimiter(perMinute int, cleanupInterval time.Duration) *LookupLimiter {
	l := &LookupLimiter{
		perMinute: perMinute,
		now:       time.Now,
		buckets:   make(map[string]*bucket),
		stop:      make(chan struct{}),
	}
	go l.cleanup(cleanupInterval)
	return l
}

// Stop terminates the cleanup goroutine.
func (l *LookupLimiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

// Middleware rejects requests over the limit with 429 and Retry-After.
// A non-positive limit disables throttling.
func (l *LookupLimiter) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		if l.perMinute <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if wait, ok := l.allow(clientKey(r)); !ok {
				w.Header().Set("Retry-After", strconv.Itoa(int(wait.Seconds())+1))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"too many lookups, slow down"}` + "\n"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// allow takes one token for key. When none is left it returns the time
// until the next token.
func (l *LookupLimiter) allow(key string) (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	max := float64(l.perMinute)
	rate := max / 60 // tokens per second

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: max, lastSeen: now}
		l.buckets[key] = b
	}
	b.tokens += now.Sub(b.lastSeen).Seconds() * rate
	if b.tokens > max {
		b.tokens = max
	}
	b.lastSeen = now

	if b.tokens < 1 {
		return time.Duration((1 - b.tokens) / rate * float64(time.Second)), false
	}
	b.tokens--
	return 0, true
}

func (l *LookupLimiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.mu.Lock()
			now := l.now()
			for key, b := range l.buckets {
				if now.Sub(b.lastSeen) > 10*time.Minute {
					delete(l.buckets, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
