package api

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/mbakhodurov/week1/shared/pkg/apperr"
)

var errRateLimited = apperr.New(apperr.KindRateLimited, apperr.CodeRateLimited, "too many requests")

// limiters hands out one token bucket per caller and forgets idle callers.
type limiters struct {
	rps   rate.Limit
	burst int
	idle  time.Duration

	mu      sync.Mutex
	buckets map[string]*bucket
	sweep   time.Time
}

type bucket struct {
	lim  *rate.Limiter
	last time.Time
}

func newLimiters(rps float64, burst int) *limiters {
	return &limiters{
		rps:     rate.Limit(rps),
		burst:   burst,
		idle:    30 * time.Minute,
		buckets: make(map[string]*bucket),
		sweep:   time.Now(),
	}
}

func (l *limiters) allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.sweep) > l.idle {
		for k, b := range l.buckets {
			if now.Sub(b.last) > l.idle {
				delete(l.buckets, k)
			}
		}
		l.sweep = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.rps, l.burst)}
		l.buckets[key] = b
	}
	b.last = now
	return b.lim.AllowN(now, 1)
}

// RateLimit throttles per authenticated user, falling back to the client IP.
func (a *API) RateLimit(next http.Handler) http.Handler {
	if a.limits == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := "ip:" + remoteIP(r)
		if actor, ok := actorFrom(r.Context()); ok {
			key = "user:" + actor.UserUUID
		}
		if !a.limits.allow(key, time.Now()) {
			w.Header().Set("Retry-After", "1")
			writeError(w, r, a.log, errRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
