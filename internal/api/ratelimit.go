package api

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/limbo/moodlog/pkg/httputil"
)

// incrExpireScript increments the window counter and arms its TTL on first hit.
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RateLimiter is a fixed-window limiter keyed by client IP and path.
// A nil *RateLimiter lets every request through.
type RateLimiter struct {
	rdb    redis.Scripter
	max    int
	window time.Duration
}

func NewRateLimiter(rdb redis.Scripter, max int, window time.Duration) *RateLimiter {
	if rdb == nil || max <= 0 || window <= 0 {
		return nil
	}
	return &RateLimiter{rdb: rdb, max: max, window: window}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	if rl == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.EqualFold(r.Method, http.MethodOptions) {
			next.ServeHTTP(w, r)
			return
		}
		ctx := r.Context()
		key := "rl:path:" + r.URL.Path + ":ip:" + clientIP(r)
		count, err := incrExpireScript.Run(ctx, rl.rdb, []string{key}, rl.window.Milliseconds()).Int()
		if err != nil {
			// fail open
			GetLoggerFromCtx(ctx).Warn("rate limiter unavailable", slog.String("error", err.Error()))
			next.ServeHTTP(w, r)
			return
		}
		remaining := rl.max - count
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.max))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if count > rl.max {
			w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
			GetLoggerFromCtx(ctx).Warn("rate limit exceeded", slog.String("path", r.URL.Path))
			httputil.WriteErrorResponse(w, http.StatusTooManyRequests, "rate limit exceeded", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host == "" {
		return "unknown"
	}
	return host
}
