package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/jobboard-api/pkg/response"
)

// Limit is a fixed window: at most Max requests per Window and key.
type Limit struct {
	Max    int
	Window time.Duration
}

func PerMinute(n int) Limit { return Limit{Max: n, Window: time.Minute} }

// KeyFunc builds a rate-limit key from the request
type KeyFunc func(c *gin.Context) string

// AllowFunc reports whether the request skips limiting.
type AllowFunc func(*gin.Context) bool

func clientIP(c *gin.Context) string {
	if ip := c.GetString(CtxRealIPKey); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

func routeOf(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

// KeyByIPAndPath counts per client IP and route; used before a session exists.
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:path:" + routeOf(c) + ":ip:" + clientIP(c)
	}
}

// KeyByUserID counts per authenticated user and route, falling back to IP.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		uid := c.GetString(CtxUserIDKey)
		if uid == "" {
			return "rl:user:anon:ip:" + clientIP(c)
		}
		return "rl:user:" + uid + ":path:" + routeOf(c)
	}
}

// Counts the hit, arms the window on the first one and returns {count, pttl}.
var windowScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {n, redis.call("PTTL", KEYS[1])}
`)

// RateLimit enforces limit with a Redis counter per key, sets the
// X-RateLimit-* headers and answers 429 once the window is spent.
// It fails open when Redis is nil or unreachable.
func RateLimit(rdb *redis.Client, limit Limit, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if rdb == nil || limit.Max <= 0 || limit.Window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (allow != nil && allow(c)) {
			c.Next()
			return
		}

		count, ttl, err := hit(c, rdb, keyFn(c), limit.Window)
		if err != nil {
			c.Next()
			return
		}
		resetSec := 0
		if ttl > 0 {
			resetSec = int((ttl + time.Second - 1) / time.Second)
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit.Max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(limit.Max-count, 0)))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if count > limit.Max {
			if resetSec > 0 {
				c.Header("Retry-After", strconv.Itoa(resetSec))
			}
			response.Error(c, http.StatusTooManyRequests, "rate limit exceeded", nil).Abort(c)
			return
		}
		c.Next()
	}
}

func hit(c *gin.Context, rdb *redis.Client, key string, window time.Duration) (int, time.Duration, error) {
	vals, err := windowScript.Run(c.Request.Context(), rdb, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, err
	}
	if len(vals) != 2 {
		return 0, 0, redis.Nil
	}
	return int(vals[0]), time.Duration(vals[1]) * time.Millisecond, nil
}
