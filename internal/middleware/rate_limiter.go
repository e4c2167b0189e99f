// file: internal/middleware/rate_limiter.go
package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"castnfish/internal/cache"
	"castnfish/internal/contextutils"

	"go.uber.org/zap"
)

// RateLimiterConfig holds fixed-window rate limiting configuration.
type RateLimiterConfig struct {
	Enabled   bool          `json:"enabled"`
	IPLimit   int           `json:"ip_limit"`   // anonymous requests per window
	UserLimit int           `json:"user_limit"` // authenticated requests per window
	Window    time.Duration `json:"window"`
}

// DefaultRateLimiterConfig returns production-ready limits.
func DefaultRateLimiterConfig() *RateLimiterConfig {
	return &RateLimiterConfig{
		Enabled:   true,
		IPLimit:   600,
		UserLimit: 1200,
		Window:    time.Minute,
	}
}

// RateLimit counts requests per caller in the shared cache. A cache failure
// lets the request through; throttling is best effort.
func RateLimit(c cache.Cache, config *RateLimiterConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	if config == nil {
		config = DefaultRateLimiterConfig()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !config.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			limit := config.IPLimit
			key := "ratelimit:ip:" + clientIP(r)
			if userID := contextutils.GetUserID(r.Context()); userID > 0 {
				limit = config.UserLimit
				key = fmt.Sprintf("ratelimit:user:%d", userID)
			}
			window := time.Now().Unix() / int64(config.Window.Seconds())
			key = fmt.Sprintf("%s:%d", key, window)

			count, err := c.Increment(r.Context(), key, 1, config.Window)
			if err != nil {
				logger.Debug("Rate limit counter unavailable", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			remaining := int64(limit) - count
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(limit) {
				w.Header().Set("Retry-After", strconv.Itoa(int(config.Window.Seconds())))
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
