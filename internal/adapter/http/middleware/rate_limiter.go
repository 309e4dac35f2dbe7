package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskboard/internal/adapter/http/helper"
	"taskboard/internal/adapter/ratelimit"
	"taskboard/pkg/telemetry"
)

const (
	defaultRule        = "default"
	MessageRateLimited = "Too many requests, please try again later"
)

// RateLimitRule limits requests per key within a fixed window.
type RateLimitRule struct {
	Requests int
	Window   time.Duration
	KeyFunc  func(*gin.Context) string
}

type RateLimiter struct {
	store   ratelimit.Store
	rules   map[string]RateLimitRule
	logger  *zap.Logger
	metrics *telemetry.AppMetrics
	mutex   sync.RWMutex
}

// NewRateLimiter builds a limiter with the default rules. Rules are keyed
// by "METHOD /route/pattern"; anything unmatched uses the default rule.
func NewRateLimiter(store ratelimit.Store, logger *zap.Logger, metrics *telemetry.AppMetrics) *RateLimiter {
	return &RateLimiter{
		store: store,
		rules: map[string]RateLimitRule{
			"POST /api/register": {Requests: 5, Window: time.Minute, KeyFunc: ClientIP},
			"POST /api/login":    {Requests: 10, Window: time.Minute, KeyFunc: ClientIP},
			defaultRule:          {Requests: 120, Window: time.Minute, KeyFunc: ClientIP},
		},
		logger:  logger,
		metrics: metrics,
	}
}

func (rl *RateLimiter) SetRule(route string, rule RateLimitRule) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	rl.rules[route] = rule
}

func (rl *RateLimiter) rule(route string) RateLimitRule {
	rl.mutex.RLock()
	defer rl.mutex.RUnlock()

	if rule, ok := rl.rules[route]; ok {
		return rule
	}

	return rl.rules[defaultRule]
}

func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		route := c.Request.Method + " " + path
		rule := rl.rule(route)
		key := "rate_limit:" + route + ":" + rule.KeyFunc(c)
		ctx := c.Request.Context()

		result, err := rl.store.Hit(ctx, key, rule.Window)

		// fail open
		if err != nil {
			rl.logger.Error("Rate limit check failed",
				zap.String("key", key),
				zap.Error(err))
			c.Next()
			return
		}

		remaining := rule.Requests - result.Count
		if remaining < 0 {
			remaining = 0
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rule.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if result.Count > rule.Requests {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(ctx, path)
			}

			rl.logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.Int("limit", rule.Requests),
				zap.Duration("window", rule.Window))

			retryAfter := int(time.Until(result.ResetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}

			c.Header("Retry-After", strconv.Itoa(retryAfter))
			helper.SendError(c, http.StatusTooManyRequests, MessageRateLimited)
			return
		}

		if rl.metrics != nil {
			rl.metrics.RecordRateLimitAllowed(ctx, path)
		}

		c.Next()
	}
}

func ClientIP(c *gin.Context) string {
	return c.ClientIP()
}
