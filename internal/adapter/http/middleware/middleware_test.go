package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"taskboard/internal/adapter/ratelimit"
	"taskboard/internal/core/model/response"
	ct "taskboard/pkg/context"
	"taskboard/pkg/logger"
	"taskboard/pkg/telemetry"
)

func TestCurrentMiddleware(t *testing.T) {
	RegisterTestingT(t)
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(CurrentMiddleware())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, ct.RequestID(c.Request.Context()))
	})

	t.Run("generates a request id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(rr.Body.String()).ToNot(BeEmpty())
		Expect(rr.Header().Get(RequestIDHeader)).To(Equal(rr.Body.String()))
	})

	t.Run("keeps the caller's request id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")

		router.ServeHTTP(rr, req)

		Expect(rr.Body.String()).To(Equal("abc-123"))
		Expect(rr.Header().Get(RequestIDHeader)).To(Equal("abc-123"))
	})
}

type failingStore struct{}

func (failingStore) Hit(context.Context, string, time.Duration) (ratelimit.Result, error) {
	return ratelimit.Result{}, errors.New("store unavailable")
}

func newLimitedRouter(store ratelimit.Store, metrics *telemetry.AppMetrics) (*gin.Engine, *RateLimiter) {
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiter(store, zap.NewNop(), metrics)

	router := gin.New()
	router.Use(rl.RateLimitMiddleware())
	router.POST("/api/login", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/api/tasks", func(c *gin.Context) { c.Status(http.StatusOK) })

	return router, rl
}

func TestRateLimitMiddleware(t *testing.T) {
	RegisterTestingT(t)

	t.Run("limits login attempts per client", func(t *testing.T) {
		metrics := telemetry.NewAppMetrics(prometheus.NewRegistry())
		router, _ := newLimitedRouter(ratelimit.NewMemoryStore(), metrics)

		for i := 0; i < 10; i++ {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/login", nil))

			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(rr.Header().Get("X-RateLimit-Limit")).To(Equal("10"))
		}

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/login", nil))

		var body response.ErrorResponse
		json.Unmarshal(rr.Body.Bytes(), &body)

		Expect(rr.Code).To(Equal(http.StatusTooManyRequests))
		Expect(rr.Header().Get("X-RateLimit-Remaining")).To(Equal("0"))
		Expect(rr.Header().Get("Retry-After")).ToNot(BeEmpty())
		Expect(body.Success).To(BeFalse())
		Expect(body.Message).To(Equal(MessageRateLimited))
	})

	t.Run("counts routes separately", func(t *testing.T) {
		router, rl := newLimitedRouter(ratelimit.NewMemoryStore(), nil)
		rl.SetRule("POST /api/login", RateLimitRule{Requests: 1, Window: time.Minute, KeyFunc: ClientIP})

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/login", nil))
		Expect(rr.Code).To(Equal(http.StatusOK))

		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))
		Expect(rr.Code).To(Equal(http.StatusOK))
		Expect(rr.Header().Get("X-RateLimit-Limit")).To(Equal("120"))
	})

	t.Run("fails open when the store errors", func(t *testing.T) {
		router, _ := newLimitedRouter(failingStore{}, nil)

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))

		Expect(rr.Code).To(Equal(http.StatusOK))
		Expect(rr.Header().Get("X-RateLimit-Limit")).To(BeEmpty())
	})
}

func TestHTTPSEnforcer(t *testing.T) {
	RegisterTestingT(t)
	gin.SetMode(gin.TestMode)

	build := func(enabled bool) *gin.Engine {
		router := gin.New()
		router.Use(NewHTTPSEnforcer(enabled, zap.NewNop()).HTTPSMiddleware())
		router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
		return router
	}

	t.Run("redirects plain http when enabled", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "http://tasks.example.com/health", nil)

		build(true).ServeHTTP(rr, req)

		Expect(rr.Code).To(Equal(http.StatusMovedPermanently))
		Expect(rr.Header().Get("Location")).To(Equal("https://tasks.example.com/health"))
	})

	t.Run("trusts the forwarded proto", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "http://tasks.example.com/health", nil)
		req.Header.Set("X-Forwarded-Proto", "https")

		build(true).ServeHTTP(rr, req)

		Expect(rr.Code).To(Equal(http.StatusOK))
	})

	t.Run("skips localhost", func(t *testing.T) {
		rr := httptest.NewRecorder()
		build(true).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "http://localhost:3000/health", nil))

		Expect(rr.Code).To(Equal(http.StatusOK))
	})

	t.Run("does nothing when disabled", func(t *testing.T) {
		rr := httptest.NewRecorder()
		build(false).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "http://tasks.example.com/health", nil))

		Expect(rr.Code).To(Equal(http.StatusOK))
	})
}

func TestMetricsAndLoggingMiddleware(t *testing.T) {
	RegisterTestingT(t)
	gin.SetMode(gin.TestMode)

	registry := prometheus.NewRegistry()
	metrics := telemetry.NewAppMetrics(registry)

	router := gin.New()
	router.Use(CurrentMiddleware(), LoggingMiddleware(logger.NewNop()), MetricsMiddleware(metrics))
	router.GET("/api/tasks", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))
		Expect(rr.Code).To(Equal(http.StatusOK))
	}

	count, err := testutil.GatherAndCount(registry, "http_requests_total")

	Expect(err).ToNot(HaveOccurred())
	Expect(count).To(Equal(1))
}
