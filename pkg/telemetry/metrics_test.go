package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestAppMetrics(t *testing.T) {
	RegisterTestingT(t)

	registry := prometheus.NewRegistry()
	metrics := NewAppMetrics(registry)
	ctx := context.Background()

	metrics.RecordRequest(ctx, "GET", "/api/tasks", "200", 10*time.Millisecond)
	metrics.RecordTaskOperation(ctx, "create", nil)
	metrics.RecordTaskOperation(ctx, "create", errors.New("boom"))
	metrics.RecordRateLimitHit(ctx, "/api/login")

	Expect(testutil.ToFloat64(metrics.requestTotal.WithLabelValues("GET", "/api/tasks", "200"))).To(Equal(1.0))
	Expect(testutil.ToFloat64(metrics.taskOperations.WithLabelValues("create", "success"))).To(Equal(1.0))
	Expect(testutil.ToFloat64(metrics.taskOperations.WithLabelValues("create", "error"))).To(Equal(1.0))
	Expect(testutil.ToFloat64(metrics.rateLimitHits.WithLabelValues("/api/login"))).To(Equal(1.0))

	metrics.IncrementActiveConnections(ctx)
	metrics.IncrementActiveConnections(ctx)
	metrics.DecrementActiveConnections(ctx)
	Expect(testutil.ToFloat64(metrics.activeConnections)).To(Equal(1.0))
}

func TestAppMetrics_StartSystemMetrics(t *testing.T) {
	RegisterTestingT(t)

	metrics := NewAppMetrics(prometheus.NewRegistry())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics.StartSystemMetrics(ctx, 10*time.Millisecond)

	Eventually(func() float64 {
		return testutil.ToFloat64(metrics.goroutines)
	}, time.Second).Should(BeNumerically(">", 0))
}
