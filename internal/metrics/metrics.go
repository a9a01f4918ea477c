package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var latencyBuckets = []float64{10, 50, 100, 200, 400, 800, 1600, 3200, 6400}

var (
	BackendRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "routebench_backend_requests_total",
		Help: "Total backend route computations per pair",
	}, []string{"backend"})
	BackendFailTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "routebench_backend_fail_total",
		Help: "Backend failures that aborted the remaining pair queue",
	}, []string{"backend"})
	BackendZeroResultsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "routebench_backend_zero_results_total",
		Help: "Pairs skipped because the backend returned no route",
	}, []string{"backend"})
	BackendDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "routebench_backend_duration_ms",
		Help:    "Backend call latency in milliseconds",
		Buckets: latencyBuckets,
	}, []string{"backend"})
	CacheHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "routebench_cache_hits_total",
		Help: "Resolver hits by tier",
	}, []string{"tier"})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "routebench_cache_misses_total",
		Help: "Resolver misses that triggered computation",
	})
	CacheInvalidationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "routebench_cache_invalidations_total",
		Help: "Forced invalidations",
	})
	DurableWriteFailTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "routebench_durable_write_fail_total",
		Help: "Durable tier write failures (not surfaced to callers)",
	}, []string{"store"})
	FixtureFailTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "routebench_fixture_fail_total",
		Help: "Offline fixture fetch or parse failures",
	})
	RoutesResolved = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "routebench_routes_resolved",
		Help:    "Number of route records per resolved entry",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250},
	})
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "routebench_http_requests_total",
		Help: "HTTP API requests by endpoint and status class",
	}, []string{"endpoint", "status"})
)

func init() {
	prometheus.MustRegister(BackendRequestsTotal)
	prometheus.MustRegister(BackendFailTotal)
	prometheus.MustRegister(BackendZeroResultsTotal)
	prometheus.MustRegister(BackendDurationMs)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
	prometheus.MustRegister(CacheInvalidationsTotal)
	prometheus.MustRegister(DurableWriteFailTotal)
	prometheus.MustRegister(FixtureFailTotal)
	prometheus.MustRegister(RoutesResolved)
	prometheus.MustRegister(HTTPRequestsTotal)
}

// 文档注释：返回 Prometheus 指标监听器
// 背景：统一暴露注册指标到 /metrics 路径，在主入口挂载。
func Handler() http.Handler { return promhttp.Handler() }
