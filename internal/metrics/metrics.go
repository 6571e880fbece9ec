package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tphummel/lab_stock/internal/inventory"
	"github.com/tphummel/lab_stock/internal/models"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lab_stock_http_requests_total",
			Help: "Total number of HTTP requests by method, route, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lab_stock_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lab_stock_http_requests_in_flight",
		Help: "Current number of HTTP requests being processed.",
	})

	operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lab_stock_operations_total",
			Help: "Quantity operations applied to resources, by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)
)

// UnitSource is the subset of inventory.Store needed to collect pool metrics.
type UnitSource interface {
	Summary() map[models.Kind]inventory.Totals
}

// inventoryCollector reads the store on each scrape and reports resource
// counts and unit totals per category.
type inventoryCollector struct {
	src           UnitSource
	resourcesDesc *prometheus.Desc
	unitsDesc     *prometheus.Desc
}

func newInventoryCollector(src UnitSource) *inventoryCollector {
	return &inventoryCollector{
		src: src,
		resourcesDesc: prometheus.NewDesc(
			"lab_stock_resources",
			"Number of resource types tracked, partitioned by category.",
			[]string{"category"},
			nil,
		),
		unitsDesc: prometheus.NewDesc(
			"lab_stock_units",
			"Units across all resources of a category, by state (total, allocated, available).",
			[]string{"category", "state"},
			nil,
		),
	}
}

func (c *inventoryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.resourcesDesc
	ch <- c.unitsDesc
}

func (c *inventoryCollector) Collect(ch chan<- prometheus.Metric) {
	for kind, t := range c.src.Summary() {
		cat := kind.Category()
		ch <- prometheus.MustNewConstMetric(c.resourcesDesc, prometheus.GaugeValue, float64(t.Resources), cat)
		ch <- prometheus.MustNewConstMetric(c.unitsDesc, prometheus.GaugeValue, float64(t.Total), cat, "total")
		ch <- prometheus.MustNewConstMetric(c.unitsDesc, prometheus.GaugeValue, float64(t.Allocated), cat, "allocated")
		ch <- prometheus.MustNewConstMetric(c.unitsDesc, prometheus.GaugeValue, float64(t.Total-t.Allocated), cat, "available")
	}
}

// Register registers all metrics with reg. Call once at startup after the
// store is created.
func Register(reg prometheus.Registerer, src UnitSource) {
	reg.MustRegister(
		// Standard Go runtime and process metrics
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),

		// HTTP service metrics
		httpRequestsTotal,
		httpRequestDuration,
		httpRequestsInFlight,

		// Application metrics
		operationsTotal,
		newInventoryCollector(src),
	)
}

// Handler returns the HTTP handler for the /metrics endpoint, serving g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Outcome classifies an operation error for the outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, models.ErrInvalidValue):
		return "invalid_value"
	case errors.Is(err, models.ErrInsufficientResources):
		return "insufficient"
	case errors.Is(err, inventory.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

// ObserveOperation counts one quantity operation and its outcome.
func ObserveOperation(op models.Op, err error) {
	operationsTotal.WithLabelValues(string(op), Outcome(err)).Inc()
}

// responseWriter wraps http.ResponseWriter to capture the response status code.
type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware wraps an http.Handler to record HTTP metrics.
// pattern should be the route pattern string (e.g. "/api/v1/resources/{id}")
// so the path label has bounded cardinality.
func Middleware(pattern string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		httpRequestsInFlight.Inc()

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			httpRequestsInFlight.Dec()
			status := strconv.Itoa(rw.status)
			httpRequestsTotal.WithLabelValues(r.Method, pattern, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
		}()

		next.ServeHTTP(rw, r)
	})
}
