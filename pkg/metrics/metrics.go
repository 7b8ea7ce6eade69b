package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "card_service"

	RouteMetrics = "/metrics"

	ReasonCreate     = "create"
	ReasonRegenerate = "regenerate"

	ResultSuccess = "success"
	ResultFailure = "failure"

	FlowMinted = "minted"
	FlowReused = "reused"
	FlowAdmin  = "admin"
)

// Metrics holds the Prometheus collectors for the service. Every method is
// safe to call on a nil receiver so callers can run without metrics.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	codesIssuedTotal    *prometheus.CounterVec
	codesRedeemedTotal  *prometheus.CounterVec
	tokensIssuedTotal   *prometheus.CounterVec
	assetsUploadedTotal *prometheus.CounterVec
}

// New builds a Metrics with its own registry. Process and Go runtime
// collectors are registered alongside the service collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		codesIssuedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "codes_issued_total",
				Help:      "Total number of access codes issued.",
			},
			[]string{"reason"},
		),
		codesRedeemedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "codes_redeemed_total",
				Help:      "Total number of code redemption attempts.",
			},
			[]string{"result"},
		),
		tokensIssuedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tokens_issued_total",
				Help:      "Total number of access tokens issued or reused.",
			},
			[]string{"flow"},
		),
		assetsUploadedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "assets_uploaded_total",
				Help:      "Total number of image assets stored.",
			},
			[]string{"kind"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.codesIssuedTotal,
		m.codesRedeemedTotal,
		m.tokensIssuedTotal,
		m.assetsUploadedTotal,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) CodeIssued(reason string) {
	if m == nil {
		return
	}
	m.codesIssuedTotal.WithLabelValues(reason).Inc()
}

func (m *Metrics) CodeRedeemed(result string) {
	if m == nil {
		return
	}
	m.codesRedeemedTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) TokenIssued(flow string) {
	if m == nil {
		return
	}
	m.tokensIssuedTotal.WithLabelValues(flow).Inc()
}

func (m *Metrics) AssetUploaded(kind string) {
	if m == nil {
		return
	}
	m.assetsUploadedTotal.WithLabelValues(kind).Inc()
}

// Middleware tracks request count and latency per route template. Errors
// are handed to the echo error handler first so the recorded status is the
// one the client sees.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil || c.Request().URL.Path == RouteMetrics {
				return next(c)
			}

			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)

			m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
			m.httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RegisterMetricsRoute adds the scrape endpoint. A nil m registers nothing.
func RegisterMetricsRoute(e *echo.Echo, m *Metrics) {
	if m == nil {
		return
	}
	e.GET(RouteMetrics, echo.WrapHandler(m.Handler()))
}
