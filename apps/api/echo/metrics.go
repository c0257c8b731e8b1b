package echoapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/trezcool/campus/core/roster"
)

// Metrics holds the prometheus collectors of a Server. Each Server owns its registry.
type Metrics struct {
	registry *prometheus.Registry

	requests   *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	logins     *prometheus.CounterVec
	attendance *prometheus.CounterVec
	reports    prometheus.Counter
}

func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Sign-in attempts by result.",
		}, []string{"result"}),
		attendance: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "attendance_marks_total",
			Help:      "Attendance marks recorded by status.",
		}, []string{"status"}),
		reports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "daily_reports_total",
			Help:      "Daily reports logged.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		m.requests, m.latency, m.logins, m.attendance, m.reports,
	)
	return m
}

// middleware observes every request but the scrapes themselves.
func (m *Metrics) middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if ctx.Path() == metricsPath {
				return next(ctx)
			}
			start := time.Now()
			err := next(ctx)
			if err != nil {
				ctx.Error(err) // commit the response so its status is known
			}

			route := ctx.Path()
			if route == "" {
				route = "unmatched"
			}
			method := ctx.Request().Method
			m.requests.WithLabelValues(method, route, strconv.Itoa(ctx.Response().Status)).Inc()
			m.latency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

func (m *Metrics) handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

func (m *Metrics) login(err error) {
	switch err {
	case nil:
		m.logins.WithLabelValues("success").Inc()
	case roster.ErrAccountSuspended:
		m.logins.WithLabelValues("suspended").Inc()
	default:
		m.logins.WithLabelValues("failed").Inc()
	}
}

func (m *Metrics) attendanceMarked(status roster.AttendanceStatus) {
	m.attendance.WithLabelValues(string(status)).Inc()
}

func (m *Metrics) reportLogged() {
	m.reports.Inc()
}
