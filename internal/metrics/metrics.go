package metrics

import (
	"strconv"
	"time"

	"distribution-backend/internal/inventory"
	"distribution-backend/internal/models"
	"distribution-backend/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	notificationsTotal  *prometheus.CounterVec
}

func New(prefix string) *Metrics {
	if prefix == "" {
		prefix = "distribution"
	}
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		notificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_notifications_total",
			Help: "Notifications raised, by severity and alert type",
		}, []string{"severity", "type"}),
	}
	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.notificationsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Middleware records request count and latency labelled by route template,
// not raw path, to keep cardinality bounded.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		path := c.Route().Path
		m.httpRequestsTotal.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		m.httpRequestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}

// Notify counts notifications; it satisfies notify.Sink.
func (m *Metrics) Notify(severity models.Severity, _ string, details models.NotificationDetails) {
	kind := details.Type
	if kind == "" {
		kind = "event"
	}
	m.notificationsTotal.WithLabelValues(string(severity), kind).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// stockCollector reads stock levels and order counts at scrape time.
type stockCollector struct {
	store *store.Store
	inv   *inventory.Service

	stock  *prometheus.Desc
	orders *prometheus.Desc
}

// WatchStore exports on-hand stock and orders by status. The /metrics route
// must not run under store.Serialize since Collect takes the store lock.
func (m *Metrics) WatchStore(prefix string, s *store.Store, inv *inventory.Service) {
	if prefix == "" {
		prefix = "distribution"
	}
	m.registry.MustRegister(&stockCollector{
		store: s,
		inv:   inv,
		stock: prometheus.NewDesc(prefix+"_stock_on_hand",
			"On-hand quantity across all batches", []string{"kind", "id", "name"}, nil),
		orders: prometheus.NewDesc(prefix+"_orders",
			"Orders by status", []string{"status"}, nil),
	})
}

func (c *stockCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.stock
	ch <- c.orders
}

func (c *stockCollector) Collect(ch chan<- prometheus.Metric) {
	c.store.Lock()
	levels := c.inv.Summary()
	byStatus := map[models.OrderStatus]int{}
	for _, o := range c.store.Orders.All() {
		byStatus[o.Status]++
	}
	c.store.Unlock()

	for _, l := range levels {
		ch <- prometheus.MustNewConstMetric(c.stock, prometheus.GaugeValue,
			l.Stock.InexactFloat64(), l.Kind, strconv.Itoa(l.ID), l.Name)
	}
	for _, status := range []models.OrderStatus{
		models.OrderPending, models.OrderCompleted, models.OrderShipped,
		models.OrderDelivered, models.OrderCancelled,
	} {
		ch <- prometheus.MustNewConstMetric(c.orders, prometheus.GaugeValue, float64(byStatus[status]), string(status))
	}
}
