package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Lookup fallback reasons.
const (
	ReasonNotFound   = "not_found"
	ReasonDependency = "dependency"
	ReasonInvalid    = "invalid"
)

// Metrics records the order-creation service's counters and histograms.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	lookupFallbacks *prometheus.CounterVec
	quotes          prometheus.Counter
	cartItems       prometheus.Counter
	orders          *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	sessions        prometheus.Gauge
}

// New registers the service metrics on the provided registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		return &Metrics{}
	}
	m := &Metrics{
		lookupFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "printcrm_lookup_fallbacks_total",
			Help: "Catalog lookups resolved to safe defaults.",
		}, []string{"kind", "reason"}),
		quotes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "printcrm_quotes_total",
			Help: "Price quotes computed.",
		}),
		cartItems: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "printcrm_cart_items_added_total",
			Help: "Line items added to session carts.",
		}),
		orders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "printcrm_order_submissions_total",
			Help: "Order submissions by outcome.",
		}, []string{"outcome"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "printcrm_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "printcrm_active_sessions",
			Help: "Open order-creation sessions.",
		}),
	}
	reg.MustRegister(m.lookupFallbacks, m.quotes, m.cartItems, m.orders, m.httpDuration, m.sessions)
	return m
}

// IncLookupFallback counts a lookup that was replaced by its default.
func (m *Metrics) IncLookupFallback(kind, reason string) {
	if m == nil || m.lookupFallbacks == nil {
		return
	}
	m.lookupFallbacks.WithLabelValues(normalizeLabel(kind), normalizeLabel(reason)).Inc()
}

func (m *Metrics) IncQuote() {
	if m == nil || m.quotes == nil {
		return
	}
	m.quotes.Inc()
}

func (m *Metrics) IncCartItem() {
	if m == nil || m.cartItems == nil {
		return
	}
	m.cartItems.Inc()
}

// ObserveOrderSubmission counts one finalize attempt.
func (m *Metrics) ObserveOrderSubmission(err error) {
	if m == nil || m.orders == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.orders.WithLabelValues(outcome).Inc()
}

// ObserveHTTP records the latency of a completed request.
func (m *Metrics) ObserveHTTP(method, route string, status int, duration time.Duration) {
	if m == nil || m.httpDuration == nil {
		return
	}
	m.httpDuration.WithLabelValues(method, normalizeLabel(route), strconv.Itoa(status)).Observe(duration.Seconds())
}

// SetActiveSessions publishes the current registry size.
func (m *Metrics) SetActiveSessions(n int) {
	if m == nil || m.sessions == nil {
		return
	}
	m.sessions.Set(float64(n))
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
