package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels shared by the order metrics.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailure  = "failure"
)

// OrderMetrics records checkout, cancellation and review activity.
type OrderMetrics struct {
	checkoutDuration *prometheus.HistogramVec
	checkouts        *prometheus.CounterVec
	ordersCreated    prometheus.Counter
	orderNumberRetry prometheus.Counter
	cancellations    *prometheus.CounterVec
	reviews          *prometheus.CounterVec
}

// NewOrderMetrics registers the order metrics on the provided registerer. A
// nil registerer yields a no-op recorder.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	checkoutDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout attempts in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_total",
		Help: "Checkout attempts by outcome.",
	}, []string{"outcome"})
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Vendor orders written by checkout.",
	})
	orderNumberRetry := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_number_conflicts_total",
		Help: "Checkout transactions retried after an order number collision.",
	})
	cancellations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_cancellations_total",
		Help: "Order cancellation attempts by outcome.",
	}, []string{"outcome"})
	reviews := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "review_submissions_total",
		Help: "Review submissions by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(checkoutDuration, checkouts, ordersCreated, orderNumberRetry, cancellations, reviews)
	return &OrderMetrics{
		checkoutDuration: checkoutDuration,
		checkouts:        checkouts,
		ordersCreated:    ordersCreated,
		orderNumberRetry: orderNumberRetry,
		cancellations:    cancellations,
		reviews:          reviews,
	}
}

// ObserveCheckout records one checkout attempt and its duration.
func (m *OrderMetrics) ObserveCheckout(outcome string, duration time.Duration) {
	if m == nil || m.checkouts == nil {
		return
	}
	outcome = normalizeLabel(outcome)
	m.checkouts.WithLabelValues(outcome).Inc()
	m.checkoutDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// AddOrdersCreated adds n to the created orders counter.
func (m *OrderMetrics) AddOrdersCreated(n int) {
	if m == nil || m.ordersCreated == nil || n <= 0 {
		return
	}
	m.ordersCreated.Add(float64(n))
}

// IncOrderNumberConflict counts a retried order number collision.
func (m *OrderMetrics) IncOrderNumberConflict() {
	if m == nil || m.orderNumberRetry == nil {
		return
	}
	m.orderNumberRetry.Inc()
}

// IncCancellation counts a cancellation attempt.
func (m *OrderMetrics) IncCancellation(outcome string) {
	if m == nil || m.cancellations == nil {
		return
	}
	m.cancellations.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncReview counts a review submission. Outcome is usually "created",
// "updated" or "rejected".
func (m *OrderMetrics) IncReview(outcome string) {
	if m == nil || m.reviews == nil {
		return
	}
	m.reviews.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
