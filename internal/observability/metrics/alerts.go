package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/brightside-platform/alert-service/internal/domain/model"
)

// DispatchMetrics holds the Prometheus collectors for the alert pipeline.
type DispatchMetrics struct {
	dispatches *prometheus.CounterVec
	recipients prometheus.Counter
	duration   prometheus.Histogram
}

// NewDispatchMetrics creates the dispatch collectors and registers them with reg.
func NewDispatchMetrics(reg prometheus.Registerer) *DispatchMetrics {
	m := &DispatchMetrics{
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alert_dispatches_total",
			Help: "Dispatch attempts by terminal status, reason, and severity",
		}, []string{"status", "reason", "severity"}),
		recipients: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alert_recipients_notified_total",
			Help: "Contacts reached by successfully delivered alerts",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "alert_dispatch_duration_seconds",
			Help: "Time to complete a dispatch attempt end-to-end",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.dispatches, m.recipients, m.duration)
	}
	return m
}

// ObserveDispatch records one terminal dispatch outcome. Safe on a nil
// receiver so the dispatcher can run without metrics wired.
func (m *DispatchMetrics) ObserveDispatch(res model.DispatchResult, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.dispatches.WithLabelValues(
		string(res.Status),
		res.Reason,
		string(res.Severity),
	).Inc()

	if res.Delivered() {
		m.recipients.Add(float64(res.ContactsNotified))
	}
	m.duration.Observe(elapsed.Seconds())
}
