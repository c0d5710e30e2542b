package metrics

import "github.com/prometheus/client_golang/prometheus"

// ListMetrics tracks shopping list processing outcomes.
type ListMetrics struct {
	processed *prometheus.CounterVec
	items     prometheus.Counter
}

// NewListMetrics registers the list processing metrics on the provided registerer.
func NewListMetrics(reg prometheus.Registerer) *ListMetrics {
	if reg == nil {
		return &ListMetrics{}
	}
	processed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lists_processed_total",
		Help: "Shopping lists processed, labeled by terminal status.",
	}, []string{"status"})
	items := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "list_items_resolved_total",
		Help: "Line items written during list processing.",
	})
	reg.MustRegister(processed, items)
	return &ListMetrics{processed: processed, items: items}
}

// IncProcessed increments the processed counter for the given terminal status.
func (m *ListMetrics) IncProcessed(status string) {
	if m == nil || m.processed == nil {
		return
	}
	m.processed.WithLabelValues(status).Inc()
}

// AddItems adds the number of items written for a processed list.
func (m *ListMetrics) AddItems(n int) {
	if m == nil || m.items == nil {
		return
	}
	m.items.Add(float64(n))
}
