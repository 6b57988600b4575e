package metrics

import "github.com/prometheus/client_golang/prometheus"

// ConversationMetrics exposes counters/histograms for the assistant pipeline.
type ConversationMetrics struct {
	inboundTotal   *prometheus.CounterVec
	dispatchTotal  *prometheus.CounterVec
	outboundTotal  *prometheus.CounterVec
	webhookLatency *prometheus.HistogramVec
}

func NewConversationMetrics(reg prometheus.Registerer) *ConversationMetrics {
	m := &ConversationMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bellavida",
			Subsystem: "conversation",
			Name:      "inbound_total",
			Help:      "Total combined inbound messages handed to the pipeline",
		}, []string{"outcome"}),
		dispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bellavida",
			Subsystem: "conversation",
			Name:      "dispatch_total",
			Help:      "Total structured action dispatches by action and outcome",
		}, []string{"action", "outcome"}),
		outboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bellavida",
			Subsystem: "conversation",
			Name:      "outbound_chunks_total",
			Help:      "Total outbound reply chunks by delivery status",
		}, []string{"status"}),
		webhookLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bellavida",
			Subsystem: "conversation",
			Name:      "webhook_latency_seconds",
			Help:      "Latency of downstream action webhook calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"action"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.dispatchTotal, m.outboundTotal, m.webhookLatency)
	return m
}

func (m *ConversationMetrics) ObserveInbound(outcome string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(outcome).Inc()
}

func (m *ConversationMetrics) ObserveDispatch(action, outcome string) {
	if m == nil {
		return
	}
	m.dispatchTotal.WithLabelValues(action, outcome).Inc()
}

func (m *ConversationMetrics) ObserveOutboundChunk(status string) {
	if m == nil {
		return
	}
	m.outboundTotal.WithLabelValues(status).Inc()
}

func (m *ConversationMetrics) ObserveWebhookLatency(action string, seconds float64) {
	if m == nil {
		return
	}
	m.webhookLatency.WithLabelValues(action).Observe(seconds)
}
