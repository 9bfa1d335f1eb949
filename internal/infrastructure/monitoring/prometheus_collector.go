package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusCollector struct {
	connectionsActive prometheus.Gauge
	connectionsTotal  prometheus.Counter

	eventsInbound prometheus.CounterVec
	eventsDropped prometheus.CounterVec
	eventsFanout  prometheus.Counter

	messagesRelayed prometheus.Counter
	uploadBytes     prometheus.Counter
}

func NewPrometheusCollector() *PrometheusCollector {
	return &PrometheusCollector{
		connectionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "togetherwatch_connections_active",
			Help: "Number of currently open room session connections",
		}),

		connectionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "togetherwatch_connections_total",
			Help: "Total number of room session connections accepted",
		}),

		eventsInbound: *promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "togetherwatch_events_inbound_total",
			Help: "Inbound room session events by type",
		}, []string{"type"}),

		eventsDropped: *promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "togetherwatch_events_dropped_total",
			Help: "Inbound events dropped before dispatch, by reason",
		}, []string{"reason"}),

		eventsFanout: promauto.NewCounter(prometheus.CounterOpts{
			Name: "togetherwatch_events_delivered_total",
			Help: "Outbound event deliveries (one per recipient connection)",
		}),

		messagesRelayed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "togetherwatch_chat_messages_total",
			Help: "Chat messages relayed",
		}),

		uploadBytes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "togetherwatch_upload_bytes_total",
			Help: "Total bytes of uploaded video accepted",
		}),
	}
}

func (p *PrometheusCollector) RecordConnectionOpened() {
	p.connectionsActive.Inc()
	p.connectionsTotal.Inc()
}

func (p *PrometheusCollector) RecordConnectionClosed() {
	p.connectionsActive.Dec()
}

func (p *PrometheusCollector) RecordInboundEvent(eventType string) {
	p.eventsInbound.WithLabelValues(eventType).Inc()
	if eventType == "send_message" {
		p.messagesRelayed.Inc()
	}
}

func (p *PrometheusCollector) RecordDroppedEvent(reason string) {
	p.eventsDropped.WithLabelValues(reason).Inc()
}

func (p *PrometheusCollector) RecordDeliveries(count int) {
	p.eventsFanout.Add(float64(count))
}

func (p *PrometheusCollector) RecordUploadBytes(n int64) {
	p.uploadBytes.Add(float64(n))
}
