package gateway

import (
	"encoding/json"
	"sync"

	"togetherwatch/internal/core/domain"
	"togetherwatch/internal/infrastructure/monitoring"

	"go.uber.org/zap"
)

// Hub owns the set of live connections and is the delivery primitive
// the sync services broadcast through. It implements ports.EventSink.
type Hub struct {
	clients map[domain.ConnID]*client
	mu      sync.RWMutex

	collector *monitoring.PrometheusCollector
	logger    *zap.SugaredLogger
}

func NewHub(collector *monitoring.PrometheusCollector, logger *zap.SugaredLogger) *Hub {
	return &Hub{
		clients:   make(map[domain.ConnID]*client),
		collector: collector,
		logger:    logger,
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
}

func (h *Hub) unregister(connID domain.ConnID) {
	h.mu.Lock()
	delete(h.clients, connID)
	h.mu.Unlock()
}

// Deliver marshals the event once and queues it on each recipient's
// send channel. Recipients whose channel is full are skipped; the
// relay is fire-and-forget and never blocks on a slow reader.
//
// The exclusive lock makes each fan-out atomic: concurrent Deliver
// calls are serialized, so every recipient of two broadcasts sees them
// in the same order.
func (h *Hub) Deliver(event domain.Event, recipients []domain.ConnID) {
	if len(recipients) == 0 {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Errorw("failed to marshal outbound event", "type", event.Type, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for _, id := range recipients {
		c, online := h.clients[id]
		if !online {
			continue
		}
		if c.enqueue(data) {
			delivered++
		} else {
			h.logger.Warnw("send buffer full, dropping event for connection",
				"conn_id", id,
				"type", event.Type,
			)
		}
	}

	if h.collector != nil {
		h.collector.RecordDeliveries(delivered)
	}
}

// ConnectionCount reports the number of open connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
