package gateway

import (
	"sync"
	"time"

	"togetherwatch/internal/core/domain"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// client is one live room session connection. Its lifecycle is
// Unbound -> Bound (after join_room) -> Closed; joined is only touched
// from the read pump, so it needs no lock.
type client struct {
	id     domain.ConnID
	ws     *websocket.Conn
	send   chan []byte
	joined bool

	// nil when sync rate limiting is disabled
	limiter *rate.Limiter

	closeOnce sync.Once
}

func newClient(id domain.ConnID, ws *websocket.Conn, sendBuffer int, limiter *rate.Limiter) *client {
	return &client{
		id:      id,
		ws:      ws,
		send:    make(chan []byte, sendBuffer),
		limiter: limiter,
	}
}

// enqueue offers data to the write pump without blocking.
func (c *client) enqueue(data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// writePump drains the send channel and keeps the connection alive with
// pings. It exits when the send channel closes or a write fails.
func (c *client) writePump(pingInterval, writeTimeout time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
