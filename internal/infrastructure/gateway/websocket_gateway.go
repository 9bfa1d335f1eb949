package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"togetherwatch/internal/core/domain"
	"togetherwatch/internal/core/ports"
	"togetherwatch/internal/infrastructure/monitoring"
	"togetherwatch/pkg/config"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Should be configured properly for production
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// wireMessage is the inbound wire envelope.
type wireMessage struct {
	Type    domain.EventType `json:"type"`
	Payload json.RawMessage  `json:"payload"`
}

// Drop reasons recorded on the events_dropped metric.
const (
	dropMalformed   = "malformed"
	dropUnbound     = "unbound"
	dropUnknownType = "unknown_type"
	dropRateLimited = "rate_limited"
)

// Gateway is the single entry point for room session connections. It
// owns the connection lifecycle and routes each inbound event to the
// matching component; it performs no business logic beyond that.
type Gateway struct {
	hub      *Hub
	presence ports.PresenceService
	playback ports.PlaybackService
	chat     ports.ChatService

	cfg       *config.Config
	collector *monitoring.PrometheusCollector
	logger    *zap.SugaredLogger
}

func NewGateway(
	hub *Hub,
	presence ports.PresenceService,
	playback ports.PlaybackService,
	chat ports.ChatService,
	cfg *config.Config,
	collector *monitoring.PrometheusCollector,
	logger *zap.SugaredLogger,
) *Gateway {
	return &Gateway{
		hub:       hub,
		presence:  presence,
		playback:  playback,
		chat:      chat,
		cfg:       cfg,
		collector: collector,
		logger:    logger,
	}
}

func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Errorw("websocket upgrade failed", "error", err)
		return
	}

	var limiter *rate.Limiter
	if g.cfg.RateLimiting.Enabled {
		limiter = rate.NewLimiter(
			rate.Limit(g.cfg.RateLimiting.Sync.MessagesPerSecond),
			g.cfg.RateLimiting.Sync.Burst,
		)
	}

	c := newClient(domain.ConnID(uuid.New().String()), ws, g.cfg.Sync.SendBufferSize, limiter)
	g.hub.register(c)
	if g.collector != nil {
		g.collector.RecordConnectionOpened()
	}
	g.logger.Infow("connection opened", "conn_id", c.id)

	go c.writePump(g.cfg.Sync.PingInterval, g.cfg.Sync.WriteTimeout)
	g.readPump(c)
}

func (g *Gateway) readPump(c *client) {
	defer g.closeConnection(c)

	c.ws.SetReadLimit(g.cfg.Sync.MaxMessageBytes)
	c.ws.SetReadDeadline(time.Now().Add(g.cfg.Sync.PongTimeout))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(g.cfg.Sync.PongTimeout))
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				g.logger.Infow("read error", "conn_id", c.id, "error", err)
			}
			return
		}
		g.dispatch(c, data)
	}
}

// closeConnection runs the at-most-once cleanup for a closed transport:
// unregister from the hub, then the presence leave flow. A connection
// that never joined produces no room notifications.
func (g *Gateway) closeConnection(c *client) {
	c.closeOnce.Do(func() {
		g.hub.unregister(c.id)
		close(c.send)
		c.ws.Close()

		g.presence.HandleDisconnect(context.Background(), c.id)

		if g.collector != nil {
			g.collector.RecordConnectionClosed()
		}
		g.logger.Infow("connection closed", "conn_id", c.id)
	})
}

// dispatch maps one inbound event to a component operation. Malformed
// payloads and pre-join events are dropped without touching shared
// state; a drop is never surfaced to the sender.
func (g *Gateway) dispatch(c *client, data []byte) {
	if c.limiter != nil && !c.limiter.Allow() {
		g.drop(c, "", dropRateLimited, nil)
		return
	}

	var msg wireMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		g.drop(c, "", dropMalformed, err)
		return
	}

	if g.collector != nil {
		g.collector.RecordInboundEvent(string(msg.Type))
	}

	if msg.Type != domain.EventJoinRoom && !c.joined {
		g.drop(c, msg.Type, dropUnbound, nil)
		return
	}

	ctx := context.Background()

	switch msg.Type {
	case domain.EventJoinRoom:
		var p domain.JoinRoomPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil || p.RoomID == "" || p.UserID == "" || p.UserName == "" {
			g.drop(c, msg.Type, dropMalformed, err)
			return
		}
		c.joined = true
		g.presence.HandleJoin(ctx, c.id, p)

	case domain.EventSendMessage:
		var p domain.SendMessagePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil || p.RoomID == "" || p.UserID == "" {
			g.drop(c, msg.Type, dropMalformed, err)
			return
		}
		g.chat.SendMessage(ctx, c.id, p)

	case domain.EventTyping:
		var p domain.TypingPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil || p.RoomID == "" {
			g.drop(c, msg.Type, dropMalformed, err)
			return
		}
		g.chat.Typing(c.id, p)

	case domain.EventStopTyping:
		var p domain.StopTypingPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil || p.RoomID == "" {
			g.drop(c, msg.Type, dropMalformed, err)
			return
		}
		g.chat.StopTyping(c.id, p)

	case domain.EventVideoPlay, domain.EventVideoPause, domain.EventVideoSeek:
		var p domain.PlaybackPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil || p.RoomID == "" {
			g.drop(c, msg.Type, dropMalformed, err)
			return
		}
		switch msg.Type {
		case domain.EventVideoPlay:
			g.playback.Play(c.id, p)
		case domain.EventVideoPause:
			g.playback.Pause(c.id, p)
		case domain.EventVideoSeek:
			g.playback.Seek(c.id, p)
		}

	case domain.EventVideoChange:
		var p domain.VideoChangePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil || p.RoomID == "" {
			g.drop(c, msg.Type, dropMalformed, err)
			return
		}
		g.playback.ChangeVideo(c.id, p)

	default:
		g.drop(c, msg.Type, dropUnknownType, nil)
	}
}

func (g *Gateway) drop(c *client, eventType domain.EventType, reason string, err error) {
	if g.collector != nil {
		g.collector.RecordDroppedEvent(reason)
	}
	g.logger.Debugw("event dropped",
		"conn_id", c.id,
		"type", eventType,
		"reason", reason,
		"error", err,
	)
}
