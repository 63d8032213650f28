package conversation

import (
	"context"
	"encoding/json"
	"expvar"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// EventType for WebSocket messages
type EventType string

const (
	EventMessageCreated EventType = "message.created"
	EventTyping         EventType = "typing"
)

// Redis keys
const (
	presenceKeyPrefix = "ws:presence:"
	userEventsChannel = "ws:user_events"
	presenceTTL       = 5 * time.Minute
)

var (
	wsConnectionsGauge   = expvar.NewInt("websocket_connections")
	wsEventsSentTotal    = expvar.NewInt("websocket_events_sent_total")
	wsEventsDroppedTotal = expvar.NewInt("websocket_events_dropped_total")
)

// Event is pushed to connected clients
type Event struct {
	Type           EventType        `json:"type"`
	ConversationID uuid.UUID        `json:"conversationId"`
	SenderID       *uuid.UUID       `json:"senderId,omitempty"`
	Message        *MessageResponse `json:"message,omitempty"`
}

type userEventMessage struct {
	UserID           string          `json:"user_id"`
	Payload          json.RawMessage `json:"payload"`
	SenderInstanceID string          `json:"sender_instance_id"`
}

// Connection represents a WebSocket connection
type Connection struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
	Send   chan []byte
}

// Hub keeps this instance's WebSocket connections and fans events out to
// other instances through Redis Pub/Sub.
type Hub struct {
	connections map[uuid.UUID]map[*Connection]bool
	mu          sync.RWMutex

	redis  *redis.Client
	pubsub *redis.PubSub

	register   chan *Connection
	unregister chan *Connection

	ctx    context.Context
	cancel context.CancelFunc

	instanceID string
}

// NewHub creates a hub. A nil Redis client keeps delivery local.
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	h := &Hub{
		connections: make(map[uuid.UUID]map[*Connection]bool),
		redis:       redisClient,
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		ctx:         ctx,
		cancel:      cancel,
		instanceID:  uuid.NewString(),
	}

	if redisClient != nil {
		h.pubsub = redisClient.Subscribe(ctx, userEventsChannel)
	}

	return h
}

// Run starts the hub (call in goroutine)
func (h *Hub) Run() {
	if h.pubsub != nil {
		go h.runRedisSubscriber()
	}

	for {
		select {
		case <-h.ctx.Done():
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.connections[conn.UserID] == nil {
				h.connections[conn.UserID] = make(map[*Connection]bool)
			}
			h.connections[conn.UserID][conn] = true
			h.mu.Unlock()
			wsConnectionsGauge.Add(1)

			h.setPresence(conn.UserID, true)
			log.Debug().Str("user_id", conn.UserID.String()).Msg("User connected to WebSocket")

		case conn := <-h.unregister:
			offline := false
			h.mu.Lock()
			if conns, ok := h.connections[conn.UserID]; ok {
				if _, exists := conns[conn]; exists {
					delete(conns, conn)
					close(conn.Send)
					wsConnectionsGauge.Add(-1)
				}
				if len(conns) == 0 {
					delete(h.connections, conn.UserID)
					offline = true
				}
			}
			h.mu.Unlock()

			if offline {
				h.setPresence(conn.UserID, false)
			}
			log.Debug().Str("user_id", conn.UserID.String()).Msg("User disconnected from WebSocket")
		}
	}
}

func (h *Hub) runRedisSubscriber() {
	ch := h.pubsub.Channel()

	for {
		select {
		case <-h.ctx.Done():
			return

		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.handleUserEventPayload(msg.Payload)
		}
	}
}

func (h *Hub) handleUserEventPayload(payload string) {
	var event userEventMessage
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return
	}
	if event.SenderInstanceID == h.instanceID {
		return
	}
	userID, err := uuid.Parse(event.UserID)
	if err != nil {
		return
	}
	h.sendLocal(userID, event.Payload)
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.ctx.Done():
	}
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.ctx.Done():
	}
}

// SendToUser delivers payload to every connection of userID on any instance
func (h *Hub) SendToUser(userID uuid.UUID, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	h.sendLocal(userID, data)
	return h.publish(userID, data)
}

func (h *Hub) sendLocal(userID uuid.UUID, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.connections[userID] {
		select {
		case conn.Send <- data:
			wsEventsSentTotal.Add(1)
		default:
			// Buffer full
			wsEventsDroppedTotal.Add(1)
			log.Warn().Str("user_id", userID.String()).Msg("WebSocket send buffer full")
		}
	}
}

func (h *Hub) publish(userID uuid.UUID, data []byte) error {
	if h.redis == nil {
		return nil
	}

	payload, err := json.Marshal(userEventMessage{
		UserID:           userID.String(),
		Payload:          data,
		SenderInstanceID: h.instanceID,
	})
	if err != nil {
		return err
	}
	return h.redis.Publish(h.ctx, userEventsChannel, payload).Err()
}

// Presence is a sorted set per user: one member per instance holding a
// connection, scored by the unix time the member expires.
func presenceKey(userID uuid.UUID) string {
	return presenceKeyPrefix + userID.String()
}

func (h *Hub) setPresence(userID uuid.UUID, online bool) {
	if h.redis == nil {
		return
	}

	key := presenceKey(userID)
	var err error
	if online {
		err = h.touchPresence(key)
	} else {
		err = h.redis.ZRem(h.ctx, key, h.instanceID).Err()
	}
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Bool("online", online).Msg("Failed to update presence")
	}
}

func (h *Hub) touchPresence(key string) error {
	expires := float64(time.Now().Add(presenceTTL).Unix())
	_, err := h.redis.TxPipelined(h.ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(h.ctx, key, redis.Z{Score: expires, Member: h.instanceID})
		pipe.Expire(h.ctx, key, presenceTTL)
		return nil
	})
	return err
}

// IsOnline checks if user is online (across all servers)
func (h *Hub) IsOnline(ctx context.Context, userID uuid.UUID) bool {
	h.mu.RLock()
	local := len(h.connections[userID]) > 0
	h.mu.RUnlock()
	if local || h.redis == nil {
		return local
	}

	now := strconv.FormatInt(time.Now().Unix(), 10)
	n, err := h.redis.ZCount(ctx, presenceKey(userID), "("+now, "+inf").Result()
	return err == nil && n > 0
}

// RefreshPresence extends this instance's presence entry while a connection is alive
func (h *Hub) RefreshPresence(userID uuid.UUID) {
	if h.redis == nil {
		return
	}
	if err := h.touchPresence(presenceKey(userID)); err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("Failed to refresh presence")
	}
}

// ConnectionCount returns number of local connections
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, conns := range h.connections {
		total += len(conns)
	}
	return total
}

// Shutdown gracefully shuts down the hub
func (h *Hub) Shutdown() {
	h.cancel()
	if h.pubsub != nil {
		h.pubsub.Close()
	}
}
