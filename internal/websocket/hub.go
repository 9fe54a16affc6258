package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"physio-notes-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ClusterChannel is the redis channel instances use to reach clients
// connected elsewhere.
const ClusterChannel = "session_events"

type clusterMessage struct {
	Origin       string          `json:"origin"`
	TargetUserID string          `json:"target_user_id"`
	Message      json.RawMessage `json:"message"`
}

// Hub tracks websocket clients per user (one user may have several tabs or
// devices open).
type Hub struct {
	clients map[uuid.UUID][]*client

	register   chan *client
	unregister chan *client

	mu sync.RWMutex

	// rdb is nil for single-instance deployments.
	rdb *redis.Client

	// instanceID keeps an instance from re-delivering its own redis messages.
	instanceID string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *client),
		unregister: make(chan *client),
		clients:    make(map[uuid.UUID][]*client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.userID] = append(h.clients[c.userID], c)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": c.userID.String()})

		case c := <-h.unregister:
			h.mu.Lock()
			conns := h.clients[c.userID]
			for i, other := range conns {
				if other == c {
					h.clients[c.userID] = append(conns[:i], conns[i+1:]...)
					close(c.send)
					break
				}
			}
			if len(h.clients[c.userID]) == 0 {
				delete(h.clients, c.userID)
				h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"user_id": c.userID.String()})
			}
			h.mu.Unlock()
		}
	}
}

// ConnectedClients returns the number of local connections for a user.
func (h *Hub) ConnectedClients(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Encode builds the {type, data} frame clients receive.
func Encode(msgType string, data interface{}) ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"type": msgType,
		"data": data,
	})
}

// Send delivers {type, data} to every connection of the user, locally and
// through redis on other instances.
func (h *Hub) Send(userID uuid.UUID, msgType string, data interface{}) {
	message, err := Encode(msgType, data)
	if err != nil {
		h.logger.Error("Hub", "Failed to marshal message", map[string]interface{}{"type": msgType, "error": err.Error()})
		return
	}

	h.deliverLocal(userID, message)

	if h.rdb != nil {
		payload, _ := json.Marshal(clusterMessage{
			Origin:       h.instanceID,
			TargetUserID: userID.String(),
			Message:      message,
		})
		if err := h.rdb.Publish(context.Background(), ClusterChannel, payload).Err(); err != nil {
			h.logger.Warn("Hub", "Redis publish failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (h *Hub) deliverLocal(userID uuid.UUID, message []byte) {
	h.mu.RLock()
	conns := make([]*client, len(h.clients[userID]))
	copy(conns, h.clients[userID])
	h.mu.RUnlock()

	for _, c := range conns {
		select {
		case c.send <- message:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"user_id": userID.String()})
			go func(c *client) { h.unregister <- c }(c)
		}
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, ClusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload clusterMessage
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("Hub", "Redis message parse error", map[string]interface{}{"error": err.Error()})
			continue
		}
		if payload.Origin == h.instanceID {
			continue
		}

		uid, err := uuid.Parse(payload.TargetUserID)
		if err != nil {
			continue
		}
		h.deliverLocal(uid, payload.Message)
	}
}
