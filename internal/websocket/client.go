package websocket

import (
	"encoding/json"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Inbound frames are only small control messages.
	maxInboundSize = 512
	sendBuffer     = 64
)

// client is one websocket connection of a user.
type client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID uuid.UUID
	send   chan []byte
}

type inbound struct {
	Type string `json:"type"`
}

// ServeWs registers the connection with the hub and blocks until the peer
// disconnects. initial, when non-nil, is queued before any hub message.
func ServeWs(hub *Hub, conn *websocket.Conn, userID uuid.UUID, initial []byte) {
	c := &client{hub: hub, conn: conn, userID: userID, send: make(chan []byte, sendBuffer)}
	if initial != nil {
		c.send <- initial
	}
	hub.register <- c

	go c.writeLoop()
	c.readLoop()
}

// readLoop watches for the peer going away and answers {"type":"ping"}
// application pings, which browsers use since they cannot send control
// frames.
func (c *client) readLoop() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxInboundSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("Client", "Unexpected websocket close", map[string]interface{}{
					"user_id": c.userID.String(),
					"error":   err.Error(),
				})
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))

		var msg inbound
		if json.Unmarshal(data, &msg) != nil || msg.Type != "ping" {
			continue
		}
		if pong, err := Encode("pong", nil); err == nil {
			select {
			case c.send <- pong:
			default:
			}
		}
	}
}

// writeLoop sends one frame per message; clients parse each frame as a JSON
// object.
func (c *client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
