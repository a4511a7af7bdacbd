package push

import (
	"time"

	"github.com/gorilla/websocket"
)

// client is one connected subscriber.
type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// writePump drains the outbound queue onto the connection.
// Runs in its own goroutine; exits when the queue is closed.
func (c *client) writePump() {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			c.hub.unregister(c)
			return
		}
	}
	// Queue closed by unregister; send a close frame as a courtesy.
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// readPump discards inbound frames. Subscribers are receive-only; reading
// is needed to observe close frames and connection drops.
func (c *client) readPump() {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			c.hub.unregister(c)
			return
		}
	}
}
