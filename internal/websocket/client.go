package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"collab-docs-be/internal/collab"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Documents travel wholesale, so the limit is generous.
	maxMessageSize = 1 << 20
)

// Client is a middleman between one websocket connection and the hub.
type Client struct {
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// ID distinguishes this connection inside its room so its own
	// updates are not echoed back to it.
	ID string

	UserID     uuid.UUID
	DocumentID uuid.UUID

	// Buffered channel of outbound messages. Never closed; writePump is
	// told to stop through done so concurrent fanouts cannot hit a
	// closed channel.
	Send chan []byte

	done     chan struct{}
	session  *collab.Session
	doneOnce sync.Once
}

func (c *Client) signalClose() {
	c.doneOnce.Do(func() { close(c.done) })
}

// readPump routes frames from the connection into the collab session.
func (c *Client) readPump() {
	defer func() {
		c.Hub.Leave(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("Hub", "Unexpected connection close", map[string]interface{}{
					"document_id": c.DocumentID,
					"error":       err.Error(),
				})
			}
			break
		}
		c.handleFrame(data)
	}
}

// handleFrame dispatches one inbound frame. Frames that fail to parse
// are dropped, a bad participant must not take the room down.
func (c *Client) handleFrame(data []byte) {
	var msg updateMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.Hub.logger.Debug("Hub", "Ignoring malformed client frame", map[string]interface{}{
			"document_id": c.DocumentID,
		})
		return
	}

	switch msg.Type {
	case "update":
		c.session.ApplyLocal(string(msg.Content), c.ID)
	case "presence":
		// Join/leave announcements pass through untouched.
		c.Hub.deliverRaw(c.DocumentID, data, c.ID)
	case "save":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.session.SaveNow(ctx); err != nil {
			c.Hub.logger.Error("Hub", "Manual save failed", map[string]interface{}{
				"document_id": c.DocumentID,
				"error":       err.Error(),
			})
		}
	default:
		c.Hub.logger.Debug("Hub", "Ignoring unknown frame type", map[string]interface{}{
			"document_id": c.DocumentID,
			"type":        msg.Type,
		})
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case message := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
