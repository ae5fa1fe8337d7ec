package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs runs one editor connection: join the document room, push the
// current document state, then pump frames until the peer goes away.
func ServeWs(hub *Hub, c *websocket.Conn, userID, documentID uuid.UUID) {
	client := &Client{
		Hub:        hub,
		Conn:       c,
		ID:         uuid.NewString(),
		UserID:     userID,
		DocumentID: documentID,
		Send:       make(chan []byte, 64),
		done:       make(chan struct{}),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err := hub.Join(ctx, client)
	cancel()
	if err != nil {
		hub.logger.Error("Hub", "Failed to open document session", map[string]interface{}{
			"document_id": documentID,
			"error":       err.Error(),
		})
		c.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "document unavailable"))
		c.Close()
		return
	}

	// Late joiners start from the live state, not the persisted one.
	if frame, err := json.Marshal(updateMessage{
		Type:    "update",
		Content: json.RawMessage(client.session.Content()),
	}); err == nil {
		client.Send <- frame
	}

	go client.writePump()
	client.readPump()
}
