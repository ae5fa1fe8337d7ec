package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"collab-docs-be/internal/collab"
	"collab-docs-be/internal/pkg/logger"
)

const fanoutChannel = "collab_events"

// Hub tracks the open editor connections grouped into rooms, one room
// per document. Updates made in a room are routed through the
// document's collab session and fanned out to the other participants,
// with Redis pub/sub carrying them across instances.
type Hub struct {
	// Room map: DocumentID -> participants on this instance
	rooms map[uuid.UUID][]*Client

	mu sync.RWMutex

	// Redis connection for cross-instance fanout
	rdb *redis.Client

	// instanceID lets the subscriber skip payloads this instance
	// published itself.
	instanceID string

	sessions *collab.Manager

	logger logger.ILogger
}

// fanoutPayload is the envelope published on the Redis channel.
type fanoutPayload struct {
	DocumentID string          `json:"document_id"`
	InstanceID string          `json:"instance_id"`
	Content    json.RawMessage `json:"content"`
}

// updateMessage is the frame exchanged with editor clients.
type updateMessage struct {
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content,omitempty"`
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

// AttachSessions wires the session registry in after construction. The
// manager needs the hub as its broadcaster, so the two cannot be built
// in one step.
func (h *Hub) AttachSessions(m *collab.Manager) {
	h.sessions = m
}

// Run consumes the cross-instance fanout channel. It blocks until the
// Redis subscription ends and is a no-op without Redis.
func (h *Hub) Run() {
	if h.rdb == nil {
		return
	}

	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, fanoutChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload fanoutPayload
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("Hub", "Dropping malformed fanout payload", map[string]interface{}{"error": err.Error()})
			continue
		}
		if payload.InstanceID == h.instanceID {
			continue
		}

		docID, err := uuid.Parse(payload.DocumentID)
		if err != nil {
			continue
		}

		// Sessions only exist for documents open on this instance.
		if s := h.sessions.Lookup(docID); s != nil {
			s.ApplyRemote(string(payload.Content))
			h.deliverLocal(docID, payload.Content, "")
		}
	}
}

// Join adds the client to its document's room, loading the collab
// session on the first participant.
func (h *Hub) Join(ctx context.Context, client *Client) error {
	session, err := h.sessions.Acquire(ctx, client.DocumentID)
	if err != nil {
		return err
	}
	client.session = session

	h.mu.Lock()
	h.rooms[client.DocumentID] = append(h.rooms[client.DocumentID], client)
	h.mu.Unlock()

	h.logger.Info("Hub", "Client joined document room", map[string]interface{}{
		"document_id": client.DocumentID,
		"user_id":     client.UserID,
	})
	return nil
}

// Leave removes the client from its room. The last participant's leave
// flushes and discards the session.
func (h *Hub) Leave(client *Client) {
	h.mu.Lock()
	participants, ok := h.rooms[client.DocumentID]
	if !ok {
		h.mu.Unlock()
		return
	}
	found := false
	for i, c := range participants {
		if c == client {
			h.rooms[client.DocumentID] = append(participants[:i], participants[i+1:]...)
			found = true
			break
		}
	}
	if len(h.rooms[client.DocumentID]) == 0 {
		delete(h.rooms, client.DocumentID)
	}
	h.mu.Unlock()

	if !found {
		return
	}
	client.signalClose()
	h.sessions.Release(client.DocumentID)
	h.logger.Info("Hub", "Client left document room", map[string]interface{}{
		"document_id": client.DocumentID,
		"user_id":     client.UserID,
	})
}

// Emit implements collab.Broadcaster: deliver to the room's local
// participants except the origin, then publish for other instances.
func (h *Hub) Emit(documentID uuid.UUID, payload string, origin string) {
	h.deliverLocal(documentID, json.RawMessage(payload), origin)

	if h.rdb == nil {
		return
	}
	envelope, err := json.Marshal(fanoutPayload{
		DocumentID: documentID.String(),
		InstanceID: h.instanceID,
		Content:    json.RawMessage(payload),
	})
	if err != nil {
		return
	}
	if err := h.rdb.Publish(context.Background(), fanoutChannel, envelope).Err(); err != nil {
		h.logger.Warn("Hub", "Redis fanout publish failed", map[string]interface{}{
			"document_id": documentID,
			"error":       err.Error(),
		})
	}
}

func (h *Hub) deliverLocal(documentID uuid.UUID, content json.RawMessage, origin string) {
	frame, err := json.Marshal(updateMessage{Type: "update", Content: content})
	if err != nil {
		return
	}
	h.deliverRaw(documentID, frame, origin)
}

func (h *Hub) deliverRaw(documentID uuid.UUID, frame []byte, origin string) {
	h.mu.RLock()
	participants := make([]*Client, 0, len(h.rooms[documentID]))
	for _, c := range h.rooms[documentID] {
		if c.ID != origin {
			participants = append(participants, c)
		}
	}
	h.mu.RUnlock()

	for _, client := range participants {
		select {
		case client.Send <- frame:
		default:
			// Updates carry the whole document, so a dropped frame is
			// superseded by the next one. No need to kill the client.
			h.logger.Warn("Hub", "Client send buffer full, dropping frame", map[string]interface{}{
				"document_id": documentID,
				"user_id":     client.UserID,
			})
		}
	}
}
