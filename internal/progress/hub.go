package progress

import (
	"sync"

	"github.com/rs/zerolog/log"
)

type Hub struct {
	clients    map[*Client]bool
	byUser     map[string][]*Client // userId -> clients
	bySession  map[string][]*Client // sessionId -> subscribers
	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcastMessage
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		byUser:     make(map[string][]*Client),
		bySession:  make(map[string][]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *broadcastMessage, 256),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastToSession(message)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	h.byUser[client.user.ID] = append(h.byUser[client.user.ID], client)

	log.Info().
		Str("userId", client.user.ID).
		Int("totalClients", len(h.clients)).
		Msg("[WS] Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}

	delete(h.clients, client)
	close(client.send)

	userClients := h.byUser[client.user.ID]
	for i, c := range userClients {
		if c == client {
			h.byUser[client.user.ID] = append(userClients[:i], userClients[i+1:]...)
			break
		}
	}
	if len(h.byUser[client.user.ID]) == 0 {
		delete(h.byUser, client.user.ID)
	}

	for sessionID := range client.subscriptions {
		h.removeFromSessionSubscribers(client, sessionID)
	}

	log.Info().
		Str("userId", client.user.ID).
		Int("totalClients", len(h.clients)).
		Msg("[WS] Client unregistered")
}

func (h *Hub) removeFromSessionSubscribers(client *Client, sessionID string) {
	sessionClients := h.bySession[sessionID]
	for i, c := range sessionClients {
		if c == client {
			h.bySession[sessionID] = append(sessionClients[:i], sessionClients[i+1:]...)
			break
		}
	}
	if len(h.bySession[sessionID]) == 0 {
		delete(h.bySession, sessionID)
	}
}

func (h *Hub) Subscribe(client *Client, sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, c := range h.bySession[sessionID] {
		if c == client {
			return
		}
	}

	h.bySession[sessionID] = append(h.bySession[sessionID], client)

	log.Debug().
		Str("sessionId", sessionID).
		Int("subscribers", len(h.bySession[sessionID])).
		Msg("[WS] Session subscription added")
}

func (h *Hub) Unsubscribe(client *Client, sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeFromSessionSubscribers(client, sessionID)

	log.Debug().
		Str("sessionId", sessionID).
		Int("subscribers", len(h.bySession[sessionID])).
		Msg("[WS] Session subscription removed")
}

func (h *Hub) broadcastToSession(msg *broadcastMessage) {
	h.mu.RLock()
	clients := make([]*Client, len(h.bySession[msg.event.SessionID]))
	copy(clients, h.bySession[msg.event.SessionID])
	h.mu.RUnlock()

	if len(clients) == 0 {
		return
	}

	progressMsg := &ProgressMessage{
		Type:  MessageTypeProgress,
		Event: msg.event,
	}

	for _, client := range clients {
		// Sessions are private, only the uploader's own clients see them
		if client.user.ID != msg.ownerID {
			continue
		}

		select {
		case client.send <- progressMsg:
		default:
			log.Warn().
				Str("userId", client.user.ID).
				Str("sessionId", msg.event.SessionID).
				Msg("[WS] Client send buffer full, dropping message")
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) publish(ownerID string, ev *Event) {
	select {
	case h.broadcast <- &broadcastMessage{ownerID: ownerID, event: ev}:
	default:
		log.Warn().
			Str("sessionId", ev.SessionID).
			Msg("[WS] Broadcast buffer full, dropping event")
	}
}

// ChunkReceived, UploadCompleted and UploadFailed let the upload
// pipeline report progress without depending on the transport.

func (h *Hub) ChunkReceived(ownerID, sessionID string, chunkIndex, chunkSize int) {
	h.publish(ownerID, &Event{
		Type:       EventChunkReceived,
		SessionID:  sessionID,
		ChunkIndex: chunkIndex,
		ChunkSize:  chunkSize,
	})
}

func (h *Hub) UploadCompleted(ownerID, sessionID, recordingID string) {
	h.publish(ownerID, &Event{
		Type:        EventUploadCompleted,
		SessionID:   sessionID,
		RecordingID: recordingID,
	})
}

func (h *Hub) UploadFailed(ownerID, sessionID, errorCode string) {
	h.publish(ownerID, &Event{
		Type:      EventUploadFailed,
		SessionID: sessionID,
		ErrorCode: errorCode,
	})
}

func (h *Hub) GetStats() (totalClients, totalSubscriptions int) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	totalClients = len(h.clients)
	for _, clients := range h.bySession {
		totalSubscriptions += len(clients)
	}
	return
}
