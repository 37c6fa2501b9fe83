package ws

import (
	"sync"

	"go.uber.org/zap"

	"github.com/quizarena/trivia-backend/internal/types"
)

// outboxSize bounds how far a client may fall behind before being dropped.
const outboxSize = 16

type client struct {
	id     string
	outbox chan types.ServerMessage
	once   sync.Once
}

func (c *client) closeOutbox() {
	c.once.Do(func() { close(c.outbox) })
}

// Hub tracks connected clients and their room groups and implements the
// core's Broadcaster. Sends never block: a client whose outbox is full is
// disconnected rather than allowed to stall a room.
type Hub struct {
	log *zap.Logger

	mu      sync.Mutex
	clients map[string]*client
	groups  map[string]map[string]*client // roomID -> clientID -> client
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		log:     log,
		clients: make(map[string]*client),
		groups:  make(map[string]map[string]*client),
	}
}

func (h *Hub) register(id string) *client {
	c := &client{id: id, outbox: make(chan types.ServerMessage, outboxSize)}
	h.mu.Lock()
	h.clients[id] = c
	h.mu.Unlock()
	return c
}

func (h *Hub) unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[id]
	if !ok {
		return
	}
	delete(h.clients, id)
	for _, group := range h.groups {
		delete(group, id)
	}
	c.closeOutbox()
}

func (h *Hub) Subscribe(playerID, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[playerID]
	if !ok {
		return
	}
	group, ok := h.groups[roomID]
	if !ok {
		group = make(map[string]*client)
		h.groups[roomID] = group
	}
	group[playerID] = c
}

func (h *Hub) Unsubscribe(playerID, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if group, ok := h.groups[roomID]; ok {
		delete(group, playerID)
		if len(group) == 0 {
			delete(h.groups, roomID)
		}
	}
}

func (h *Hub) ToAll(event string, payload any) {
	msg := types.ServerMessage{Event: event, Data: payload}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		h.sendLocked(c, msg)
	}
}

func (h *Hub) ToRoom(roomID, event string, payload any) {
	msg := types.ServerMessage{Event: event, Data: payload}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.groups[roomID] {
		h.sendLocked(c, msg)
	}
}

func (h *Hub) ToPlayer(playerID, event string, payload any) {
	msg := types.ServerMessage{Event: event, Data: payload}
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[playerID]; ok {
		h.sendLocked(c, msg)
	}
}

func (h *Hub) sendLocked(c *client, msg types.ServerMessage) {
	select {
	case c.outbox <- msg:
	default:
		// Client is slow/full - drop them.
		h.log.Warn("dropping slow client", zap.String("client", c.id))
		delete(h.clients, c.id)
		for _, group := range h.groups {
			delete(group, c.id)
		}
		c.closeOutbox()
	}
}
