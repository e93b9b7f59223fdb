// Package hub fans room events out to every websocket session subscribed to
// a room channel.
package hub

import (
	"encoding/json"
	"errors"
	"log"
	"sync"
)

var ErrSessionBusy = errors.New("session send buffer full")

// Frame is the shape of every server-pushed broadcast.
type Frame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub tracks which sessions subscribe to which room channels.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Session]struct{}
}

// New creates an empty hub.
func New() *Hub {
	return &Hub{rooms: make(map[string]map[*Session]struct{})}
}

// Join subscribes a session to a room channel.
func (h *Hub) Join(roomID string, s *Session) {
	if s == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[roomID]
	if !ok {
		members = make(map[*Session]struct{})
		h.rooms[roomID] = members
	}
	members[s] = struct{}{}
}

// Remove drops a session from every room channel, typically on disconnect.
func (h *Hub) Remove(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for roomID, members := range h.rooms {
		delete(members, s)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// DropRoom releases a room channel and its membership after the room is gone.
// Sessions stay connected; they just stop receiving events for that id.
func (h *Hub) DropRoom(roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms, roomID)
}

// Broadcast pushes an event frame to every session in the room channel.
func (h *Hub) Broadcast(roomID, event string, data any) {
	payload, err := json.Marshal(Frame{Event: event, Data: data})
	if err != nil {
		log.Printf("marshal %s broadcast for room %s failed: %v", event, roomID, err)
		return
	}

	h.mu.RLock()
	members := make([]*Session, 0, len(h.rooms[roomID]))
	for s := range h.rooms[roomID] {
		members = append(members, s)
	}
	h.mu.RUnlock()

	for _, s := range members {
		if !s.Send(payload) {
			log.Printf("dropping %s event for a slow session in room %s", event, roomID)
		}
	}
}
