package room

import "context"

// Event names pushed to sessions subscribed to a room channel.
const (
	EventRoomCreated       = "roomCreated"
	EventRoomStatusUpdated = "roomStatusUpdated"
	EventNewQRCode         = "newQRCode"
	EventUpdateAttendees   = "updateAttendees"
	EventRoomDeleted       = "roomDeleted"
)

// Broadcaster fans an event out to every session subscribed to a room.
type Broadcaster interface {
	Broadcast(roomID, event string, data any)
}

// StatusStore mirrors in-memory room status changes to durable storage.
type StatusStore interface {
	PersistRoomStatus(ctx context.Context, roomID string, isOpen bool) error
}
