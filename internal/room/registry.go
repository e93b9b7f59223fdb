package room

import (
	"context"
	"log"
	"sync"
	"time"
)

// tokenIssuer is the slice of the token codec the registry needs.
type tokenIssuer interface {
	Issue(roomID, classID string, ttl time.Duration) (string, time.Time, error)
}

// Registry owns the set of live rooms for the process lifetime. It is the
// single source of truth for room state; nothing else holds a Room reference
// longer than a single operation.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	codec     tokenIssuer
	hub       Broadcaster
	status    StatusStore // optional, nil disables the durable mirror
	autoClose time.Duration
}

// CreateParams are the caller-supplied fields for a new room.
type CreateParams struct {
	ID        string
	ClassID   string
	SecretKey string
	TokenTTL  time.Duration
	Location  Location
	Attendees []Attendee
}

// NewRegistry creates an empty registry. autoClose is the hard deadline after
// which a still-open room is removed.
func NewRegistry(codec tokenIssuer, hub Broadcaster, status StatusStore, autoClose time.Duration) *Registry {
	if autoClose <= 0 {
		autoClose = time.Hour
	}
	return &Registry{
		rooms:     make(map[string]*Room),
		codec:     codec,
		hub:       hub,
		status:    status,
		autoClose: autoClose,
	}
}

// CreateOrReplace creates a room in the closed state. When a room with the
// same id already exists its full state is overwritten and its timers
// cancelled; prior attendees, token and open state are discarded. A join
// resetting an active session this way looks unintended, but it is the
// established behavior and callers depend on getting a fresh room back.
func (g *Registry) CreateOrReplace(p CreateParams) *Room {
	r := &Room{
		id:        p.ID,
		classID:   p.ClassID,
		secretKey: p.SecretKey,
		tokenTTL:  p.TokenTTL,
		location:  p.Location,
		attendees: append([]Attendee(nil), p.Attendees...),
	}

	g.mu.Lock()
	// Cancel the old room's timers before the replacement becomes visible,
	// so a rotation tick cannot publish the discarded state under this id.
	if prev, ok := g.rooms[p.ID]; ok {
		prev.stopLifecycle()
	}
	g.rooms[p.ID] = r
	g.mu.Unlock()

	g.scheduleAutoClose(r)
	return r
}

// Get returns the live room with the given id.
func (g *Registry) Get(id string) (*Room, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.rooms[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

// UpdateStatus opens or closes a room after checking the owner's secret key.
// Opening issues a token immediately and starts rotation; closing cancels
// rotation. The change is broadcast and mirrored to durable storage
// best-effort.
func (g *Registry) UpdateStatus(ctx context.Context, id string, isOpen bool, secretKey string) (*Room, error) {
	r, err := g.Get(id)
	if err != nil {
		return nil, err
	}
	if !r.VerifySecret(secretKey) {
		return nil, ErrUnauthorized
	}

	r.setOpen(isOpen)
	if isOpen {
		g.rotate(r)
		g.startRotation(r)
	} else {
		r.stopRotation()
	}

	g.hub.Broadcast(id, EventRoomStatusUpdated, r.Snapshot())

	if g.status != nil {
		if err := g.status.PersistRoomStatus(ctx, id, isOpen); err != nil {
			log.Printf("persist status for room %s failed: %v", id, err)
		}
	}
	return r, nil
}

// Delete removes a room after checking the owner's secret key, cancels its
// timers and notifies subscribers.
func (g *Registry) Delete(id, secretKey string) error {
	g.mu.Lock()
	r, ok := g.rooms[id]
	if !ok {
		g.mu.Unlock()
		return ErrNotFound
	}
	if !r.VerifySecret(secretKey) {
		g.mu.Unlock()
		return ErrUnauthorized
	}
	delete(g.rooms, id)
	g.mu.Unlock()

	r.stopLifecycle()
	g.hub.Broadcast(id, EventRoomDeleted, id)
	return nil
}

// Close tears the registry down, cancelling every room's timers.
func (g *Registry) Close() {
	g.mu.Lock()
	rooms := make([]*Room, 0, len(g.rooms))
	for _, r := range g.rooms {
		rooms = append(rooms, r)
	}
	g.rooms = make(map[string]*Room)
	g.mu.Unlock()

	for _, r := range rooms {
		r.stopLifecycle()
	}
}
