package room

import (
	"context"
	"log"
	"time"
)

// scheduleAutoClose arms the hard deadline for a freshly created room. When
// it fires and the room is still open, the room is removed silently: no
// roomDeleted broadcast goes out on timeout, only on explicit deletion.
func (g *Registry) scheduleAutoClose(r *Room) {
	r.mu.Lock()
	r.closeTimer = time.AfterFunc(g.autoClose, func() { g.expire(r) })
	r.mu.Unlock()
}

func (g *Registry) expire(r *Room) {
	if !r.IsOpen() {
		return
	}

	g.mu.Lock()
	// The id may have been reused by CreateOrReplace; only remove the exact
	// room this timer was armed for.
	if g.rooms[r.id] == r {
		delete(g.rooms, r.id)
	} else {
		g.mu.Unlock()
		return
	}
	g.mu.Unlock()

	r.stopRotation()
	log.Printf("room %s auto-closed after %s", r.id, g.autoClose)
}

// startRotation launches the repeating token rotation for an open room. Each
// tick issues a fresh token, stores it and broadcasts it as a newQRCode
// event. The goroutine stops when the room closes or is deleted.
func (g *Registry) startRotation(r *Room) {
	ctx, cancel := context.WithCancel(context.Background())

	r.mu.Lock()
	if r.rotateCancel != nil {
		r.rotateCancel()
	}
	r.rotateCancel = cancel
	ttl := r.tokenTTL
	r.mu.Unlock()

	go func() {
		ticker := time.NewTicker(ttl)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				g.rotate(r)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// rotate issues one token and pushes it to the room channel.
func (g *Registry) rotate(r *Room) {
	tok, issuedAt, err := g.codec.Issue(r.id, r.classID, r.TTL())
	if err != nil {
		log.Printf("token issue for room %s failed: %v", r.id, err)
		return
	}

	// A tick already in flight when the room is replaced or deleted must not
	// publish; only the registry's current room for the id may broadcast.
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.rooms[r.id] != r {
		return
	}
	r.setToken(tok, issuedAt)
	g.hub.Broadcast(r.id, EventNewQRCode, r.Snapshot())
}

func (r *Room) stopRotation() {
	r.mu.Lock()
	cancel := r.rotateCancel
	r.rotateCancel = nil
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// stopLifecycle cancels rotation and the auto-close deadline together, so a
// deleted or replaced room can never be touched by a stale timer.
func (r *Room) stopLifecycle() {
	r.stopRotation()
	r.mu.Lock()
	timer := r.closeTimer
	r.closeTimer = nil
	r.mu.Unlock()
	if timer != nil {
		timer.Stop()
	}
}
