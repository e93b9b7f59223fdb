// Package gateway is the protocol entry point: it upgrades websocket
// connections, decodes inbound messages, dispatches to the room registry and
// check-in processor, and encodes uniform response envelopes.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"checkin/internal/checkin"
	"checkin/internal/hub"
	"checkin/internal/room"
)

// Gateway serves the room protocol over persistent websocket connections.
type Gateway struct {
	registry   *room.Registry
	processor  *checkin.Processor
	hub        *hub.Hub
	defaultTTL time.Duration
	upgrader   websocket.Upgrader
}

// New wires the gateway. defaultTTL applies when createRoom omits
// expirationTime.
func New(registry *room.Registry, processor *checkin.Processor, h *hub.Hub, defaultTTL time.Duration) *Gateway {
	return &Gateway{
		registry:   registry,
		processor:  processor,
		hub:        h,
		defaultTTL: defaultTTL,
		upgrader: websocket.Upgrader{
			// Browser clients come from arbitrary school origins; the room
			// secret key, not the Origin header, is the authorization line.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handle upgrades the request and runs the read loop for one connection.
func (g *Gateway) Handle(c *gin.Context) {
	conn, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}
	sess := hub.NewSession(conn)
	defer func() {
		g.hub.Remove(sess)
		sess.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			log.Printf("client disconnected: %v", err)
			return
		}
		resp := g.dispatch(c.Request.Context(), sess, raw)
		if err := sess.SendJSON(resp); err != nil {
			log.Printf("reply send failed: %v", err)
		}
	}
}

// dispatch decodes one inbound frame and routes it by action.
func (g *Gateway) dispatch(ctx context.Context, sess *hub.Session, raw []byte) response {
	var head request
	if err := json.Unmarshal(raw, &head); err != nil {
		return fail("malformed message")
	}
	switch head.Action {
	case actionCreateRoom:
		return g.createRoom(sess, raw)
	case actionUpdateStatus:
		return g.updateStatus(ctx, raw)
	case actionCheckQR:
		return g.checkQR(ctx, raw)
	case actionDeleteRoom:
		return g.deleteRoom(raw)
	default:
		return fail(fmt.Sprintf("unknown action %q", head.Action))
	}
}

func (g *Gateway) createRoom(sess *hub.Session, raw []byte) response {
	var msg createRoomMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return fail("malformed createRoom payload")
	}
	if msg.ID == "" || msg.ClassID == "" || msg.SecretKey == "" ||
		msg.Location.Latitude == 0 || msg.Location.Longitude == 0 || msg.Location.Accuracy <= 0 {
		return fail(checkin.ErrIncompleteInfo.Error())
	}

	ttl := g.defaultTTL
	if msg.ExpirationTime > 0 {
		ttl = time.Duration(msg.ExpirationTime) * time.Millisecond
	}
	r := g.registry.CreateOrReplace(room.CreateParams{
		ID:        msg.ID,
		ClassID:   msg.ClassID,
		SecretKey: msg.SecretKey,
		TokenTTL:  ttl,
		Location:  msg.Location,
		Attendees: msg.Attendees,
	})
	g.hub.Join(msg.ID, sess)
	g.hub.Broadcast(msg.ID, room.EventRoomCreated, r.Snapshot())
	return ok("room created", r.Snapshot())
}

func (g *Gateway) updateStatus(ctx context.Context, raw []byte) response {
	var msg updateStatusMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return fail("malformed updateStatusRoom payload")
	}
	if msg.ID == "" || msg.SecretKey == "" {
		return fail(checkin.ErrIncompleteInfo.Error())
	}
	r, err := g.registry.UpdateStatus(ctx, msg.ID, msg.IsOpen, msg.SecretKey)
	if err != nil {
		return fail(err.Error())
	}
	return ok("room status updated", r.Snapshot())
}

func (g *Gateway) checkQR(ctx context.Context, raw []byte) response {
	var msg checkQRMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return fail("malformed checkQRCode payload")
	}
	res, err := g.processor.CheckIn(ctx, checkin.Request{
		StudentCode: msg.Code,
		Token:       msg.QRCode,
		Latitude:    msg.Location.Latitude,
		Longitude:   msg.Location.Longitude,
	})
	if err != nil {
		return fail(err.Error())
	}
	message := "checked in"
	if res.AlreadyCheckedIn {
		message = "already checked in"
	}
	return ok(message, checkInData{
		RoomID:           res.RoomID,
		Attendees:        res.Attendees,
		AlreadyCheckedIn: res.AlreadyCheckedIn,
	})
}

func (g *Gateway) deleteRoom(raw []byte) response {
	var msg deleteRoomMsg
	if err := json.Unmarshal(raw, &msg); err != nil {
		return fail("malformed deleteRoom payload")
	}
	if err := g.registry.Delete(msg.ID, msg.SecretKey); err != nil {
		return fail(err.Error())
	}
	g.hub.DropRoom(msg.ID)
	return ok("room deleted", msg.ID)
}
