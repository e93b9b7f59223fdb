package gateway

import (
	"checkin/internal/room"
)

// Protocol actions accepted over the websocket.
const (
	actionCreateRoom   = "createRoom"
	actionUpdateStatus = "updateStatusRoom"
	actionCheckQR      = "checkQRCode"
	actionDeleteRoom   = "deleteRoom"
)

// request carries just the discriminator; the payload is re-decoded into the
// matching variant once the action is known.
type request struct {
	Action string `json:"action"`
}

type createRoomMsg struct {
	ID             string          `json:"id"`
	ClassID        string          `json:"classId"`
	SecretKey      string          `json:"secretKey"`
	ExpirationTime int64           `json:"expirationTime"` // token ttl in ms, 0 means default
	Location       room.Location   `json:"location"`
	Attendees      []room.Attendee `json:"attendees"`
}

type updateStatusMsg struct {
	ID        string `json:"id"`
	IsOpen    bool   `json:"isOpen"`
	SecretKey string `json:"secretKey"`
}

type checkQRMsg struct {
	Code     string `json:"code"`
	QRCode   string `json:"qrCode"`
	Location struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
}

type deleteRoomMsg struct {
	ID        string `json:"id"`
	SecretKey string `json:"secretKey"`
}

// response is the uniform envelope returned for every inbound request.
type response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type checkInData struct {
	RoomID           string          `json:"roomId"`
	Attendees        []room.Attendee `json:"attendees"`
	AlreadyCheckedIn bool            `json:"alreadyCheckedIn"`
}

func ok(msg string, data any) response {
	return response{Success: true, Message: msg, Data: data}
}

func fail(msg string) response {
	return response{Success: false, Message: msg}
}
