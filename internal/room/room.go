package room

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"
)

// Location is a geofence center; Accuracy is the allowed radius in meters.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
}

// Attendee is one checked-in participant.
type Attendee struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	CheckInTime time.Time `json:"checkInTime"`
}

// Room is a live attendance session. The registry owns all Room instances;
// every mutation goes through the room's own mutex.
type Room struct {
	id      string
	classID string

	mu            sync.Mutex
	secretKey     string
	isOpen        bool
	currentToken  string
	tokenIssuedAt time.Time
	tokenTTL      time.Duration
	location      Location
	attendees     []Attendee

	rotateCancel context.CancelFunc // nil unless rotation is running
	closeTimer   *time.Timer
}

// Snapshot is the serializable view of a room broadcast to clients.
type Snapshot struct {
	ID             string     `json:"id"`
	ClassID        string     `json:"classId"`
	IsOpen         bool       `json:"isOpen"`
	QRCode         string     `json:"qrCode"`
	TokenIssuedAt  time.Time  `json:"tokenIssuedAt"`
	ExpirationTime int64      `json:"expirationTime"` // token lifetime in milliseconds
	Location       Location   `json:"location"`
	Attendees      []Attendee `json:"attendees"`
}

// ID returns the room identifier. Immutable after creation.
func (r *Room) ID() string { return r.id }

// ClassID returns the class this session belongs to. Immutable after creation.
func (r *Room) ClassID() string { return r.classID }

// IsOpen reports whether check-in and token rotation are active.
func (r *Room) IsOpen() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isOpen
}

// TTL returns the room's token rotation interval.
func (r *Room) TTL() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tokenTTL
}

// Geofence returns the room's geofence center and radius.
func (r *Room) Geofence() Location {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.location
}

// VerifySecret compares the supplied key against the room's secret in
// constant time.
func (r *Room) VerifySecret(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return subtle.ConstantTimeCompare([]byte(r.secretKey), []byte(key)) == 1
}

// HasAttendee reports whether a participant with the code already checked in.
func (r *Room) HasAttendee(code string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.indexOf(code) >= 0
}

// CommitAttendee appends the attendee unless one with the same code is
// already present, and reports whether the append happened. Callers release
// the room lock across external lookups, so the duplicate check repeats here
// at commit time.
func (r *Room) CommitAttendee(a Attendee) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexOf(a.Code) >= 0 {
		return false
	}
	r.attendees = append(r.attendees, a)
	return true
}

// Attendees returns a copy of the ordered attendee list.
func (r *Room) Attendees() []Attendee {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Attendee, len(r.attendees))
	copy(out, r.attendees)
	return out
}

// Snapshot returns a consistent view of the room for broadcasting.
func (r *Room) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	attendees := make([]Attendee, len(r.attendees))
	copy(attendees, r.attendees)
	return Snapshot{
		ID:             r.id,
		ClassID:        r.classID,
		IsOpen:         r.isOpen,
		QRCode:         r.currentToken,
		TokenIssuedAt:  r.tokenIssuedAt,
		ExpirationTime: r.tokenTTL.Milliseconds(),
		Location:       r.location,
		Attendees:      attendees,
	}
}

func (r *Room) setToken(tok string, issuedAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.currentToken = tok
	r.tokenIssuedAt = issuedAt
}

func (r *Room) setOpen(open bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.isOpen = open
}

// indexOf requires r.mu held.
func (r *Room) indexOf(code string) int {
	for i, a := range r.attendees {
		if a.Code == code {
			return i
		}
	}
	return -1
}
