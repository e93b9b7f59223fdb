// Package checkin validates check-in attempts against token, geofence and
// class membership, and mutates a room's attendee list at most once per
// participant.
package checkin

import (
	"context"
	"errors"
	"log"
	"time"

	"checkin/internal/geo"
	"checkin/internal/recorder"
	"checkin/internal/room"
	"checkin/internal/roster"
	"checkin/internal/token"
)

// Roster resolves a student by code within a class. A nil student with nil
// error means the student is not a member.
type Roster interface {
	LookupStudentInClass(ctx context.Context, code, classID string) (*roster.Student, error)
}

// Recorder persists successful check-ins, best-effort.
type Recorder interface {
	RecordAttendance(ctx context.Context, rec recorder.Record)
}

// Request is one check-in attempt from a participant.
type Request struct {
	StudentCode string
	Token       string
	Latitude    float64
	Longitude   float64
}

// Result reports the outcome of an accepted check-in.
type Result struct {
	RoomID           string
	Attendees        []room.Attendee
	AlreadyCheckedIn bool
}

// Processor runs the check-in pipeline for a room registry.
type Processor struct {
	registry *room.Registry
	codec    *token.Codec
	roster   Roster
	recorder Recorder
	hub      room.Broadcaster
	now      func() time.Time
}

// NewProcessor wires the pipeline.
func NewProcessor(registry *room.Registry, codec *token.Codec, rst Roster, rec Recorder, hub room.Broadcaster) *Processor {
	return &Processor{
		registry: registry,
		codec:    codec,
		roster:   rst,
		recorder: rec,
		hub:      hub,
		now:      time.Now,
	}
}

// CheckIn validates one attempt and commits the attendee on success. The room
// lock is never held across the roster lookup; the duplicate check repeats at
// commit time, so two racing attempts with the same code append exactly once.
func (p *Processor) CheckIn(ctx context.Context, req Request) (Result, error) {
	if req.StudentCode == "" || req.Token == "" || req.Latitude == 0 || req.Longitude == 0 {
		checkinsRejected.WithLabelValues("incomplete").Inc()
		return Result{}, ErrIncompleteInfo
	}

	claims, err := p.codec.Verify(req.Token)
	if err != nil {
		checkinsRejected.WithLabelValues("token").Inc()
		if errors.Is(err, token.ErrExpired) {
			return Result{}, ErrQRExpired
		}
		return Result{}, ErrInvalidQR
	}

	r, err := p.registry.Get(claims.RoomID)
	if err != nil {
		checkinsRejected.WithLabelValues("room").Inc()
		return Result{}, err
	}
	if !r.IsOpen() {
		checkinsRejected.WithLabelValues("room").Inc()
		return Result{}, ErrRoomClosed
	}

	// Idempotent short-circuit: an already-recorded participant is a
	// successful no-op, without re-validating the geofence or re-persisting.
	if r.HasAttendee(req.StudentCode) {
		checkinsDuplicate.Inc()
		return Result{RoomID: r.ID(), Attendees: r.Attendees(), AlreadyCheckedIn: true}, nil
	}

	student, err := p.roster.LookupStudentInClass(ctx, req.StudentCode, claims.ClassID)
	if err != nil {
		log.Printf("roster lookup for %s in class %s failed: %v", req.StudentCode, claims.ClassID, err)
		return Result{}, err
	}
	if student == nil {
		checkinsRejected.WithLabelValues("membership").Inc()
		return Result{}, ErrNotInClass
	}

	fence := r.Geofence()
	if !geo.WithinGeofence(req.Latitude, req.Longitude, fence.Latitude, fence.Longitude, fence.Accuracy) {
		checkinsRejected.WithLabelValues("geofence").Inc()
		return Result{}, ErrOutOfRange
	}

	attendee := room.Attendee{Code: req.StudentCode, Name: student.Name, CheckInTime: p.now()}
	if !r.CommitAttendee(attendee) {
		// A concurrent attempt with the same code won the commit.
		checkinsDuplicate.Inc()
		return Result{RoomID: r.ID(), Attendees: r.Attendees(), AlreadyCheckedIn: true}, nil
	}
	checkinsAccepted.Inc()

	p.recorder.RecordAttendance(ctx, recorder.Record{
		AttendanceID: r.ID(),
		UserID:       student.ID,
		IsSuccess:    true,
	})
	p.hub.Broadcast(r.ID(), room.EventUpdateAttendees, r.Attendees())

	return Result{RoomID: r.ID(), Attendees: r.Attendees()}, nil
}
