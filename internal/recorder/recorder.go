// Package recorder persists check-in outcomes and room status, best-effort.
package recorder

import (
	"context"
	"encoding/json"
	"log"

	"checkin/internal/queue"
)

// MessageTypeAttendance tags queue messages carrying a Record.
const MessageTypeAttendance = "attendance"

// Record mirrors one successful (or failed) check-in for durable storage.
type Record struct {
	AttendanceID string `json:"attendanceId"`
	UserID       string `json:"userId"`
	IsSuccess    bool   `json:"isSuccess"`
}

// QueueRecorder hands records to the work queue; a worker drains the queue
// into Postgres. Failures are logged and dropped, never surfaced to the
// check-in path.
type QueueRecorder struct {
	q queue.Queue
}

// NewQueueRecorder creates a recorder over the given queue backend.
func NewQueueRecorder(q queue.Queue) *QueueRecorder {
	return &QueueRecorder{q: q}
}

// RecordAttendance publishes the record, fire-and-forget.
func (r *QueueRecorder) RecordAttendance(ctx context.Context, rec Record) {
	body, err := json.Marshal(rec)
	if err != nil {
		log.Printf("marshal attendance record for %s failed: %v", rec.AttendanceID, err)
		return
	}
	if err := r.q.Publish(ctx, queue.Message{Type: MessageTypeAttendance, Body: body}); err != nil {
		log.Printf("queue publish for attendance %s failed: %v", rec.AttendanceID, err)
	}
}
