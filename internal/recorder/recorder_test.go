package recorder

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"checkin/internal/queue"
)

func TestRecordAttendancePublishes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := queue.NewInMemory(4)
	rec := NewQueueRecorder(q)
	rec.RecordAttendance(ctx, Record{AttendanceID: "7", UserID: "u-1", IsSuccess: true})

	msgs, err := q.Consume(ctx)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	select {
	case msg := <-msgs:
		if msg.Type != MessageTypeAttendance {
			t.Errorf("message type = %q, want %q", msg.Type, MessageTypeAttendance)
		}
		var got Record
		if err := json.Unmarshal(msg.Body, &got); err != nil {
			t.Fatalf("unmarshal body: %v", err)
		}
		if got.AttendanceID != "7" || got.UserID != "u-1" || !got.IsSuccess {
			t.Errorf("record = %+v, want {7 u-1 true}", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("no message published")
	}
}
