package recorder

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// Repository writes durable attendance data to Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// InsertRecord writes one attendance record. Re-delivered queue messages for
// the same session and user collapse into the existing row.
func (r *Repository) InsertRecord(ctx context.Context, rec Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance_records (id, attendance_id, user_id, is_success, recorded_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (attendance_id, user_id) DO NOTHING
	`, uuid.NewString(), rec.AttendanceID, rec.UserID, rec.IsSuccess)
	return err
}

// PersistRoomStatus mirrors an in-memory open/closed transition onto the
// persisted attendance session row.
func (r *Repository) PersistRoomStatus(ctx context.Context, roomID string, isOpen bool) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE attendance_sessions SET is_open = $2, updated_at = NOW() WHERE id = $1
	`, roomID, isOpen)
	return err
}
