// Package roster is the class-membership collaborator consumed by the
// check-in pipeline.
package roster

import (
	"context"
	"database/sql"
	"errors"
)

// Student is a resolved class member.
type Student struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// Repository resolves class membership from Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// LookupStudentInClass returns the student with the given code enrolled in
// the class, or nil when no such member exists.
func (r *Repository) LookupStudentInClass(ctx context.Context, code, classID string) (*Student, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT s.id, s.code, s.name
		FROM students s
		JOIN class_students cs ON cs.student_id = s.id
		WHERE s.code = $1 AND cs.class_id = $2
	`, code, classID)
	var s Student
	if err := row.Scan(&s.ID, &s.Code, &s.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
