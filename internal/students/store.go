package students

import (
	"context"
	"time"
)

// Store persists student records. Every lookup is scoped by the owning tutor;
// a record owned by someone else is reported as ErrNotFound.
type Store interface {
	List(ctx context.Context, tutorID string) ([]Student, error)
	Get(ctx context.Context, tutorID, id string) (Student, error)
	Create(ctx context.Context, s Student) (Student, error)
	// Update applies ch to the owned record in a single atomic step. Fields
	// left nil in ch are never written.
	Update(ctx context.Context, tutorID, id string, ch Changes) (Student, error)
	Delete(ctx context.Context, tutorID, id string) error
	// IncrementAttendance adds one to attendance in a single atomic step.
	IncrementAttendance(ctx context.Context, tutorID, id string) (Student, error)
}

// Changes is a validated field set for Store.Update. Nil fields keep their
// stored value.
type Changes struct {
	Name       *string
	Fees       *int64
	Paid       *int64
	Date       *time.Time
	Attendance *int64
}

// Apply copies the non-nil fields onto st.
func (c Changes) Apply(st *Student) {
	if c.Name != nil {
		st.Name = *c.Name
	}
	if c.Fees != nil {
		st.Fees = *c.Fees
	}
	if c.Paid != nil {
		st.Paid = *c.Paid
	}
	if c.Date != nil {
		st.Date = c.Date.UTC()
	}
	if c.Attendance != nil {
		st.Attendance = *c.Attendance
	}
}
