package students

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Gungunbajpai07/TutorTrack/internal/ids"
)

// Service implements the tutor-scoped student operations.
type Service struct {
	store    Store
	now      func() time.Time
	validate *validator.Validate
}

// Option configures Service behavior.
type Option func(*Service)

// WithClock overrides the time source used for default payment dates.
func WithClock(fn func() time.Time) Option {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService wires a Service over the given store.
func NewService(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("students: store is required")
	}
	svc := &Service{store: store, now: time.Now, validate: newValidator()}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// List returns the tutor's students, newest first.
func (s *Service) List(ctx context.Context, tutorID string) ([]Student, error) {
	if tutorID == "" {
		return nil, ErrNotFound
	}
	return s.store.List(ctx, tutorID)
}

// Get returns one owned student.
func (s *Service) Get(ctx context.Context, tutorID, id string) (Student, error) {
	if !scoped(tutorID, id) {
		return Student{}, ErrNotFound
	}
	return s.store.Get(ctx, tutorID, id)
}

// Create validates in and stores a new record owned by tutorID.
func (s *Service) Create(ctx context.Context, tutorID string, in Input) (Student, error) {
	if tutorID == "" {
		return Student{}, ErrNotFound
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := s.validate.Struct(in); err != nil {
		return Student{}, describe(err)
	}

	st := Student{
		TutorID: tutorID,
		Name:    in.Name,
		Fees:    *in.Fees,
		Paid:    *in.Paid,
		Date:    s.now().UTC(),
	}
	if in.Date != nil && !in.Date.IsZero() {
		st.Date = in.Date.Time
	}
	if in.Attendance != nil {
		st.Attendance = *in.Attendance
	}
	if err := s.validate.Struct(st); err != nil {
		return Student{}, describe(err)
	}
	return s.store.Create(ctx, st)
}

// Update validates p against the owned record and writes only the supplied
// fields.
func (s *Service) Update(ctx context.Context, tutorID, id string, p Patch) (Student, error) {
	if !scoped(tutorID, id) {
		return Student{}, ErrNotFound
	}
	cur, err := s.store.Get(ctx, tutorID, id)
	if err != nil {
		return Student{}, err
	}
	ch := p.changes()
	ch.Apply(&cur)
	if err := s.validate.Struct(cur); err != nil {
		return Student{}, describe(err)
	}
	return s.store.Update(ctx, tutorID, id, ch)
}

func (p Patch) changes() Changes {
	ch := Changes{Fees: p.Fees, Paid: p.Paid, Attendance: p.Attendance}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		ch.Name = &name
	}
	if p.Date != nil && !p.Date.IsZero() {
		d := p.Date.Time
		ch.Date = &d
	}
	return ch
}

// Delete removes one owned record.
func (s *Service) Delete(ctx context.Context, tutorID, id string) error {
	if !scoped(tutorID, id) {
		return ErrNotFound
	}
	return s.store.Delete(ctx, tutorID, id)
}

// IncrementAttendance adds exactly one to the owned record's attendance.
func (s *Service) IncrementAttendance(ctx context.Context, tutorID, id string) (Student, error) {
	if !scoped(tutorID, id) {
		return Student{}, ErrNotFound
	}
	st, err := s.store.IncrementAttendance(ctx, tutorID, id)
	if err != nil {
		return Student{}, fmt.Errorf("increment attendance: %w", err)
	}
	return st, nil
}

// scoped rejects calls that could never match an owned record, such as ids
// that were not issued by this system.
func scoped(tutorID, id string) bool {
	return tutorID != "" && ids.Valid(id)
}
