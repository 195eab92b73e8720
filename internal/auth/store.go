package auth

import "context"

// TutorStore describes persistence operations required by the auth subsystem.
// Implementations return ErrNotFound for missing tutors and ErrConflict when a
// username is already registered.
type TutorStore interface {
	Create(ctx context.Context, t *Tutor) error
	Find(ctx context.Context, id string) (*Tutor, error)
	FindByUsername(ctx context.Context, username string) (*Tutor, error)
}
