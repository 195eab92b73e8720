package pg

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Gungunbajpai07/TutorTrack/internal/auth"
	"github.com/Gungunbajpai07/TutorTrack/internal/ids"
)

type tutorStore struct{ db *sql.DB }

var _ auth.TutorStore = (*tutorStore)(nil)

func (s *tutorStore) Create(ctx context.Context, t *auth.Tutor) error {
	if t.ID == "" {
		t.ID = ids.New()
	}
	now := time.Now().UTC()
	err := s.db.QueryRowContext(ctx, `
		insert into tutors(id, username, password_hash, name, created_at, updated_at)
		values ($1, $2, $3, $4, $5, $5)
		returning created_at, updated_at
	`, t.ID, t.Username, t.PasswordHash, nullIfEmpty(t.Name), now).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return auth.ErrConflict
		}
		return err
	}
	return nil
}

func (s *tutorStore) Find(ctx context.Context, id string) (*auth.Tutor, error) {
	return s.scan(s.db.QueryRowContext(ctx, `
		select id, username, password_hash, name, created_at, updated_at
		from tutors where id=$1`, id))
}

func (s *tutorStore) FindByUsername(ctx context.Context, username string) (*auth.Tutor, error) {
	return s.scan(s.db.QueryRowContext(ctx, `
		select id, username, password_hash, name, created_at, updated_at
		from tutors where username=$1`, username))
}

func (s *tutorStore) scan(row *sql.Row) (*auth.Tutor, error) {
	var (
		t    auth.Tutor
		name sql.NullString
	)
	if err := row.Scan(&t.ID, &t.Username, &t.PasswordHash, &name, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrNotFound
		}
		return nil, err
	}
	t.Name = name.String
	return &t, nil
}
