package bolt

import (
	"context"
	"encoding/json"
	"time"

	"go.etcd.io/bbolt"

	"github.com/Gungunbajpai07/TutorTrack/internal/auth"
	"github.com/Gungunbajpai07/TutorTrack/internal/ids"
)

type tutorRecord struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	Name         string    `json:"name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type tutorStore struct{ db *bbolt.DB }

var _ auth.TutorStore = (*tutorStore)(nil)

// Tutors returns the account store.
func (s *Store) Tutors() auth.TutorStore { return &tutorStore{db: s.db} }

func (s *tutorStore) Create(ctx context.Context, t *auth.Tutor) error {
	if t.ID == "" {
		t.ID = ids.New()
	}
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now
	return s.db.Update(func(tx *bbolt.Tx) error {
		names := tx.Bucket(bucketUsernames)
		if names.Get([]byte(t.Username)) != nil {
			return auth.ErrConflict
		}
		if err := names.Put([]byte(t.Username), []byte(t.ID)); err != nil {
			return err
		}
		return put(tx.Bucket(bucketTutors), []byte(t.ID), tutorRecord{
			ID:           t.ID,
			Username:     t.Username,
			PasswordHash: t.PasswordHash,
			Name:         t.Name,
			CreatedAt:    t.CreatedAt,
			UpdatedAt:    t.UpdatedAt,
		})
	})
}

func (s *tutorStore) Find(ctx context.Context, id string) (*auth.Tutor, error) {
	var out *auth.Tutor
	err := s.db.View(func(tx *bbolt.Tx) error {
		t, err := loadTutor(tx, id)
		out = t
		return err
	})
	return out, err
}

func (s *tutorStore) FindByUsername(ctx context.Context, username string) (*auth.Tutor, error) {
	var out *auth.Tutor
	err := s.db.View(func(tx *bbolt.Tx) error {
		id := tx.Bucket(bucketUsernames).Get([]byte(username))
		if id == nil {
			return auth.ErrNotFound
		}
		t, err := loadTutor(tx, string(id))
		out = t
		return err
	})
	return out, err
}

func loadTutor(tx *bbolt.Tx, id string) (*auth.Tutor, error) {
	v := tx.Bucket(bucketTutors).Get([]byte(id))
	if v == nil {
		return nil, auth.ErrNotFound
	}
	var rec tutorRecord
	if err := json.Unmarshal(v, &rec); err != nil {
		return nil, err
	}
	return &auth.Tutor{
		ID:           rec.ID,
		Username:     rec.Username,
		PasswordHash: rec.PasswordHash,
		Name:         rec.Name,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}, nil
}
