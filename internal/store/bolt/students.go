package bolt

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"go.etcd.io/bbolt"

	"github.com/Gungunbajpai07/TutorTrack/internal/ids"
	"github.com/Gungunbajpai07/TutorTrack/internal/students"
)

// Students are keyed "<tutor id>/<student id>" so a prefix scan yields one
// tutor's records and a foreign tutor's lookup misses.
type studentRecord struct {
	ID         string    `json:"id"`
	TutorID    string    `json:"tutor"`
	Name       string    `json:"name"`
	Fees       int64     `json:"fees"`
	Paid       int64     `json:"paid"`
	Date       time.Time `json:"date"`
	Attendance int64     `json:"attendance"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (r studentRecord) student() students.Student {
	return students.Student{
		ID:         r.ID,
		TutorID:    r.TutorID,
		Name:       r.Name,
		Fees:       r.Fees,
		Paid:       r.Paid,
		Date:       r.Date,
		Attendance: r.Attendance,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func recordOf(st students.Student) studentRecord {
	return studentRecord{
		ID:         st.ID,
		TutorID:    st.TutorID,
		Name:       st.Name,
		Fees:       st.Fees,
		Paid:       st.Paid,
		Date:       st.Date,
		Attendance: st.Attendance,
		CreatedAt:  st.CreatedAt,
		UpdatedAt:  st.UpdatedAt,
	}
}

type studentStore struct{ db *bbolt.DB }

var _ students.Store = (*studentStore)(nil)

// Students returns the student record store.
func (s *Store) Students() students.Store { return &studentStore{db: s.db} }

func studentKey(tutorID, id string) []byte {
	return []byte(tutorID + "/" + id)
}

func (s *studentStore) List(ctx context.Context, tutorID string) ([]students.Student, error) {
	out := make([]students.Student, 0)
	if tutorID == "" {
		return out, nil
	}
	prefix := []byte(tutorID + "/")
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketStudents).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var rec studentRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			out = append(out, rec.student())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	students.SortNewestFirst(out)
	return out, nil
}

func (s *studentStore) Get(ctx context.Context, tutorID, id string) (students.Student, error) {
	var rec studentRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		return load(tx, tutorID, id, &rec)
	})
	if err != nil {
		return students.Student{}, err
	}
	return rec.student(), nil
}

func (s *studentStore) Create(ctx context.Context, st students.Student) (students.Student, error) {
	if st.ID == "" {
		st.ID = ids.New()
	}
	now := time.Now().UTC()
	st.Date = st.Date.UTC()
	st.CreatedAt, st.UpdatedAt = now, now
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return put(tx.Bucket(bucketStudents), studentKey(st.TutorID, st.ID), recordOf(st))
	})
	if err != nil {
		return students.Student{}, err
	}
	return st, nil
}

func (s *studentStore) Update(ctx context.Context, tutorID, id string, ch students.Changes) (students.Student, error) {
	var st students.Student
	err := s.db.Update(func(tx *bbolt.Tx) error {
		var rec studentRecord
		if err := load(tx, tutorID, id, &rec); err != nil {
			return err
		}
		st = rec.student()
		ch.Apply(&st)
		st.UpdatedAt = time.Now().UTC()
		return put(tx.Bucket(bucketStudents), studentKey(tutorID, id), recordOf(st))
	})
	if err != nil {
		return students.Student{}, err
	}
	return st, nil
}

func (s *studentStore) Delete(ctx context.Context, tutorID, id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketStudents)
		key := studentKey(tutorID, id)
		if tutorID == "" || b.Get(key) == nil {
			return students.ErrNotFound
		}
		return b.Delete(key)
	})
}

func (s *studentStore) IncrementAttendance(ctx context.Context, tutorID, id string) (students.Student, error) {
	var rec studentRecord
	err := s.db.Update(func(tx *bbolt.Tx) error {
		if err := load(tx, tutorID, id, &rec); err != nil {
			return err
		}
		if rec.Attendance < 0 {
			rec.Attendance = 0
		}
		rec.Attendance++
		rec.UpdatedAt = time.Now().UTC()
		return put(tx.Bucket(bucketStudents), studentKey(tutorID, id), rec)
	})
	if err != nil {
		return students.Student{}, err
	}
	return rec.student(), nil
}

func load(tx *bbolt.Tx, tutorID, id string, rec *studentRecord) error {
	if tutorID == "" || id == "" {
		return students.ErrNotFound
	}
	v := tx.Bucket(bucketStudents).Get(studentKey(tutorID, id))
	if v == nil {
		return students.ErrNotFound
	}
	return json.Unmarshal(v, rec)
}
