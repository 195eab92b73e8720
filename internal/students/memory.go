package students

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Gungunbajpai07/TutorTrack/internal/ids"
)

var _ Store = (*InMemory)(nil)

// InMemory implements Store with in-process concurrency safety.
type InMemory struct {
	mu       sync.RWMutex
	students map[string]Student
}

// NewInMemory creates an empty student store.
func NewInMemory() *InMemory {
	return &InMemory{students: make(map[string]Student)}
}

func (s *InMemory) List(ctx context.Context, tutorID string) ([]Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Student, 0)
	for _, st := range s.students {
		if tutorID != "" && st.TutorID == tutorID {
			out = append(out, st)
		}
	}
	SortNewestFirst(out)
	return out, nil
}

func (s *InMemory) Get(ctx context.Context, tutorID, id string) (Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.owned(tutorID, id)
}

func (s *InMemory) Create(ctx context.Context, st Student) (Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.ID == "" {
		st.ID = ids.New()
	}
	now := time.Now().UTC()
	st.CreatedAt, st.UpdatedAt = now, now
	s.students[st.ID] = st
	return st, nil
}

func (s *InMemory) Update(ctx context.Context, tutorID, id string, ch Changes) (Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, err := s.owned(tutorID, id)
	if err != nil {
		return Student{}, err
	}
	ch.Apply(&cur)
	cur.UpdatedAt = time.Now().UTC()
	s.students[cur.ID] = cur
	return cur, nil
}

func (s *InMemory) Delete(ctx context.Context, tutorID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.owned(tutorID, id); err != nil {
		return err
	}
	delete(s.students, id)
	return nil
}

func (s *InMemory) IncrementAttendance(ctx context.Context, tutorID, id string) (Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, err := s.owned(tutorID, id)
	if err != nil {
		return Student{}, err
	}
	if cur.Attendance < 0 {
		cur.Attendance = 0
	}
	cur.Attendance++
	cur.UpdatedAt = time.Now().UTC()
	s.students[id] = cur
	return cur, nil
}

// owned must be called with s.mu held.
func (s *InMemory) owned(tutorID, id string) (Student, error) {
	st, ok := s.students[id]
	if !ok || tutorID == "" || st.TutorID != tutorID {
		return Student{}, ErrNotFound
	}
	return st, nil
}

// SortNewestFirst orders records by creation time, newest first. Ties fall
// back to the id, which sorts by creation order.
func SortNewestFirst(list []Student) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
}
