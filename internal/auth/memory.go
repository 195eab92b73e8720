package auth

import (
	"context"
	"sync"
	"time"

	"github.com/Gungunbajpai07/TutorTrack/internal/ids"
)

var _ TutorStore = (*MemoryStore)(nil)

// MemoryStore keeps tutors in process memory. Used for development and tests.
type MemoryStore struct {
	mu         sync.RWMutex
	byID       map[string]Tutor
	byUsername map[string]string
}

// NewMemoryStore creates an empty tutor store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:       make(map[string]Tutor),
		byUsername: make(map[string]string),
	}
}

func (s *MemoryStore) Create(ctx context.Context, t *Tutor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byUsername[t.Username]; ok {
		return ErrConflict
	}
	if t.ID == "" {
		t.ID = ids.New()
	}
	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now
	s.byID[t.ID] = *t
	s.byUsername[t.Username] = t.ID
	return nil
}

func (s *MemoryStore) Find(ctx context.Context, id string) (*Tutor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (s *MemoryStore) FindByUsername(ctx context.Context, username string) (*Tutor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byUsername[username]
	if !ok {
		return nil, ErrNotFound
	}
	t := s.byID[id]
	return &t, nil
}
