package bolt

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Gungunbajpai07/TutorTrack/internal/auth"
	"github.com/Gungunbajpai07/TutorTrack/internal/students"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "tutortrack.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTutorsUniqueUsername(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	tutors := s.Tutors()

	first := &auth.Tutor{Username: "alice", PasswordHash: "h", Name: "Alice"}
	if err := tutors.Create(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := tutors.Create(ctx, &auth.Tutor{Username: "alice", PasswordHash: "h2"}); !errors.Is(err, auth.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	got, err := tutors.FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != first.ID || got.Name != "Alice" || got.PasswordHash != "h" {
		t.Fatalf("unexpected tutor: %#v", got)
	}
	if _, err := tutors.Find(ctx, "nobody"); !errors.Is(err, auth.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStudentsScopedByTutor(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	store := s.Students()
	date := time.Date(2024, time.April, 2, 0, 0, 0, 0, time.UTC)

	a, err := store.Create(ctx, students.Student{TutorID: "alice", Name: "Asha", Fees: 1000, Paid: 400, Date: date})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Create(ctx, students.Student{TutorID: "alicex", Name: "Other", Fees: 1, Date: date}); err != nil {
		t.Fatal(err)
	}

	list, err := store.List(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != a.ID || list[0].Pending() != 600 {
		t.Fatalf("unexpected list: %#v", list)
	}
	if !list[0].Date.Equal(date) {
		t.Fatalf("date not preserved: %v", list[0].Date)
	}
	if _, err := store.Get(ctx, "bob", a.ID); !errors.Is(err, students.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.Delete(ctx, "bob", a.ID); !errors.Is(err, students.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	paid, name := int64(1000), "Asha K"
	if _, err := store.Update(ctx, "bob", a.ID, students.Changes{Paid: &paid}); !errors.Is(err, students.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	up, err := store.Update(ctx, "alice", a.ID, students.Changes{Paid: &paid, Name: &name})
	if err != nil {
		t.Fatal(err)
	}
	if up.Pending() != 0 || up.Name != "Asha K" || up.Fees != 1000 || !up.CreatedAt.Equal(a.CreatedAt) {
		t.Fatalf("unexpected update: %#v", up)
	}

	if err := store.Delete(ctx, "alice", a.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, "alice", a.ID); !errors.Is(err, students.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestUpdateKeepsAttendanceMarks(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	store := s.Students()
	st, err := store.Create(ctx, students.Student{TutorID: "alice", Name: "Dev", Fees: 1000, Date: time.Now()})
	if err != nil {
		t.Fatal(err)
	}

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := store.IncrementAttendance(ctx, "alice", st.ID); err != nil {
				t.Error(err)
			}
		}()
		go func(paid int64) {
			defer wg.Done()
			if _, err := store.Update(ctx, "alice", st.ID, students.Changes{Paid: &paid}); err != nil {
				t.Error(err)
			}
		}(int64(i))
	}
	wg.Wait()

	got, err := store.Get(ctx, "alice", st.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Attendance != n || got.Fees != 1000 {
		t.Fatalf("unexpected record: %#v", got)
	}
}

func TestIncrementAttendanceConcurrent(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	store := s.Students()
	st, err := store.Create(ctx, students.Student{TutorID: "alice", Name: "Dev", Fees: 10, Date: time.Now()})
	if err != nil {
		t.Fatal(err)
	}

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.IncrementAttendance(ctx, "alice", st.ID); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, "alice", st.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Attendance != n {
		t.Fatalf("attendance = %d, want %d", got.Attendance, n)
	}
	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
