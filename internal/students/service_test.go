package students

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Gungunbajpai07/TutorTrack/internal/ids"
)

func i64(v int64) *int64   { return &v }
func str(v string) *string { return &v }

func newTestService(t *testing.T) *Service {
	t.Helper()
	clock := func() time.Time { return time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC) }
	svc, err := NewService(NewInMemory(), WithClock(clock))
	if err != nil {
		t.Fatal(err)
	}
	return svc
}

func TestCreateStampsOwnerAndDefaults(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	st, err := svc.Create(ctx, "tutor-a", Input{Name: " Ravi ", Fees: i64(1000), Paid: i64(400), Tutor: "tutor-b"})
	if err != nil {
		t.Fatal(err)
	}
	if st.TutorID != "tutor-a" {
		t.Fatalf("owner not stamped from caller: %q", st.TutorID)
	}
	if st.Name != "Ravi" || st.Attendance != 0 {
		t.Fatalf("unexpected record: %#v", st)
	}
	if !st.Date.Equal(time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("date should default to now, got %v", st.Date)
	}
	if st.Pending() != 600 {
		t.Fatalf("pending = %d", st.Pending())
	}
	if !ids.Valid(st.ID) {
		t.Fatalf("id not issued: %q", st.ID)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		in   Input
		want string
	}{
		{"missing name", Input{Fees: i64(1), Paid: i64(0)}, "name is required"},
		{"blank name", Input{Name: "  ", Fees: i64(1), Paid: i64(0)}, "name is required"},
		{"missing fees", Input{Name: "a", Paid: i64(0)}, "fees is required"},
		{"missing paid", Input{Name: "a", Fees: i64(0)}, "paid is required"},
		{"negative fees", Input{Name: "a", Fees: i64(-1), Paid: i64(0)}, "fees cannot be negative"},
		{"negative attendance", Input{Name: "a", Fees: i64(1), Paid: i64(0), Attendance: i64(-2)}, "attendance cannot be negative"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "tutor-a", tc.in)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("message %q does not mention %q", err, tc.want)
			}
		})
	}

	zero, err := svc.Create(ctx, "tutor-a", Input{Name: "Zero", Fees: i64(0), Paid: i64(0)})
	if err != nil {
		t.Fatalf("zero amounts should be accepted: %v", err)
	}
	if zero.Fees != 0 || zero.Paid != 0 {
		t.Fatalf("unexpected amounts: %#v", zero)
	}
}

func TestTutorIsolation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	mine, err := svc.Create(ctx, "alice", Input{Name: "Asha", Fees: i64(500), Paid: i64(0)})
	if err != nil {
		t.Fatal(err)
	}

	list, err := svc.List(ctx, "bob")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Fatalf("bob sees %d students", len(list))
	}
	if _, err := svc.Get(ctx, "bob", mine.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Update(ctx, "bob", mine.ID, Patch{Paid: i64(500)}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.IncrementAttendance(ctx, "bob", mine.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("attendance: expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, "bob", mine.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete: expected ErrNotFound, got %v", err)
	}

	got, err := svc.Get(ctx, "alice", mine.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Paid != 0 || got.Attendance != 0 {
		t.Fatalf("foreign calls modified the record: %#v", got)
	}
}

func TestMalformedIDIsNotFound(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Get(context.Background(), "alice", "not-an-id"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	for _, name := range []string{"first", "second", "third"} {
		if _, err := svc.Create(ctx, "alice", Input{Name: name, Fees: i64(1), Paid: i64(0)}); err != nil {
			t.Fatal(err)
		}
	}
	list, err := svc.List(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 || list[0].Name != "third" || list[2].Name != "first" {
		t.Fatalf("unexpected order: %v", names(list))
	}
}

func TestUpdateMergesAndRevalidates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	st, _ := svc.Create(ctx, "alice", Input{Name: "Meera", Fees: i64(1200), Paid: i64(200), Attendance: i64(3)})

	d := NewDate(2024, time.January, 5)
	up, err := svc.Update(ctx, "alice", st.ID, Patch{Paid: i64(700), Date: &d, ID: "ignored", Tutor: "bob"})
	if err != nil {
		t.Fatal(err)
	}
	if up.Name != "Meera" || up.Fees != 1200 || up.Paid != 700 || up.Attendance != 3 {
		t.Fatalf("merge lost fields: %#v", up)
	}
	if up.TutorID != "alice" || up.ID != st.ID {
		t.Fatalf("identity changed: %#v", up)
	}
	if !up.Date.Equal(d.Time) {
		t.Fatalf("date not applied: %v", up.Date)
	}

	if _, err := svc.Update(ctx, "alice", st.ID, Patch{Name: str(" ")}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank name: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Update(ctx, "alice", st.ID, Patch{Fees: i64(-5)}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("negative fees: expected ErrInvalidInput, got %v", err)
	}
	got, _ := svc.Get(ctx, "alice", st.ID)
	if got.Name != "Meera" || got.Fees != 1200 {
		t.Fatalf("rejected update was stored: %#v", got)
	}
}

func TestUpdateToleratesEchoedRecord(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	st, _ := svc.Create(ctx, "alice", Input{Name: "Kiran", Fees: i64(800), Paid: i64(100)})

	body, _ := json.Marshal(st)
	var p Patch
	dec := json.NewDecoder(strings.NewReader(string(body)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		t.Fatalf("echoed record should decode as a patch: %v", err)
	}
	p.Paid = i64(800)
	up, err := svc.Update(ctx, "alice", st.ID, p)
	if err != nil {
		t.Fatal(err)
	}
	if up.Pending() != 0 {
		t.Fatalf("pending = %d", up.Pending())
	}
}

func TestIncrementAttendanceConcurrent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	st, _ := svc.Create(ctx, "alice", Input{Name: "Dev", Fees: i64(100), Paid: i64(0)})

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.IncrementAttendance(ctx, "alice", st.ID); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	got, _ := svc.Get(ctx, "alice", st.ID)
	if got.Attendance != n {
		t.Fatalf("attendance = %d, want %d", got.Attendance, n)
	}
}

// markingStore records an attendance mark between the service's read and
// its write, the way a concurrent request would.
type markingStore struct {
	*InMemory
}

func (m markingStore) Update(ctx context.Context, tutorID, id string, ch Changes) (Student, error) {
	if _, err := m.InMemory.IncrementAttendance(ctx, tutorID, id); err != nil {
		return Student{}, err
	}
	return m.InMemory.Update(ctx, tutorID, id, ch)
}

func TestUpdateKeepsInterleavedAttendanceMark(t *testing.T) {
	svc, err := NewService(markingStore{NewInMemory()})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	st, err := svc.Create(ctx, "alice", Input{Name: "Bob", Fees: i64(3000), Paid: i64(0)})
	if err != nil {
		t.Fatal(err)
	}

	up, err := svc.Update(ctx, "alice", st.ID, Patch{Paid: i64(1000)})
	if err != nil {
		t.Fatal(err)
	}
	if up.Attendance != 1 || up.Paid != 1000 || up.Fees != 3000 {
		t.Fatalf("unexpected record: %#v", up)
	}
	got, _ := svc.Get(ctx, "alice", st.ID)
	if got.Attendance != 1 {
		t.Fatalf("attendance = %d, want 1", got.Attendance)
	}
}

func TestDeleteThenGet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	st, _ := svc.Create(ctx, "alice", Input{Name: "Tara", Fees: i64(100), Paid: i64(0)})

	if err := svc.Delete(ctx, "alice", st.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get(ctx, "alice", st.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, "alice", st.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestStudentJSONCarriesLegacyID(t *testing.T) {
	st := Student{ID: "01ARZ3NDEKTSV4RRFFQ69G5FAV", Name: "x", Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)}
	b, err := json.Marshal(st)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}
	if m["_id"] != st.ID || m["id"] != st.ID {
		t.Fatalf("ids not mirrored: %s", b)
	}
}

func TestParseDate(t *testing.T) {
	for _, raw := range []string{"2024-05-01", "2024-05-01T00:00:00Z", "2024-05-01T05:30:00+05:30"} {
		d, err := ParseDate(raw)
		if err != nil {
			t.Fatalf("%s: %v", raw, err)
		}
		if d.Year() != 2024 || d.Month() != time.May {
			t.Fatalf("%s parsed as %v", raw, d)
		}
	}
	if _, err := ParseDate("05/01/2024"); err == nil {
		t.Fatal("expected error for unsupported layout")
	}
}

func names(list []Student) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.Name
	}
	return out
}
