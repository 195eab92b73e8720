package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/Gungunbajpai07/TutorTrack/internal/client"
	"github.com/Gungunbajpai07/TutorTrack/internal/students"
)

func main() {
	base := os.Getenv("TUTORTRACK_URL")
	if base == "" {
		base = "http://localhost:5000"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	suffix := ulid.Make().String()[20:]
	alice := mustClient(base)
	if _, err := alice.Register(ctx, "smoke-alice-"+suffix, "smoke-password", "Smoke Alice"); err != nil {
		log.Fatalf("register alice: %v", err)
	}
	bob := mustClient(base)
	if _, err := bob.Register(ctx, "smoke-bob-"+suffix, "smoke-password", ""); err != nil {
		log.Fatalf("register bob: %v", err)
	}

	fees, paid := int64(1000), int64(400)
	st, err := alice.CreateStudent(ctx, students.Input{Name: "Smoke Student", Fees: &fees, Paid: &paid})
	if err != nil {
		log.Fatalf("create student: %v", err)
	}
	if st.Pending() != 600 {
		log.Fatalf("unexpected pending %d", st.Pending())
	}

	list, err := bob.ListStudents(ctx)
	if err != nil {
		log.Fatalf("bob list: %v", err)
	}
	if len(list) != 0 {
		log.Fatalf("isolation failed: bob sees %d students", len(list))
	}
	if _, err := bob.GetStudent(ctx, st.ID); !client.IsStatus(err, http.StatusNotFound) {
		log.Fatalf("isolation failed: bob get returned %v", err)
	}

	for i := 0; i < 3; i++ {
		if st, err = alice.MarkAttendance(ctx, st.ID); err != nil {
			log.Fatalf("attendance: %v", err)
		}
	}
	if st.Attendance != 3 {
		log.Fatalf("attendance = %d, want 3", st.Attendance)
	}

	st, err = alice.UpdateStudent(ctx, st.ID, students.Patch{Paid: &fees})
	if err != nil {
		log.Fatalf("update: %v", err)
	}
	if st.Pending() != 0 {
		log.Fatalf("pending after full payment = %d", st.Pending())
	}

	if err := alice.DeleteStudent(ctx, st.ID); err != nil {
		log.Fatalf("delete: %v", err)
	}
	if _, err := alice.GetStudent(ctx, st.ID); !client.IsStatus(err, http.StatusNotFound) {
		log.Fatalf("get after delete returned %v", err)
	}

	fmt.Printf("✅ tutortrack smoke test passed against %s\n", base)
}

func mustClient(base string) *client.Client {
	c, err := client.New(base)
	if err != nil {
		log.Fatal(err)
	}
	return c
}
